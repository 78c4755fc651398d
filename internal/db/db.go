// Package db is the relational persistence layer. Only the data
// service links it; the gateways go through RPC.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors the data service maps onto RPC status codes.
var (
	// ErrDuplicate marks unique-constraint violations so callers can
	// turn them into user-visible conflicts instead of internal errors.
	ErrDuplicate = errors.New("duplicate row")

	// ErrNotFound marks writes that matched no row.
	ErrNotFound = errors.New("row not found")

	// ErrCharacterLimit is returned when an account already has the
	// maximum number of characters.
	ErrCharacterLimit = errors.New("character limit reached")

	// ErrBagFull is returned when an inventory grant or unequip finds
	// no free bag slot.
	ErrBagFull = errors.New("no free bag slot")
)

// RuleError is a rule violation whose message is safe to show the player,
// such as an unmet equip requirement.
type RuleError struct {
	Msg string
}

func (e *RuleError) Error() string {
	return e.Msg
}

func ruleErrorf(format string, args ...any) error {
	return &RuleError{Msg: fmt.Sprintf(format, args...)}
}

// DB wraps a pgx connection pool shared by the repositories.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
