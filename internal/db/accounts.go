package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flyagain/server/internal/model"
)

// AccountRepository reads and writes account rows. Usernames are
// lowercased at this boundary so lookups are case-insensitive.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: pool}
}

const accountColumns = `id, username, email, password_hash, created_at, last_login, banned, ban_reason, ban_until`

func scanAccount(scan func(dest ...any) error) (*model.Account, error) {
	var acc model.Account
	err := scan(
		&acc.ID, &acc.Username, &acc.Email, &acc.PasswordHash,
		&acc.CreatedAt, &acc.LastLogin,
		&acc.Banned, &acc.BanReason, &acc.BanUntil,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetByUsername returns nil, nil when the account does not exist.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	username = strings.ToLower(username)
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	acc, err := scanAccount(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying account %q: %w", username, err)
	}
	return acc, nil
}

// GetByID returns nil, nil when the account does not exist.
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*model.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID)
	acc, err := scanAccount(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying account %d: %w", accountID, err)
	}
	return acc, nil
}

// Create inserts a new account with an already-hashed password and
// returns the stored row. A username collision yields ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, username, email, passwordHash string) (*model.Account, error) {
	username = strings.ToLower(username)
	acc := &model.Account{Username: username, Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		username, email, passwordHash,
	).Scan(&acc.ID, &acc.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("account %q: %w", username, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating account %q: %w", username, err)
	}
	return acc, nil
}

// UpdateLastLogin stamps the account's last successful login.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, accountID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE accounts SET last_login = now() WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("updating last login for account %d: %w", accountID, err)
	}
	return nil
}
