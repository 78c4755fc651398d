package store

import (
	"context"
	"fmt"
	"time"
)

// Rate-limit actions; each gets its own counter per client address.
const (
	RateActionLogin    = "login"
	RateActionRegister = "register"
)

// AllowRate implements a fixed-window counter: the first hit in a
// window creates the key with the window as TTL, every hit increments.
// Returns false once the count exceeds limit.
func (s *Store) AllowRate(ctx context.Context, ip, action string, limit int64, window time.Duration) (bool, error) {
	key := rateLimitKey(ip, action)
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incrementing rate counter %s: %w", key, err)
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("setting rate window %s: %w", key, err)
		}
	}
	return n <= limit, nil
}
