package model

import "time"

// Account is a login identity. The password verifier is an opaque
// bcrypt string and never leaves the data service boundary.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
	Banned       bool
	BanReason    string
	BanUntil     *time.Time
}

// BanActive reports whether the ban currently applies. A ban with no
// until-time is permanent.
func (a *Account) BanActive(now time.Time) bool {
	if !a.Banned {
		return false
	}
	if a.BanUntil == nil {
		return true
	}
	return now.Before(*a.BanUntil)
}
