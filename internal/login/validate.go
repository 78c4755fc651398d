package login

import "regexp"

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input cap
	maxEmailLen    = 254
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9-]{3,16}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validateRegistration checks the registration fields in order and
// returns a user-visible message for the first broken rule.
func validateRegistration(username, email, password string) (string, bool) {
	if !usernameRe.MatchString(username) {
		return "Username must be 3-16 characters: letters, digits, or hyphens.", false
	}
	if len(email) > maxEmailLen || !emailRe.MatchString(email) {
		return "Enter a valid email address.", false
	}
	if n := len(password); n < minPasswordLen || n > maxPasswordLen {
		return "Password must be between 8 and 72 characters.", false
	}
	return "", true
}
