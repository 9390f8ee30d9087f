package models

import "strings"

// Credential is a registered account record.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// NormalizeEmail is the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail reports whether two addresses identify the same account.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// LocalPart returns the part of an address before '@', or the whole
// address when it has none.
func LocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
