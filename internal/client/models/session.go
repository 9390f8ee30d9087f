package models

// Session is the currently authenticated identity. Only Email is
// persisted; Username is resolved at read time.
type Session struct {
	Email    string `json:"email"`
	Username string `json:"-"`
}
