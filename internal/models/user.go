package models

// User is one registered account. Username and email are each globally
// unique; the record is never mutated after creation.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
