package user

import "time"

// User represents a user account. The password hash is deliberately
// absent: values of this type are safe to hand to any caller.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserWithPassword carries the stored hash alongside account data.
// Only FindByEmailWithPassword produces it, and only the credential
// check consumes it.
type UserWithPassword struct {
	User
	PasswordHash string
}

// NewUser is the input for inserting an account.
type NewUser struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}
