package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/jspicer/mediahub/internal/shared"
)

// User represents an account identity. Usernames are unique and compared
// case-sensitively; the stored hash is a bcrypt digest, never the password.
type User struct {
	id           string
	sequence     int
	username     string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a User with the given sequence, username, and password hash.
func NewUser(sequence int, username, passwordHash string) *User {
	now := time.Now()
	return &User{
		sequence:     sequence,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (u *User) ID() string           { return u.id }
func (u *User) Sequence() int        { return u.sequence }
func (u *User) Username() string     { return u.username }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id string)             { u.id = id }
func (u *User) SetUpdatedAt(t time.Time)    { u.updatedAt = t }
func (u *User) SetCreatedAt(t time.Time)    { u.createdAt = t }
func (u *User) SetPasswordHash(hash string) { u.passwordHash = hash }

// Validate checks that the user carries a usable identity.
func (u *User) Validate() error {
	if strings.TrimSpace(u.username) == "" {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrInvalidInput)
	}
	return nil
}
