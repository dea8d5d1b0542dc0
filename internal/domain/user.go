package domain

import (
	"context"
	"time"
)

// =============================================================================
// USER/CUSTOMER DOMAIN TYPES
// =============================================================================

// SignupBonusPoints is credited to every new account.
const SignupBonusPoints int64 = 100

// User is a storefront customer account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Points       int64     `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the user without credential material.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// RegisterParams is the sign-up form.
type RegisterParams struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// LoyaltyAwarder credits loyalty points to a user.
type LoyaltyAwarder interface {
	AwardPoints(ctx context.Context, userID string, points int64) error
}

// AccountService manages sign-up, sign-in and the signed-in user of a session.
type AccountService interface {
	LoyaltyAwarder

	// Register creates an account and signs it in.
	Register(ctx context.Context, params RegisterParams) (User, error)

	// Login verifies credentials and makes the user current for the session.
	Login(ctx context.Context, email, password string) (User, error)

	// Logout forgets the current user of the session.
	Logout(ctx context.Context)

	// Current returns the signed-in user, if any.
	Current(ctx context.Context) (User, bool)
}

var (
	ErrUserNotFound     = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken       = &Error{Code: ECONFLICT, Reason: ReasonEmailTaken, Message: "An account with this email already exists"}
	ErrBadCredentials   = &Error{Code: EUNAUTHORIZED, Reason: ReasonBadCredentials, Message: "Invalid email or password"}
	ErrPasswordMismatch = &Error{Code: EINVALID, Message: "Passwords do not match"}
)

// UserRepository persists the shared list of accounts.
type UserRepository interface {
	// Create adds an account. A duplicate email returns ErrEmailTaken.
	Create(ctx context.Context, user User) error

	// FindByEmail matches emails case-insensitively.
	FindByEmail(ctx context.Context, email string) (User, bool)

	// FindByID returns the account with the given id.
	FindByID(ctx context.Context, id string) (User, bool)

	// Update applies fn to the account and saves it. Unknown ids return ErrUserNotFound.
	Update(ctx context.Context, id string, fn func(*User) error) (User, error)
}
