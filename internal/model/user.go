package model

import (
	"time"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusLocked UserStatus = "locked"
)

// User is a clinic staff account.
type User struct {
	Base
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Status           UserStatus `db:"status" json:"status"`
	LoginAttempts    int        `db:"login_attempts" json:"-"`
	LastLoginAttempt time.Time  `db:"last_login_attempt" json:"-"`
	LastLoginAt      *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
