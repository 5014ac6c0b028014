package dto

import "time"

type SignInInput struct {
	Email    string
	Password string
}

type SessionOutput struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type UserOutput struct {
	ID    string
	Email string
}
