package handler

import (
	"time"

	"github.com/secureapp/auth-api/internal/core/domain"
)

// Password strength beyond basic shape is the password policy's job; it
// reports every violated rule at once, which a validator tag cannot.
type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *userPayload `json:"user,omitempty"`
}

func newTokenResponse(pair *domain.TokenPair, user *domain.User) tokenResponse {
	resp := tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
	if user != nil {
		resp.User = newUserPayload(user)
	}
	return resp
}

func newUserPayload(user *domain.User) *userPayload {
	return &userPayload{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
