package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (AccessTokenResponse, error)

	// Logout revokes the given access token until it expires
	Logout(ctx context.Context, token string) error
}
