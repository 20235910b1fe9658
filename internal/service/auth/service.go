package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceImpl checks the single administrator credential from
// configuration and issues access tokens.
type AuthServiceImpl struct {
	jwt.Service
	username     string
	passwordHash []byte
}

func NewAuthService(jwtService jwt.Service, username string, passwordHash string) auth.AuthService {
	return &AuthServiceImpl{
		Service:      jwtService,
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userMatches := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password))
	if !userMatches || passwordErr != nil {
		slog.Warn("Rejected login", "username", req.Username)
		return auth.AccessTokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(a.username, jwt.RoleAdmin)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if _, err := a.Service.JWTAuth().Decode(token); err != nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token)
	return nil
}
