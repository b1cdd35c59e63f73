package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pontohub/ponto-backend-go/internal/domain/auth"
	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/pontohub/ponto-backend-go/internal/pkg/jwt"
)

const defaultRole = "user"

// service validates credentials against the vendor's password grant and
// issues the internal session token. The vendor token never enters the
// session JWT.
type service struct {
	client vendor.Client
	jwt    jwt.Service
	logger *slog.Logger
}

func NewService(client vendor.Client, jwtService jwt.Service, logger *slog.Logger) auth.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{client: client, jwt: jwtService, logger: logger}
}

// Login implements auth.Service.
func (s *service) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	vendorToken, err := s.client.PasswordGrant(ctx, req.Username, req.Password)
	if err != nil {
		if vendor.IsAuthError(err) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("vendor authentication: %w", err)
	}

	// Display name is best effort; login still succeeds without it.
	name := req.Username
	if info, err := s.client.UserInfo(ctx, vendorToken); err != nil {
		s.logger.Warn("user info lookup failed", "error", err)
	} else if info.Name != "" {
		name = info.Name
	}

	token, expiresAt, err := s.jwt.GenerateSessionToken(req.Username, name, defaultRole)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("issue session token: %w", err)
	}

	return auth.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: auth.SessionUser{
			Username: req.Username,
			Name:     name,
			Role:     defaultRole,
		},
	}, nil
}
