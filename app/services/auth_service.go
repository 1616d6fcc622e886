package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/auth"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminFinder looks up administrators by username.
type AdminFinder interface {
	FindByUsername(ctx context.Context, username string) (models.AdminUser, error)
}

type AuthService struct {
	admins AdminFinder
}

func NewAuthService(admins AdminFinder) *AuthService {
	return &AuthService{admins: admins}
}

// CheckCredentials returns the admin matching username and password.
func (s *AuthService) CheckCredentials(ctx context.Context, username, password string) (models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.AdminUser{}, ErrInvalidCredentials
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.AdminUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AdminUser{}, fmt.Errorf("auth: find admin: %w", err)
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return models.AdminUser{}, ErrInvalidCredentials
	}
	return admin, nil
}

// Login checks the credentials and issues a signed token for the admin.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, models.AdminUser, error) {
	admin, err := s.CheckCredentials(ctx, username, password)
	if err != nil {
		return "", models.AdminUser{}, err
	}
	token, err := auth.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return "", models.AdminUser{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, admin, nil
}
