package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminSubject  = "admin"
	adminTokenTTL = 12 * time.Hour
)

// AuthService issues admin tokens for the ops API.
type AuthService struct {
	passwordHash []byte
	secret       []byte
	now          func() time.Time
}

func NewAuthService(passwordHash, secret string) *AuthService {
	return &AuthService{passwordHash: []byte(passwordHash), secret: []byte(secret), now: time.Now}
}

// Login checks the admin password and returns a signed token with its expiry.
func (s *AuthService) Login(password string) (string, time.Time, error) {
	if len(s.passwordHash) == 0 || len(s.secret) == 0 {
		return "", time.Time{}, ErrAuthNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, fmt.Errorf("failed to verify password: %w", err)
	}

	now := s.now()
	expires := now.Add(adminTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// HashPassword produces the value for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
