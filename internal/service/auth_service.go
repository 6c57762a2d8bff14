package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 12 * time.Hour

	bcryptCost = 10
)

type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService struct {
	users  repository.UserRepository
	secret []byte
}

func NewAuthService(users repository.UserRepository, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret)}
}

// SignIn verifies the password against the stored bcrypt hash and issues the
// access/refresh token pair.
func (s *AuthService) SignIn(ctx context.Context, login, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PW), []byte(password)); err != nil {
		return nil, nil, domain.ErrBadCredentials
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// SignUp hashes the password and creates the account.
func (s *AuthService) SignUp(ctx context.Context, user *domain.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PW = string(hash)
	return s.users.Create(ctx, user)
}

// Refresh validates a refresh token, reloads the user and issues fresh
// tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	login, err := s.VerifyToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ResolveUID maps a login handle to the durable numeric user id the
// reconcile path stamps onto unmatched rows.
func (s *AuthService) ResolveUID(ctx context.Context, login string) (int64, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return 0, err
	}
	return user.UID, nil
}

// VerifyToken parses and validates a token and returns the subject login.
func (s *AuthService) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func (s *AuthService) issueTokens(login string) (*TokenPair, error) {
	access, err := s.sign(login, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(login, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) sign(login string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   login,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
