// Package service implements login for API users: bcrypt verification
// against the stored hash, then an access token from the token provider.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"business-analytics-server/internal/analytics/domain"
	identityrepo "business-analytics-server/internal/identity/repository"
	"business-analytics-server/internal/security"
)

// TokenIssuer issues access tokens after a successful credential check.
type TokenIssuer interface {
	Issue(userID, role string) (token string, expiresAt time.Time, err error)
}

// Service authenticates API users and issues tokens.
type Service struct {
	users  identityrepo.Repository
	hasher *security.Hasher
	tokens TokenIssuer
}

// New returns a login service over the given user repository, hasher, and token issuer.
func New(users identityrepo.Repository, hasher *security.Hasher, tokens TokenIssuer) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// LoginResult carries the issued token and its expiry.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
}

// Login verifies email and password and issues an access token. A wrong
// email and a wrong password fail identically so the endpoint does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrAuthentication)
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrAuthentication)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Role: user.Role}, nil
}
