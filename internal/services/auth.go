package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"evdash/internal/apperr"
	"evdash/internal/auth"
	"evdash/internal/repo"
	"evdash/internal/security"
)

// AuthService verifies credentials and issues tokens.
type AuthService struct {
	accounts *repo.AccountsRepo
	tokens   *auth.Tokens
	log      *zap.Logger
}

func NewAuthService(accounts *repo.AccountsRepo, tokens *auth.Tokens, log *zap.Logger) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, log: log}
}

type LoginOutput struct {
	Token    string        `json:"token"`
	Identity auth.Identity `json:"user"`
}

// Login checks the username and password and returns a signed token. The
// same message covers unknown usernames and wrong passwords.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil || !security.VerifyPassword(account.PasswordHash, password) {
		return nil, apperr.Unauthorized("invalid username or password")
	}

	id := auth.Identity{
		AccountID:    account.AccountID,
		Username:     account.Username,
		FullName:     account.Name,
		Role:         auth.ResolveRole(account.OwnerID),
		OwnerID:      account.OwnerID,
		PermissionID: account.PermissionID,
	}
	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	s.log.Info("login", zap.String("username", username), zap.String("role", string(id.Role)))
	return &LoginOutput{Token: token, Identity: id}, nil
}
