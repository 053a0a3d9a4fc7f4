package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gamecatalog/internal/domain"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

type authService struct {
	userRepo    domain.UserRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
}

// NewAuthService creates an AuthService with the given repository and auth ports.
func NewAuthService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer) domain.AuthService {
	return &authService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return "", nil, domain.NewInvalidArgument("username", fmt.Sprintf("must be %d to %d characters", minUsernameLen, maxUsernameLen))
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "", nil, domain.NewInvalidArgument("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if len(password) > maxPasswordBytes {
		return "", nil, domain.NewInvalidArgument("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	user := domain.NewUser(username, hash, domain.RoleUser, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokenIssuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) PromoteToAdmin(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.UpdateRole(ctx, strings.TrimSpace(username), domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("promote %q: %w", username, err)
	}
	return user, nil
}
