package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Service wraps authentication and account management rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Authenticate validates login/password credentials. Accounts carrying a
// legacy plaintext password are upgraded to bcrypt on first successful login.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*User, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if isBcryptHash(user.PasswordHash) {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return nil, shared.ErrInvalidCredentials
		}
		return user, nil
	}
	if user.PasswordHash != password {
		return nil, shared.ErrInvalidCredentials
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		user.PasswordHash = string(hash)
		if err := s.repo.Update(ctx, user); err != nil {
			s.logger.Warn("upgrade password hash", slog.String("user", user.ID), slog.Any("error", err))
		}
	}
	return user, nil
}

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	Role      string `validate:"required,oneof=admin client"`
	Processes []string
	LogoPath  string
}

// CreateUser registers a new account with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    time.Now(),
		LogoPath:     input.LogoPath,
	}
	if user.Role == RoleClient {
		user.Processes = input.Processes
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput carries optional account updates. Nil or empty fields keep
// the stored value, except Processes where an empty non-nil slice clears the
// assignment.
type UpdateUserInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	Processes []string
	LogoPath  string
}

// UpdateUser applies partial updates to an account.
func (s *Service) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		user.Email = strings.TrimSpace(input.Email)
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Processes != nil {
		user.Processes = input.Processes
	}
	if input.LogoPath != "" {
		user.LogoPath = input.LogoPath
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account, refusing to drop the last administrator.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AssignProcesses replaces the process list visible to a client account.
func (s *Service) AssignProcesses(ctx context.Context, userID string, processIDs []string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != RoleClient {
		return shared.ErrForbidden
	}
	user.Processes = processIDs
	return s.repo.Update(ctx, user)
}

// ListUsers returns every registered account.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// GetUser returns the account with the given ID.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}
