package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/freightdesk/freightdesk/internal/platform/store"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type registryFile struct {
	Users []*User `json:"users"`
}

// FileRepository implements Repository on a JSON registry file.
type FileRepository struct {
	mu   sync.Mutex
	file *store.File
}

// NewRepository constructs a file backed repository. A missing registry is
// seeded with a default administrator account.
func NewRepository(path string) (*FileRepository, error) {
	repo := &FileRepository{file: store.NewFile(path)}
	if !repo.file.Exists() {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		seed := registryFile{Users: []*User{{
			ID:           "admin",
			Name:         "Administrador",
			Email:        "admin@jgr.com.br",
			PasswordHash: string(hash),
			Role:         RoleAdmin,
			CreatedAt:    time.Now(),
		}}}
		if err := repo.file.Save(seed); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (r *FileRepository) load() (*registryFile, error) {
	var reg registryFile
	if err := r.file.Load(&reg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &registryFile{}, nil
		}
		return nil, err
	}
	return &reg, nil
}

// FindByLogin fetches a user by email or account ID.
func (r *FileRepository) FindByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, err := r.load()
	if err != nil {
		return nil, err
	}
	login = strings.TrimSpace(login)
	for _, user := range reg.Users {
		if strings.EqualFold(user.Email, login) || user.ID == login {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByID fetches a user by account ID.
func (r *FileRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, user := range reg.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

// List returns all user accounts.
func (r *FileRepository) List(ctx context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, err := r.load()
	if err != nil {
		return nil, err
	}
	return reg.Users, nil
}

// Create appends a new account to the registry.
func (r *FileRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range reg.Users {
		if strings.EqualFold(existing.Email, user.Email) || existing.ID == user.ID {
			return shared.ErrDuplicate
		}
	}
	reg.Users = append(reg.Users, user)
	return r.file.Save(reg)
}

// Update replaces the stored account matching the user ID.
func (r *FileRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range reg.Users {
		if existing.ID == user.ID {
			reg.Users[i] = user
			return r.file.Save(reg)
		}
	}
	return shared.ErrNotFound
}

// Delete removes an account. The last administrator cannot be removed.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, err := r.load()
	if err != nil {
		return err
	}
	admins := 0
	for _, user := range reg.Users {
		if user.Role == RoleAdmin {
			admins++
		}
	}
	for i, user := range reg.Users {
		if user.ID == id {
			if user.Role == RoleAdmin && admins <= 1 {
				return shared.ErrForbidden
			}
			reg.Users = append(reg.Users[:i], reg.Users[i+1:]...)
			return r.file.Save(reg)
		}
	}
	return shared.ErrNotFound
}

var _ Repository = (*FileRepository)(nil)
