package auth

import "time"

// Roles assignable to user accounts.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User represents an account stored in the user registry.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	// Processes lists the shipment process IDs a client account may see.
	Processes []string `json:"processes,omitempty"`
	LogoPath  string   `json:"logo_path,omitempty"`
}

// IsAdmin reports whether the account has administrator privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanViewProcess reports whether the account may see the given process.
func (u *User) CanViewProcess(processID string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, id := range u.Processes {
		if id == processID {
			return true
		}
	}
	return false
}
