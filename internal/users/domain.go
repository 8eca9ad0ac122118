package users

import (
	"time"

	"github.com/emojihub/emojihub/internal/shared"
)

// User represents a user account.
type User struct {
	ID           int64
	Name         string
	Surname      string
	Login        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the minimal reference embedded into tokens and carried
// through request contexts.
func (u *User) Identity() shared.Identity {
	return shared.Identity{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Login:   u.Login,
		IsAdmin: u.IsAdmin,
	}
}
