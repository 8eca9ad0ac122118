package users

import "time"

// Response is the JSON shape of a user. The password digest never leaves
// the service layer.
type Response struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Login     string    `json:"login"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts a domain user into its JSON shape.
func ToResponse(u *User) Response {
	return Response{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Login:     u.Login,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type updateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=20"`
	Surname *string `json:"surname" validate:"omitempty,min=1,max=20"`
}

type updatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}
