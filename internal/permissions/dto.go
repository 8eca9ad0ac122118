package permissions

import "time"

type createRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=64"`
	Description string `json:"description" validate:"max=255"`
}

type grantRequest struct {
	Name string `json:"name" validate:"required,min=3,max=64"`
}

// Response is the JSON shape of a catalog entry.
type Response struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(p *Permission) Response {
	return Response{ID: p.ID, Name: p.Name, Description: p.Description, CreatedAt: p.CreatedAt}
}
