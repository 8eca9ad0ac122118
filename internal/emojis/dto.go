package emojis

import "time"

type createRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Character string `json:"character" validate:"required,min=1,max=16"`
}

// Response is the JSON shape of a catalog entry.
type Response struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Character      string    `json:"character"`
	FavoritesCount int64     `json:"favorites_count"`
	IsFavorite     bool      `json:"is_favorite"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(e *Emoji) Response {
	return Response{
		ID:             e.ID,
		Name:           e.Name,
		Character:      e.Character,
		FavoritesCount: e.FavoritesCount,
		IsFavorite:     e.IsFavorite,
		CreatedAt:      e.CreatedAt,
	}
}
