// Package emojis implements the emoji catalog and per-user favorites.
package emojis

import "time"

// Emoji is a catalog entry. IsFavorite is computed per viewer at query
// time; FavoritesCount is maintained by the nightly recount job.
type Emoji struct {
	ID             int64
	Name           string
	Character      string
	CreatedBy      int64
	FavoritesCount int64
	IsFavorite     bool
	CreatedAt      time.Time
}

// FindFilter narrows catalog queries. Limit is clamped to [1, 200] with a
// default of 100.
type FindFilter struct {
	Name          string
	FavoritesOnly bool
	ViewerID      int64
	Limit         int
	Offset        int
}
