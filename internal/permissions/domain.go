// Package permissions implements the permission catalog, user grants and
// the route guard that enforces them.
package permissions

import "time"

// Permission names an allowed action, e.g. "emoji:create".
type Permission struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}
