package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskFavoritesRecount rebuilds the denormalized favorites counters.
	TaskFavoritesRecount = "emoji:favorites_recount"
)

// FavoritesRecountPayload carries parameters for the recount task.
type FavoritesRecountPayload struct {
	Reason string `json:"reason"`
}

// NewFavoritesRecountTask constructs an Asynq task.
func NewFavoritesRecountTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(FavoritesRecountPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFavoritesRecount, data), nil
}
