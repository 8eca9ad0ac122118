package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// FavoritesCounter is the slice of the emoji repository the job needs.
type FavoritesCounter interface {
	RecountFavorites(ctx context.Context) (int64, error)
}

// FavoritesRecountJob reconciles emojis.favorites_count with the favorites
// table. Favorites are written without touching the counter, so the column
// drifts during the day and the nightly run trues it up.
type FavoritesRecountJob struct {
	counter FavoritesCounter
	logger  *slog.Logger
}

// NewFavoritesRecountJob constructs the job.
func NewFavoritesRecountJob(counter FavoritesCounter, logger *slog.Logger) *FavoritesRecountJob {
	return &FavoritesRecountJob{counter: counter, logger: logger}
}

// Handle processes TaskFavoritesRecount tasks.
func (j *FavoritesRecountJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload FavoritesRecountPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	changed, err := j.counter.RecountFavorites(ctx)
	if err != nil {
		j.logger.Error("favorites recount failed", slog.Any("error", err))
		return err
	}
	j.logger.Info("favorites recount finished",
		slog.String("reason", payload.Reason),
		slog.Int64("rows_changed", changed))
	return nil
}
