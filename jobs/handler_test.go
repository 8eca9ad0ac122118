package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

type fakeEnqueuer struct {
	calls  int
	reason string
	err    error
}

func (f *fakeEnqueuer) EnqueueFavoritesRecount(_ context.Context, reason string) (*asynq.TaskInfo, error) {
	f.calls++
	f.reason = reason
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecountEnqueuesTask(t *testing.T) {
	enq := &fakeEnqueuer{}
	h := NewHandler(nil, enq, discardLogger())

	rec := httptest.NewRecorder()
	h.Recount(rec, httptest.NewRequest(http.MethodPost, "/jobs/recount", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, enq.calls)
	assert.Equal(t, "manual", enq.reason)
	assert.JSONEq(t, `{"task_id":"task-1","queue":"default"}`, rec.Body.String())
}

func TestRecountBrokerUnavailable(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("dial tcp: connection refused")}
	h := NewHandler(nil, enq, discardLogger())

	rec := httptest.NewRecorder()
	h.Recount(rec, httptest.NewRequest(http.MethodPost, "/jobs/recount", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecountWithoutEnqueuer(t *testing.T) {
	h := NewHandler(nil, nil, discardLogger())

	rec := httptest.NewRecorder()
	h.Recount(rec, httptest.NewRequest(http.MethodPost, "/jobs/recount", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
