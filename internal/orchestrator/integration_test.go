package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickaelli/StoryToVideo/internal/client"
	"github.com/mickaelli/StoryToVideo/internal/events"
)

// waitingHandler collects events and signals when one of the given types
// arrives.
type waitingHandler struct {
	want map[string]bool
	got  chan *events.GenerationEvent
}

func newWaitingHandler(types ...string) *waitingHandler {
	want := make(map[string]bool, len(types))
	for _, tp := range types {
		want[tp] = true
	}
	return &waitingHandler{want: want, got: make(chan *events.GenerationEvent, 8)}
}

func (h *waitingHandler) HandleEvent(ctx context.Context, event *events.GenerationEvent) error {
	if h.want[event.Type] {
		h.got <- event
	}
	return nil
}

// TestShotRegenerationEndToEnd drives the full loop against a stub backend:
// submit, ack, two poll rounds, terminal result, image-ready event.
func TestShotRegenerationEndToEnd(t *testing.T) {
	var polls atomic.Int64
	r := chi.NewRouter()
	r.Post("/v1/api/tasks", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"task_id":"T1"}`))
	})
	r.Get("/v1/api/tasks/{task_id}", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "T1", chi.URLParam(req, "task_id"))
		if polls.Add(1) < 2 {
			_, _ = w.Write([]byte(`{"task":{"status":"processing","progress":50,"message":"painting"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"task":{"status":"finished","progress":100,"result":{"task_video":{"path":"/static/tasks/T1/image.png"}}}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	logger := setupTestLogger()
	c, err := client.New(srv.URL, 2*time.Second, logger)
	require.NoError(t, err)

	emitter := events.NewInMemoryEmitter(logger)
	handler := newWaitingHandler(events.TypeImageReady, events.TypeGenerationFailed)
	emitter.RegisterHandler(handler)

	o, err := New(c, emitter, Config{
		MediaHost:    srv.URL,
		PollInterval: 20 * time.Millisecond,
	}, logger)
	require.NoError(t, err)
	defer o.Close()
	c.SetHandler(o)

	o.SubmitUpdateShot(context.Background(), 7, "a detective in the rain", "noir")

	select {
	case event := <-handler.got:
		require.Equal(t, events.TypeImageReady, event.Type)
		var payload events.ImageReadyPayload
		require.NoError(t, event.UnmarshalPayload(&payload))
		assert.Equal(t, 7, payload.ShotID)
		assert.Equal(t, srv.URL+"/static/tasks/T1/image.png", payload.URL)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image-ready event")
	}

	assert.Eventually(t, func() bool {
		ids, active := o.snapshot()
		return len(ids) == 0 && !active
	}, time.Second, 10*time.Millisecond)
}
