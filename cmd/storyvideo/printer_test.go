package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickaelli/StoryToVideo/internal/appdata"
	"github.com/mickaelli/StoryToVideo/internal/events"
)

func newTestPrinter(t *testing.T) (*eventPrinter, *appdata.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store, err := appdata.NewStore(afero.NewMemMapFs(), "data", logger)
	require.NoError(t, err)
	return newEventPrinter(store, logger), store
}

func isDone(p *eventPrinter) bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func TestPrinterStoryboardReadySavesAndFinishes(t *testing.T) {
	printer, store := newTestPrinter(t)

	event, err := events.NewGenerationEvent(events.TypeStoryboardReady, events.StoryboardReadyPayload{
		ProjectID: "p-9",
		Shots:     []json.RawMessage{json.RawMessage(`{"title":"Opening"}`)},
	})
	require.NoError(t, err)

	require.NoError(t, printer.HandleEvent(context.Background(), event))
	assert.True(t, isDone(printer))

	var saved events.StoryboardReadyPayload
	require.NoError(t, store.Load(storyFile, &saved))
	assert.Equal(t, "p-9", saved.ProjectID)
	assert.Len(t, saved.Shots, 1)
}

func TestPrinterProgressFinishesOnlyAt100(t *testing.T) {
	printer, _ := newTestPrinter(t)

	mid, err := events.NewGenerationEvent(events.TypeCompilationProgress, events.CompilationProgressPayload{
		CorrelationID: "TASK-T1",
		Progress:      40,
	})
	require.NoError(t, err)
	require.NoError(t, printer.HandleEvent(context.Background(), mid))
	assert.False(t, isDone(printer))

	full, err := events.NewGenerationEvent(events.TypeCompilationProgress, events.CompilationProgressPayload{
		CorrelationID: "TASK-T1",
		Progress:      100,
	})
	require.NoError(t, err)
	require.NoError(t, printer.HandleEvent(context.Background(), full))
	assert.True(t, isDone(printer))
}

func TestPrinterFailureFinishes(t *testing.T) {
	printer, _ := newTestPrinter(t)

	event, err := events.NewGenerationEvent(events.TypeGenerationFailed, events.GenerationFailedPayload{
		Message: "boom",
	})
	require.NoError(t, err)

	require.NoError(t, printer.HandleEvent(context.Background(), event))
	assert.True(t, isDone(printer))
}
