package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mickaelli/StoryToVideo/internal/appdata"
	"github.com/mickaelli/StoryToVideo/internal/events"
)

// storyFile is where the last generated storyboard is kept for later runs.
const storyFile = "story.json"

// eventPrinter prints generation events to stdout and signals done when a
// terminal event for the current run arrives. Storyboards are additionally
// saved to the local app-data store.
type eventPrinter struct {
	store  *appdata.Store
	logger *slog.Logger
	done   chan struct{}
	once   sync.Once
}

func newEventPrinter(store *appdata.Store, logger *slog.Logger) *eventPrinter {
	return &eventPrinter{
		store:  store,
		logger: logger.With("component", "event_printer"),
		done:   make(chan struct{}),
	}
}

func (p *eventPrinter) HandleEvent(ctx context.Context, event *events.GenerationEvent) error {
	switch event.Type {
	case events.TypeStoryboardReady:
		var payload events.StoryboardReadyPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return err
		}
		fmt.Printf("storyboard ready: project=%s shots=%d\n", payload.ProjectID, len(payload.Shots))
		if err := p.store.Save(storyFile, payload); err != nil {
			p.logger.Error("failed to save storyboard", "error", err)
		}
		p.finish()

	case events.TypeImageReady:
		var payload events.ImageReadyPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return err
		}
		fmt.Printf("shot %d image ready: %s\n", payload.ShotID, payload.URL)
		p.finish()

	case events.TypeCompilationProgress:
		var payload events.CompilationProgressPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return err
		}
		fmt.Printf("progress %s: %d%%\n", payload.CorrelationID, payload.Progress)
		if payload.Progress >= 100 {
			p.finish()
		}

	case events.TypeGenerationFailed:
		var payload events.GenerationFailedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return err
		}
		fmt.Printf("generation failed: %s\n", payload.Message)
		p.finish()
	}

	return nil
}

func (p *eventPrinter) finish() {
	p.once.Do(func() { close(p.done) })
}

var _ events.Handler = (*eventPrinter)(nil)
