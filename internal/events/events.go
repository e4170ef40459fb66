package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outbound event kinds produced by the generation core.
const (
	TypeStoryboardReady     = "storyboard_ready"
	TypeImageReady          = "image_ready"
	TypeCompilationProgress = "compilation_progress"
	TypeGenerationFailed    = "generation_failed"
)

// GenerationEvent is the tagged envelope every core outcome is published as.
// The Type discriminates which payload struct the Payload decodes into.
type GenerationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants above
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *GenerationEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewGenerationEvent creates a new GenerationEvent with the specified type
// and payload.
func NewGenerationEvent(eventType string, payload interface{}) (*GenerationEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &GenerationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// StoryboardReadyPayload carries the resolved project id and the generated
// shot descriptors exactly as the backend returned them.
type StoryboardReadyPayload struct {
	ProjectID string            `json:"project_id"`
	Shots     []json.RawMessage `json:"shots"`
}

// ImageReadyPayload carries the absolute URL of a regenerated shot image.
type ImageReadyPayload struct {
	ShotID int    `json:"shot_id"`
	URL    string `json:"url"`
}

// CompilationProgressPayload reports storyboard/video task progress. A value
// of 100 signals completion; there is no separate video-ready event.
type CompilationProgressPayload struct {
	CorrelationID string `json:"correlation_id"`
	Progress      int    `json:"progress"`
}

// GenerationFailedPayload carries a human-readable failure reason.
type GenerationFailedPayload struct {
	Message string `json:"message"`
}

// Handler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *GenerationEvent) error
}

// Emitter defines an interface for components that can emit events.
// This allows the core to publish events without direct knowledge of handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *GenerationEvent) error
}
