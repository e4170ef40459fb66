package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mickaelli/StoryToVideo/internal/client"
	"github.com/mickaelli/StoryToVideo/internal/events"
)

// Common errors
var (
	ErrNilTransport = errors.New("transport cannot be nil")
	ErrNilEmitter   = errors.New("emitter cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// Transport issues the asynchronous backend requests the orchestrator depends
// on. *client.Client satisfies it; outcomes come back through the
// client.Handler methods the orchestrator implements.
type Transport interface {
	CreateProjectDirect(ctx context.Context, title, storyText, style, description string)
	UpdateShot(ctx context.Context, shotID int, prompt, style string)
	GenerateVideo(ctx context.Context, projectID string)
	PollTaskStatus(ctx context.Context, taskID string)
}

// Config holds orchestrator settings.
type Config struct {
	// MediaHost is prefixed onto relative media paths returned by the backend.
	MediaHost string

	// PollInterval is the shared status-poll period. Defaults to one second.
	PollInterval time.Duration
}

// Orchestrator is the task state machine: it accepts submissions, tracks
// acknowledged tasks in its registry, interprets poll responses, dispatches
// terminal results by task kind, and publishes caller-facing events.
//
// The registry and the poll timer are the only shared mutable state; both are
// serialized behind mu. Result handlers run outside the lock so event
// subscribers may submit follow-up tasks reentrantly.
type Orchestrator struct {
	transport Transport
	emitter   events.Emitter
	mediaHost string
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	registry  *registry
	scheduler *pollScheduler
}

// New creates an Orchestrator. The caller is expected to register the
// returned orchestrator as the transport's response handler.
func New(transport Transport, emitter events.Emitter, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	if emitter == nil {
		return nil, ErrNilEmitter
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		transport: transport,
		emitter:   emitter,
		mediaHost: strings.TrimRight(cfg.MediaHost, "/"),
		logger:    logger.With("component", "orchestrator"),
		ctx:       ctx,
		cancel:    cancel,
	}
	o.registry = newRegistry(o.logger)
	o.scheduler = newPollScheduler(interval, o.sweep, o.logger)

	return o, nil
}

// Close stops the poll timer and cancels in-flight requests. Outstanding
// tasks are abandoned; there is no cancellation on the backend side.
func (o *Orchestrator) Close() {
	o.cancel()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scheduler.stop()
}

// SubmitDirectProjectCreate submits a project creation job whose
// acknowledgment starts storyboard generation polling.
func (o *Orchestrator) SubmitDirectProjectCreate(ctx context.Context, title, storyText, style, description string) {
	o.logger.Info("submitting project creation", "title", title, "style", style)
	o.transport.CreateProjectDirect(ctx, title, storyText, style, description)
}

// SubmitUpdateShot submits a shot image regeneration job.
func (o *Orchestrator) SubmitUpdateShot(ctx context.Context, shotID int, prompt, style string) {
	o.logger.Info("submitting shot update", "shot_id", shotID, "style", style)
	o.transport.UpdateShot(ctx, shotID, prompt, style)
}

// SubmitGenerateVideo submits a video compilation job for a project.
func (o *Orchestrator) SubmitGenerateVideo(ctx context.Context, projectID string) {
	o.logger.Info("submitting video generation", "project_id", projectID)
	o.transport.GenerateVideo(ctx, projectID)
}

// sweep issues one status poll per outstanding task. It fires all polls from
// a pre-sweep snapshot without waiting for responses, so the tick never
// blocks on network I/O.
func (o *Orchestrator) sweep() {
	o.mu.Lock()
	ids := o.registry.taskIDs()
	if len(ids) == 0 {
		o.scheduler.stopIfEmpty(true)
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	for _, id := range ids {
		o.transport.PollTaskStatus(o.ctx, id)
	}
}

// TaskCreated records an acknowledged submission and starts polling for it.
// Implements client.Handler.
func (o *Orchestrator) TaskCreated(meta client.RequestMeta, taskID string) {
	rec := record{kind: meta.Kind}
	if meta.Kind == client.KindUpdateShot {
		rec.shotID = meta.ShotID
		rec.correlationID = strconv.Itoa(meta.ShotID)
	} else {
		// The remote project id is not known yet; a placeholder label routes
		// progress until the terminal result resolves it.
		rec.correlationID = "TASK-" + taskID
	}

	o.mu.Lock()
	o.registry.insert(taskID, rec)
	o.scheduler.ensureRunning()
	o.mu.Unlock()

	o.logger.Info("tracking task",
		"task_id", taskID,
		"task_kind", meta.Kind,
		"correlation_id", rec.correlationID)
}

// TaskStatus routes a non-terminal poll result. Implements client.Handler.
func (o *Orchestrator) TaskStatus(taskID string, progress int, status, message string) {
	o.mu.Lock()
	rec, ok := o.registry.lookup(taskID)
	o.mu.Unlock()
	if !ok {
		// Late response for an already-resolved task.
		return
	}

	switch rec.kind {
	case client.KindUpdateShot:
		o.logger.Debug("shot image progress",
			"shot_id", rec.shotID,
			"progress", progress,
			"status", status,
			"message", message)
	default:
		o.logger.Debug("compilation progress",
			"correlation_id", rec.correlationID,
			"progress", progress,
			"status", status,
			"message", message)
		o.emitProgress(rec.correlationID, progress)
	}
}

// TaskResult resolves a task with its terminal payload, dispatching to the
// kind-specific result handler. Implements client.Handler.
func (o *Orchestrator) TaskResult(taskID string, result json.RawMessage) {
	o.mu.Lock()
	rec, ok := o.registry.lookup(taskID)
	if !ok {
		o.mu.Unlock()
		return
	}
	o.registry.remove(taskID)
	o.scheduler.stopIfEmpty(o.registry.isEmpty())
	o.mu.Unlock()

	o.logger.Info("task finished", "task_id", taskID, "task_kind", rec.kind)

	switch rec.kind {
	case client.KindDirectProjectCreate:
		o.handleStoryboardResult(rec, result)
	case client.KindUpdateShot:
		o.handleImageResult(rec, result)
	case client.KindGenerateVideo:
		o.handleVideoResult(rec, result)
	}
}

// TaskFailed resolves a task whose poll failed. Implements client.Handler.
func (o *Orchestrator) TaskFailed(taskID string, reason string) {
	o.mu.Lock()
	rec, ok := o.registry.lookup(taskID)
	if ok {
		o.registry.remove(taskID)
		o.scheduler.stopIfEmpty(o.registry.isEmpty())
	}
	o.mu.Unlock()
	if !ok {
		return
	}

	o.logger.Error("task polling failed", "task_id", taskID, "reason", reason)
	o.emitFailure(fmt.Sprintf("task %s failed: %s", rec.correlationID, reason))
}

// TransportError surfaces a failure not tied to a tracked task, such as a
// failed submission. The registry is untouched. Implements client.Handler.
func (o *Orchestrator) TransportError(reason string) {
	o.logger.Error("transport error", "reason", reason)
	o.emitFailure("network communication failed: " + reason)
}

func (o *Orchestrator) emitProgress(correlationID string, progress int) {
	o.emit(events.TypeCompilationProgress, events.CompilationProgressPayload{
		CorrelationID: correlationID,
		Progress:      progress,
	})
}

func (o *Orchestrator) emitFailure(message string) {
	o.emit(events.TypeGenerationFailed, events.GenerationFailedPayload{Message: message})
}

func (o *Orchestrator) emit(eventType string, payload interface{}) {
	event, err := events.NewGenerationEvent(eventType, payload)
	if err != nil {
		o.logger.Error("failed to build event", "error", err, "event_type", eventType)
		return
	}
	if err := o.emitter.EmitEvent(o.ctx, event); err != nil {
		o.logger.Error("event handler failed", "error", err, "event_type", eventType)
	}
}

var _ client.Handler = (*Orchestrator)(nil)
