package orchestrator

import (
	"log/slog"

	"github.com/mickaelli/StoryToVideo/internal/client"
)

// record is what the registry holds for one outstanding remote task. Records
// are immutable once inserted; resolution removes them.
type record struct {
	kind          client.Kind
	correlationID string
	shotID        int // set for shot tasks
}

// registry tracks outstanding tasks by backend-assigned task id. It is owned
// by the Orchestrator, which serializes all access behind its lock.
type registry struct {
	tasks  map[string]record
	logger *slog.Logger
}

func newRegistry(logger *slog.Logger) *registry {
	return &registry{
		tasks:  make(map[string]record),
		logger: logger,
	}
}

// insert adds a record for taskID. Task ids are backend-assigned and unique,
// so a duplicate indicates a backend defect; it is logged and ignored.
func (r *registry) insert(taskID string, rec record) {
	if _, ok := r.tasks[taskID]; ok {
		r.logger.Warn("ignoring duplicate task id",
			"task_id", taskID,
			"task_kind", rec.kind)
		return
	}
	r.tasks[taskID] = rec
}

// lookup returns the record for taskID, if any.
func (r *registry) lookup(taskID string) (record, bool) {
	rec, ok := r.tasks[taskID]
	return rec, ok
}

// remove deletes the record for taskID. Removing an absent id is a no-op.
func (r *registry) remove(taskID string) {
	delete(r.tasks, taskID)
}

func (r *registry) isEmpty() bool {
	return len(r.tasks) == 0
}

// taskIDs returns a snapshot of the tracked ids. Callers iterate the snapshot
// so that responses landing mid-sweep can remove entries safely.
func (r *registry) taskIDs() []string {
	ids := make([]string, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, id)
	}
	return ids
}
