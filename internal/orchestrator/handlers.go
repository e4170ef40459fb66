package orchestrator

import (
	"encoding/json"
	"fmt"

	"github.com/mickaelli/StoryToVideo/internal/events"
)

// Result payload shapes, matching the backend's task result JSON.

type storyboardResult struct {
	ProjectID string `json:"projectId"`
	TaskShots struct {
		GeneratedShots []json.RawMessage `json:"generated_shots"`
	} `json:"task_shots"`
}

type mediaResult struct {
	TaskVideo struct {
		Path string `json:"path"`
	} `json:"task_video"`
}

// handleStoryboardResult processes the terminal payload of a project creation
// task: a nested collection of generated shot descriptors.
func (o *Orchestrator) handleStoryboardResult(rec record, result json.RawMessage) {
	var res storyboardResult
	if err := json.Unmarshal(result, &res); err != nil {
		o.emitFailure(fmt.Sprintf("malformed storyboard result: %v", err))
		return
	}

	shots := res.TaskShots.GeneratedShots
	if len(shots) == 0 {
		o.emitFailure("storyboard result contained an empty shot list")
		return
	}

	// Prefer the backend's project id; fall back to the placeholder the task
	// was tracked under if it was omitted.
	projectID := res.ProjectID
	if projectID == "" {
		projectID = rec.correlationID
	}

	o.logger.Info("storyboard ready",
		"project_id", projectID,
		"shot_count", len(shots))

	o.emit(events.TypeStoryboardReady, events.StoryboardReadyPayload{
		ProjectID: projectID,
		Shots:     shots,
	})
}

// handleImageResult processes the terminal payload of a shot regeneration
// task: a relative media path resolved against the configured media host.
func (o *Orchestrator) handleImageResult(rec record, result json.RawMessage) {
	var res mediaResult
	if err := json.Unmarshal(result, &res); err != nil {
		o.emitFailure(fmt.Sprintf("shot %d: malformed image result: %v", rec.shotID, err))
		return
	}

	if res.TaskVideo.Path == "" {
		o.emitFailure(fmt.Sprintf("shot %d: image result carried no media path", rec.shotID))
		return
	}

	url := o.mediaHost + res.TaskVideo.Path
	o.logger.Info("shot image ready", "shot_id", rec.shotID, "url", url)

	o.emit(events.TypeImageReady, events.ImageReadyPayload{
		ShotID: rec.shotID,
		URL:    url,
	})
}

// handleVideoResult processes the terminal payload of a video compilation
// task. Completion is reported as progress pinned at 100; downstream treats
// that as the finished signal.
func (o *Orchestrator) handleVideoResult(rec record, result json.RawMessage) {
	var res mediaResult
	if err := json.Unmarshal(result, &res); err == nil && res.TaskVideo.Path != "" {
		o.logger.Info("video compiled",
			"correlation_id", rec.correlationID,
			"path", res.TaskVideo.Path)
	}

	o.emitProgress(rec.correlationID, 100)
}
