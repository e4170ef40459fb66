package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// statusFinished is the backend's terminal task status. Anything else is
// treated as in-progress.
const statusFinished = "finished"

// Common errors
var (
	ErrEmptyBaseURL = errors.New("base URL cannot be empty")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// Kind identifies which submission operation produced a request. It is carried
// on the request metadata so responses can be routed without extra lookups.
type Kind string

// The closed set of task kinds the backend accepts.
const (
	KindDirectProjectCreate Kind = "directProjectCreate"
	KindUpdateShot          Kind = "updateShot"
	KindGenerateVideo       Kind = "generateVideo"
)

// RequestMeta is the correlation record attached to every outbound request
// and handed back verbatim alongside its response.
type RequestMeta struct {
	Kind   Kind
	ShotID int    // set for KindUpdateShot submissions
	TaskID string // set for status polls
}

// Handler receives the asynchronous outcome of submit and poll requests.
// Exactly one method is invoked per request; transport and protocol errors
// surface here as failure callbacks, never as panics or returned errors.
type Handler interface {
	// TaskCreated reports a submission acknowledged with a fresh task id.
	TaskCreated(meta RequestMeta, taskID string)

	// TaskStatus reports a non-terminal poll result.
	TaskStatus(taskID string, progress int, status, message string)

	// TaskResult reports a terminal poll result with the raw result payload.
	TaskResult(taskID string, result json.RawMessage)

	// TaskFailed reports a poll that failed at the transport or protocol level.
	TaskFailed(taskID string, reason string)

	// TransportError reports a failure not tied to a tracked task, such as a
	// submit request that never yielded a task id.
	TransportError(reason string)
}

// Client issues HTTP requests against the generation backend. Every call is
// fire-and-forget: the result surfaces later through the registered Handler.
type Client struct {
	baseURL string
	http    *http.Client
	handler Handler
	logger  *slog.Logger
}

// New creates a transport client for the backend at baseURL. SetHandler must
// be called before any request is issued.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "transport_client"),
	}, nil
}

// SetHandler registers the callback sink for response delivery.
func (c *Client) SetHandler(h Handler) {
	c.handler = h
}

// CreateProjectDirect submits a project creation job. The backend responds
// with the new project id and the task id of the storyboard generation task.
func (c *Client) CreateProjectDirect(ctx context.Context, title, storyText, style, description string) {
	go func() {
		q := url.Values{}
		q.Set("Title", title)
		q.Set("StoryText", storyText)
		q.Set("Style", style)
		// The backend expects this exact spelling.
		q.Set("Desription", description)

		body, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/api/projects?"+q.Encode(), nil)
		if err != nil {
			c.handler.TransportError(err.Error())
			return
		}

		var ack struct {
			ProjectID string `json:"ProjectID"`
			TaskID    string `json:"TaskID"`
		}
		if err := json.Unmarshal(body, &ack); err != nil {
			c.handler.TransportError(fmt.Sprintf("malformed project response: %v", err))
			return
		}
		if ack.TaskID == "" {
			c.handler.TransportError("project created but response carried no TaskID, cannot start storyboard generation")
			return
		}

		c.logger.Info("project created",
			"project_id", ack.ProjectID,
			"task_id", ack.TaskID)
		c.handler.TaskCreated(RequestMeta{Kind: KindDirectProjectCreate}, ack.TaskID)
	}()
}

type shotParameters struct {
	Style       string `json:"style"`
	ImageLLM    string `json:"image_llm"`
	GenerateTTS bool   `json:"generate_tts"`
}

type updateShotRequest struct {
	Type       string `json:"type"`
	ShotID     string `json:"shotId"`
	Parameters struct {
		Shot shotParameters `json:"shot"`
	} `json:"parameters"`
}

// UpdateShot submits a shot image regeneration job for the given shot.
func (c *Client) UpdateShot(ctx context.Context, shotID int, prompt, style string) {
	req := updateShotRequest{
		Type:   "updateShot",
		ShotID: strconv.Itoa(shotID),
	}
	req.Parameters.Shot = shotParameters{
		Style:       style,
		ImageLLM:    prompt,
		GenerateTTS: false,
	}

	c.submitTask(ctx, RequestMeta{Kind: KindUpdateShot, ShotID: shotID}, req)
}

type videoParameters struct {
	Format     string `json:"format"`
	Resolution string `json:"resolution"`
}

type generateVideoRequest struct {
	Type       string `json:"type"`
	ProjectID  string `json:"projectId"`
	Parameters struct {
		Video videoParameters `json:"video"`
	} `json:"parameters"`
}

// GenerateVideo submits a video compilation job for the given project.
func (c *Client) GenerateVideo(ctx context.Context, projectID string) {
	req := generateVideoRequest{
		Type:      "generateVideo",
		ProjectID: projectID,
	}
	req.Parameters.Video = videoParameters{
		Format:     "mp4",
		Resolution: "1920x1080",
	}

	c.submitTask(ctx, RequestMeta{Kind: KindGenerateVideo}, req)
}

// submitTask POSTs a task creation request and delivers the acknowledgment.
func (c *Client) submitTask(ctx context.Context, meta RequestMeta, payload any) {
	go func() {
		body, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/api/tasks", payload)
		if err != nil {
			c.handler.TransportError(err.Error())
			return
		}

		var ack struct {
			TaskID string `json:"task_id"`
		}
		if err := json.Unmarshal(body, &ack); err != nil {
			c.handler.TransportError(fmt.Sprintf("malformed task response: %v", err))
			return
		}
		if ack.TaskID == "" {
			c.handler.TransportError("task response carried no task_id")
			return
		}

		c.logger.Info("task created",
			"task_id", ack.TaskID,
			"task_kind", meta.Kind)
		c.handler.TaskCreated(meta, ack.TaskID)
	}()
}

// PollTaskStatus queries the current status of a task. A terminal ("finished")
// status is delivered via TaskResult, anything else via TaskStatus.
func (c *Client) PollTaskStatus(ctx context.Context, taskID string) {
	go func() {
		body, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/api/tasks/"+taskID, nil)
		if err != nil {
			c.handler.TaskFailed(taskID, err.Error())
			return
		}

		var envelope struct {
			Task struct {
				Status   string          `json:"status"`
				Progress int             `json:"progress"`
				Message  string          `json:"message"`
				Result   json.RawMessage `json:"result"`
			} `json:"task"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			c.handler.TaskFailed(taskID, fmt.Sprintf("malformed status response: %v", err))
			return
		}

		c.logger.Debug("task status received",
			"task_id", taskID,
			"status", envelope.Task.Status,
			"progress", envelope.Task.Progress)

		if envelope.Task.Status == statusFinished {
			c.handler.TaskResult(taskID, envelope.Task.Result)
			return
		}
		c.handler.TaskStatus(taskID, envelope.Task.Progress, envelope.Task.Status, envelope.Task.Message)
	}()
}

// do executes one HTTP request and returns the response body. Non-2xx
// statuses are returned as errors so callers route them to failure callbacks.
func (c *Client) do(ctx context.Context, method, requestURL string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	return data, nil
}
