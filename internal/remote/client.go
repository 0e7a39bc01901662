package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"habitdash/internal/model"

	"github.com/google/uuid"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the goals/tasks aggregation endpoint. It never retries;
// callers decide what a failure means.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		BaseURL:    strings.TrimSpace(baseURL),
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

type goalsResponse struct {
	Goals []model.Goal `json:"goals"`
}

type tasksResponse struct {
	Tasks []model.Task `json:"tasks"`
}

type completionRequest struct {
	Endpoint  string `json:"endpoint"`
	ID        int64  `json:"id"`
	Completed bool   `json:"completed"`
}

type progressRequest struct {
	Endpoint string `json:"endpoint"`
	ID       int64  `json:"id"`
	Progress int    `json:"progress"`
}

type addGoalRequest struct {
	Action   string `json:"action"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type addTaskRequest struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Time   string `json:"time"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) FetchGoals(ctx context.Context) ([]model.Goal, error) {
	var out goalsResponse
	q := url.Values{"endpoint": {"goals"}}
	if err := c.do(ctx, "fetch goals", http.MethodGet, q, nil, &out); err != nil {
		return nil, err
	}
	if out.Goals == nil {
		out.Goals = []model.Goal{}
	}
	return out.Goals, nil
}

func (c *Client) FetchTasks(ctx context.Context) ([]model.Task, error) {
	var out tasksResponse
	q := url.Values{"endpoint": {"tasks"}}
	if err := c.do(ctx, "fetch tasks", http.MethodGet, q, nil, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	return out.Tasks, nil
}

func (c *Client) SetTaskCompletion(ctx context.Context, id int64, completed bool) error {
	body := completionRequest{Endpoint: "task", ID: id, Completed: completed}
	return c.do(ctx, "set task completion", http.MethodPut, nil, body, nil)
}

func (c *Client) SetGoalCompletion(ctx context.Context, id int64, completed bool) error {
	body := completionRequest{Endpoint: "goal", ID: id, Completed: completed}
	return c.do(ctx, "set goal completion", http.MethodPut, nil, body, nil)
}

func (c *Client) SetGoalProgress(ctx context.Context, id int64, progress int) error {
	if progress < model.MinProgress || progress > model.MaxProgress {
		return ValidationError{Field: "progress", Reason: fmt.Sprintf("must be between %d and %d", model.MinProgress, model.MaxProgress)}
	}
	body := progressRequest{Endpoint: "goal", ID: id, Progress: progress}
	return c.do(ctx, "set goal progress", http.MethodPut, nil, body, nil)
}

func (c *Client) AddGoal(ctx context.Context, title, category string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	body := addGoalRequest{Action: "add_goal", Title: title, Category: model.NormalizeCategory(category)}
	return c.do(ctx, "add goal", http.MethodPost, nil, body, nil)
}

func (c *Client) AddTask(ctx context.Context, title, at string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	at = strings.TrimSpace(at)
	if at == "" {
		at = model.DefaultTaskTime
	}
	if !model.ValidTime(at) {
		return ValidationError{Field: "time", Reason: "expected HH:MM"}
	}
	body := addTaskRequest{Action: "add_task", Title: title, Time: at}
	return c.do(ctx, "add task", http.MethodPost, nil, body, nil)
}

func (c *Client) endpointURL(q url.Values) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if len(q) > 0 {
		merged := u.Query()
		for k, vs := range q {
			merged[k] = vs
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, op, method string, q url.Values, body any, out any) error {
	target, err := c.endpointURL(q)
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return NetworkError{Op: op, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	c.Logger.Debug("remote request", "op", op, "method", method, "url", target, "request_id", reqID)
	resp, err := hc.Do(req)
	if err != nil {
		c.Logger.Debug("remote request failed", "op", op, "request_id", reqID, "error", err)
		return NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	if len(raw) > maxResponseBytes {
		return NetworkError{Op: op, Err: fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)}
	}
	c.Logger.Debug("remote response", "op", op, "request_id", reqID, "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := ServerError{Op: op, StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			se.Message = strings.TrimSpace(er.Error)
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
