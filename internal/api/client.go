package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/log"
)

// Client talks to the task launcher backend over HTTP.
// Non-2xx responses carry {"detail": "..."}; that string is surfaced verbatim
// as the user-facing message.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// errorResponse is the backend's error envelope
type errorResponse struct {
	Detail string `json:"detail"`
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger overrides the client's logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a backend client for the given base URL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeAPIBaseURL, "backend base URL is empty").
			WithSuggestion("Set base_url in ~/.atl/config.yaml or the ATL_BASE_URL environment variable")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Projects lists all projects, newest first (server-side ordering)
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches a single project by id from the authoritative list
func (c *Client) Project(ctx context.Context, projectID string) (*Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == projectID {
			return &projects[i], nil
		}
	}
	return nil, errors.NewProjectNotFoundError(projectID)
}

// ProjectTypes lists the known project templates
func (c *Client) ProjectTypes(ctx context.Context) ([]ProjectType, error) {
	var types []ProjectType
	if err := c.do(ctx, http.MethodGet, "/project-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// CreateProjectRequest is the body of POST /projects
type CreateProjectRequest struct {
	Name  string `json:"name"`
	Tasks []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"tasks"`
}

// CreateProject creates a project from a template
func (c *Client) CreateProject(ctx context.Context, name string, template ProjectType) error {
	req := CreateProjectRequest{Name: name}
	req.Tasks = template.Tasks
	return c.do(ctx, http.MethodPost, "/projects", req, nil)
}

// DeleteProject deletes a project and all of its tasks
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/delete-project/"+url.PathEscape(projectID), nil, nil)
}

// TaskTypeInfo fetches the input schema and flags for a task type
func (c *Client) TaskTypeInfo(ctx context.Context, taskType string) (*TaskTypeInfo, error) {
	var info TaskTypeInfo
	if err := c.do(ctx, http.MethodGet, "/task-type-info/"+url.PathEscape(taskType), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// TaskResult fetches the persisted result payload of a task
func (c *Client) TaskResult(ctx context.Context, projectID, taskName string) (*TaskResultResponse, error) {
	path := fmt.Sprintf("/task-result/%s/%s", url.PathEscape(projectID), url.PathEscape(taskName))
	var resp TaskResultResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask submits a task's collected input together with the previous
// task's result. The form values are flattened into the request body next to
// project_id/task_name, matching the backend contract.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskName string, values map[string]string, previousResult json.RawMessage) (*UpdateTaskResponse, error) {
	body := map[string]any{
		"project_id": projectID,
		"task_name":  taskName,
	}
	if len(previousResult) > 0 {
		body["previous_result"] = json.RawMessage(previousResult)
	}
	for k, v := range values {
		body[k] = v
	}

	var resp UpdateTaskResponse
	if err := c.do(ctx, http.MethodPost, "/update-task", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RestartTask resets a terminal task back to Waiting on the server
func (c *Client) RestartTask(ctx context.Context, projectID, taskName string) error {
	path := fmt.Sprintf("/restart-task/%s/%s", url.PathEscape(projectID), url.PathEscape(taskName))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// ProjectResult fetches the stored result of a completed project
func (c *Client) ProjectResult(ctx context.Context, projectID string) (*Result, error) {
	var resp ProjectResultResponse
	if err := c.do(ctx, http.MethodGet, "/project-result/"+url.PathEscape(projectID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// do performs one request/response round trip. Every request carries a fresh
// X-Request-ID so a submission attempt can be correlated with backend logs.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeAPIRequest, "marshal request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequest, "create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("backend request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequest, fmt.Sprintf("%s %s", method, path), err).
			WithSuggestion("Check that the backend is running and base_url is correct")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequest, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(respBody))
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
			detail = errResp.Detail
		}
		c.logger.Debug("backend error", "status", resp.StatusCode, "detail", detail, "request_id", requestID)
		return errors.New(errors.ErrCodeAPIStatus, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(errors.ErrCodeAPIDecode, fmt.Sprintf("decode %s response", path), err)
	}
	return nil
}
