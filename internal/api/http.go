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

	"taskdeck/internal/task"
)

// HTTPClient talks JSON over REST to the task server.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the server at baseURL. The underlying
// http.Client has no timeout; callers bound calls with contexts.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]task.Project, error) {
	var out []task.Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out)
	return out, err
}

func (c *HTTPClient) ListTasks(ctx context.Context, projectID string, filter Filter) ([]task.Task, error) {
	var out []task.Task
	p := fmt.Sprintf("/api/projects/%s/tasks?filter=%s", url.PathEscape(projectID), url.QueryEscape(string(filter)))
	err := c.do(ctx, http.MethodGet, p, nil, &out)
	return out, err
}

func (c *HTTPClient) CreateTask(ctx context.Context, projectID, name, target, notes string) (task.Task, error) {
	body := map[string]string{"name": name, "target": target}
	if notes != "" {
		body["notes"] = notes
	}
	var out task.Task
	err := c.do(ctx, http.MethodPost, c.taskPath(projectID, ""), body, &out)
	return out, err
}

func (c *HTTPClient) CommitTask(ctx context.Context, projectID, taskID, message string) (Result, error) {
	return c.action(ctx, projectID, taskID, "commit", map[string]string{"message": message})
}

func (c *HTTPClient) SyncTask(ctx context.Context, projectID, taskID string) (Result, error) {
	return c.action(ctx, projectID, taskID, "sync", nil)
}

func (c *HTTPClient) RebaseTask(ctx context.Context, projectID, taskID, newTarget string) (Result, error) {
	return c.action(ctx, projectID, taskID, "rebase", map[string]string{"target": newTarget})
}

func (c *HTTPClient) GetCommits(ctx context.Context, projectID, taskID string) (CommitLog, error) {
	var out CommitLog
	err := c.do(ctx, http.MethodGet, c.taskPath(projectID, taskID)+"/commits", nil, &out)
	return out, err
}

func (c *HTTPClient) MergeTask(ctx context.Context, projectID, taskID string, method MergeMethod) (Result, error) {
	return c.action(ctx, projectID, taskID, "merge", map[string]string{"method": string(method)})
}

func (c *HTTPClient) ResetTask(ctx context.Context, projectID, taskID string) (Result, error) {
	return c.action(ctx, projectID, taskID, "reset", nil)
}

func (c *HTTPClient) ArchiveTask(ctx context.Context, projectID, taskID string) error {
	return c.do(ctx, http.MethodPost, c.taskPath(projectID, taskID)+"/archive", nil, nil)
}

func (c *HTTPClient) RecoverTask(ctx context.Context, projectID, taskID string) error {
	return c.do(ctx, http.MethodPost, c.taskPath(projectID, taskID)+"/recover", nil, nil)
}

func (c *HTTPClient) DeleteTask(ctx context.Context, projectID, taskID string) error {
	return c.do(ctx, http.MethodDelete, c.taskPath(projectID, taskID), nil, nil)
}

func (c *HTTPClient) GetBranches(ctx context.Context, projectID string) (BranchList, error) {
	var out BranchList
	err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/branches", nil, &out)
	return out, err
}

func (c *HTTPClient) ChangedFiles(ctx context.Context, projectID, taskID string) ([]string, error) {
	var out struct {
		Files []string `json:"files"`
	}
	err := c.do(ctx, http.MethodGet, c.taskPath(projectID, taskID)+"/files", nil, &out)
	return out.Files, err
}

// action POSTs a task action and decodes the Result body. Soft failures
// (Success=false) come back as a Result with a nil error.
func (c *HTTPClient) action(ctx context.Context, projectID, taskID, verb string, body any) (Result, error) {
	var out Result
	err := c.do(ctx, http.MethodPost, c.taskPath(projectID, taskID)+"/"+verb, body, &out)
	return out, err
}

func (c *HTTPClient) taskPath(projectID, taskID string) string {
	p := "/api/projects/" + url.PathEscape(projectID) + "/tasks"
	if taskID != "" {
		p += "/" + url.PathEscape(taskID)
	}
	return p
}

// do issues one request. Non-2xx responses become *ServerError; the error
// body's "message" field, when decodable, rides along for the UI.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &ServerError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if data, rerr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); rerr == nil {
			if json.Unmarshal(data, &errBody) == nil {
				se.Message = errBody.Message
			}
		}
		return se
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
