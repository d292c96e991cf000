// Package api is the typed client for the remote task server. Mutating
// calls can fail two ways: a rejected request (transport or HTTP error) or
// a soft failure (Success=false with a message). Outcome folds both into a
// single shape so callers have one failure path.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskdeck/internal/task"
)

// Filter selects which task set a listing returns.
type Filter string

const (
	FilterActive   Filter = "active"
	FilterArchived Filter = "archived"
)

// Result is the server's response to a mutating action. Message, when
// present, is human-readable and shown to the user verbatim.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CommitLog is the response to a commit listing. Total can exceed
// len(Commits) when the server truncates the page.
type CommitLog struct {
	Total   int           `json:"total"`
	Commits []task.Commit `json:"commits"`
}

// BranchList is the response to a branch listing.
type BranchList struct {
	Branches []string `json:"branches"`
}

// MergeMethod selects how a task's commits land on the target branch.
type MergeMethod string

const (
	MergeCommit MergeMethod = "merge-commit"
	MergeSquash MergeMethod = "squash"
	MergeRebase MergeMethod = "rebase"
)

// Client is the remote task API. Every call is a network round trip; all
// methods take a context so callers can scope lifetimes.
type Client interface {
	ListProjects(ctx context.Context) ([]task.Project, error)
	ListTasks(ctx context.Context, projectID string, filter Filter) ([]task.Task, error)
	CreateTask(ctx context.Context, projectID, name, target, notes string) (task.Task, error)
	CommitTask(ctx context.Context, projectID, taskID, message string) (Result, error)
	SyncTask(ctx context.Context, projectID, taskID string) (Result, error)
	RebaseTask(ctx context.Context, projectID, taskID, newTarget string) (Result, error)
	GetCommits(ctx context.Context, projectID, taskID string) (CommitLog, error)
	MergeTask(ctx context.Context, projectID, taskID string, method MergeMethod) (Result, error)
	ResetTask(ctx context.Context, projectID, taskID string) (Result, error)
	ArchiveTask(ctx context.Context, projectID, taskID string) error
	RecoverTask(ctx context.Context, projectID, taskID string) error
	DeleteTask(ctx context.Context, projectID, taskID string) error
	GetBranches(ctx context.Context, projectID string) (BranchList, error)
	ChangedFiles(ctx context.Context, projectID, taskID string) ([]string, error)
}

// Outcome is the normalized result of a mutating call: success, or failure
// with a user-facing message.
type Outcome struct {
	OK      bool
	Message string
}

// Normalize folds (Result, error) into an Outcome. A server-supplied
// message always wins over the generic fallback "failed to <verb>".
func Normalize(verb string, res Result, err error) Outcome {
	if err != nil {
		return Outcome{OK: false, Message: messageOrFallback(errMessage(err), verb)}
	}
	if !res.Success {
		return Outcome{OK: false, Message: messageOrFallback(res.Message, verb)}
	}
	return Outcome{OK: true, Message: res.Message}
}

// NormalizeErr is Normalize for calls that return only an error.
func NormalizeErr(verb string, err error) Outcome {
	if err != nil {
		return Outcome{OK: false, Message: messageOrFallback(errMessage(err), verb)}
	}
	return Outcome{OK: true}
}

func messageOrFallback(msg, verb string) string {
	if strings.TrimSpace(msg) != "" {
		return msg
	}
	return "failed to " + verb
}

// ServerError is a rejected request carrying a structured cause. The
// optional Message comes from the server's error body.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// errMessage extracts a server-supplied message from an error, if any.
// Transport-level errors have none; their details go to the diagnostic
// channel, not the user.
func errMessage(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return ""
}
