// Package task defines the client-side data model for worktree tasks.
// Tasks are owned by the server; the client never fabricates a status
// transition, it only reflects what the last refresh returned.
package task

import (
	"fmt"
	"time"
)

// Status is the server-authoritative lifecycle state of a task.
type Status string

const (
	StatusLive     Status = "live"
	StatusIdle     Status = "idle"
	StatusMerged   Status = "merged"
	StatusConflict Status = "conflict"
	StatusBroken   Status = "broken"
	StatusArchived Status = "archived"
)

// ParseStatus validates a status string received from the server.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusLive, StatusIdle, StatusMerged, StatusConflict, StatusBroken, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Commit is one entry in a task's commit log.
type Commit struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is the unit of work: a branch pair plus its lifecycle status.
type Task struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Branch       string    `json:"branch"` // source branch
	Target       string    `json:"target"` // target branch; always an existing branch in the project
	Status       Status    `json:"status"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	FilesChanged int       `json:"files_changed"`
	Commits      []Commit  `json:"commits,omitempty"`
	WorktreePath string    `json:"worktree_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Archived reports whether the task is in the archived set.
func (t Task) Archived() bool { return t.Status == StatusArchived }

// Broken reports whether the task's worktree is unusable.
func (t Task) Broken() bool { return t.Status == StatusBroken }

// Actionable reports whether git-like actions (sync, rebase, merge) may
// target this task. Archived and broken tasks are excluded.
func (t Task) Actionable() bool { return !t.Archived() && !t.Broken() }

// Project is a container of tasks scoped to one repository checkout.
type Project struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RepoPath      string `json:"repo_path"`
	CurrentBranch string `json:"current_branch"`
}

// FilterForBranch returns the tasks whose target equals branch. This is the
// default display filter: only tasks aimed at the project's current branch
// are shown, for both the active and the archived set.
func FilterForBranch(tasks []Task, branch string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Target == branch {
			out = append(out, t)
		}
	}
	return out
}

// IndexByID returns the index of the task with the given id, or -1.
func IndexByID(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
