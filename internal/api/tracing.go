package api

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"taskdeck/internal/task"
)

// tracingClient wraps a Client so every call runs inside a span. Transport
// failures land on the span as error status; this is the client's
// diagnostic channel (spans are dropped when no exporter is configured).
type tracingClient struct {
	next   Client
	tracer oteltrace.Tracer
}

// WithTracing decorates c with per-call spans from tracer. A nil tracer
// returns c unchanged.
func WithTracing(c Client, tracer oteltrace.Tracer) Client {
	if tracer == nil {
		return c
	}
	return &tracingClient{next: c, tracer: tracer}
}

func (t *tracingClient) span(ctx context.Context, op, projectID, taskID string) (context.Context, oteltrace.Span) {
	attrs := []attribute.KeyValue{attribute.String("taskdeck.project.id", projectID)}
	if taskID != "" {
		attrs = append(attrs, attribute.String("taskdeck.task.id", taskID))
	}
	return t.tracer.Start(ctx, "taskdeck."+op, oteltrace.WithAttributes(attrs...))
}

func end(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *tracingClient) ListProjects(ctx context.Context) ([]task.Project, error) {
	ctx, span := t.span(ctx, "list_projects", "", "")
	out, err := t.next.ListProjects(ctx)
	end(span, err)
	return out, err
}

func (t *tracingClient) ListTasks(ctx context.Context, projectID string, filter Filter) ([]task.Task, error) {
	ctx, span := t.span(ctx, "list_tasks", projectID, "")
	span.SetAttributes(attribute.String("taskdeck.filter", string(filter)))
	out, err := t.next.ListTasks(ctx, projectID, filter)
	end(span, err)
	return out, err
}

func (t *tracingClient) CreateTask(ctx context.Context, projectID, name, target, notes string) (task.Task, error) {
	ctx, span := t.span(ctx, "create_task", projectID, "")
	out, err := t.next.CreateTask(ctx, projectID, name, target, notes)
	end(span, err)
	return out, err
}

func (t *tracingClient) CommitTask(ctx context.Context, projectID, taskID, message string) (Result, error) {
	ctx, span := t.span(ctx, "commit_task", projectID, taskID)
	out, err := t.next.CommitTask(ctx, projectID, taskID, message)
	end(span, err)
	return out, err
}

func (t *tracingClient) SyncTask(ctx context.Context, projectID, taskID string) (Result, error) {
	ctx, span := t.span(ctx, "sync_task", projectID, taskID)
	out, err := t.next.SyncTask(ctx, projectID, taskID)
	end(span, err)
	return out, err
}

func (t *tracingClient) RebaseTask(ctx context.Context, projectID, taskID, newTarget string) (Result, error) {
	ctx, span := t.span(ctx, "rebase_task", projectID, taskID)
	out, err := t.next.RebaseTask(ctx, projectID, taskID, newTarget)
	end(span, err)
	return out, err
}

func (t *tracingClient) GetCommits(ctx context.Context, projectID, taskID string) (CommitLog, error) {
	ctx, span := t.span(ctx, "get_commits", projectID, taskID)
	out, err := t.next.GetCommits(ctx, projectID, taskID)
	end(span, err)
	return out, err
}

func (t *tracingClient) MergeTask(ctx context.Context, projectID, taskID string, method MergeMethod) (Result, error) {
	ctx, span := t.span(ctx, "merge_task", projectID, taskID)
	span.SetAttributes(attribute.String("taskdeck.merge.method", string(method)))
	out, err := t.next.MergeTask(ctx, projectID, taskID, method)
	end(span, err)
	return out, err
}

func (t *tracingClient) ResetTask(ctx context.Context, projectID, taskID string) (Result, error) {
	ctx, span := t.span(ctx, "reset_task", projectID, taskID)
	out, err := t.next.ResetTask(ctx, projectID, taskID)
	end(span, err)
	return out, err
}

func (t *tracingClient) ArchiveTask(ctx context.Context, projectID, taskID string) error {
	ctx, span := t.span(ctx, "archive_task", projectID, taskID)
	err := t.next.ArchiveTask(ctx, projectID, taskID)
	end(span, err)
	return err
}

func (t *tracingClient) RecoverTask(ctx context.Context, projectID, taskID string) error {
	ctx, span := t.span(ctx, "recover_task", projectID, taskID)
	err := t.next.RecoverTask(ctx, projectID, taskID)
	end(span, err)
	return err
}

func (t *tracingClient) DeleteTask(ctx context.Context, projectID, taskID string) error {
	ctx, span := t.span(ctx, "delete_task", projectID, taskID)
	err := t.next.DeleteTask(ctx, projectID, taskID)
	end(span, err)
	return err
}

func (t *tracingClient) GetBranches(ctx context.Context, projectID string) (BranchList, error) {
	ctx, span := t.span(ctx, "get_branches", projectID, "")
	out, err := t.next.GetBranches(ctx, projectID)
	end(span, err)
	return out, err
}

func (t *tracingClient) ChangedFiles(ctx context.Context, projectID, taskID string) ([]string, error) {
	ctx, span := t.span(ctx, "changed_files", projectID, taskID)
	out, err := t.next.ChangedFiles(ctx, projectID, taskID)
	end(span, err)
	return out, err
}
