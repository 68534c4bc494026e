package pipeline

import (
	"context"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/log"
)

// Backend is the full set of backend capabilities the runner needs
type Backend interface {
	SchemaProvider
	Executor
	ResultStore
	Restarter
	Project(ctx context.Context, projectID string) (*api.Project, error)
}

// FormFiller collects input for one task from the user. The returned map is
// the flat field-name to value mapping submitted to the executor.
type FormFiller func(task *api.Task, schema *api.TaskSchema) (map[string]string, error)

// RetryPrompt asks whether a failed submission should be retried.
// It receives the user-facing message captured from the failure.
type RetryPrompt func(task *api.Task, message string) (bool, error)

// Runner walks a project's task list to completion: it expands the next
// actionable node, negotiates its input, submits, and reconciles against the
// authoritative project state after every mutating call.
type Runner struct {
	backend   Backend
	sequencer *Sequencer
	fill      FormFiller
	retry     RetryPrompt
	logger    *log.Logger
}

// NewRunner creates a runner over the given backend
func NewRunner(backend Backend, fill FormFiller, retry RetryPrompt, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Runner{
		backend:   backend,
		sequencer: NewSequencer(),
		fill:      fill,
		retry:     retry,
		logger:    logger,
	}
}

// BuildNodes wraps a project's tasks into linked nodes, each holding a
// back-reference to its predecessor.
func BuildNodes(project *api.Project, logger *log.Logger) []*TaskNode {
	nodes := make([]*TaskNode, 0, len(project.Tasks))
	var prev *TaskNode
	for i := range project.Tasks {
		node := NewNode(project.ID, &project.Tasks[i], prev, logger)
		nodes = append(nodes, node)
		prev = node
	}
	return nodes
}

// NextActionable returns the first node whose task has not completed, or nil
// when the whole pipeline is done.
func NextActionable(nodes []*TaskNode) *TaskNode {
	for _, n := range nodes {
		if n.Task.Status != api.StatusCompleted {
			return n
		}
	}
	return nil
}

// Run drives the project until every task completes, the user declines a
// retry, or the context is cancelled. It returns the final authoritative
// project state.
func (r *Runner) Run(ctx context.Context, projectID string) (*api.Project, error) {
	project, err := r.backend.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return project, err
		}

		nodes := BuildNodes(project, r.logger)
		node := NextActionable(nodes)
		if node == nil {
			r.logger.Info("project completed", "project", project.Name)
			return project, nil
		}

		done, err := r.step(ctx, node)
		if err != nil {
			return project, err
		}
		if !done {
			// Declined retry; hand the project back in its current state.
			return project, nil
		}

		// Refresh-after-write: the optimistic update above is replaced by
		// the authoritative state before the next step.
		project, err = r.backend.Project(ctx, projectID)
		if err != nil {
			return nil, err
		}

		if next, ok := r.sequencer.NextTask(node.Task.Name); ok {
			r.logger.Debug("advancing", "completed", node.Task.Name, "next", next)
		}
	}
}

// step processes one task node: expand, collect input (or auto-execute),
// submit, and loop on failure while the user keeps retrying. It reports
// whether the pipeline should keep going.
func (r *Runner) step(ctx context.Context, node *TaskNode) (bool, error) {
	node.Expand(ctx, r.backend)

	for {
		values := map[string]string{}
		if !node.ShouldAutoExecute() {
			collected, err := r.fill(node.Task, node.Schema())
			if err != nil {
				return false, err
			}
			values = collected
		} else {
			r.logger.Info("auto-executing", "task", node.Task.Name)
		}
		node.SetValues(values)

		_, err := node.Submit(ctx, r.backend, r.backend)
		if err == nil {
			return true, nil
		}

		message := node.LastError()
		if message == "" {
			message = err.Error()
		}
		node.AcknowledgeError()

		again, perr := r.retry(node.Task, message)
		if perr != nil {
			return false, perr
		}
		if !again {
			return false, nil
		}
	}
}
