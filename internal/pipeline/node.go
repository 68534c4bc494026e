package pipeline

import (
	"context"
	"encoding/json"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/errors"
	"github.com/hunseop/automated-task-launcher/internal/log"
)

// SchemaProvider answers what inputs a task type needs
type SchemaProvider interface {
	TaskTypeInfo(ctx context.Context, taskType string) (*api.TaskTypeInfo, error)
}

// Executor performs a task's work on the backend
type Executor interface {
	UpdateTask(ctx context.Context, projectID, taskName string, values map[string]string, previousResult json.RawMessage) (*api.UpdateTaskResponse, error)
}

// ResultStore returns the persisted result payload of a task
type ResultStore interface {
	TaskResult(ctx context.Context, projectID, taskName string) (*api.TaskResultResponse, error)
}

// Restarter resets a terminal task back to Waiting
type Restarter interface {
	RestartTask(ctx context.Context, projectID, taskName string) error
}

// NodeState is the UI lifecycle state of one task node
type NodeState int

const (
	// StateCollapsed is the resting state; the node shows only name and status
	StateCollapsed NodeState = iota
	// StateAwaitingInput means the node is expanded with its form visible
	StateAwaitingInput
	// StateSubmitting means a submission is in flight; re-entry is blocked
	StateSubmitting
	// StateFailed means the last submission failed; the message is held for display
	StateFailed
)

// TaskNode wraps one task's lifecycle: schema fetch, auto-execute decision,
// submission, status transition, restart. Nodes hold a back-reference to
// their predecessor; ordering guards read the predecessor's live status.
type TaskNode struct {
	Task *api.Task
	Prev *TaskNode

	projectID string
	state     NodeState
	lastErr   string

	schema           *api.TaskSchema
	requiresPrevious bool
	schemaFetched    bool
	autoFired        bool

	values map[string]string

	logger *log.Logger
}

// NewNode creates a node for one task of a project
func NewNode(projectID string, task *api.Task, prev *TaskNode, logger *log.Logger) *TaskNode {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &TaskNode{
		Task:      task,
		Prev:      prev,
		projectID: projectID,
		values:    map[string]string{},
		logger:    logger,
	}
}

// State returns the node's current lifecycle state
func (n *TaskNode) State() NodeState { return n.state }

// LastError returns the captured message of the last failed submission
func (n *TaskNode) LastError() string { return n.lastErr }

// Schema returns the fetched input schema, nil until Expand succeeds
func (n *TaskNode) Schema() *api.TaskSchema { return n.schema }

// RequiresPrevious reports whether the task needs its predecessor's result
func (n *TaskNode) RequiresPrevious() bool { return n.requiresPrevious }

// Values returns the collected form values
func (n *TaskNode) Values() map[string]string { return n.values }

// SetValues replaces the collected form values
func (n *TaskNode) SetValues(values map[string]string) {
	if values == nil {
		values = map[string]string{}
	}
	n.values = values
}

// PredecessorCompleted reports whether the ordering guard is satisfied:
// true when there is no predecessor or the predecessor has completed.
func (n *TaskNode) PredecessorCompleted() bool {
	return n.Prev == nil || n.Prev.Task.Status == api.StatusCompleted
}

// Expand moves the node into AwaitingInput and fetches its input schema.
// A schema fetch failure degrades to "no input required": the error is
// logged, the node stays usable. The fetch happens once per activation;
// Collapse resets it.
func (n *TaskNode) Expand(ctx context.Context, schemas SchemaProvider) {
	if n.state == StateSubmitting {
		return
	}
	n.state = StateAwaitingInput

	if n.schemaFetched {
		return
	}
	n.schemaFetched = true
	n.autoFired = false

	info, err := schemas.TaskTypeInfo(ctx, n.Task.Type)
	if err != nil {
		n.logger.Warn("schema fetch failed, treating task as input-free",
			"task", n.Task.Name, "type", n.Task.Type, "error", err)
		n.schema = &api.TaskSchema{}
		return
	}
	n.requiresPrevious = info.RequiresPrevious
	if info.InputFormat != nil {
		n.schema = info.InputFormat
	} else {
		n.schema = &api.TaskSchema{}
	}
}

// Collapse returns the node to its resting state and resets the per-activation
// schema fetch so the next expand observes the current server-side truth.
func (n *TaskNode) Collapse() {
	if n.state == StateSubmitting {
		return
	}
	n.state = StateCollapsed
	n.schemaFetched = false
}

// ShouldAutoExecute reports whether the node proceeds without user input:
// the schema has zero fields and either no previous result is required or
// the predecessor already completed. It fires at most once per schema fetch.
func (n *TaskNode) ShouldAutoExecute() bool {
	if n.state != StateAwaitingInput || n.autoFired || n.schema == nil {
		return false
	}
	if len(n.schema.Fields) > 0 {
		return false
	}
	if n.requiresPrevious && !n.PredecessorCompleted() {
		return false
	}
	n.autoFired = true
	return true
}

// CanSubmit reports whether Continue is enabled: no submission in flight,
// not in the failed state, and the predecessor guard satisfied when the task
// requires a previous result.
func (n *TaskNode) CanSubmit() bool {
	if n.state == StateSubmitting || n.state == StateFailed {
		return false
	}
	if n.requiresPrevious && !n.PredecessorCompleted() {
		return false
	}
	return true
}

// AcknowledgeError dismisses a failed submission and returns to AwaitingInput
func (n *TaskNode) AcknowledgeError() {
	if n.state == StateFailed {
		n.state = StateAwaitingInput
	}
}

// Submit sends the collected values and the predecessor's result to the
// executor. A failure captures the message and leaves the cached task
// untouched; only a successful response mutates status.
func (n *TaskNode) Submit(ctx context.Context, exec Executor, store ResultStore) (*api.UpdateTaskResponse, error) {
	if !n.CanSubmit() {
		if n.requiresPrevious && !n.PredecessorCompleted() {
			return nil, errors.NewPredecessorWaitingError(n.Task.Name, n.predecessorName())
		}
		return nil, errors.New(errors.ErrCodeTaskInFlight,
			"a submission for this task is already in flight")
	}

	var previous json.RawMessage
	if n.requiresPrevious {
		prev, err := store.TaskResult(ctx, n.projectID, n.predecessorName())
		if err != nil {
			// Without the predecessor's result the executor must not be called.
			return nil, errors.Wrap(errors.ErrCodeResultFetch,
				"fetch previous task result", err)
		}
		previous = api.PreviousResult(prev.Result)
	}

	n.state = StateSubmitting
	resp, err := exec.UpdateTask(ctx, n.projectID, n.Task.Name, n.values, previous)
	if err != nil {
		n.state = StateFailed
		n.lastErr = err.Error()
		return nil, errors.Wrap(errors.ErrCodeTaskSubmitFailed, n.Task.Name, err)
	}

	n.lastErr = ""
	if resp.Task != nil {
		n.Task.Status = resp.Task.Status
	}
	if n.Task.Status == api.StatusCompleted {
		n.Collapse()
	} else {
		n.state = StateAwaitingInput
	}
	return resp, nil
}

// Restart resets a terminal task back to Waiting. On success the local
// status, collected values and error state are cleared; the node is ready to
// re-enter AwaitingInput.
func (n *TaskNode) Restart(ctx context.Context, restarter Restarter) error {
	if !n.Task.Status.Terminal() {
		return errors.NewRestartNotAllowedError(n.Task.Name)
	}

	if err := restarter.RestartTask(ctx, n.projectID, n.Task.Name); err != nil {
		return errors.Wrap(errors.ErrCodeTaskRestartFailed, n.Task.Name, err)
	}

	n.Task.Status = api.StatusWaiting
	n.Task.Result = nil
	n.values = map[string]string{}
	n.lastErr = ""
	n.state = StateCollapsed
	n.schemaFetched = false
	n.autoFired = false
	return nil
}

func (n *TaskNode) predecessorName() string {
	if n.Prev == nil {
		return ""
	}
	return n.Prev.Task.Name
}
