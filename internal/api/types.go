package api

import (
	"encoding/json"
)

// Status is a lifecycle state shared by tasks and projects.
// The backend owns these values; the client never invents new ones.
type Status string

const (
	StatusWaiting    Status = "Waiting"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusError      Status = "Error"
)

// Terminal reports whether the status allows a restart
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Task is one step of a project. Its position in the project's task list
// defines its predecessor.
type Task struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	Status    Status  `json:"status"`
	Result    *Result `json:"result,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// Project is a pipeline run over an ordered task sequence
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    Status `json:"status"`
	Tasks     []Task `json:"tasks"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DerivedStatus computes the project status from its tasks: Completed only
// when every task completed, Error when any task errored, Waiting otherwise.
// The cached server status stays authoritative; this exists for display
// between a mutation and its refresh.
func (p *Project) DerivedStatus() Status {
	if len(p.Tasks) == 0 {
		return StatusWaiting
	}
	completed := 0
	for _, t := range p.Tasks {
		switch t.Status {
		case StatusError:
			return StatusError
		case StatusCompleted:
			completed++
		}
	}
	if completed == len(p.Tasks) {
		return StatusCompleted
	}
	return StatusWaiting
}

// Type returns the project's type identifier, taken from its first task
func (p *Project) Type() string {
	if len(p.Tasks) == 0 {
		return ""
	}
	return p.Tasks[0].Type
}

// FieldOption is one choice of a select field
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one typed input control of a task schema
type Field struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"` // text, password, select, textarea
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []FieldOption `json:"options,omitempty"`
}

// TaskSchema is the server-declared description of a task's inputs
type TaskSchema struct {
	Fields []Field `json:"fields"`
}

// TaskTypeInfo is the response of GET /task-type-info/{type}
type TaskTypeInfo struct {
	InputFormat      *TaskSchema `json:"input_format,omitempty"`
	RequiresPrevious bool        `json:"requires_previous,omitempty"`
}

// FieldList returns the schema's field list, tolerating an absent schema
func (i *TaskTypeInfo) FieldList() []Field {
	if i == nil || i.InputFormat == nil {
		return nil
	}
	return i.InputFormat.Fields
}

// ResultKind tags the shape of a result payload
type ResultKind string

const (
	ResultKindPolicy ResultKind = "policy"
	ResultKindText   ResultKind = "text"
	ResultKindJSON   ResultKind = "json"
)

// Result is the payload a completed task or project produces, tagged by shape
type Result struct {
	Type ResultKind      `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PolicyRows decodes the data of a policy result into row objects.
// The payload is either a bare array or an object wrapping one under a
// "policies" key; anything else normalizes to an empty slice, never an error.
func (r *Result) PolicyRows() []map[string]any {
	if r == nil || len(r.Data) == 0 {
		return nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(r.Data, &rows); err == nil {
		return rows
	}

	var wrapper struct {
		Policies []map[string]any `json:"policies"`
	}
	if err := json.Unmarshal(r.Data, &wrapper); err == nil {
		return wrapper.Policies
	}

	return nil
}

// Text decodes the data of a text result; non-string payloads render raw
func (r *Result) Text() string {
	if r == nil || len(r.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Data, &s); err == nil {
		return s
	}
	return string(r.Data)
}

// PrettyJSON renders the data payload indented for the structured dump view
func (r *Result) PrettyJSON() string {
	if r == nil || len(r.Data) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(r.Data, &v); err != nil {
		return string(r.Data)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(r.Data)
	}
	return string(out)
}

// PreviousResult projects a stored result payload into the shape passed to
// the executor as previous_result: the {success, data, message} sub-shape
// when present, otherwise the payload untouched.
func PreviousResult(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}

	var full map[string]json.RawMessage
	if err := json.Unmarshal(raw, &full); err != nil {
		return raw
	}
	if _, ok := full["success"]; !ok {
		return raw
	}

	projected := make(map[string]json.RawMessage, 3)
	for _, key := range []string{"success", "data", "message"} {
		if v, ok := full[key]; ok {
			projected[key] = v
		}
	}
	out, err := json.Marshal(projected)
	if err != nil {
		return raw
	}
	return out
}

// ProjectType is one entry of GET /project-types
type ProjectType struct {
	Name  string `json:"name"`
	Tasks []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"tasks"`
}

// TaskResultResponse is the response of GET /task-result/{id}/{name}
type TaskResultResponse struct {
	TaskName string          `json:"task_name"`
	Status   Status          `json:"status"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// ProjectResultResponse is the response of GET /project-result/{id}
type ProjectResultResponse struct {
	Result *Result `json:"result,omitempty"`
}

// UpdateTaskResponse is the response of POST /update-task
type UpdateTaskResponse struct {
	Message string `json:"message,omitempty"`
	Task    *struct {
		Name   string          `json:"name"`
		Status Status          `json:"status"`
		Result json.RawMessage `json:"result,omitempty"`
	} `json:"task,omitempty"`
	Project *struct {
		ID     string `json:"id"`
		Status Status `json:"status"`
	} `json:"project,omitempty"`
}
