// Package spurs defines the data model exchanged with the workflow backend:
// workflows ("spurs"), their runs, paused runs awaiting a decision, templates
// and API key records.
package spurs

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageSize is the number of workflows requested per page.
const PageSize = 10

// MaxRecentRuns is the number of runs retained locally per workflow.
const MaxRecentRuns = 5

// SpurType distinguishes plain workflows from chatbots.
type SpurType string

const (
	SpurTypeWorkflow SpurType = "WORKFLOW"
	SpurTypeChatbot  SpurType = "CHATBOT"
)

// ParseSpurType parses a user supplied type name, case-insensitively.
// The empty string yields SpurTypeWorkflow.
func ParseSpurType(s string) (SpurType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(SpurTypeWorkflow):
		return SpurTypeWorkflow, nil
	case string(SpurTypeChatbot):
		return SpurTypeChatbot, nil
	default:
		return "", fmt.Errorf("unknown spur type %q (want workflow or chatbot)", s)
	}
}

// Label returns the display form of the type, e.g. "Workflow".
func (t SpurType) Label() string {
	if t == "" {
		t = SpurTypeWorkflow
	}
	return cases.Title(language.English).String(strings.ToLower(string(t)))
}

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunPending   RunStatus = "PENDING"
	RunRunning   RunStatus = "RUNNING"
	RunPaused    RunStatus = "PAUSED"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
	RunCanceled  RunStatus = "CANCELED"
)

// Terminal reports whether the run has finished.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunCanceled:
		return true
	}
	return false
}

// WorkflowDefinition is the graph a workflow executes. Nodes, links and test
// inputs are opaque to the dashboard and passed through unchanged.
type WorkflowDefinition struct {
	Nodes      []map[string]any `json:"nodes" yaml:"nodes"`
	Links      []map[string]any `json:"links" yaml:"links"`
	TestInputs []map[string]any `json:"test_inputs" yaml:"test_inputs"`
	SpurType   SpurType         `json:"spur_type,omitempty" yaml:"spur_type,omitempty"`
}

// EmptyDefinition returns a definition with no nodes for the given type.
// The slices are non-nil so they encode as [] rather than null.
func EmptyDefinition(t SpurType) WorkflowDefinition {
	return WorkflowDefinition{
		Nodes:      []map[string]any{},
		Links:      []map[string]any{},
		TestInputs: []map[string]any{},
		SpurType:   t,
	}
}

// Workflow is a saved workflow as returned by the backend.
type Workflow struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Definition  WorkflowDefinition `json:"definition" yaml:"definition"`
	CreatedAt   Timestamp          `json:"created_at" yaml:"created_at"`
	UpdatedAt   Timestamp          `json:"updated_at" yaml:"updated_at"`
}

// SpurType returns the workflow's type, defaulting to SpurTypeWorkflow.
func (w Workflow) SpurType() SpurType {
	if w.Definition.SpurType == "" {
		return SpurTypeWorkflow
	}
	return w.Definition.SpurType
}

// WorkflowCreateRequest is the payload for creating a workflow.
type WorkflowCreateRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Definition  WorkflowDefinition `json:"definition"`
}

// Validate checks that the request can be submitted.
func (r WorkflowCreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Run is a single execution of a workflow.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	WorkflowID string    `json:"workflow_id" yaml:"workflow_id"`
	Status     RunStatus `json:"status" yaml:"status"`
	StartTime  Timestamp `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime    Timestamp `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

// Pause describes where a paused run is waiting.
type Pause struct {
	NodeID    string    `json:"node_id" yaml:"node_id"`
	Message   string    `json:"message" yaml:"message"`
	PauseTime Timestamp `json:"pause_time" yaml:"pause_time"`
}

// PausedWorkflow is a run suspended at a human-in-the-loop node.
type PausedWorkflow struct {
	Run          Run      `json:"run" yaml:"run"`
	Workflow     Workflow `json:"workflow" yaml:"workflow"`
	CurrentPause Pause    `json:"current_pause" yaml:"current_pause"`
}

// RunID returns the id of the paused run, trimmed of whitespace.
func (p PausedWorkflow) RunID() string {
	return strings.TrimSpace(p.Run.ID)
}

// PauseAction is the decision taken on a paused run.
type PauseAction string

const (
	ActionApprove  PauseAction = "APPROVE"
	ActionDecline  PauseAction = "DECLINE"
	ActionOverride PauseAction = "OVERRIDE"
)

// ParsePauseAction parses an action name case-insensitively.
func ParsePauseAction(s string) (PauseAction, error) {
	a := PauseAction(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q (want approve, decline or override)", s)
	}
	return a, nil
}

// Valid reports whether a is one of the known actions.
func (a PauseAction) Valid() bool {
	switch a {
	case ActionApprove, ActionDecline, ActionOverride:
		return true
	}
	return false
}

// Quick reports whether a can be taken without a detailed form.
func (a PauseAction) Quick() bool {
	return a == ActionApprove || a == ActionDecline
}

// Past returns the past-tense verb for the action ("approved", "declined").
func (a PauseAction) Past() string {
	switch a {
	case ActionApprove:
		return "approved"
	case ActionDecline:
		return "declined"
	case ActionOverride:
		return "overridden"
	}
	return strings.ToLower(string(a))
}

// ResumeAction is the body sent when resuming a paused run.
type ResumeAction struct {
	Action   PauseAction    `json:"action"`
	Inputs   map[string]any `json:"inputs"`
	Comments string         `json:"comments"`
	UserID   string         `json:"user_id"`
}

// Template is a starter workflow offered by the backend.
type Template struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	FileName    string   `json:"file_name" yaml:"file_name"`
}

// APIKey is a named secret stored by the backend.
type APIKey struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Set reports whether the key has a non-blank value.
func (k APIKey) Set() bool {
	return strings.TrimSpace(k.Value) != ""
}

// Masked returns the value with all but the last four characters hidden.
func (k APIKey) Masked() string {
	v := strings.TrimSpace(k.Value)
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", 8) + v[len(v)-4:]
}

// PageCursor tracks pagination through the workflow list.
type PageCursor struct {
	Page    int
	HasMore bool
}

// Advance records that page returned n items.
func (c *PageCursor) Advance(page, n int) {
	if n == 0 {
		c.HasMore = false
		return
	}
	c.Page = page
	c.HasMore = n == PageSize
}
