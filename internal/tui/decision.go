package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

// DecisionInput holds the values collected by the decision form.
type DecisionInput struct {
	Action   string
	Inputs   string
	Comments string
}

// Parse validates the collected values.
func (d DecisionInput) Parse() (spurs.PauseAction, map[string]any, error) {
	action, err := spurs.ParsePauseAction(d.Action)
	if err != nil {
		return "", nil, err
	}
	inputs, err := ParseInputs(d.Inputs)
	if err != nil {
		return "", nil, err
	}
	return action, inputs, nil
}

// ParseInputs decodes a JSON object of decision inputs. Blank input yields an
// empty map.
func ParseInputs(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var inputs map[string]any
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, fmt.Errorf("inputs must be a JSON object: %w", err)
	}
	if inputs == nil {
		inputs = map[string]any{}
	}
	return inputs, nil
}

// NewDecisionForm builds the form used to resume pw. Values are written to in.
func NewDecisionForm(pw spurs.PausedWorkflow, in *DecisionInput) *huh.Form {
	if in.Action == "" {
		in.Action = string(spurs.ActionApprove)
	}

	title := pw.Workflow.Name
	if title == "" {
		title = pw.Run.WorkflowID
	}
	desc := pw.CurrentPause.Message
	if desc == "" {
		desc = fmt.Sprintf("Run %s is waiting at node %s", pw.RunID(), pw.CurrentPause.NodeID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(title).
				Description(desc),
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Approve", string(spurs.ActionApprove)),
					huh.NewOption("Decline", string(spurs.ActionDecline)),
					huh.NewOption("Override", string(spurs.ActionOverride)),
				).
				Value(&in.Action),
			huh.NewText().
				Title("Inputs (JSON object)").
				Placeholder(`{"approved_amount": 40}`).
				Validate(func(s string) error {
					_, err := ParseInputs(s)
					return err
				}).
				Value(&in.Inputs),
			huh.NewInput().
				Title("Comments").
				Value(&in.Comments),
		),
	).WithShowHelp(true)
}
