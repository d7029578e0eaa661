package spurs

import (
	"fmt"
	"strings"
	"time"
)

// NameLayout is the timestamp layout appended to generated workflow names.
const NameLayout = "1/2/2006, 3:04:05 PM"

// NewName returns the name given to a freshly created workflow,
// e.g. "New Chatbot 10/16/2026, 2:03:04 PM".
func NewName(t SpurType, now time.Time) string {
	return fmt.Sprintf("New %s %s", t.Label(), now.Format(NameLayout))
}

// ImportedName returns the name given to an imported workflow.
func ImportedName(now time.Time) string {
	return fmt.Sprintf("Imported Spur %s", now.Format(NameLayout))
}

// NewCreateRequest builds the request used to create an empty workflow.
func NewCreateRequest(t SpurType, now time.Time) WorkflowCreateRequest {
	return WorkflowCreateRequest{
		Name:       NewName(t, now),
		Definition: EmptyDefinition(t),
	}
}

// QuickComment is the comment attached to a quick approve or decline.
func QuickComment(a PauseAction) string {
	return fmt.Sprintf("Quick %s from dashboard", strings.ToLower(string(a)))
}
