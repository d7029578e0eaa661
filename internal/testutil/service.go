package testutil

import (
	"context"
	"sync"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Call records one invocation of a FakeService method.
type Call struct {
	Method string
	Args   []any
}

// FakeService is a scripted workflow backend. Each method delegates to the
// matching Func field when set and otherwise returns an empty success. Every
// call is recorded, including those that fail.
type FakeService struct {
	ListWorkflowsFunc       func(ctx context.Context, page, pageSize int) ([]spurs.Workflow, error)
	GetWorkflowFunc         func(ctx context.Context, id string) (*spurs.Workflow, error)
	ListRunsFunc            func(ctx context.Context, workflowID string) ([]spurs.Run, error)
	CreateWorkflowFunc      func(ctx context.Context, req spurs.WorkflowCreateRequest) (*spurs.Workflow, error)
	DeleteWorkflowFunc      func(ctx context.Context, id string) error
	DuplicateWorkflowFunc   func(ctx context.Context, id string) (*spurs.Workflow, error)
	ListPausedWorkflowsFunc func(ctx context.Context) ([]spurs.PausedWorkflow, error)
	TakePauseActionFunc     func(ctx context.Context, runID string, action spurs.ResumeAction) error
	CancelWorkflowFunc      func(ctx context.Context, runID string) error
	ListTemplatesFunc       func(ctx context.Context) ([]spurs.Template, error)
	InstantiateTemplateFunc func(ctx context.Context, tmpl spurs.Template) (*spurs.Workflow, error)
	ListAPIKeyNamesFunc     func(ctx context.Context) ([]string, error)
	GetAPIKeyFunc           func(ctx context.Context, name string) (*spurs.APIKey, error)

	mu    sync.Mutex
	calls []Call
}

// Calls returns every recorded call in order.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls to method.
func (f *FakeService) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times method was called.
func (f *FakeService) Count(method string) int {
	return len(f.CallsTo(method))
}

func (f *FakeService) record(method string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Args: args})
}

func (f *FakeService) ListWorkflows(ctx context.Context, page, pageSize int) ([]spurs.Workflow, error) {
	f.record("ListWorkflows", page, pageSize)
	if f.ListWorkflowsFunc != nil {
		return f.ListWorkflowsFunc(ctx, page, pageSize)
	}
	return []spurs.Workflow{}, nil
}

func (f *FakeService) GetWorkflow(ctx context.Context, id string) (*spurs.Workflow, error) {
	f.record("GetWorkflow", id)
	if f.GetWorkflowFunc != nil {
		return f.GetWorkflowFunc(ctx, id)
	}
	return &spurs.Workflow{ID: id}, nil
}

func (f *FakeService) ListRuns(ctx context.Context, workflowID string) ([]spurs.Run, error) {
	f.record("ListRuns", workflowID)
	if f.ListRunsFunc != nil {
		return f.ListRunsFunc(ctx, workflowID)
	}
	return []spurs.Run{}, nil
}

func (f *FakeService) CreateWorkflow(ctx context.Context, req spurs.WorkflowCreateRequest) (*spurs.Workflow, error) {
	f.record("CreateWorkflow", req)
	if f.CreateWorkflowFunc != nil {
		return f.CreateWorkflowFunc(ctx, req)
	}
	return &spurs.Workflow{ID: "created", Name: req.Name, Description: req.Description, Definition: req.Definition}, nil
}

func (f *FakeService) DeleteWorkflow(ctx context.Context, id string) error {
	f.record("DeleteWorkflow", id)
	if f.DeleteWorkflowFunc != nil {
		return f.DeleteWorkflowFunc(ctx, id)
	}
	return nil
}

func (f *FakeService) DuplicateWorkflow(ctx context.Context, id string) (*spurs.Workflow, error) {
	f.record("DuplicateWorkflow", id)
	if f.DuplicateWorkflowFunc != nil {
		return f.DuplicateWorkflowFunc(ctx, id)
	}
	return &spurs.Workflow{ID: id + "-copy"}, nil
}

func (f *FakeService) ListPausedWorkflows(ctx context.Context) ([]spurs.PausedWorkflow, error) {
	f.record("ListPausedWorkflows")
	if f.ListPausedWorkflowsFunc != nil {
		return f.ListPausedWorkflowsFunc(ctx)
	}
	return []spurs.PausedWorkflow{}, nil
}

func (f *FakeService) TakePauseAction(ctx context.Context, runID string, action spurs.ResumeAction) error {
	f.record("TakePauseAction", runID, action)
	if f.TakePauseActionFunc != nil {
		return f.TakePauseActionFunc(ctx, runID, action)
	}
	return nil
}

func (f *FakeService) CancelWorkflow(ctx context.Context, runID string) error {
	f.record("CancelWorkflow", runID)
	if f.CancelWorkflowFunc != nil {
		return f.CancelWorkflowFunc(ctx, runID)
	}
	return nil
}

func (f *FakeService) ListTemplates(ctx context.Context) ([]spurs.Template, error) {
	f.record("ListTemplates")
	if f.ListTemplatesFunc != nil {
		return f.ListTemplatesFunc(ctx)
	}
	return []spurs.Template{}, nil
}

func (f *FakeService) InstantiateTemplate(ctx context.Context, tmpl spurs.Template) (*spurs.Workflow, error) {
	f.record("InstantiateTemplate", tmpl)
	if f.InstantiateTemplateFunc != nil {
		return f.InstantiateTemplateFunc(ctx, tmpl)
	}
	return &spurs.Workflow{ID: "from-" + tmpl.FileName, Name: tmpl.Name}, nil
}

func (f *FakeService) ListAPIKeyNames(ctx context.Context) ([]string, error) {
	f.record("ListAPIKeyNames")
	if f.ListAPIKeyNamesFunc != nil {
		return f.ListAPIKeyNamesFunc(ctx)
	}
	return []string{}, nil
}

func (f *FakeService) GetAPIKey(ctx context.Context, name string) (*spurs.APIKey, error) {
	f.record("GetAPIKey", name)
	if f.GetAPIKeyFunc != nil {
		return f.GetAPIKeyFunc(ctx, name)
	}
	return &spurs.APIKey{Name: name}, nil
}
