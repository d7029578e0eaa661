package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

// ListWorkflows returns one page of saved workflows.
func (c *Client) ListWorkflows(ctx context.Context, page, pageSize int) ([]spurs.Workflow, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var resp []spurs.Workflow
	if err := c.get(ctx, "/wf/", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetWorkflow fetches a single workflow including its definition.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*spurs.Workflow, error) {
	var resp spurs.Workflow
	if err := c.get(ctx, "/wf/"+url.PathEscape(id)+"/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRuns returns the runs of a workflow, newest first.
func (c *Client) ListRuns(ctx context.Context, workflowID string) ([]spurs.Run, error) {
	var resp []spurs.Run
	if err := c.get(ctx, "/wf/"+url.PathEscape(workflowID)+"/runs/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateWorkflow submits a new workflow.
func (c *Client) CreateWorkflow(ctx context.Context, req spurs.WorkflowCreateRequest) (*spurs.Workflow, error) {
	var resp spurs.Workflow
	if err := c.post(ctx, "/wf/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteWorkflow deletes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.delete(ctx, "/wf/"+url.PathEscape(id)+"/")
}

// DuplicateWorkflow asks the backend to copy a workflow and returns the copy.
func (c *Client) DuplicateWorkflow(ctx context.Context, id string) (*spurs.Workflow, error) {
	var resp spurs.Workflow
	if err := c.post(ctx, "/wf/"+url.PathEscape(id)+"/duplicate/", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPausedWorkflows returns every run waiting on a human decision.
func (c *Client) ListPausedWorkflows(ctx context.Context) ([]spurs.PausedWorkflow, error) {
	var resp []spurs.PausedWorkflow
	if err := c.get(ctx, "/wf/paused_workflows/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TakePauseAction resumes a paused run with the given decision.
func (c *Client) TakePauseAction(ctx context.Context, runID string, action spurs.ResumeAction) error {
	if action.Inputs == nil {
		action.Inputs = map[string]any{}
	}
	return c.post(ctx, "/wf/process_pause_action/"+url.PathEscape(runID)+"/", action, nil)
}

// CancelWorkflow cancels a run.
func (c *Client) CancelWorkflow(ctx context.Context, runID string) error {
	return c.post(ctx, "/wf/cancel_workflow/"+url.PathEscape(runID)+"/", struct{}{}, nil)
}

// ListTemplates returns the starter templates.
func (c *Client) ListTemplates(ctx context.Context) ([]spurs.Template, error) {
	var resp []spurs.Template
	if err := c.get(ctx, "/templates/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// InstantiateTemplate creates a workflow from a template.
func (c *Client) InstantiateTemplate(ctx context.Context, tmpl spurs.Template) (*spurs.Workflow, error) {
	var resp spurs.Workflow
	if err := c.post(ctx, "/templates/instantiate/", tmpl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAPIKeyNames returns the names of the stored API keys.
func (c *Client) ListAPIKeyNames(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.get(ctx, "/env-mgmt/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAPIKey fetches one API key record.
func (c *Client) GetAPIKey(ctx context.Context, name string) (*spurs.APIKey, error) {
	var resp spurs.APIKey
	if err := c.get(ctx, "/env-mgmt/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Name == "" {
		resp.Name = name
	}
	return &resp, nil
}
