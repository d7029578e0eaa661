package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

func TestDashboardMount(t *testing.T) {
	f := newFixture()
	f.svc.ListWorkflowsFunc = pages([]spurs.Workflow{workflowAt("a", 1)})
	f.svc.ListPausedWorkflowsFunc = func(context.Context) ([]spurs.PausedWorkflow, error) {
		return []spurs.PausedWorkflow{pausedRun("r1")}, nil
	}
	f.svc.ListAPIKeyNamesFunc = func(context.Context) ([]string, error) {
		return []string{"OPENAI_API_KEY"}, nil
	}

	d := New(f.svc, nil, nil, f.opts)
	defer d.Close()
	require.NoError(t, d.Mount(context.Background()))

	assert.Len(t, d.Workflows.Snapshot().Workflows, 1)
	assert.Len(t, d.Paused.Snapshot().Paused, 1)
	assert.True(t, d.APIKeys.Status().Missing())
	assert.True(t, d.Templates.Snapshot().Loaded)
}

func TestDashboardMountReportsThroughNotifier(t *testing.T) {
	f := newFixture()
	f.svc.ListPausedWorkflowsFunc = func(context.Context) ([]spurs.PausedWorkflow, error) {
		return nil, errors.New("down")
	}

	d := New(f.svc, nil, nil, f.opts)
	defer d.Close()
	require.Error(t, d.Mount(context.Background()))

	cur, ok := d.Notifier.Current()
	require.True(t, ok)
	assert.Equal(t, MsgPausedLoadFailed, cur.Message)
	assert.True(t, d.Workflows.Snapshot().Loaded)
}

func TestDashboardClose(t *testing.T) {
	f := newFixture()
	d := New(f.svc, nil, nil, f.opts)
	d.Close()

	assert.True(t, deckerrors.IsDisposed(d.Workflows.Load(context.Background())))
	assert.True(t, deckerrors.IsDisposed(d.Paused.Refresh(context.Background())))
	assert.True(t, deckerrors.IsDisposed(d.Templates.Load(context.Background())))
	assert.True(t, deckerrors.IsDisposed(d.APIKeys.Load(context.Background())))
	assert.Empty(t, f.svc.Calls())
}
