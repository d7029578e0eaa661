package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/chazuruo/spurdeck/internal/spurs"
	"github.com/chazuruo/spurdeck/internal/testutil"
)

type posted struct {
	Message  string
	Severity Severity
}

type recordingSink struct {
	mu   sync.Mutex
	msgs []posted
}

func (s *recordingSink) Notify(message string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, posted{Message: message, Severity: severity})
}

func (s *recordingSink) All() []posted {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]posted, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func (s *recordingSink) Last() (posted, bool) {
	all := s.All()
	if len(all) == 0 {
		return posted{}, false
	}
	return all[len(all)-1], true
}

type fakePrefs struct {
	mu   sync.Mutex
	seen bool
	err  error
}

func (p *fakePrefs) HasSeenWelcome() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

func (p *fakePrefs) MarkWelcomeSeen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.seen = true
	return nil
}

var epoch = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func workflowAt(id string, minutes int) spurs.Workflow {
	return spurs.Workflow{
		ID:        id,
		Name:      "spur " + id,
		UpdatedAt: spurs.At(epoch.Add(time.Duration(minutes) * time.Minute)),
	}
}

// numbered returns n workflows with ids prefix-0..prefix-(n-1), newest first.
func numbered(prefix string, n int) []spurs.Workflow {
	out := make([]spurs.Workflow, n)
	for i := range out {
		out[i] = workflowAt(fmt.Sprintf("%s-%d", prefix, i), n-i)
	}
	return out
}

func runsFor(workflowID string, n int) []spurs.Run {
	out := make([]spurs.Run, n)
	for i := range out {
		out[i] = spurs.Run{ID: fmt.Sprintf("%s-run-%d", workflowID, i), WorkflowID: workflowID, Status: spurs.RunCompleted}
	}
	return out
}

// pages serves the given pages in order; pages past the end are empty.
func pages(ps ...[]spurs.Workflow) func(context.Context, int, int) ([]spurs.Workflow, error) {
	return func(_ context.Context, page, _ int) ([]spurs.Workflow, error) {
		if page < 1 || page > len(ps) {
			return []spurs.Workflow{}, nil
		}
		return ps[page-1], nil
	}
}

func pausedRun(runID string) spurs.PausedWorkflow {
	return spurs.PausedWorkflow{
		Run:      spurs.Run{ID: runID, WorkflowID: "wf-1", Status: spurs.RunPaused},
		Workflow: spurs.Workflow{ID: "wf-1", Name: "approvals"},
		CurrentPause: spurs.Pause{
			NodeID:  "human-1",
			Message: "approve the refund?",
		},
	}
}

type fixture struct {
	svc   *testutil.FakeService
	sink  *recordingSink
	clock *clock.Mock
	opts  Options
}

func newFixture() *fixture {
	clk := clock.NewMock()
	return &fixture{
		svc:   &testutil.FakeService{},
		sink:  &recordingSink{},
		clock: clk,
		opts:  Options{Clock: clk, UserID: "tester"},
	}
}

// blockUntilDone returns a function that signals started and then waits for
// ctx to end.
func blockUntilDone(started chan<- struct{}) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
}
