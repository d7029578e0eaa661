package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/spurdeck/internal/config"
	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

func TestListWorkflows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/wf/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		assert.Equal(t, "Bearer tok_123", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get(RequestIDHeader))

		_, _ = w.Write([]byte(`[
			{"id": "S1", "name": "one", "definition": {"nodes": [], "links": []}, "updated_at": "2026-10-01T10:00:00"},
			{"id": "S2", "name": "two", "definition": {"spur_type": "CHATBOT"}, "updated_at": "2026-10-02T10:00:00Z"}
		]`))
	}))
	defer server.Close()

	c := New(server.URL+"/api/", WithToken("tok_123"), WithRequestIDFunc(func() string { return "req-1" }))
	got, err := c.ListWorkflows(context.Background(), 2, spurs.PageSize)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "S1", got[0].ID)
	assert.Equal(t, spurs.SpurTypeChatbot, got[1].SpurType())
}

func TestRequestIDIsUniqueUUID(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListTemplates(context.Background())
	require.NoError(t, err)
	_, err = c.ListTemplates(context.Background())
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.Len(t, ids[0], 36)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := New(server.URL).ListPausedWorkflows(context.Background())
	require.NoError(t, err)
}

func TestEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var calls []call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.EscapedPath(), string(body)})

		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case strings.HasSuffix(r.URL.Path, "/runs/"):
			_, _ = w.Write([]byte(`[{"id": "R1", "workflow_id": "S1", "status": "COMPLETED"}]`))
		case r.URL.Path == "/env-mgmt/":
			_, _ = w.Write([]byte(`["OPENAI_API_KEY"]`))
		case strings.HasPrefix(r.URL.Path, "/env-mgmt/"):
			_, _ = w.Write([]byte(`{"value": "sk-1"}`))
		case strings.HasPrefix(r.URL.Path, "/wf/process_pause_action/"),
			strings.HasPrefix(r.URL.Path, "/wf/cancel_workflow/"):
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		default:
			_, _ = w.Write([]byte(`{"id": "S9", "name": "copy"}`))
		}
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	wf, err := c.GetWorkflow(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "S9", wf.ID)

	runs, err := c.ListRuns(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, spurs.RunCompleted, runs[0].Status)

	_, err = c.CreateWorkflow(ctx, spurs.NewCreateRequest(spurs.SpurTypeWorkflow, time.Now()))
	require.NoError(t, err)

	require.NoError(t, c.DeleteWorkflow(ctx, "S1"))

	dup, err := c.DuplicateWorkflow(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "copy", dup.Name)

	require.NoError(t, c.TakePauseAction(ctx, "R1", spurs.ResumeAction{Action: spurs.ActionApprove, UserID: "u"}))
	require.NoError(t, c.CancelWorkflow(ctx, "R1"))

	_, err = c.InstantiateTemplate(ctx, spurs.Template{Name: "Joke", FileName: "joke.json"})
	require.NoError(t, err)

	names, err := c.ListAPIKeyNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"OPENAI_API_KEY"}, names)

	key, err := c.GetAPIKey(ctx, "OPENAI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "OPENAI_API_KEY", key.Name)
	assert.Equal(t, "sk-1", key.Value)

	want := []struct{ method, path string }{
		{http.MethodGet, "/wf/S1/"},
		{http.MethodGet, "/wf/S1/runs/"},
		{http.MethodPost, "/wf/"},
		{http.MethodDelete, "/wf/S1/"},
		{http.MethodPost, "/wf/S1/duplicate/"},
		{http.MethodPost, "/wf/process_pause_action/R1/"},
		{http.MethodPost, "/wf/cancel_workflow/R1/"},
		{http.MethodPost, "/templates/instantiate/"},
		{http.MethodGet, "/env-mgmt/"},
		{http.MethodGet, "/env-mgmt/OPENAI_API_KEY"},
	}
	require.Len(t, calls, len(want))
	for i, w := range want {
		assert.Equal(t, w.method, calls[i].method, "call %d", i)
		assert.Equal(t, w.path, calls[i].path, "call %d", i)
	}

	var action map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[5].body), &action))
	assert.Equal(t, "APPROVE", action["action"])
	assert.Equal(t, map[string]any{}, action["inputs"], "nil inputs are sent as an empty object")

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[2].body), &created))
	assert.Contains(t, created["name"], "New Workflow")
}

func TestErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Workflow not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL).DuplicateWorkflow(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Workflow not found")
	assert.True(t, deckerrors.IsNetwork(err))
	assert.True(t, deckerrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "status 404")
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := New(server.URL).CancelWorkflow(context.Background(), "R1")
	assert.True(t, deckerrors.IsNetwork(err))
	assert.False(t, deckerrors.IsNotFound(err))
}

func TestTransportErrorIsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).ListWorkflows(context.Background(), 1, spurs.PageSize)
	require.Error(t, err)
	assert.True(t, deckerrors.IsNetwork(err))
}

func TestMalformedBodyIsParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).ListWorkflows(context.Background(), 1, spurs.PageSize)
	require.Error(t, err)
	assert.True(t, deckerrors.IsParse(err))
	assert.False(t, deckerrors.IsNetwork(err))
}

func TestOversizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseSize+1)))
	}))
	defer server.Close()

	_, err := New(server.URL).ListAPIKeyNames(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")
}

func TestRateLimitHonoursContext(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, WithRateLimit(0.001, 1))

	_, err := c.ListTemplates(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ListTemplates(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, int32(1), hits.Load())
}

func TestNewFromConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer from-env", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	t.Setenv("SPURDECK_TEST_TOKEN", "from-env")
	cfg := config.DefaultConfig().API
	cfg.BaseURL = server.URL
	cfg.TokenEnv = "SPURDECK_TEST_TOKEN"

	c := NewFromConfig(cfg, nil)
	assert.Equal(t, server.URL, c.BaseURL())

	_, err := c.ListTemplates(context.Background())
	require.NoError(t, err)
}
