package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

func TestAPIKeysLoad(t *testing.T) {
	f := newFixture()
	f.svc.ListAPIKeyNamesFunc = func(context.Context) ([]string, error) {
		return []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY"}, nil
	}
	f.svc.GetAPIKeyFunc = func(_ context.Context, name string) (*spurs.APIKey, error) {
		if name == "OPENAI_API_KEY" {
			return &spurs.APIKey{Name: name, Value: "sk-123456"}, nil
		}
		return &spurs.APIKey{Name: name}, nil
	}

	a := NewAPIKeys(f.svc, nil, f.opts)
	defer a.Close()

	assert.False(t, a.Status().Missing())
	require.NoError(t, a.Load(context.Background()))

	st := a.Status()
	require.Len(t, st.Keys, 2)
	assert.Equal(t, "OPENAI_API_KEY", st.Keys[0].Name)
	assert.False(t, st.Missing())

	calls := f.svc.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "ListAPIKeyNames", calls[0].Method)
	assert.Equal(t, []any{"OPENAI_API_KEY"}, calls[1].Args)
	assert.Equal(t, []any{"ANTHROPIC_API_KEY"}, calls[2].Args)
}

func TestAPIKeysMissing(t *testing.T) {
	tests := []struct {
		name   string
		status KeyStatus
		want   bool
	}{
		{"not loaded", KeyStatus{}, false},
		{"loading", KeyStatus{Loaded: true, Loading: true}, false},
		{"no keys", KeyStatus{Loaded: true}, true},
		{"all blank", KeyStatus{Loaded: true, Keys: []spurs.APIKey{{Name: "A"}, {Name: "B", Value: "  "}}}, true},
		{"one set", KeyStatus{Loaded: true, Keys: []spurs.APIKey{{Name: "A"}, {Name: "B", Value: "v"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Missing())
		})
	}
}

func TestAPIKeysFailureKeepsCache(t *testing.T) {
	f := newFixture()
	cache := &MemoryKeyCache{}
	cache.Store([]spurs.APIKey{{Name: "OLD", Value: "v"}})

	f.svc.ListAPIKeyNamesFunc = func(context.Context) ([]string, error) {
		return []string{"A", "B"}, nil
	}
	f.svc.GetAPIKeyFunc = func(_ context.Context, name string) (*spurs.APIKey, error) {
		if name == "B" {
			return nil, errors.New("forbidden")
		}
		return &spurs.APIKey{Name: name, Value: "x"}, nil
	}

	a := NewAPIKeys(f.svc, cache, f.opts)
	defer a.Close()
	require.Error(t, a.Load(context.Background()))

	keys, ok := cache.Keys()
	require.True(t, ok)
	assert.Equal(t, []spurs.APIKey{{Name: "OLD", Value: "v"}}, keys)
	assert.Empty(t, f.sink.All())
}
