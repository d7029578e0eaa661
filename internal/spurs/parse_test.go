package spurs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
)

var importTime = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func TestParseImport_Valid(t *testing.T) {
	raw := []byte(`{
		"name": "exported name is ignored",
		"description": "from a file",
		"definition": {"nodes": [{"id": "n1"}], "links": [], "test_inputs": [], "spur_type": "CHATBOT"}
	}`)

	req, err := ParseImport(raw, importTime)
	require.NoError(t, err)

	assert.Equal(t, "Imported Spur 10/16/2026, 9:00:00 AM", req.Name)
	assert.Equal(t, "from a file", req.Description)
	assert.Len(t, req.Definition.Nodes, 1)
	assert.Equal(t, SpurTypeChatbot, req.Definition.SpurType)
}

func TestParseImport_DescriptionOptional(t *testing.T) {
	req, err := ParseImport([]byte(`{"definition": {"nodes": []}}`), importTime)
	require.NoError(t, err)
	assert.Empty(t, req.Description)
}

func TestParseImport_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing definition", `{"description": "x"}`},
		{"null definition", `{"definition": null}`},
		{"array definition", `{"definition": []}`},
		{"string definition", `{"definition": "nodes"}`},
		{"not json", `definition: {}`},
		{"truncated", `{"definition": {"nodes": [`},
		{"empty", ``},
		{"wrong node shape", `{"definition": {"nodes": "n1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImport([]byte(tt.raw), importTime)
			require.Error(t, err)
			assert.True(t, deckerrors.IsParse(err), "want ErrParse, got %v", err)
		})
	}
}

func TestLoadImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spur.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"definition": {"nodes": []}}`), 0o644))

	req, err := LoadImportFile(path, importTime)
	require.NoError(t, err)
	assert.Equal(t, ImportedName(importTime), req.Name)

	_, err = LoadImportFile(filepath.Join(dir, "missing.json"), importTime)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadImport(t *testing.T) {
	_, err := ReadImport(strings.NewReader(`{"definition": 1}`), importTime)
	assert.True(t, deckerrors.IsParse(err))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Customer Support Bot", "customer-support-bot"},
		{"Fix: Bug #123!", "fix-bug-123"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"", ""},
		{strings.Repeat("word ", 20), "word-word-word-word-word-word-word-word-word-word"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "support-bot.json", FileName(Workflow{ID: "S1", Name: "Support Bot"}, "json"))
	assert.Equal(t, "s1.yaml", FileName(Workflow{ID: "S1", Name: "!!!"}, ".yaml"))
	assert.Equal(t, "spur.json", FileName(Workflow{}, "json"))
}
