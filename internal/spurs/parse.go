package spurs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
)

// ImportDocument is the on-disk form of an exported workflow. Only the
// definition is required; other fields such as an exported name are ignored
// on import.
type ImportDocument struct {
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Definition  json.RawMessage `json:"definition" yaml:"-"`
}

// ParseImport decodes raw JSON into a create request named for import at now.
//
// ParseImport never panics on malformed input. Every failure wraps
// errors.ErrParse.
//
// Parameters:
//   - raw: the JSON document
//   - now: the time used in the generated "Imported Spur" name
//
// Returns:
//   - WorkflowCreateRequest: the request to submit
//   - error: wraps ErrParse if the document is not JSON or has no object definition
func ParseImport(raw []byte, now time.Time) (WorkflowCreateRequest, error) {
	var doc ImportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return WorkflowCreateRequest{}, parseErr(err)
	}

	def := bytes.TrimSpace(doc.Definition)
	if len(def) == 0 || bytes.Equal(def, []byte("null")) {
		return WorkflowCreateRequest{}, parseErr(fmt.Errorf("missing definition"))
	}
	if def[0] != '{' {
		return WorkflowCreateRequest{}, parseErr(fmt.Errorf("definition must be an object"))
	}

	var definition WorkflowDefinition
	if err := json.Unmarshal(def, &definition); err != nil {
		return WorkflowCreateRequest{}, parseErr(err)
	}

	return WorkflowCreateRequest{
		Name:        ImportedName(now),
		Description: doc.Description,
		Definition:  definition,
	}, nil
}

// ReadImport reads an import document from r and parses it.
func ReadImport(r io.Reader, now time.Time) (WorkflowCreateRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return WorkflowCreateRequest{}, err
	}
	return ParseImport(data, now)
}

// LoadImportFile reads and parses the import document at path.
func LoadImportFile(path string, now time.Time) (WorkflowCreateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorkflowCreateRequest{}, err
	}
	return ParseImport(data, now)
}

func parseErr(err error) error {
	return fmt.Errorf("%w: %w", deckerrors.ErrParse, err)
}
