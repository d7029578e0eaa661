// Package export renders a workflow as a portable document that import can
// read back, or as Markdown through a template.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Format represents the export format.
type Format string

const (
	// FormatJSON exports the import document as JSON.
	FormatJSON Format = "json"
	// FormatYAML exports the import document as YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown renders a human readable summary.
	FormatMarkdown Format = "md"
)

// ParseFormat parses a format name. The empty string yields FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Document is the exported form of a workflow.
type Document struct {
	Name        string                   `json:"name" yaml:"name"`
	Description string                   `json:"description" yaml:"description"`
	Definition  spurs.WorkflowDefinition `json:"definition" yaml:"definition"`
}

// NewDocument returns the exported form of wf.
func NewDocument(wf spurs.Workflow) Document {
	return Document{Name: wf.Name, Description: wf.Description, Definition: wf.Definition}
}

// Exporter exports workflows in one format.
type Exporter struct {
	format   Format
	outPath  string
	template *template.Template
}

// Options contains export options.
type Options struct {
	Format Format
	// Out is written after a successful export. Empty or "-" means stdout only.
	Out string
	// CustomTemplate replaces the built-in Markdown template.
	CustomTemplate string
}

// NewExporter creates a new exporter.
func NewExporter(opts Options) (*Exporter, error) {
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	e := &Exporter{format: format, outPath: opts.Out}

	switch format {
	case FormatJSON, FormatYAML:
		if opts.CustomTemplate != "" {
			return nil, fmt.Errorf("custom templates apply to %s only", FormatMarkdown)
		}
	case FormatMarkdown:
		tmpl, err := loadTemplate(opts.CustomTemplate)
		if err != nil {
			return nil, err
		}
		e.template = tmpl
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return e, nil
}

// Format returns the exporter's format.
func (e *Exporter) Format() Format {
	return e.format
}

// Export renders wf and writes it to the configured output path, if any.
func (e *Exporter) Export(wf spurs.Workflow) (string, error) {
	out, err := e.render(wf)
	if err != nil {
		return "", err
	}

	if e.outPath != "" && e.outPath != "-" {
		if err := os.WriteFile(e.outPath, []byte(out), 0o644); err != nil {
			return "", fmt.Errorf("writing output file: %w", err)
		}
	}

	return out, nil
}

// ExportToFile renders wf into path.
func (e *Exporter) ExportToFile(wf spurs.Workflow, path string) error {
	out, err := e.Export(wf)
	if err != nil {
		return err
	}

	if e.outPath == path {
		return nil
	}

	return os.WriteFile(path, []byte(out), 0o644)
}

// DefaultFileName is the file an export of wf is written to when no output
// path is given.
func (e *Exporter) DefaultFileName(wf spurs.Workflow) string {
	return spurs.FileName(wf, e.format.Ext())
}

func (e *Exporter) render(wf spurs.Workflow) (string, error) {
	doc := NewDocument(wf)

	switch e.format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding json: %w", err)
		}
		return string(data) + "\n", nil

	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.String(), nil

	default:
		var buf bytes.Buffer
		if err := e.template.Execute(&buf, templateData(wf)); err != nil {
			return "", fmt.Errorf("executing template: %w", err)
		}
		return buf.String(), nil
	}
}

// loadTemplate returns the Markdown template, custom if a path is given.
func loadTemplate(customPath string) (*template.Template, error) {
	if customPath == "" {
		return template.New("export").Parse(builtinMarkdownTemplate)
	}
	return parseTemplateFile(customPath)
}

// parseTemplateFile parses a template file. Relative names are looked up in
// ~/.config/spurdeck/templates/ before the working directory.
func parseTemplateFile(path string) (*template.Template, error) {
	if !filepath.IsAbs(path) {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".config", "spurdeck", "templates", filepath.Base(path))
			if _, err := os.Stat(configPath); err == nil {
				path = configPath
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}

	return template.New("export").Parse(string(data))
}

// templateData creates template data from a workflow.
func templateData(wf spurs.Workflow) map[string]interface{} {
	nodes := make([]map[string]interface{}, len(wf.Definition.Nodes))
	for i, n := range wf.Definition.Nodes {
		nodes[i] = map[string]interface{}{
			"index": i + 1,
			"id":    n["id"],
			"title": nodeTitle(n),
			"type":  n["node_type"],
		}
	}

	return map[string]interface{}{
		"ID":          wf.ID,
		"Name":        wf.Name,
		"Description": wf.Description,
		"Type":        wf.SpurType().Label(),
		"Nodes":       nodes,
		"LinkCount":   len(wf.Definition.Links),
		"InputCount":  len(wf.Definition.TestInputs),
		"UpdatedAt":   wf.UpdatedAt,
	}
}

func nodeTitle(n map[string]any) string {
	if cfg, ok := n["config"].(map[string]any); ok {
		if title, ok := cfg["title"].(string); ok && title != "" {
			return title
		}
	}
	if title, ok := n["title"].(string); ok {
		return title
	}
	return ""
}

// builtinMarkdownTemplate is the default Markdown template.
const builtinMarkdownTemplate = "# {{.Name}}\n\n{{if .ID}}**ID:** {{.ID}}  \n{{end}}**Type:** {{.Type}}\n{{if .Description}}\n{{.Description}}\n{{end}}\n## Nodes\n\n{{range .Nodes}}{{.index}}. {{if .title}}{{.title}}{{else}}{{.id}}{{end}}{{if .type}} ({{.type}}){{end}}\n{{else}}_No nodes._\n{{end}}\n**Links:** {{.LinkCount}}  \n**Test inputs:** {{.InputCount}}\n\n---\n*Generated by spurdeck*\n"
