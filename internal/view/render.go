// Package view renders service data for the terminal: lipgloss tables for
// people, JSON or YAML for scripts.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: table, json, yaml)", s)
	}
}

// Table is one titled grid. Footer is printed under the grid when set.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string
}

type Renderer struct {
	out    io.Writer
	format Format

	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
	border lipgloss.Style
}

func NewRenderer(out io.Writer, format Format) *Renderer {
	lr := lipgloss.NewRenderer(out)
	return &Renderer{
		out:    out,
		format: format,
		title:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		header: lr.NewStyle().Bold(true).Padding(0, 1),
		cell:   lr.NewStyle().Padding(0, 1),
		muted:  lr.NewStyle().Foreground(lipgloss.Color("#6c7a89")),
		border: lr.NewStyle().Foreground(lipgloss.Color("#2a3850")),
	}
}

func (r *Renderer) Format() Format {
	return r.format
}

// Render writes data as JSON or YAML, or the tables in table format.
func (r *Renderer) Render(data any, tables ...Table) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		return r.yaml(data)
	}

	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(r.out); err != nil {
				return err
			}
		}
		if err := r.table(t); err != nil {
			return err
		}
	}
	return nil
}

// Message prints a status line. It goes through the structured encoders in
// json and yaml formats.
func (r *Renderer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if r.format != FormatTable {
		return r.Render(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func (r *Renderer) table(t Table) error {
	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(r.title.Render(t.Title))
		sb.WriteString("\n")
	}

	if len(t.Rows) == 0 {
		sb.WriteString(r.muted.Render("(none)"))
		sb.WriteString("\n")
	} else {
		grid := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(r.border).
			Headers(t.Headers...).
			Rows(t.Rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return r.header
				}
				return r.cell
			})
		sb.WriteString(grid.String())
		sb.WriteString("\n")
	}

	if t.Footer != "" {
		sb.WriteString(r.muted.Render(t.Footer))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(r.out, sb.String())
	return err
}

// yaml goes through JSON so field names and order follow the json tags.
func (r *Renderer) yaml(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
