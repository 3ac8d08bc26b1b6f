// Package client talks to the Worldbook API and renders what it returns.
//
// Output goes through a Printer, which is fixed to one mode for the whole
// invocation: indented JSON documents, or free-form text that may be styled
// when stdout is a terminal.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Error codes written in the "error" field of JSON error documents.
const (
	ErrorCodeNotFound         = "not_found"
	ErrorCodeConnectionFailed = "connection_failed"
)

// ErrorOutput is the JSON document written for a failed command. Error holds
// either an error code or, for generic failures, the error message.
type ErrorOutput struct {
	Error   string `json:"error"`
	Service string `json:"service,omitempty"`
	Query   string `json:"query,omitempty"`
}

// Printer writes command output in the mode chosen at startup.
type Printer struct {
	out        io.Writer
	jsonOutput bool
	heading    lipgloss.Style
	muted      lipgloss.Style
	styled     bool
}

// NewPrinter creates a printer. Styling only applies in text mode and only
// when styled is true.
func NewPrinter(out io.Writer, jsonOutput, styled bool) *Printer {
	renderer := lipgloss.NewRenderer(out)
	return &Printer{
		out:        out,
		jsonOutput: jsonOutput,
		styled:     styled && !jsonOutput,
		heading:    renderer.NewStyle().Bold(true),
		muted:      renderer.NewStyle().Faint(true),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// JSON writes v as an indented JSON document.
func (p *Printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// RawJSON re-indents a JSON body received from the API and writes it.
func (p *Printer) RawJSON(body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := p.out.Write(buf.Bytes())
	return err
}

// Error writes an error document in JSON mode, or text in text mode.
func (p *Printer) Error(doc ErrorOutput, text string) error {
	if p.jsonOutput {
		return p.JSON(doc)
	}
	return p.Line(text)
}

// Line writes s followed by a newline.
func (p *Printer) Line(s string) error {
	_, err := fmt.Fprintln(p.out, s)
	return err
}

// Heading renders s in bold when styling is enabled.
func (p *Printer) Heading(s string) string {
	if !p.styled || s == "" {
		return s
	}
	return p.heading.Render(s)
}

// Muted renders s dimmed when styling is enabled.
func (p *Printer) Muted(s string) string {
	if !p.styled || s == "" {
		return s
	}
	return p.muted.Render(s)
}
