package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toolate28/spiralsafe-mono/internal/model"
)

// Renderer writes LogEntry values to an output stream.
type Renderer interface {
	Render(entry model.LogEntry) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleStart   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	styleEnd     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red
	styleTool    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // blue
	styleNotify  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleOther   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
	styleSession = lipgloss.NewStyle().Foreground(lipgloss.Color("139")).Faint(true)
	styleData    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

// TextRenderer prints entries to the terminal with event-kind colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(entry model.LogEntry) error {
	tag := styleEventTag(entry.Event)
	sid := styleSession.Render(entry.SessionID)

	line := fmt.Sprintf("%s %s %s", entry.Timestamp, tag, sid)
	if summary := dataSummary(entry.Data); summary != "" {
		line += " " + styleData.Render(summary)
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleEventTag(event string) string {
	padded := fmt.Sprintf("%-16s", event)
	switch event {
	case model.EventSessionStart:
		return styleStart.Render(padded)
	case model.EventSessionEnd, model.EventStop:
		return styleEnd.Render(padded)
	case model.EventPreToolUse, model.EventPostToolUse:
		return styleTool.Render(padded)
	case model.EventNotification:
		return styleNotify.Render(padded)
	default:
		return styleOther.Render(padded)
	}
}

// dataSummary flattens the payload to stable key=value pairs.
func dataSummary(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) Render(entry model.LogEntry) error {
	return r.enc.Encode(entry)
}
