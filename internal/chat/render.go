package chat

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mailpilot-ai/mailpilot/internal/gmail"
	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	mutedColor     = lipgloss.Color("#6B7280")
	accentColor    = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	successColor   = lipgloss.Color("#10B981")

	promptStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)
)

// renderer writes styled assistant output.
type renderer struct {
	out io.Writer
}

func (r *renderer) text(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	fmt.Fprintln(r.out, assistantStyle.Render(s))
}

func (r *renderer) info(s string) {
	fmt.Fprintln(r.out, mutedStyle.Render(s))
}

func (r *renderer) toolError(tool string, err error) {
	fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("✗ %s failed: %v", tool, err)))
}

func (r *renderer) error(err error) {
	fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("✗ %v", err)))
}

// toolResult renders one dispatched result. Warnings always print; the body
// depends on what the tool produced.
func (r *renderer) toolResult(res *tools.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintln(r.out, warnStyle.Render("⚠ "+w))
	}
	if res.Cancelled {
		fmt.Fprintln(r.out, warnStyle.Render(fmt.Sprintf("✗ %s cancelled, nothing was changed", res.Operation)))
		return
	}

	switch data := res.Data.(type) {
	case tools.SearchResult:
		r.renderSearch(data)
	case *gmail.Message:
		r.renderMessage(data)
	case tools.AttachmentResult:
		fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("✓ fetched attachment (%d bytes)", data.Size)))
	case tools.SendResult:
		fmt.Fprintln(r.out, successStyle.Render("✓ email sent")+mutedStyle.Render(" (id "+data.MessageID+")"))
	case tools.ModifyResult:
		if data.Affected == 0 {
			r.info("No messages were changed.")
			return
		}
		fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("✓ updated %d message(s)", data.Affected)))
	case *gmail.BatchResult:
		fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("✓ %s applied to %d message(s)", data.Operation, data.Affected)))
	case []*gmail.Label:
		r.renderLabels(data)
	case *gmail.Label:
		fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("✓ label %q created", data.Name)))
	case *gmail.FilterInfo:
		fmt.Fprintln(r.out, successStyle.Render("✓ filter created")+mutedStyle.Render(" (id "+data.ID+")"))
	case []*gmail.FilterInfo:
		r.renderFilters(data)
	case tools.DeletedFilter:
		fmt.Fprintln(r.out, successStyle.Render("✓ filter "+data.FilterID+" deleted"))
	default:
		fmt.Fprintln(r.out, successStyle.Render("✓ done"))
	}
}

func (r *renderer) renderSearch(data tools.SearchResult) {
	if data.Count == 0 {
		r.info(fmt.Sprintf("No messages match %q.", data.Query))
		return
	}
	fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("%d message(s) matching %q:", data.Count, data.Query)))
	for i, m := range data.Messages {
		line := fmt.Sprintf("%2d. %s", i+1, m.Subject)
		meta := fmt.Sprintf("  %s · %s", m.From, m.Date)
		fmt.Fprintln(r.out, assistantStyle.Render(line))
		fmt.Fprintln(r.out, mutedStyle.Render(meta))
	}
}

func (r *renderer) renderMessage(m *gmail.Message) {
	fmt.Fprintln(r.out, promptStyle.Render(m.Subject))
	fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("From: %s  Date: %s", m.From, m.Date)))
	body := m.Body
	if body == "" {
		body = m.Snippet
	}
	fmt.Fprintln(r.out, assistantStyle.Render(body))
	if len(m.Attachments) > 0 {
		names := make([]string, len(m.Attachments))
		for i, a := range m.Attachments {
			names[i] = a.Filename
		}
		fmt.Fprintln(r.out, mutedStyle.Render("Attachments: "+strings.Join(names, ", ")))
	}
}

func (r *renderer) renderLabels(labels []*gmail.Label) {
	if len(labels) == 0 {
		r.info("No labels.")
		return
	}
	for _, l := range labels {
		fmt.Fprintln(r.out, assistantStyle.Render("• "+l.Name)+mutedStyle.Render(" ("+l.ID+")"))
	}
}

func (r *renderer) renderFilters(filters []*gmail.FilterInfo) {
	if len(filters) == 0 {
		r.info("No filters.")
		return
	}
	for _, f := range filters {
		var crit []string
		if f.Criteria.From != "" {
			crit = append(crit, "from:"+f.Criteria.From)
		}
		if f.Criteria.To != "" {
			crit = append(crit, "to:"+f.Criteria.To)
		}
		if f.Criteria.Subject != "" {
			crit = append(crit, "subject:"+f.Criteria.Subject)
		}
		if f.Criteria.Query != "" {
			crit = append(crit, f.Criteria.Query)
		}
		fmt.Fprintln(r.out, assistantStyle.Render("• "+strings.Join(crit, " "))+mutedStyle.Render(" (id "+f.ID+")"))
	}
}
