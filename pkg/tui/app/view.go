package teaui

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/dispatch/pkg/flow"
	"tableflip.dev/dispatch/pkg/paginate"
	"tableflip.dev/dispatch/pkg/tui/theme"
)

// View renders the current mode.
func (m Model) View() string {
	var body string
	switch m.mode {
	case modeDetail, modePrompt, modeReason:
		body = m.detailView()
	case modeConfirm:
		body = m.confirmView()
	default:
		body = m.listView()
	}
	return body + "\n" + m.footerView()
}

func (m Model) listView() string {
	view := m.list.View()
	strip := renderPageStrip(m.pager, m.theme)
	if strip != "" {
		view += "\n" + strip
	}
	return view
}

func (m Model) detailView() string {
	if m.detail == nil {
		return m.theme.Panel.Faint.Render("no task selected")
	}
	t := m.detail

	var b strings.Builder
	b.WriteString(m.theme.Panel.Title.Render(t.Title()) + "\n")
	b.WriteString(fmt.Sprintf("status: %s   track: %s\n", t.Status.Label(), t.Track))
	if t.CarrierCompany != "" {
		b.WriteString(m.theme.Panel.Faint.Render("carrier: "+t.CarrierCompany) + "\n")
	}
	if t.StartBureau != "" || t.EndBureau != "" {
		b.WriteString(m.theme.Panel.Faint.Render(fmt.Sprintf("route: %s → %s", t.StartBureau, t.EndBureau)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(renderRail(flow.Progress(t.Track, t.Status), m.theme))
	b.WriteString("\n")
	b.WriteString(renderActions(m.actions, m.theme))

	switch m.mode {
	case modePrompt:
		if m.pending != nil {
			b.WriteString("\n" + m.theme.Form.Warning.Render(m.pending.Label+"? (y/n)"))
		}
	case modeReason:
		b.WriteString("\n" + m.theme.Form.Label.Render("reason: ") + m.reason.View())
	}

	return m.theme.Panel.Frame.Render(b.String())
}

// renderRail draws the progress steps on one line.
func renderRail(steps []flow.Step, th theme.Theme) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		switch s.State {
		case flow.StepCompleted:
			parts = append(parts, th.Rail.Completed.Render("✔ "+s.Label))
		case flow.StepActive:
			parts = append(parts, th.Rail.Active.Render("▶ "+s.Label))
		default:
			parts = append(parts, th.Rail.Pending.Render("○ "+s.Label))
		}
	}
	return strings.Join(parts, th.Panel.Faint.Render(" ─ "))
}

// renderActions numbers the available actions, or shows the waiting
// placeholder when the caller has nothing to do.
func renderActions(actions []flow.Action, th theme.Theme) string {
	if len(actions) == 0 {
		return th.Panel.Faint.Render("waiting on the next handler")
	}
	parts := make([]string, 0, len(actions))
	for i, a := range actions {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, a.Label))
	}
	return strings.Join(parts, "  ")
}

func (m Model) confirmView() string {
	c := m.confirm
	var b strings.Builder
	b.WriteString(m.theme.Form.Title.Render("Confirm response") + "\n")
	if c.task != nil {
		required := "—"
		if c.task.Volume != nil {
			required = fmt.Sprintf("%.1fm³", *c.task.Volume)
		}
		b.WriteString(m.theme.Panel.Faint.Render(fmt.Sprintf("%s · required volume %s", c.task.TaskID, required)) + "\n")
	}
	b.WriteString("\n")

	for _, f := range c.order {
		in := c.inputs[f]
		b.WriteString(m.theme.Form.Label.Render(f.Label()+": ") + in.View() + "\n")
		if msg := c.errs[f]; msg != "" {
			b.WriteString(m.theme.Form.FieldError.Render("  "+msg) + "\n")
		}
	}
	b.WriteString(m.theme.Panel.Faint.Render(c.volumeLine()) + "\n")

	switch {
	case c.warnOpen && c.warning != nil:
		b.WriteString("\n" + m.theme.Form.Warning.Render(c.warning.Message()+" (y/n)"))
	case c.formErr != "":
		b.WriteString("\n" + m.theme.Form.FieldError.Render(c.formErr))
	case c.submitting:
		b.WriteString("\n" + m.theme.Form.Hint.Render("submitting…"))
	default:
		b.WriteString("\n" + m.theme.Form.Hint.Render("tab moves · enter submits · esc saves a draft"))
	}

	return m.theme.Form.Frame.Render(b.String())
}

// renderPageStrip draws the windowed page numbers under the list.
func renderPageStrip(info paginate.Info, th theme.Theme) string {
	if info.TotalPages <= 1 {
		return ""
	}
	numbers := paginate.PageNumbers(info.CurrentPage, info.TotalPages, paginate.DefaultMaxVisible)
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		switch {
		case n == paginate.Ellipsis:
			parts = append(parts, th.Footer.Pager.Render("…"))
		case n == info.CurrentPage:
			parts = append(parts, th.Rail.Active.Render("["+strconv.Itoa(n)+"]"))
		default:
			parts = append(parts, th.Footer.Pager.Render(strconv.Itoa(n)))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) footerView() string {
	left := m.status
	if m.loading {
		left = "loading…"
	}
	line := m.theme.Footer.Status.Render(left)
	if m.errLine != "" {
		line += "  " + m.theme.Footer.Error.Render(m.errLine)
	}
	if m.pager.TotalItems > 0 {
		line += "  " + m.theme.Footer.Pager.Render(
			fmt.Sprintf("page %d/%d · %d tasks", m.pager.CurrentPage, m.pager.TotalPages, m.pager.TotalItems))
	}
	if m.sess != nil {
		line += "  " + m.theme.Footer.Help.Render(fmt.Sprintf("%s (%s)", m.sess.User.Username, m.sess.Role()))
	}
	return line
}
