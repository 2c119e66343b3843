package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Rail   RailTheme
	Form   FormTheme
}

// FooterTheme groups styles used by the bottom status/pagination bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Pager  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Faint lipgloss.Style
}

// RailTheme styles the progress rail on the detail pane.
type RailTheme struct {
	Completed lipgloss.Style
	Active    lipgloss.Style
	Pending   lipgloss.Style
}

// FormTheme styles the vehicle confirmation overlay.
type FormTheme struct {
	Frame      lipgloss.Style
	Title      lipgloss.Style
	Label      lipgloss.Style
	FieldError lipgloss.Style
	Warning    lipgloss.Style
	Hint       lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Pager:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
		Panel: PanelTheme{
			Frame: frame,
			Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Body:  lipgloss.NewStyle(),
			Faint: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Rail: RailTheme{
			Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
			Active:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
			Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
		Form: FormTheme{
			Frame:      frame.BorderForeground(lipgloss.Color("212")),
			Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Label:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			FieldError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			Hint:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		},
	}
}
