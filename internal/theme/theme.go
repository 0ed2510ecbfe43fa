package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	// SelectedItemBlurred marks the highlight of a pane without focus.
	SelectedItemBlurred *lipgloss.Style

	Border        *lipgloss.Style
	FocusedBorder *lipgloss.Style
	PaneTitle     *lipgloss.Style
	FocusedTitle  *lipgloss.Style
	PaneInfo      *lipgloss.Style

	DetailLabel *lipgloss.Style
	DetailValue *lipgloss.Style
	MessageBody *lipgloss.Style

	Header  *lipgloss.Style
	AppMode *lipgloss.Style
	Footer  *lipgloss.Style
	Status  *lipgloss.Style
	Pending *lipgloss.Style
	Warning *lipgloss.Style
	Error   *lipgloss.Style
	Info    *lipgloss.Style

	Prompt *lipgloss.Style
	Input  *lipgloss.Style
	Cursor *lipgloss.Style
}

var defaultStyles = Styles{
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	SelectedItemBlurred: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
	),
	Border: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	FocusedBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	PaneTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	FocusedTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	PaneInfo: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	DetailLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	DetailValue: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	MessageBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	AppMode: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Bold(true).Padding(0, 1),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Pending: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Warning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Input: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Render applies style to text, tolerating a nil style.
func Render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
