package listing

import "github.com/charmbracelet/lipgloss"

// Styles colours the tokens of a listing.
type Styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Index    lipgloss.Style // pool indices and program counters
	Tag      lipgloss.Style
	Name     lipgloss.Style
	Flags    lipgloss.Style
	Mnemonic lipgloss.Style
	Comment  lipgloss.Style
	Offset   lipgloss.Style
	Warning  lipgloss.Style
}

// DefaultStyles returns the colour scheme used on terminals.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Section:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Index:    lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		Name:     lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		Flags:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD580")),
		Mnemonic: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB")),
		Comment:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Offset:   lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain,
		Section:  plain,
		Index:    plain,
		Tag:      plain,
		Name:     plain,
		Flags:    plain,
		Mnemonic: plain,
		Comment:  plain,
		Offset:   plain,
		Warning:  plain,
	}
}
