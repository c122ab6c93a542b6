package styles

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tablero/internal/config"
)

var (
	// Board layout
	ColumnWidth      = 28
	ColumnStyle      lipgloss.Style
	ColumnTitleStyle lipgloss.Style
	CardStyle        lipgloss.Style
	DraggedCardStyle lipgloss.Style

	// Single card view
	CardDetailWidth = 80
	CardDetailStyle lipgloss.Style

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // field labels like "Column:"
	ValueStyle    lipgloss.Style

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
)

func init() {
	Init(config.DefaultTheme())
}

// Init initializes all CLI styles with the given theme
func Init(theme config.Theme) {
	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColumnBorder)).
		Padding(0, 1).
		Width(ColumnWidth)

	ColumnTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title)).
		MarginBottom(1)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.CardBorder)).
		Foreground(lipgloss.Color(theme.Normal)).
		Width(ColumnWidth - 4)

	DraggedCardStyle = CardStyle.
		BorderForeground(lipgloss.Color(theme.Accent)).
		Bold(true)

	CardDetailStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(CardDetailWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.InfoFg)).
		Background(lipgloss.Color(theme.InfoBg)).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.ErrorFg)).
		Background(lipgloss.Color(theme.ErrorBg)).
		Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.WarningFg)).
		Background(lipgloss.Color(theme.WarningBg)).
		Padding(0, 1)
}
