package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent    = lipgloss.Color("#E5A00D")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	ItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	LinkStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Italic(true)

	BulletStyle = lipgloss.NewStyle().
			Foreground(Accent)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)
)

// Raw bullet character (unstyled)
const BulletChar = "●"
