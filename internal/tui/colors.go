package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/prefs"
)

// Palette is the color set for one theme
type Palette struct {
	Border        string
	PrimaryText   string
	SecondaryText string
	DisabledText  string
	HelpText      string
	AccentMain    string
	AccentBright  string
	UserBubble    string
	Error         string
	Success       string
	Warning       string

	// Quadrant accents, indexed like models.Quadrants
	Quadrants [4]string
}

// Dark theme, the purple look the terminal app always had
var darkPalette = Palette{
	Border:        "#3A3F55", // Grey-blue
	PrimaryText:   "#E6EAF2",
	SecondaryText: "#B1B8C7",
	DisabledText:  "#6D7383",
	HelpText:      "240",
	AccentMain:    "#7C3AED",
	AccentBright:  "#A78BFA",
	UserBubble:    "#1B1530", // Dark purple
	Error:         "#EF4444",
	Success:       "#22C55E",
	Warning:       "#F59E0B",
	Quadrants:     [4]string{"#F87171", "#60A5FA", "#FBBF24", "#9CA3AF"},
}

var lightPalette = Palette{
	Border:        "#CBD5E1",
	PrimaryText:   "#1E293B",
	SecondaryText: "#475569",
	DisabledText:  "#94A3B8",
	HelpText:      "245",
	AccentMain:    "#3B82F6",
	AccentBright:  "#2563EB",
	UserBubble:    "#DBEAFE",
	Error:         "#DC2626",
	Success:       "#16A34A",
	Warning:       "#D97706",
	Quadrants:     [4]string{"#EF4444", "#3B82F6", "#F59E0B", "#64748B"},
}

// PaletteFor returns the colors of a theme
func PaletteFor(theme prefs.Theme) Palette {
	if theme == prefs.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// QuadrantColor is the accent of q, falling back to the border color
func (p Palette) QuadrantColor(q models.Quadrant) lipgloss.Color {
	if i := q.Index(); i >= 0 {
		return lipgloss.Color(p.Quadrants[i])
	}
	return lipgloss.Color(p.Border)
}

func (p Palette) fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}
