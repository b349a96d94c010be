// Package ui is the terminal storefront: catalog grid with search, cart
// sidebar, login/register forms and checkout.
package ui

import (
	"strings"

	"qkart/storefront/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#00A278")
	Accent      = lipgloss.Color("#FFC107")
	Muted       = lipgloss.Color("#AAAAAA")
	Foreground  = lipgloss.Color("#3C3C3C")
	Destructive = lipgloss.Color("#E53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FF9800")
	Info        = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles used by every page
type Styles struct {
	Header     lipgloss.Style
	Title      lipgloss.Style
	Hero       lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Price      lipgloss.Style
	Rating     lipgloss.Style
	Panel      lipgloss.Style
	Total      lipgloss.Style
	Help       lipgloss.Style
	Notice     map[domain.NotificationLevel]lipgloss.Style
	FocusLabel lipgloss.Style
}

// DefaultStyles returns the storefront theme
func DefaultStyles() Styles {
	notice := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(c).Padding(0, 1)
	}

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Title:    lipgloss.NewStyle().Bold(true).Underline(true),
		Hero:     lipgloss.NewStyle().Foreground(Primary).Italic(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Muted:    lipgloss.NewStyle().Foreground(Muted),
		Price:    lipgloss.NewStyle().Bold(true),
		Rating:   lipgloss.NewStyle().Foreground(Accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1),
		Total: lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Help:  lipgloss.NewStyle().Foreground(Muted),
		Notice: map[domain.NotificationLevel]lipgloss.Style{
			domain.NotificationInfo:    notice(Info),
			domain.NotificationSuccess: notice(Success),
			domain.NotificationWarning: notice(Warning),
			domain.NotificationError:   notice(Destructive),
		},
		FocusLabel: lipgloss.NewStyle().Bold(true),
	}
}

// stars renders a 0-5 rating
func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func truncate(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l-3]) + "..."
	}
	return s
}
