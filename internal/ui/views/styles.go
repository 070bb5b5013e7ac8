package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	SelectionBg   lipgloss.Style
	Crumb         lipgloss.Style
	CrumbCurrent  lipgloss.Style
	TocPane       lipgloss.Style
	TocCurrent    lipgloss.Style
	Group         lipgloss.Style
	Card          lipgloss.Style
	More          lipgloss.Style
	Prompt        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Crumb:         lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		CrumbCurrent:  lipgloss.NewStyle().Bold(true),
		TocPane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")),
		TocCurrent: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Group:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Card:       lipgloss.NewStyle().Bold(true),
		More:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Italic(true),
		Prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
