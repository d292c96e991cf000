package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the shared lipgloss styles for the workspace chrome.
var Styles = struct {
	Title        lipgloss.Style
	Header       lipgloss.Style
	Selected     lipgloss.Style
	Normal       lipgloss.Style
	Dim          lipgloss.Style
	StatusLive   lipgloss.Style
	StatusBad    lipgloss.Style
	StatusMerged lipgloss.Style
	Toast        lipgloss.Style
	ToastError   lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	InlineError  lipgloss.Style
}{
	Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
	Header:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Selected:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	Normal:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	Dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	StatusLive:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	StatusBad:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	StatusMerged: lipgloss.NewStyle().Foreground(lipgloss.Color("105")),
	Toast:        lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	ToastError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	TabActive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
	TabInactive:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	InlineError:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}
