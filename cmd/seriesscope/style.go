package main

import "github.com/charmbracelet/lipgloss"

var (
	appStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	offStyle    = mutedStyle
	inputStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	plotStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	columnStyle = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = columnStyle.Background(lipgloss.Color("#3a3a3a")).Foreground(lipgloss.Color("#e0e0e0"))
)
