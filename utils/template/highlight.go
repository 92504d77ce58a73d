package template

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	plainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	directiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Highlight renders a token with ANSI colors for terminal previews:
// plain references cyan, directives yellow, malformed tokens bold red.
// Pass it to ExtractInputsRendered.
func Highlight(kind TokenKind, raw string) string {
	switch kind {
	case TokenDirective:
		return directiveStyle.Render(raw)
	case TokenError:
		return errorStyle.Render(raw)
	default:
		return plainStyle.Render(raw)
	}
}
