package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/medimind/mindline/pkg/chat"
	"github.com/medimind/mindline/pkg/stream"
)

// Lipgloss styles for transcript rendering outside the full-screen UI
// (the one-shot ask command and transcript dumps).
var (
	userLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true)
	bannerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	answerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	filesStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("122")).Faint(true)
)

// RenderMessage formats one conversation turn for plain terminal output.
func RenderMessage(m chat.Message) string {
	var b strings.Builder

	switch {
	case m.IsUser():
		b.WriteString(userLabelStyle.Render("you") + "  " + m.Content)
	default:
		b.WriteString(assistantLabelStyle.Render("mindline") + "\n")
		for i, line := range strings.Split(m.Content, "\n") {
			if i > 0 {
				b.WriteString("\n")
			}
			if isBannerLine(line) {
				b.WriteString(bannerStyle.Render(line))
			} else {
				b.WriteString(answerStyle.Render(line))
			}
		}
		if m.FileCount > 0 {
			b.WriteString("\n" + filesStyle.Render(fmt.Sprintf("analyzed %d file(s): %s",
				m.FileCount, strings.Join(m.FilesAnalyzed, ", "))))
		}
	}

	return b.String()
}

// RenderTranscript formats a whole conversation snapshot.
func RenderTranscript(messages []chat.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, RenderMessage(m))
	}
	return strings.Join(parts, "\n\n")
}

func isBannerLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, stream.BannerMarker) || strings.HasPrefix(trimmed, stream.ProgressMarker)
}
