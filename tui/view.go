package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/waverip-cli/waverip/icon"
	"github.com/waverip-cli/waverip/style"
	"github.com/waverip-cli/waverip/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *progressBubble) View() string {
	var lines []string

	lines = append(lines, style.Title("Downloading"), "")
	lines = append(lines, b.progressC.View(), "")

	switch {
	case b.cancelling:
		lines = append(lines, fmt.Sprintf("%s Cancelling, waiting for running downloads to clean up...", icon.Get(icon.Fail)))
	case b.completed < b.total:
		status := fmt.Sprintf(
			"%s %d of %s",
			b.spinnerC.View(),
			b.completed,
			util.Quantify(b.total, "track", "tracks"),
		)
		if b.lastLabel != "" {
			status += " " + style.Faint(b.truncate(b.lastLabel))
		}
		lines = append(lines, status)
	default:
		lines = append(lines, fmt.Sprintf("%s Finishing up...", b.spinnerC.View()))
	}

	lines = append(lines, "", style.Faint("Press q to cancel"))
	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *progressBubble) truncate(s string) string {
	if b.width <= 10 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width-10), "...")
}
