package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	placeholderTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	placeholderDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// placeholderView is shown when a model has no view function. It prints
// the title and the window size, vertically centered.
func placeholderView(title string, width, height int) string {
	if width <= 0 || height <= 0 {
		return placeholderTitle.Render(title)
	}

	var lines []string
	topPad := (height - 2) / 2
	if topPad < 0 {
		topPad = 0
	}
	for i := 0; i < topPad; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, placeholderTitle.Render(title))
	if height > 1 {
		lines = append(lines, placeholderDim.Render(fmt.Sprintf("%dx%d", width, height)))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
