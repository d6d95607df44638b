package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"xqlint/internal/pipeline"
)

// Run renders progress on out until events is closed.
func Run(title string, files []string, events <-chan pipeline.Event, out io.Writer) error {
	p := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}
