// Package tui implements the interactive batch download progress interface.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/waverip-cli/waverip/download"
	"github.com/waverip-cli/waverip/source"
)

// Options configures a progress UI run.
type Options struct {
	Tracks          []*source.Track
	DownloadOptions download.Options
}

// Run downloads the given tracks while rendering live progress. It blocks
// until the batch finishes or the user cancels, and returns the batch result.
func Run(options *Options) (*download.BatchResult, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBubble(ctx, cancel, options)

	program := tea.NewProgram(b)
	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	return final.(*progressBubble).batch, nil
}
