package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/waverip-cli/waverip/download"
	"github.com/waverip-cli/waverip/source"
)

// progressMsg reports one finished batch item.
type progressMsg struct {
	completed int
	total     int
	label     string
}

// batchDoneMsg carries the final batch result into the event loop.
type batchDoneMsg struct {
	batch *download.BatchResult
}

// progressBubble tracks the state of one batch download run.
type progressBubble struct {
	ctx    context.Context
	cancel context.CancelFunc

	session *download.Session
	tracks  []*source.Track

	spinnerC  spinner.Model
	progressC progress.Model

	completed int
	total     int
	lastLabel string

	cancelling bool
	batch      *download.BatchResult

	progressChannel chan progressMsg
	doneChannel     chan *download.BatchResult

	width, height int
}

func newBubble(ctx context.Context, cancel context.CancelFunc, options *Options) *progressBubble {
	spinnerC := spinner.New()
	spinnerC.Spinner = spinner.Dot

	return &progressBubble{
		ctx:             ctx,
		cancel:          cancel,
		session:         download.NewSession(options.DownloadOptions),
		tracks:          options.Tracks,
		spinnerC:        spinnerC,
		progressC:       progress.New(progress.WithDefaultGradient()),
		total:           len(options.Tracks),
		progressChannel: make(chan progressMsg, len(options.Tracks)),
		doneChannel:     make(chan *download.BatchResult, 1),
	}
}

func (b *progressBubble) Init() tea.Cmd {
	return tea.Batch(
		b.spinnerC.Tick,
		b.startBatch(),
		b.waitForProgress(),
		b.waitForDone(),
	)
}

// startBatch launches the download batch on its own goroutine. The bubble
// receives completion through the channels, never by sharing state.
func (b *progressBubble) startBatch() tea.Cmd {
	return func() tea.Msg {
		batch := b.session.Batch(b.ctx, b.tracks, func(completed, total int, label string) {
			b.progressChannel <- progressMsg{completed: completed, total: total, label: label}
		})
		b.doneChannel <- batch
		return nil
	}
}

func (b *progressBubble) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		return <-b.progressChannel
	}
}

func (b *progressBubble) waitForDone() tea.Cmd {
	return func() tea.Msg {
		return batchDoneMsg{batch: <-b.doneChannel}
	}
}

func (b *progressBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.progressC.Width = msg.Width - 8
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// First press cancels cooperatively; in-flight jobs run their
			// cleanup before the batch returns.
			b.cancelling = true
			b.cancel()
			return b, nil
		}
		return b, nil

	case progressMsg:
		b.completed = msg.completed
		b.lastLabel = msg.label
		cmd := b.progressC.SetPercent(float64(msg.completed) / float64(msg.total))
		return b, tea.Batch(cmd, b.waitForProgress())

	case batchDoneMsg:
		b.batch = msg.batch
		return b, tea.Quit

	case progress.FrameMsg:
		model, cmd := b.progressC.Update(msg)
		b.progressC = model.(progress.Model)
		return b, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, nil
}
