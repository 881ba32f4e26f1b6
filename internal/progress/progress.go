// Package progress provides progress indicators for long-running sync runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/klauern/slackmoji/internal/logging"
	"github.com/klauern/slackmoji/internal/ui"
)

// Bar wraps progressbar with slackmoji's UI and logging conventions.
// The zero-value checks make every method a no-op when the bar is hidden.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the total number of steps. Use -1 when the total is unknown
	// (the listing is lazy, so export never knows its total up front);
	// the bar renders as a spinner instead.
	Max int64
	// Description is the prefix text shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Enabled requests a visible bar. Even when set, the bar stays hidden
	// off-terminal, with colors disabled, or at debug log level.
	Enabled bool
}

// New creates a progress bar. When hidden, the start is logged at debug
// level instead.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: opts.Enabled && shouldShowProgress(opts.Writer),
		desc:    opts.Description,
	}

	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)

	return b
}

// Add increments the bar by n steps.
func (b *Bar) Add(n int) {
	if !b.enabled {
		return
	}
	_ = b.bar.Add(n)
}

// Describe updates the bar description.
func (b *Bar) Describe(desc string) {
	b.desc = desc
	if !b.enabled {
		return
	}
	b.bar.Describe(desc)
}

// Finish completes the bar, or logs completion when hidden.
func (b *Bar) Finish() {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return
	}
	_ = b.bar.Finish()
}

// shouldShowProgress reports whether a bar can be rendered on w without
// garbling other output.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false
	}
	// Debug logs and a live bar fight over the same stream.
	if logging.Default().Enabled(context.Background(), logging.LevelDebug) {
		return false
	}
	return true
}
