package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// spinnerFrames is the Braille animation cycle; spinnerInterval paces it.
var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner renders an animated progress line on stderr while a slow
// registry operation runs. Stopping is idempotent, and cancelling the
// parent context aborts the animation on its own.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// newSpinnerWithContext creates a spinner that stops when ctx ends or
// Stop is called, whichever comes first.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     ctx,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the animation goroutine.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.erase()
			return
		case <-s.stop:
			return
		case <-ticker.C:
			glyph := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)])
			fmt.Fprintf(s.out, "\r%s %s", glyph, StyleDim.Render(s.message))
		}
	}
}

// Stop ends the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	s.erase()
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(format string, args ...any) {
	s.Stop()
	printSuccess(format, args...)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(format string, args ...any) {
	s.Stop()
	printError(format, args...)
}

// Cancelled reports whether the parent context ended the animation.
func (s *Spinner) Cancelled() bool { return s.ctx.Err() != nil }

func (s *Spinner) erase() {
	fmt.Fprintf(s.out, "\r%*s\r", len(s.message)+2, "")
}
