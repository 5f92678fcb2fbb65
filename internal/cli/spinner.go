package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/footrule/pkg/hungarian"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner redraws a single status line on out (stderr by default) until it is
// stopped or its context ends. The line is "<frame> <label> <detail>", where
// detail follows the solver through Observe.
type Spinner struct {
	out   io.Writer
	label string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	detail  string
	drawn   int // width of the last line written
	started bool
	stopped chan struct{}
}

func newSpinner(label string) *Spinner {
	return newSpinnerWithContext(context.Background(), label)
}

// newSpinnerWithContext creates a spinner that clears itself when ctx ends.
func newSpinnerWithContext(ctx context.Context, label string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		label:   label,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. Calling it twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[frame%len(spinnerFrames)])
			}
		}
	}()
}

// Observe updates the detail text from a solver transition. It is safe to
// pass as pipeline.Options.Progress.
func (s *Spinner) Observe(e hungarian.Event) {
	var detail string
	switch e.State {
	case hungarian.StateReduced:
		detail = "reduced"
	case hungarian.StateAssigned:
		detail = fmt.Sprintf("assigned %d", e.Assigned)
	default:
		detail = fmt.Sprintf("round %d, %d matched", e.Round, e.Assigned)
	}
	s.mu.Lock()
	s.detail = detail
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It may be called repeatedly.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.stopped
	}
	s.clear()
}

// StopWithError stops the spinner and prints message as an error.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.label)
	width := len(s.label) + 2
	if s.detail != "" {
		line += " " + StyleNumber.Render(s.detail)
		width += len(s.detail) + 1
	}
	pad := max(s.drawn-width, 0)
	fmt.Fprintf(s.out, "\r%s%s", line, strings.Repeat(" ", pad))
	s.drawn = width
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.drawn))
	s.drawn = 0
}
