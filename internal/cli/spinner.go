package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner is a stderr progress indicator shown around long pip invocations.
// All terminal writes happen in the animation goroutine, so no locking is
// needed; Stop blocks until the line is cleared.
type spinner struct {
	message string
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner begins animating message on stderr and returns a handle to
// stop it.
func startSpinner(message string) *spinner {
	s := &spinner{
		message: message,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.stopped)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			i++
		}
	}
}

// Stop halts the animation and clears the line. Safe to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}
