package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerOutput receives spinner frames. Command results go to output, so
// piping them stays clean.
var spinnerOutput io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// withSpinner runs fn and animates a spinner labelled message until it
// returns. Nothing is drawn if fn finishes within one frame, and the
// line is cleared before withSpinner returns.
func withSpinner(ctx context.Context, message string, fn func(context.Context) error) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		spin(stop, message)
	}()

	err := fn(ctx)
	close(stop)
	wg.Wait()
	return err
}

func spin(stop <-chan struct{}, message string) {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	drawn := false
	for i := 0; ; i++ {
		select {
		case <-stop:
			if drawn {
				blank := strings.Repeat(" ", lipgloss.Width(message)+2)
				fmt.Fprintf(spinnerOutput, "\r%s\r", blank)
			}
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(spinnerOutput, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(message))
			drawn = true
		}
	}
}
