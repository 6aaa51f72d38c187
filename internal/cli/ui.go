// The cli package provides the terminal presentation of a constant-extraction
// batch: a spinner with a progress bar while tasks run, and formatting helpers
// for durations, values and stability flags.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/hassecalc/internal/ui"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// CLIColorProvider implements apperrors.ColorProvider with the current theme.
type CLIColorProvider struct{}

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the reset escape code.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// Spinner is an interface that abstracts the behavior of a terminal spinner,
// so DisplayProgress can be tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressUpdate reports the completion level of one task in a batch.
type ProgressUpdate struct {
	// TaskIndex is the position of the task in the batch.
	TaskIndex int
	// Value is the completion level, 0.0 to 1.0.
	Value float64
}

// ProgressState aggregates the progress of the tasks of a batch.
type ProgressState struct {
	progresses []float64
}

// NewProgressState creates a ProgressState tracking numTasks tasks.
func NewProgressState(numTasks int) *ProgressState {
	return &ProgressState{progresses: make([]float64, max(numTasks, 0))}
}

// Update records a progress value for a task. Out-of-range indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress across all tasks.
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0.0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

// progressBar renders a textual progress bar of the given width.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress renders a spinner and an aggregated progress bar until
// progressChan is closed. It is designed to run in its own goroutine.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - numTasks: The number of tasks contributing to the progress.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer) {
	defer wg.Done()
	if numTasks <= 0 {
		for range progressChan { // Drain the channel
		}
		return
	}

	state := NewProgressState(numTasks)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				spinnerStopped = true
				fmt.Fprintf(out, "Extractions: %6.2f%% [%s] %d tasks\n", 100.0, progressBar(1.0, ProgressBarWidth), numTasks)
				return
			}
			state.Update(update.TaskIndex, update.Value)
		case <-ticker.C:
			avg := state.CalculateAverage()
			s.UpdateSuffix(fmt.Sprintf(" Extractions: %6.2f%% [%s]", avg*100, progressBar(avg, ProgressBarWidth)))
		}
	}
}
