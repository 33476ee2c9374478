package ui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"soulframe-lang/pipeline"
)

func TestRun_Completes(t *testing.T) {
	want := &pipeline.Report{
		Locales: []pipeline.LocaleResult{{Locale: "en", Stage: pipeline.StageWrite, Records: 3}},
	}
	abortCalls := 0

	report, err := Run(
		"sync", []string{"en"},
		func(observer pipeline.Observer) (*pipeline.Report, error) {
			observer.Observe(pipeline.Event{Kind: pipeline.LocaleDone, Locale: "en", Stage: pipeline.StageWrite})
			return want, nil
		},
		func() { abortCalls++ },
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
	)
	require.NoError(t, err)
	assert.Same(t, want, report)
	assert.Equal(t, 0, abortCalls)
}

func TestRun_QuitAborts(t *testing.T) {
	input, keys := io.Pipe()
	defer keys.Close()
	aborted := make(chan struct{})
	partial := &pipeline.Report{
		Locales: []pipeline.LocaleResult{{Locale: "en", Stage: pipeline.StageStrings, Err: pipeline.ErrAborted}},
	}

	report, err := Run(
		"download", []string{"en"},
		func(observer pipeline.Observer) (*pipeline.Report, error) {
			observer.Observe(pipeline.Event{Kind: pipeline.StageStarted, Locale: "en", Stage: pipeline.StageStrings})
			go func() {
				_, _ = keys.Write([]byte("q"))
			}()
			// the driver only stops once the view asks it to
			<-aborted
			return partial, pipeline.ErrAborted
		},
		func() { close(aborted) },
		tea.WithInput(input),
		tea.WithOutput(io.Discard),
	)
	assert.ErrorIs(t, err, pipeline.ErrAborted)
	assert.Same(t, partial, report)

	select {
	case <-aborted:
	default:
		t.Fatal("quitting the view did not abort the run")
	}
}
