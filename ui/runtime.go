package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"soulframe-lang/pipeline"
)

type RunFunc func(observer pipeline.Observer) (*pipeline.Report, error)

type runResult struct {
	report *pipeline.Report
	err    error
}

// Run shows a progress view while run executes in its own goroutine.
// Quitting the view calls abort and waits for run to return.
func Run(title string, locales []string, run RunFunc, abort func(), opts ...tea.ProgramOption) (*pipeline.Report, error) {
	events := make(chan tea.Msg)
	stopped := make(chan struct{})
	results := make(chan runResult, 1)
	forward := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-stopped:
		}
	}

	go func() {
		report, err := run(pipeline.ObserverFunc(func(event pipeline.Event) {
			forward(eventMsg(event))
		}))
		forward(doneMsg{report: report, err: err})
		results <- runResult{report: report, err: err}
	}()

	model, err := tea.NewProgram(NewProgress(title, locales, events), opts...).StartReturningModel()
	close(stopped)
	if progress, ok := model.(*Progress); err != nil || (ok && progress.Aborted()) {
		abort()
	}
	result := <-results
	close(events)
	if err != nil {
		return result.report, errors.Wrap(err, "ui.Run error")
	}
	return result.report, result.err
}
