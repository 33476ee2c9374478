package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"soulframe-lang/pipeline"
)

type (
	eventMsg pipeline.Event
	doneMsg  struct {
		report *pipeline.Report
		err    error
	}

	localeRow struct {
		stage  pipeline.Stage
		status string
		detail string
		failed bool
	}

	// Progress shows one line per locale while a pipeline run is going.
	Progress struct {
		title   string
		order   []string
		rows    map[string]*localeRow
		root    string
		events  <-chan tea.Msg
		done    bool
		aborted bool
		report  *pipeline.Report
		err     error
	}
)

func NewProgress(title string, locales []string, events <-chan tea.Msg) *Progress {
	rows := make(map[string]*localeRow, len(locales))
	for _, locale := range locales {
		rows[locale] = &localeRow{status: "waiting"}
	}
	return &Progress{
		title:  title,
		order:  append([]string{}, locales...),
		rows:   rows,
		events: events,
	}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (s *Progress) Init() tea.Cmd {
	if s.events == nil {
		return nil
	}
	return waitForEvent(s.events)
}

func (s *Progress) apply(event pipeline.Event) {
	if event.Locale == "" || event.Stage == pipeline.StageRootManifest {
		s.root = fmt.Sprintf("%s %s %s", event.Stage, event.Kind, event.Detail)
		return
	}
	if event.Stage == pipeline.StageAlias {
		if event.Kind == pipeline.StageDone {
			s.root = fmt.Sprintf("alias %s -> %s", event.Locale, event.Detail)
		}
		return
	}
	row, ok := s.rows[event.Locale]
	if !ok {
		row = &localeRow{}
		s.rows[event.Locale] = row
		s.order = append(s.order, event.Locale)
	}
	row.stage = event.Stage
	row.status = event.Kind.String()
	row.detail = event.Detail
	if event.Kind == pipeline.LocaleFailed {
		row.failed = true
		row.detail = fmt.Sprint(event.Err)
	}
}

func (s *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			s.aborted = !s.done
			return s, tea.Quit
		}
	case eventMsg:
		s.apply(pipeline.Event(msg))
		return s, waitForEvent(s.events)
	case doneMsg:
		s.done = true
		s.report = msg.report
		s.err = msg.err
		return s, tea.Quit
	}
	return s, nil
}

func (s *Progress) View() string {
	builder := strings.Builder{}
	builder.WriteString(strings.ToUpper(s.title) + "\n\n")
	if s.root != "" {
		builder.WriteString(s.root + "\n")
	}
	width := lo.Max(lo.Map(s.order, func(locale string, _ int) int { return len(locale) }))
	for _, locale := range s.order {
		row := s.rows[locale]
		marker := " "
		switch {
		case row.failed:
			marker = "x"
		case row.status == pipeline.LocaleDone.String():
			marker = "✓"
		}
		line := fmt.Sprintf("%s %-*s  %-16s %-12s %s", marker, width, locale, row.stage, row.status, row.detail)
		builder.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	switch {
	case s.aborted:
		builder.WriteString("\naborting...\n")
	case s.done && s.err != nil:
		builder.WriteString("\nfailed: " + s.err.Error() + "\n")
	case s.done:
		builder.WriteString("\ndone\n")
	default:
		builder.WriteString("\npress q to abort\n")
	}
	return builder.String()
}

func (s *Progress) Aborted() bool {
	return s.aborted
}
