package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"soulframe-lang/pipeline"
)

func TestProgress_Events(t *testing.T) {
	events := make(chan tea.Msg)
	progress := NewProgress("sync", []string{"en", "fr"}, events)
	require.NotNil(t, progress.Init())

	_, cmd := progress.Update(eventMsg(pipeline.Event{
		Kind: pipeline.StageDone, Stage: pipeline.StageRootManifest, Detail: "2 entries",
	}))
	assert.NotNil(t, cmd)
	progress.Update(eventMsg(pipeline.Event{
		Kind: pipeline.LocaleDone, Locale: "en", Stage: pipeline.StageWrite,
	}))
	progress.Update(eventMsg(pipeline.Event{
		Kind: pipeline.LocaleFailed, Locale: "fr", Stage: pipeline.StageStrings, Err: errors.New("integrity check failed"),
	}))

	view := progress.View()
	assert.Contains(t, view, "SYNC")
	assert.Contains(t, view, "root manifest done 2 entries")
	assert.Contains(t, view, "✓ en")
	assert.Contains(t, view, "x fr")
	assert.Contains(t, view, "integrity check failed")
	assert.Contains(t, view, "press q to abort")
}

func TestProgress_Done(t *testing.T) {
	progress := NewProgress("download", []string{"en"}, nil)
	assert.Nil(t, progress.Init())

	report := &pipeline.Report{}
	_, cmd := progress.Update(doneMsg{report: report})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, progress.Aborted())
	assert.Contains(t, progress.View(), "done")
}

func TestProgress_Quit(t *testing.T) {
	progress := NewProgress("extract", []string{"en"}, nil)

	_, cmd := progress.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, progress.Aborted())
	assert.Contains(t, progress.View(), "aborting")
}

func TestProgress_UnknownLocale(t *testing.T) {
	progress := NewProgress("sync", nil, nil)
	progress.Update(eventMsg(pipeline.Event{Kind: pipeline.StageStarted, Locale: "pt", Stage: pipeline.StageDecode}))
	assert.Equal(t, []string{"pt"}, progress.order)
}
