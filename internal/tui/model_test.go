package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/muralis/pkg/adapters/memory"
	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/codec"
	"github.com/aretw0/muralis/pkg/core"
	"github.com/aretw0/muralis/pkg/suggest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// setup returns a model over one 280x240 note at (100,100), z=1.
// On a 120x40 terminal that note covers columns 10..37 and screen rows 6..17.
func setup(t *testing.T, opts Options) (*Model, core.Note) {
	t.Helper()
	ctx := context.Background()
	e := board.New(memory.NewStore(), board.WithLogger(quiet))
	e.Initialize(ctx)
	n, err := e.AddNote(ctx, "hello")
	require.NoError(t, err)
	n.Position = core.Point{X: 100, Y: 100}
	require.NoError(t, e.UpdateNote(ctx, n))

	opts.Logger = quiet
	m := New(ctx, e, opts)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, n
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(key(string(r)))
	}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestMouse_DragHandle(t *testing.T) {
	m, n := setup(t, Options{})

	m.Update(mouse(tea.MouseActionPress, 12, 6))
	assert.Equal(t, n.ID, m.selected)

	m.Update(mouse(tea.MouseActionMotion, 22, 8))
	m.Update(mouse(tea.MouseActionRelease, 22, 8))

	got, _ := m.engine.Note(n.ID)
	assert.Equal(t, core.Point{X: 200, Y: 140}, got.Position)
	assert.Equal(t, 2, got.ZIndex, "pressing raises the note")

	m.Update(mouse(tea.MouseActionMotion, 50, 30))
	got, _ = m.engine.Note(n.ID)
	assert.Equal(t, core.Point{X: 200, Y: 140}, got.Position, "motion after release is ignored")
}

func TestMouse_ResizeCorner(t *testing.T) {
	m, n := setup(t, Options{})

	m.Update(mouse(tea.MouseActionPress, 37, 17))
	m.Update(mouse(tea.MouseActionMotion, 17, 17))
	m.Update(mouse(tea.MouseActionRelease, 17, 17))

	got, _ := m.engine.Note(n.ID)
	assert.Equal(t, core.Size{Width: core.MinWidth, Height: 240}, got.Size)
	assert.Equal(t, n.Position, got.Position)
}

func TestMouse_EmptyCanvasClearsSelection(t *testing.T) {
	m, n := setup(t, Options{})
	m.selected = n.ID

	m.Update(mouse(tea.MouseActionPress, 100, 30))
	assert.Empty(t, m.selected)
}

func TestKeys_NewNoteEditsContent(t *testing.T) {
	m, _ := setup(t, Options{})

	m.Update(key("n"))
	require.Equal(t, modeContent, m.mode)
	require.NotEmpty(t, m.selected)

	typeText(m, "hi")
	got, _ := m.engine.Note(m.selected)
	assert.Equal(t, "hi", got.Content, "every keystroke reaches the engine")

	m.Update(key("esc"))
	assert.Equal(t, modeBoard, m.mode)
	assert.Len(t, m.engine.Notes(), 2)
}

func TestKeys_Tags(t *testing.T) {
	m, n := setup(t, Options{})
	m.selected = n.ID

	m.Update(key("t"))
	require.Equal(t, modeTags, m.mode)

	m.Update(key("enter"))
	assert.Equal(t, modeTags, m.mode, "blank input keeps the editor open")

	typeText(m, "work, urgent,work")
	m.Update(key("enter"))
	assert.Equal(t, modeBoard, m.mode)

	got, _ := m.engine.Note(n.ID)
	assert.Equal(t, []string{"work", "urgent"}, got.Tags)

	m.Update(key("x"))
	got, _ = m.engine.Note(n.ID)
	assert.Equal(t, []string{"work"}, got.Tags)
}

func TestKeys_FilterAndFront(t *testing.T) {
	m, n := setup(t, Options{})
	ctx := context.Background()
	other, err := m.engine.AddNote(ctx, "other")
	require.NoError(t, err)

	m.selected = n.ID
	m.Update(key("f"))
	got, _ := m.engine.Note(n.ID)
	assert.Greater(t, got.ZIndex, other.ZIndex)

	n.Tags = []string{"home"}
	require.NoError(t, m.engine.UpdateNote(ctx, n))

	m.Update(key("/"))
	typeText(m, "home")
	m.Update(key("enter"))
	assert.Len(t, m.engine.VisibleNotes(), 1)

	m.Update(key("esc"))
	assert.Len(t, m.engine.VisibleNotes(), 2)
}

func TestKeys_DeleteNeedsSelection(t *testing.T) {
	m, n := setup(t, Options{})

	m.Update(key("d"))
	assert.Contains(t, m.status, "Select a note")
	assert.Len(t, m.engine.Notes(), 1)

	m.Update(key("tab"))
	assert.Equal(t, n.ID, m.selected)
	m.Update(key("d"))
	assert.Empty(t, m.engine.Notes())

	msg := boardEventMsg(core.Event{Type: core.EventDelete, ID: n.ID})
	m.Update(msg)
	assert.Empty(t, m.selected)
}

func TestKeys_Share(t *testing.T) {
	var copied string
	m, _ := setup(t, Options{ShareBase: "https://board.example/", Copy: func(s string) error {
		copied = s
		return nil
	}})

	m.Update(key("s"))
	require.True(t, strings.HasPrefix(copied, "https://board.example/#"))

	notes, err := codec.DecodeLink(codec.FragmentOf(copied))
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	m.opts.Copy = func(string) error { return errors.New("no clipboard") }
	m.Update(key("s"))
	assert.True(t, strings.HasPrefix(m.status, "https://board.example/#"), "link is shown when copying fails")
}

func TestSuggestion(t *testing.T) {
	gen := suggest.Func(func(ctx context.Context, topic string) (string, error) {
		return "ideas about " + topic, nil
	})
	m, n := setup(t, Options{Suggester: gen})
	m.selected = n.ID

	m.Update(key("g"))
	require.Equal(t, modeTopic, m.mode)
	typeText(m, "cats")
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.thinking)

	m.Update(m.suggest(n.ID, "cats")())
	assert.False(t, m.thinking)
	got, _ := m.engine.Note(n.ID)
	assert.Equal(t, "ideas about cats", got.Content)
}

func TestSuggestion_Error(t *testing.T) {
	gen := suggest.Func(func(ctx context.Context, topic string) (string, error) {
		return "", suggest.ErrService
	})
	m, n := setup(t, Options{Suggester: gen})

	m.Update(m.suggest(n.ID, "cats")())
	assert.Contains(t, m.status, "Error")
	got, _ := m.engine.Note(n.ID)
	assert.Equal(t, "hello", got.Content)
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	payload, err := codec.EncodeLink([]core.Note{{
		ID: "shared", Content: "look", Tags: []string{}, Color: "#FFFACD",
		Position: core.Point{X: 100, Y: 100}, Size: core.Size{Width: 280, Height: 240}, ZIndex: 1,
	}})
	require.NoError(t, err)

	e := board.New(memory.NewStore(), board.WithLink("#"+payload), board.WithLogger(quiet))
	e.Initialize(ctx)
	require.True(t, e.ReadOnly())

	m := New(ctx, e, Options{Logger: quiet})
	defer m.Close()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m.Update(mouse(tea.MouseActionPress, 12, 6))
	m.Update(mouse(tea.MouseActionMotion, 40, 20))
	m.Update(mouse(tea.MouseActionRelease, 40, 20))

	got, _ := e.Note("shared")
	assert.Equal(t, core.Point{X: 100, Y: 100}, got.Position)
	assert.Equal(t, 1, got.ZIndex)

	m.Update(key("n"))
	assert.Equal(t, "This board is read-only.", m.status)
	assert.Len(t, e.Notes(), 1)

	m.Update(key("d"))
	assert.Len(t, e.Notes(), 1)
}

func TestView(t *testing.T) {
	m, _ := setup(t, Options{})
	view := m.View()
	assert.Contains(t, view, "Muralis")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "1 notes")

	m.Update(key("esc"))
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
