package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/core"
	"github.com/aretw0/muralis/pkg/suggest"
	"github.com/aretw0/muralis/pkg/widget"
)

type mode int

const (
	modeBoard mode = iota
	modeContent
	modeTags
	modeFilter
	modeTopic
)

const (
	panCols     = 8
	panRows     = 4
	editorRows  = 5
	headerRows  = 1
	defaultBase = "http://localhost:9002/"
)

// Options configures the terminal board.
type Options struct {
	// ShareBase is the URL share links are built on.
	ShareBase string
	// Suggester fills note content from a topic. Nil disables suggestions.
	Suggester suggest.Generator
	// StoreEvents reports edits made to the store outside this session.
	StoreEvents <-chan core.Event
	Logger      *slog.Logger
	// Copy puts text on the clipboard. Defaults to the system clipboard.
	Copy func(string) error
}

type boardEventMsg core.Event
type storeEventMsg core.Event

type suggestionMsg struct {
	id      string
	content string
	err     error
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx    context.Context
	engine *board.Engine
	router *widget.Router
	opts   Options
	logger *slog.Logger

	width, height int
	cam           camera
	selected      string
	mode          mode

	editor   textarea.Model
	input    textinput.Model
	spinner  spinner.Model
	thinking bool

	events      <-chan core.Event
	unsubscribe func()
	status      string
}

// New creates the model for an initialized engine.
func New(ctx context.Context, engine *board.Engine, opts Options) *Model {
	if opts.ShareBase == "" {
		opts.ShareBase = defaultBase
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := widget.NewRouter(engine)
	router.HandleHeight = UnitsPerRow
	router.ResizeCorner = UnitsPerRow

	editor := textarea.New()
	editor.Placeholder = "Write…"
	editor.CharLimit = 0
	editor.ShowLineNumbers = false
	editor.SetHeight(editorRows - 1)

	input := textinput.New()
	input.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	events, unsubscribe := engine.Subscribe()

	m := &Model{
		ctx:         ctx,
		engine:      engine,
		router:      router,
		opts:        opts,
		logger:      logger,
		editor:      editor,
		input:       input,
		spinner:     sp,
		events:      events,
		unsubscribe: unsubscribe,
	}
	if engine.ReadOnly() {
		m.status = "Shared board: read-only. Press q to quit."
	}
	return m
}

// Close detaches the model from the engine.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitBoard(m.events), waitStore(m.opts.StoreEvents))
}

func waitBoard(ch <-chan core.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return boardEventMsg(e)
	}
}

func waitStore(ch <-chan core.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return storeEventMsg(e)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.editor.SetWidth(max(10, msg.Width-2))
		m.input.Width = max(10, msg.Width-20)
		m.engine.SetViewport(core.Size{
			Width:  float64(m.width) * UnitsPerCol,
			Height: float64(m.canvasHeight()) * UnitsPerRow,
		})
		return m, nil

	case boardEventMsg:
		m.router.Sync(m.engine.Notes())
		if _, ok := m.engine.Note(m.selected); !ok {
			m.selected = ""
		}
		return m, waitBoard(m.events)

	case storeEventMsg:
		m.status = fmt.Sprintf("Board file changed outside this session (%s).", core.Event(msg).Type)
		return m, waitStore(m.opts.StoreEvents)

	case suggestionMsg:
		m.thinking = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		if err := m.router.Controller(msg.id).EditContent(m.ctx, msg.content); err != nil {
			m.fail(err)
			return m, nil
		}
		m.status = "Suggestion applied."
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.mode == modeBoard {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}
		switch m.mode {
		case modeContent:
			return m, m.updateContent(msg)
		case modeTags:
			return m, m.updateTags(msg)
		case modeFilter:
			return m, m.updateFilter(msg)
		case modeTopic:
			return m, m.updateTopic(msg)
		default:
			return m, m.updateBoard(msg)
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	row := msg.Y - headerRows
	p := m.cam.toBoard(msg.X, row)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cam.Y -= UnitsPerRow
	case msg.Button == tea.MouseButtonWheelDown:
		m.cam.Y += UnitsPerRow
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if row < 0 || row >= m.canvasHeight() {
			return
		}
		id, err := m.router.Press(m.ctx, p)
		if err != nil {
			m.fail(err)
		}
		m.selected = id
	case msg.Action == tea.MouseActionMotion:
		if err := m.router.Move(m.ctx, p); err != nil {
			m.fail(err)
		}
	case msg.Action == tea.MouseActionRelease:
		m.router.Release()
	}
}

func (m *Model) updateBoard(msg tea.KeyMsg) tea.Cmd {
	m.status = ""

	switch msg.String() {
	case "q":
		m.Close()
		return tea.Quit

	case "up":
		m.cam.Y -= panRows * UnitsPerRow
	case "down":
		m.cam.Y += panRows * UnitsPerRow
	case "left":
		m.cam.X -= panCols * UnitsPerCol
	case "right":
		m.cam.X += panCols * UnitsPerCol
	case "0":
		m.cam = camera{}

	case "tab":
		m.cycleSelection()

	case "/":
		m.openInput(modeFilter, "filter tag: ", "tag (empty shows all)")
		if tag, ok := m.engine.TagFilter(); ok {
			m.input.SetValue(tag)
		}
		return textinput.Blink
	case "esc":
		m.engine.ClearTagFilter()

	case "s":
		url, err := m.engine.Share(m.opts.ShareBase)
		if err != nil {
			m.fail(err)
			return nil
		}
		if err := m.opts.Copy(url); err != nil {
			m.logger.Warn("failed to copy share link", "error", err)
			m.status = url
			return nil
		}
		m.status = "Share link copied to clipboard."

	case "n":
		note, err := m.engine.AddNote(m.ctx, "")
		if err != nil {
			m.fail(err)
			return nil
		}
		m.selected = note.ID
		return m.openEditor(note)
	}

	// The rest act on the selected note.
	note, ok := m.engine.Note(m.selected)
	switch msg.String() {
	case "e", "enter", "t", "x", "d", "delete", "f", "g":
		if !ok {
			m.status = "Select a note first (click it or press tab)."
			return nil
		}
		if m.engine.ReadOnly() {
			m.fail(core.ErrReadOnly)
			return nil
		}
	default:
		return nil
	}

	c := m.router.Controller(note.ID)
	switch msg.String() {
	case "e", "enter":
		return m.openEditor(note)
	case "t":
		c.BeginTagEdit()
		m.openInput(modeTags, "tags: ", "comma separated")
		return textinput.Blink
	case "x":
		if len(note.Tags) > 0 {
			m.fail(c.RemoveTag(m.ctx, note.Tags[len(note.Tags)-1]))
		}
	case "d", "delete":
		m.fail(c.Delete(m.ctx))
	case "f":
		m.fail(m.engine.BringToFront(m.ctx, note.ID))
	case "g":
		if m.opts.Suggester == nil {
			m.status = "Suggestions are not configured (set GEMINI_API_KEY)."
			return nil
		}
		m.openInput(modeTopic, "topic: ", "what should this note be about?")
		return textinput.Blink
	}
	return nil
}

func (m *Model) openEditor(note core.Note) tea.Cmd {
	m.mode = modeContent
	m.editor.SetValue(note.Content)
	return m.editor.Focus()
}

func (m *Model) openInput(md mode, prompt, placeholder string) {
	m.mode = md
	m.input.Reset()
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.editor.Blur()
	m.mode = modeBoard
}

func (m *Model) updateContent(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		m.closeInput()
		return nil
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.fail(m.router.Controller(m.selected).EditContent(m.ctx, after))
	}
	return cmd
}

func (m *Model) updateTags(msg tea.KeyMsg) tea.Cmd {
	c := m.router.Controller(m.selected)
	switch msg.String() {
	case "esc":
		c.Blur()
		m.closeInput()
		return nil
	case "enter":
		c.SetTagInput(m.input.Value())
		if err := c.SubmitTags(m.ctx); err != nil {
			m.fail(err)
		}
		if !c.EditingTags() {
			m.closeInput()
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	c.SetTagInput(m.input.Value())
	return cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return nil
	case "enter":
		m.engine.SetTagFilter(strings.TrimSpace(m.input.Value()))
		m.closeInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateTopic(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return nil
	case "enter":
		topic := strings.TrimSpace(m.input.Value())
		if topic == "" {
			return nil
		}
		m.closeInput()
		m.thinking = true
		return tea.Batch(m.spinner.Tick, m.suggest(m.selected, topic))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) suggest(id, topic string) tea.Cmd {
	gen := m.opts.Suggester
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := gen.Generate(ctx, suggest.Request{Topic: topic})
		return suggestionMsg{id: id, content: resp.Content, err: err}
	}
}

func (m *Model) cycleSelection() {
	stacked := m.engine.Stacked()
	if len(stacked) == 0 {
		m.selected = ""
		return
	}
	next := 0
	for i, n := range stacked {
		if n.ID == m.selected {
			next = (i + 1) % len(stacked)
			break
		}
	}
	m.selected = stacked[next].ID
}

// fail shows err in the status line. A nil err is ignored.
func (m *Model) fail(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, core.ErrReadOnly) {
		m.status = "This board is read-only."
		return
	}
	m.logger.Debug("board action failed", "error", err)
	m.status = "Error: " + err.Error()
}

func (m *Model) footerRows() int {
	if m.mode == modeContent {
		return editorRows
	}
	return 1
}

func (m *Model) canvasHeight() int {
	return max(0, m.height-headerRows-m.footerRows())
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFACD"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFDAB9"))
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading board…"
	}

	header := titleStyle.Render("Muralis") + dimStyle.Render(m.summary())
	canvas := renderCanvas(m.engine.Stacked(), m.cam, m.width, m.canvasHeight(), m.selected)

	return lipgloss.JoinVertical(lipgloss.Left, header, canvas, m.footer())
}

func (m *Model) summary() string {
	parts := []string{fmt.Sprintf(" · %d notes", len(m.engine.Notes())), m.engine.Mode().String()}
	if tag, ok := m.engine.TagFilter(); ok {
		parts = append(parts, "#"+tag)
	}
	if err := m.engine.PersistErr(); err != nil {
		parts = append(parts, "not saved")
	}
	return strings.Join(parts, " · ")
}

func (m *Model) footer() string {
	switch m.mode {
	case modeContent:
		return m.editor.View() + "\n" + dimStyle.Render("esc: done")
	case modeTags, modeFilter, modeTopic:
		return m.input.View()
	}
	if m.thinking {
		return m.spinner.View() + " asking for a suggestion…"
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	if m.engine.ReadOnly() {
		return dimStyle.Render("drag: nothing (read-only) · arrows: pan · tab: select · /: filter · q: quit")
	}
	return dimStyle.Render("n: new · e: edit · t: tag · x: untag · d: delete · f: front · g: suggest · s: share · /: filter · q: quit")
}

// Run shows the board until the user quits or ctx is done.
func Run(ctx context.Context, engine *board.Engine, opts Options) error {
	m := New(ctx, engine, opts)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
