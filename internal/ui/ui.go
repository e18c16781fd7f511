package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
)

// ListFocus identifies which list receives navigation keys.
type ListFocus int

const (
	FavoritesFocus ListFocus = iota
	QueueFocus
)

const (
	volumeBarWidth = 20
	opsBuffer      = 64
)

// Model represents the TUI application state.
//
// Controller commands run one at a time on a single worker goroutine, in key
// press order, so a slow track open never stalls the update loop.
type Model struct {
	ctrl      *player.Controller
	snap      player.Snapshot
	focus     ListFocus
	favorites list.Model
	queue     list.Model
	input     textinput.Model
	opening   bool
	width     int
	height    int
	help      help.Model
	keys      keyMap
	ops       chan func(*player.Controller)
	states    chan player.Snapshot
	pending   int
	closed    bool
}

// NewModel creates a new TUI model driving ctrl.
func NewModel(ctrl *player.Controller) *Model {
	input := textinput.New()
	input.Placeholder = "path or URL to an mp3"
	input.Prompt = "open: "
	input.CharLimit = 2048

	m := &Model{
		ctrl:      ctrl,
		favorites: newTrackList("Favorites"),
		queue:     newTrackList("Queue"),
		input:     input,
		help:      help.New(),
		keys:      newKeyMap(),
		ops:       make(chan func(*player.Controller), opsBuffer),
		states:    make(chan player.Snapshot, opsBuffer),
	}
	m.apply(ctrl.Snapshot())
	go work(ctrl, m.ops, m.states)
	return m
}

// Snapshot returns the controller state last rendered.
func (m *Model) Snapshot() player.Snapshot { return m.snap }

// Close stops the command worker once queued commands have run.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	close(m.ops)
}

// Init starts the refresh tick and the listener for command results.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForState())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.opening {
			return m.handleOpenKeys(msg)
		}
		return m.handlePlayerKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgStateChanged:
			m.apply(msg.data.(player.Snapshot))
			return m, nil
		case MsgTick:
			m.apply(m.ctrl.Snapshot())
			return m, tick()
		}
	}

	return m, nil
}

// View renders the UI.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("playdeck"))
	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n\n")

	if m.opening {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	favorites, queue := styles.panel, styles.panel
	if m.focus == FavoritesFocus {
		favorites = styles.focused
	} else {
		queue = styles.focused
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		favorites.Render(m.renderList(m.favorites, "No favorites yet")),
		queue.Render(m.renderList(m.queue, "Queue is empty")),
	))
	b.WriteString("\n\n")

	if m.opening {
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		return m, m.run((*player.Controller).TogglePlayPause)
	case key.Matches(msg, m.keys.volumeUp):
		return m, m.run((*player.Controller).VolumeUp)
	case key.Matches(msg, m.keys.volumeDown):
		return m, m.run((*player.Controller).VolumeDown)
	case key.Matches(msg, m.keys.favorite):
		return m, m.run((*player.Controller).AddToFavorites)
	case key.Matches(msg, m.keys.enqueue):
		return m, m.run((*player.Controller).AddToQueue)
	case key.Matches(msg, m.keys.next):
		return m, m.run((*player.Controller).Next)
	case key.Matches(msg, m.keys.previous):
		return m, m.run((*player.Controller).Previous)
	case key.Matches(msg, m.keys.open):
		m.opening = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.focus):
		if m.focus == FavoritesFocus {
			m.focus = QueueFocus
		} else {
			m.focus = FavoritesFocus
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.focusedList().SelectedItem().(trackItem); ok {
			return m, m.load(item.track)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == FavoritesFocus {
		m.favorites, cmd = m.favorites.Update(msg)
	} else {
		m.queue, cmd = m.queue.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleOpenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		return m, m.load(models.Track(value))
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.opening = false
	m.input.Blur()
	m.input.SetValue("")
}

// run queues op for the worker. Ops run in the order they are queued.
func (m *Model) run(op func(*player.Controller)) tea.Cmd {
	if m.closed {
		return nil
	}
	m.pending++
	m.ops <- op
	return nil
}

// waitForState delivers the state after the next queued op finishes.
func (m *Model) waitForState() tea.Cmd {
	states := m.states
	return func() tea.Msg {
		snap, ok := <-states
		if !ok {
			return nil
		}
		return stateChangedMsg(snap)
	}
}

func work(ctrl *player.Controller, ops <-chan func(*player.Controller), states chan<- player.Snapshot) {
	defer close(states)
	for op := range ops {
		op(ctrl)
		states <- ctrl.Snapshot()
	}
}

func (m *Model) load(track models.Track) tea.Cmd {
	return m.run(func(c *player.Controller) { c.Load(track) })
}

func (m *Model) apply(snap player.Snapshot) {
	m.snap = snap
	m.favorites.SetItems(trackItems(snap.Favorites))
	m.queue.SetItems(trackItems(snap.Queue))
}

func (m *Model) resize() {
	w := (m.width - 8) / 2
	h := m.height - 12
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.favorites.SetSize(w, h)
	m.queue.SetSize(w, h)
	m.input.Width = m.width - 10
}

func (m *Model) focusedList() *list.Model {
	if m.focus == QueueFocus {
		return &m.queue
	}
	return &m.favorites
}

func (m *Model) renderNowPlaying() string {
	if m.snap.Track.IsZero() {
		return styles.help.Render("No track loaded. Press o to open one.")
	}

	var status string
	switch {
	case !m.snap.Loaded:
		status = styles.err.Render("unavailable")
	case m.snap.Playing:
		status = styles.ok.Render("▶ playing")
	default:
		status = styles.warn.Render("❚❚ paused")
	}

	return fmt.Sprintf("%s  %s\n%s", status, m.snap.Track.Name(), volumeBar(m.snap.Volume))
}

func (m *Model) renderList(l list.Model, empty string) string {
	if len(l.Items()) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.title.Render(l.Title), styles.help.Render(empty))
	}
	return l.View()
}

func volumeBar(v float64) string {
	filled := int(math.Round(v * volumeBarWidth))
	return fmt.Sprintf("vol [%s%s] %3.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", volumeBarWidth-filled),
		v*100,
	)
}
