package ui

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
	tu "github.com/desertthunder/playdeck/internal/testing"
)

func newTestModel(t *testing.T, initial models.State) (*Model, *tu.FakeBackend, *tu.RecordingPersister) {
	t.Helper()
	backend := &tu.FakeBackend{}
	store := &tu.RecordingPersister{}
	ctrl := player.NewController(player.ControllerOpts{Backend: backend, Store: store, Initial: initial})
	t.Cleanup(func() { ctrl.Close() })
	m := NewModel(ctrl)
	t.Cleanup(m.Close)
	return m, backend, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the model and waits for any controller commands it queued.
func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	settle(t, m)
	return cmd
}

// settle applies worker results until no queued command is outstanding.
func settle(t *testing.T, m *Model) {
	t.Helper()
	for m.pending > 0 {
		select {
		case snap := <-m.states:
			m.Update(stateChangedMsg(snap))
		case <-time.After(time.Second):
			t.Fatalf("timed out with %d queued commands", m.pending)
		}
	}
}

func closeEnough(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestModel(t *testing.T) {
	t.Run("Open Prompt Loads Track", func(t *testing.T) {
		m, backend, _ := newTestModel(t, models.DefaultState())

		m.Update(runes("o"))
		if !m.opening {
			t.Fatal("expected open prompt to be active")
		}
		m.input.SetValue("/music/intro.mp3")
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.opening {
			t.Error("expected prompt to close after enter")
		}
		if got := backend.Opened(); len(got) != 1 || got[0] != "/music/intro.mp3" {
			t.Fatalf("expected intro.mp3 to be opened, got %v", got)
		}
		if !m.Snapshot().Playing {
			t.Error("expected loaded track to be playing")
		}
		if !strings.Contains(m.View(), "intro.mp3") {
			t.Error("expected view to show the track name")
		}
	})

	t.Run("Open Prompt Cancel", func(t *testing.T) {
		m, backend, _ := newTestModel(t, models.DefaultState())

		m.Update(runes("o"))
		m.input.SetValue("/music/skip.mp3")
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if m.opening {
			t.Error("expected prompt to close on esc")
		}
		if len(backend.Opened()) != 0 {
			t.Error("expected nothing to be opened")
		}
	})

	t.Run("Playback Keys", func(t *testing.T) {
		state := models.DefaultState()
		state.Track = "/music/a.mp3"
		m, backend, store := newTestModel(t, state)

		send(t, m, tea.KeyMsg{Type: tea.KeySpace})
		if backend.Last() != nil || m.Snapshot().Playing {
			t.Fatal("expected space without a loaded handle to do nothing")
		}

		m.Update(runes("o"))
		m.input.SetValue("/music/a.mp3")
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		send(t, m, tea.KeyMsg{Type: tea.KeySpace})
		if m.Snapshot().Playing {
			t.Error("expected space to pause the playing track")
		}

		send(t, m, tea.KeyMsg{Type: tea.KeySpace})
		if !m.Snapshot().Playing {
			t.Error("expected second space to resume")
		}

		send(t, m, runes("+"))
		if got := m.Snapshot().Volume; !closeEnough(got, 0.6) {
			t.Errorf("expected volume 0.6, got %v", got)
		}

		send(t, m, runes("-"))
		send(t, m, runes("-"))
		if got := m.Snapshot().Volume; !closeEnough(got, 0.4) {
			t.Errorf("expected volume 0.4, got %v", got)
		}

		if store.Saves() == 0 {
			t.Error("expected volume changes to be persisted")
		}
	})

	t.Run("Favorites And Queue", func(t *testing.T) {
		m, _, _ := newTestModel(t, models.DefaultState())

		m.Update(runes("o"))
		m.input.SetValue("/music/a.mp3")
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		send(t, m, runes("f"))
		send(t, m, runes("a"))
		send(t, m, runes("a"))

		snap := m.Snapshot()
		if len(snap.Favorites) != 1 || snap.Favorites[0] != "/music/a.mp3" {
			t.Errorf("expected one favorite, got %v", snap.Favorites)
		}
		if len(snap.Queue) != 1 {
			t.Errorf("expected duplicate enqueue to be ignored, got %v", snap.Queue)
		}
		if len(m.favorites.Items()) != 1 || len(m.queue.Items()) != 1 {
			t.Error("expected lists to mirror the snapshot")
		}
	})

	t.Run("Next And Previous", func(t *testing.T) {
		state := models.DefaultState()
		state.Queue = []models.Track{"/music/one.mp3", "/music/two.mp3"}
		m, backend, _ := newTestModel(t, state)

		send(t, m, runes("n"))
		if got := m.Snapshot().Track; got != "/music/one.mp3" {
			t.Errorf("expected head of queue, got %q", got)
		}
		if got := len(m.Snapshot().Queue); got != 1 {
			t.Errorf("expected queue to shrink to 1, got %d", got)
		}

		send(t, m, runes("p"))
		if got := m.Snapshot().Track; got != "/music/two.mp3" {
			t.Errorf("expected tail of queue, got %q", got)
		}
		if got := len(backend.Opened()); got != 2 {
			t.Errorf("expected 2 opens, got %d", got)
		}
	})

	t.Run("Enter Loads Selected Item", func(t *testing.T) {
		state := models.DefaultState()
		state.Favorites = []models.Track{"/music/fav.mp3"}
		state.Queue = []models.Track{"/music/queued.mp3"}
		m, _, _ := newTestModel(t, state)

		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if got := m.Snapshot().Track; got != "/music/fav.mp3" {
			t.Errorf("expected favorite to load, got %q", got)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != QueueFocus {
			t.Fatal("expected tab to focus the queue")
		}
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if got := m.Snapshot().Track; got != "/music/queued.mp3" {
			t.Errorf("expected queued track to load, got %q", got)
		}
		if got := len(m.Snapshot().Queue); got != 1 {
			t.Errorf("expected loading from the queue list to leave the queue intact, got %d", got)
		}
	})

	t.Run("Back To Back Commands Run In Order", func(t *testing.T) {
		state := models.DefaultState()
		state.Track = "/music/old.mp3"
		m, _, store := newTestModel(t, state)

		m.Update(runes("o"))
		m.input.SetValue("/music/new.mp3")
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(runes("a"))
		m.Update(runes("f"))
		settle(t, m)

		snap := m.Snapshot()
		if !slices.Equal(snap.Queue, []models.Track{"/music/new.mp3"}) {
			t.Errorf("expected the newly loaded track to be queued, got %v", snap.Queue)
		}
		if !slices.Equal(snap.Favorites, []models.Track{"/music/new.mp3"}) {
			t.Errorf("expected the newly loaded track to be a favorite, got %v", snap.Favorites)
		}
		if saved, ok := store.LastSaved(); !ok || !slices.Equal(saved.Queue, snap.Queue) {
			t.Errorf("expected persisted queue to match, got %+v", saved)
		}
	})

	t.Run("Help Toggle", func(t *testing.T) {
		m, _, _ := newTestModel(t, models.DefaultState())

		if strings.Contains(m.View(), "vol up") {
			t.Fatal("expected short help by default")
		}

		m.Update(runes("?"))
		if !m.help.ShowAll || !strings.Contains(m.View(), "vol up") {
			t.Error("expected ? to show the full key list")
		}

		m.Update(runes("?"))
		if m.help.ShowAll {
			t.Error("expected second ? to collapse help")
		}
	})

	t.Run("Closed Model Drops Commands", func(t *testing.T) {
		m, backend, _ := newTestModel(t, models.DefaultState())
		m.Close()

		m.Update(runes("o"))
		m.input.SetValue("/music/late.mp3")
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if m.pending != 0 || len(backend.Opened()) != 0 {
			t.Error("expected commands after Close to be dropped")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _, _ := newTestModel(t, models.DefaultState())

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Tick Refreshes State", func(t *testing.T) {
		m, _, _ := newTestModel(t, models.DefaultState())

		m.ctrl.Load("/music/bg.mp3")
		_, cmd := m.Update(tickMsg(time.Now()))

		if cmd == nil {
			t.Error("expected tick to reschedule")
		}
		if got := m.Snapshot().Track; got != "/music/bg.mp3" {
			t.Errorf("expected tick to pick up controller state, got %q", got)
		}
	})
}

func TestView(t *testing.T) {
	t.Run("Empty State", func(t *testing.T) {
		m, _, _ := newTestModel(t, models.DefaultState())
		out := m.View()

		for _, want := range []string{"No track loaded", "No favorites yet", "Queue is empty"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected view to contain %q", want)
			}
		}
	})

	t.Run("Unavailable Track", func(t *testing.T) {
		m, backend, _ := newTestModel(t, models.DefaultState())
		backend.OpenErr = errors.New("no such file")

		m.Update(runes("o"))
		m.input.SetValue("/missing.mp3")
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if !strings.Contains(m.View(), "unavailable") {
			t.Error("expected view to mark the track unavailable")
		}
		if !strings.Contains(m.View(), "missing.mp3") {
			t.Error("expected view to keep showing the track name")
		}
	})
}

func TestVolumeBar(t *testing.T) {
	tests := []struct {
		volume float64
		filled int
	}{
		{0, 0},
		{0.5, 10},
		{0.333, 7},
		{1, 20},
	}

	for _, tt := range tests {
		bar := volumeBar(tt.volume)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("volumeBar(%v): expected %d filled cells, got %d", tt.volume, tt.filled, got)
		}
	}
}

func TestVolumeBarLabel(t *testing.T) {
	if got := volumeBar(0.333); !strings.HasSuffix(got, " 33%") {
		t.Errorf("expected label rounded to 33%%, got %q", got)
	}
}
