package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/desertthunder/playdeck/internal/models"
	"github.com/ebitengine/oto/v3"
)

var _ models.Handle = (*handle)(nil)

// player is the subset of [oto.Player] used by handle.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

var _ player = (*oto.Player)(nil)

// handle binds one decoded track to the output device.
type handle struct {
	mu      sync.Mutex
	player  player
	src     io.Closer
	paused  bool
	started bool
	closed  bool
}

// Play resumes output, rewinding first when the track already played to the end.
func (h *handle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errClosed
	}

	if h.started && !h.paused && !h.player.IsPlaying() {
		if _, err := h.player.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind: %w", err)
		}
	}

	h.player.Play()
	h.paused = false
	h.started = true
	return nil
}

func (h *handle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errClosed
	}
	h.player.Pause()
	h.paused = true
	return nil
}

// Paused reports true after Pause and once the track has played out.
func (h *handle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed || h.paused || !h.player.IsPlaying()
}

func (h *handle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.player.SetVolume(models.ClampVolume(v))
	}
}

func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return errors.Join(h.player.Close(), h.src.Close())
}

var errClosed = errors.New("handle closed")
