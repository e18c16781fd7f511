// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/playdeck/internal/models"
)

var (
	_ models.Backend   = (*FakeBackend)(nil)
	_ models.Handle    = (*FakeHandle)(nil)
	_ models.Persister = (*RecordingPersister)(nil)
)

// FakeBackend is a test double for [models.Backend] that records every handle it opens.
type FakeBackend struct {
	mu      sync.Mutex
	OpenErr error
	Handles []*FakeHandle
}

func (b *FakeBackend) Open(track models.Track) (models.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	h := &FakeHandle{Track: track, paused: true, volume: 1}
	b.Handles = append(b.Handles, h)
	return h, nil
}

// Last returns the most recently opened handle, or nil.
func (b *FakeBackend) Last() *FakeHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Handles) == 0 {
		return nil
	}
	return b.Handles[len(b.Handles)-1]
}

// Opened returns the tracks opened so far, in order.
func (b *FakeBackend) Opened() []models.Track {
	b.mu.Lock()
	defer b.mu.Unlock()
	tracks := make([]models.Track, len(b.Handles))
	for i, h := range b.Handles {
		tracks[i] = h.Track
	}
	return tracks
}

// FakeHandle is a test double for [models.Handle].
type FakeHandle struct {
	mu        sync.Mutex
	Track     models.Track
	PlayErr   error
	paused    bool
	volume    float64
	closed    bool
	playCalls int
}

func (h *FakeHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playCalls++
	if h.PlayErr != nil {
		return h.PlayErr
	}
	h.paused = false
	return nil
}

func (h *FakeHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
	return nil
}

func (h *FakeHandle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

func (h *FakeHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = v
}

func (h *FakeHandle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

func (h *FakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *FakeHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *FakeHandle) PlayCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playCalls
}

// RecordingPersister is a test double for [models.Persister] keeping every saved state.
type RecordingPersister struct {
	mu     sync.Mutex
	Err    error
	States []models.State
}

func (p *RecordingPersister) Save(ctx context.Context, state models.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.States = append(p.States, state.Clone())
	return p.Err
}

// Saves returns the number of Save calls.
func (p *RecordingPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.States)
}

// LastSaved returns the most recent saved state and whether one exists.
func (p *RecordingPersister) LastSaved() (models.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.States) == 0 {
		return models.State{}, false
	}
	return p.States[len(p.States)-1], true
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
