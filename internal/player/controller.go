package player

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/models"
)

// DefaultVolumeStep is the delta applied by [Controller.VolumeUp] and [Controller.VolumeDown].
const DefaultVolumeStep = 0.1

// Snapshot is a consistent, caller-owned copy of the controller state.
type Snapshot struct {
	models.State
	Loaded  bool // Loaded reports whether a playback handle is live
	Playing bool // Playing reports whether the live handle is producing output
}

// ControllerOpts contains configuration options for creating a [Controller].
type ControllerOpts struct {
	Backend    models.Backend
	Store      models.Persister
	Initial    models.State
	Logger     *log.Logger
	Context    context.Context
	VolumeStep float64
}

// Controller is the playback controller. It is safe for concurrent use.
//
// Opening a track runs without holding the state lock, so [Controller.Snapshot]
// and the other commands never wait on a slow backend.
type Controller struct {
	mu      sync.Mutex
	ctx     context.Context
	backend models.Backend
	store   models.Persister
	logger  *log.Logger
	step    float64
	handle  models.Handle
	state   models.State
	gen     uint64 // gen counts track switches; an open installs only if it is still current
}

// NewController creates a [Controller] rehydrated from opts.Initial.
//
// No handle is opened until a track is loaded.
func NewController(opts ControllerOpts) *Controller {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = DefaultVolumeStep
	}

	state := opts.Initial.Clone()
	state.Volume = models.ClampVolume(state.Volume)

	return &Controller{
		ctx:     opts.Context,
		backend: opts.Backend,
		store:   opts.Store,
		logger:  opts.Logger,
		step:    opts.VolumeStep,
		state:   state,
	}
}

// Load makes track the current track and starts playing it immediately.
func (c *Controller) Load(track models.Track) {
	if track.IsZero() {
		return
	}

	c.mu.Lock()
	gen := c.switchTo(track)
	c.persist()
	c.mu.Unlock()

	c.open(track, gen)
}

// TogglePlayPause resumes a paused handle and pauses a playing one.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return
	}

	if c.handle.Paused() {
		if err := c.handle.Play(); err != nil {
			c.logger.Warn("resume failed", "track", c.state.Track, "error", err)
		}
		return
	}

	if err := c.handle.Pause(); err != nil {
		c.logger.Warn("pause failed", "track", c.state.Track, "error", err)
	}
}

// AdjustVolume adds delta to the volume, clamped to [0,1], and applies it to the live handle.
func (c *Controller) AdjustVolume(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Volume = models.ClampVolume(c.state.Volume + delta)
	if c.handle != nil {
		c.handle.SetVolume(c.state.Volume)
	}
	c.persist()
}

// VolumeUp raises the volume by one step.
func (c *Controller) VolumeUp() { c.AdjustVolume(c.step) }

// VolumeDown lowers the volume by one step.
func (c *Controller) VolumeDown() { c.AdjustVolume(-c.step) }

// AddToFavorites appends the current track to favorites unless it is already there.
func (c *Controller) AddToFavorites() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if list, ok := appendCurrent(c.state.Favorites, c.state.Track); ok {
		c.state.Favorites = list
		c.persist()
	}
}

// AddToQueue appends the current track to the queue unless it is already queued.
func (c *Controller) AddToQueue() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if list, ok := appendCurrent(c.state.Queue, c.state.Track); ok {
		c.state.Queue = list
		c.persist()
	}
}

// Next removes the queue head and plays it. It is a no-op on an empty queue.
func (c *Controller) Next() {
	c.mu.Lock()
	if len(c.state.Queue) == 0 {
		c.mu.Unlock()
		return
	}

	head := c.state.Queue[0]
	c.state.Queue = slices.Clone(c.state.Queue[1:])
	gen := c.switchTo(head)
	c.persist()
	c.mu.Unlock()

	c.open(head, gen)
}

// Previous plays the queue tail without removing it. It is a no-op on an empty queue.
func (c *Controller) Previous() {
	c.mu.Lock()
	if len(c.state.Queue) == 0 {
		c.mu.Unlock()
		return
	}

	tail := c.state.Queue[len(c.state.Queue)-1]
	gen := c.switchTo(tail)
	c.persist()
	c.mu.Unlock()

	c.open(tail, gen)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:   c.state.Clone(),
		Loaded:  c.handle != nil,
		Playing: c.handle != nil && !c.handle.Paused(),
	}
}

// Close releases the live handle and discards any open still in flight.
// The controller can still be used afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	return err
}

// switchTo releases the current handle and makes track current. It returns the
// generation an open of track must match to be installed. Callers hold c.mu.
//
// The current track changes even if the backend cannot open it.
func (c *Controller) switchTo(track models.Track) uint64 {
	c.release()
	c.state.Track = track
	c.gen++
	return c.gen
}

// open asks the backend for a handle to track without holding c.mu, then
// installs and starts it if no later switch happened in the meantime.
func (c *Controller) open(track models.Track, gen uint64) {
	if c.backend == nil {
		return
	}

	handle, err := c.backend.Open(track)
	if err != nil {
		c.logger.Error("open failed", "track", track, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.logger.Debug("discarding stale handle", "track", track.Name())
		if err := handle.Close(); err != nil {
			c.logger.Warn("failed to release handle", "track", track, "error", err)
		}
		return
	}

	handle.SetVolume(c.state.Volume)
	c.handle = handle

	if err := handle.Play(); err != nil {
		c.logger.Warn("playback failed to start", "track", track, "error", err)
	}
	c.logger.Debug("now playing", "track", track.Name(), "volume", c.state.Volume)
}

// release closes the live handle, if any. Callers hold c.mu.
func (c *Controller) release() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Close(); err != nil {
		c.logger.Warn("failed to release handle", "track", c.state.Track, "error", err)
	}
	c.handle = nil
}

// persist saves a copy of the state. Callers hold c.mu.
func (c *Controller) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.ctx, c.state.Clone()); err != nil {
		c.logger.Error("failed to persist session", "error", err)
	}
}

// appendCurrent returns list with track appended when track is set and not already present.
func appendCurrent(list []models.Track, track models.Track) ([]models.Track, bool) {
	if track.IsZero() || slices.Contains(list, track) {
		return list, false
	}
	return append(slices.Clone(list), track), true
}
