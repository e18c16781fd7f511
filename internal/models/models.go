// package models defines the data model for the audio player
package models

import (
	"context"
	"math"
	"slices"

	"github.com/desertthunder/playdeck/internal/shared"
)

// DefaultVolume is the volume used when nothing usable has been persisted.
const DefaultVolume = 0.5

// Track is an opaque locator string for a playable audio resource.
type Track string

// Name returns the trailing path segment used for display.
func (t Track) Name() string { return shared.DisplayName(string(t)) }

// IsZero reports whether t is the empty reference.
func (t Track) IsZero() bool { return t == "" }

// String implements [fmt.Stringer].
func (t Track) String() string { return string(t) }

// State is the session state mirrored to durable storage.
type State struct {
	Track     Track   `json:"audioSrc"`
	Volume    float64 `json:"volume"`
	Favorites []Track `json:"favorites"`
	Queue     []Track `json:"queue"`
}

// DefaultState returns the state of a session with nothing persisted.
func DefaultState() State {
	return State{Volume: DefaultVolume, Favorites: []Track{}, Queue: []Track{}}
}

// Clone returns a deep copy of s. Nil lists come back as empty lists.
func (s State) Clone() State {
	c := s
	c.Favorites = cloneTracks(s.Favorites)
	c.Queue = cloneTracks(s.Queue)
	return c
}

func cloneTracks(tracks []Track) []Track {
	if tracks == nil {
		return []Track{}
	}
	return slices.Clone(tracks)
}

// ClampVolume limits v to [0,1]. NaN maps to 0.
func ClampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Handle is a live playback object bound to one track.
type Handle interface {
	Play() error         // Play starts or resumes output
	Pause() error        // Pause halts output, keeping position
	Paused() bool        // Paused reports whether output is halted
	SetVolume(v float64) // SetVolume applies a volume in [0,1]
	Close() error        // Close releases the output pipeline
}

// Backend opens playback handles.
type Backend interface {
	Open(track Track) (Handle, error) // Open binds a new handle to track; it does not start playback
}

// Persister saves session state.
type Persister interface {
	Save(ctx context.Context, state State) error // Save writes every key of state
}
