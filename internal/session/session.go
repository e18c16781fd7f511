package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
)

// Persisted entry keys.
const (
	KeyAudioSrc  = "audioSrc"
	KeyVolume    = "volume"
	KeyFavorites = "favorites"
	KeyQueue     = "queue"
)

var _ models.Persister = (*Session)(nil)

// Session loads and saves [models.State] through a [Store].
type Session struct {
	store  Store
	logger *log.Logger
}

// New creates a [Session] over store. A nil logger discards output.
func New(store Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{store: store, logger: logger}
}

// Load rehydrates the session state.
//
// Corrupt entries are logged and replaced by their defaults. The returned error joins
// store read failures; the returned state is usable either way.
func (s *Session) Load(ctx context.Context) (models.State, error) {
	state := models.DefaultState()
	var errs []error

	read := func(key string) (string, bool) {
		value, ok, err := s.store.Get(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", shared.ErrStoreUnavailable, key, err))
			return "", false
		}
		return value, ok
	}

	if raw, ok := read(KeyAudioSrc); ok {
		state.Track = decodeTrack(raw)
	}

	if raw, ok := read(KeyVolume); ok {
		if v, err := decodeVolume(raw); err != nil {
			s.corrupt(KeyVolume, raw, err)
		} else {
			state.Volume = v
		}
	}

	if raw, ok := read(KeyFavorites); ok {
		if list, err := decodeTracks(raw); err != nil {
			s.corrupt(KeyFavorites, raw, err)
		} else {
			state.Favorites = list
		}
	}

	if raw, ok := read(KeyQueue); ok {
		if list, err := decodeTracks(raw); err != nil {
			s.corrupt(KeyQueue, raw, err)
		} else {
			state.Queue = list
		}
	}

	return state, errors.Join(errs...)
}

// Save writes all four entries, atomically when the store supports batches.
func (s *Session) Save(ctx context.Context, state models.State) error {
	entries, err := encode(state)
	if err != nil {
		return err
	}

	if batch, ok := s.store.(BatchStore); ok {
		return batch.SetAll(ctx, entries)
	}

	for _, e := range entries {
		if err := s.store.Set(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Reset overwrites the stored state with defaults.
func (s *Session) Reset(ctx context.Context) error {
	return s.Save(ctx, models.DefaultState())
}

func (s *Session) corrupt(key, raw string, err error) {
	s.logger.Warn("corrupt session entry, using default", "key", key, "value", raw, "error", err)
}

func encode(state models.State) ([]Entry, error) {
	state = state.Clone()

	favorites, err := json.Marshal(state.Favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to encode favorites: %w", err)
	}

	queue, err := json.Marshal(state.Queue)
	if err != nil {
		return nil, fmt.Errorf("failed to encode queue: %w", err)
	}

	return []Entry{
		{Key: KeyAudioSrc, Value: string(state.Track)},
		{Key: KeyVolume, Value: strconv.FormatFloat(models.ClampVolume(state.Volume), 'f', -1, 64)},
		{Key: KeyFavorites, Value: string(favorites)},
		{Key: KeyQueue, Value: string(queue)},
	}, nil
}

// decodeTrack treats "null" as no track; older clients stored a null reference that way.
func decodeTrack(raw string) models.Track {
	if raw == "null" || raw == "undefined" {
		return ""
	}
	return models.Track(raw)
}

func decodeVolume(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrCorruptEntry, err)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: volume is NaN", shared.ErrCorruptEntry)
	}
	return models.ClampVolume(v), nil
}

func decodeTracks(raw string) ([]models.Track, error) {
	var list []models.Track
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCorruptEntry, err)
	}
	if list == nil {
		list = []models.Track{}
	}
	return list, nil
}
