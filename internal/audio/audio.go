// Package audio implements [models.Backend] on top of an oto output context and an MP3 decoder.
//
// Track references are resolved as follows:
//   - http:// and https:// URLs are fetched and buffered in memory
//   - file:// URLs and bare paths are opened from disk
//
// Anything else (for example browser blob: references) is rejected with [shared.ErrUnsupportedTrack].
package audio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

const (
	// DefaultSampleRate is used when no sample rate is configured.
	DefaultSampleRate = 44100
	// channelCount is fixed by the decoder, which always produces 16-bit stereo.
	channelCount = 2
	// maxRemoteSize bounds how much of a remote track is buffered.
	maxRemoteSize = 256 << 20
)

var _ models.Backend = (*Backend)(nil)

// BackendOpts contains configuration options for creating a [Backend].
type BackendOpts struct {
	SampleRate  int
	HTTPTimeout time.Duration
	HTTPClient  *http.Client
	Logger      *log.Logger
}

// Backend opens decoded MP3 tracks on the default audio device.
//
// The device is opened on first use and shared by every handle.
type Backend struct {
	sampleRate int
	client     *http.Client
	logger     *log.Logger

	once   sync.Once
	device *oto.Context
	devErr error
}

// NewBackend creates a new [Backend].
func NewBackend(opts BackendOpts) *Backend {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.HTTPTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Backend{sampleRate: opts.SampleRate, client: opts.HTTPClient, logger: opts.Logger}
}

// Open resolves, decodes and binds track to a new paused [models.Handle].
func (b *Backend) Open(track models.Track) (models.Handle, error) {
	src, err := b.resolve(track)
	if err != nil {
		return nil, err
	}

	decoder, err := decode(src, b.sampleRate)
	if err != nil {
		src.Close()
		return nil, err
	}

	device, err := b.context()
	if err != nil {
		src.Close()
		return nil, err
	}

	b.logger.Debug("opened track", "track", track.Name(), "sample_rate", decoder.SampleRate(), "length", decoder.Length())

	return &handle{player: device.NewPlayer(decoder), src: src, paused: true}, nil
}

// context opens the output device once.
func (b *Backend) context() (*oto.Context, error) {
	b.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   b.sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		device, ready, err := oto.NewContext(op)
		if err != nil {
			b.devErr = fmt.Errorf("%w: %v", shared.ErrDeviceUnavailable, err)
			return
		}
		<-ready
		b.device = device
	})
	return b.device, b.devErr
}

// resolve opens the bytes behind a track reference.
func (b *Backend) resolve(track models.Track) (io.ReadSeekCloser, error) {
	ref := string(track)
	if ref == "" {
		return nil, shared.ErrNoTrack
	}

	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare paths, including Windows drive letters.
		return openFile(ref)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return openFile(u.Path)
	case "http", "https":
		return b.fetch(u.String())
	default:
		return nil, fmt.Errorf("%w: scheme %q", shared.ErrUnsupportedTrack, u.Scheme)
	}
}

func openFile(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track: %w", err)
	}
	return f, nil
}

// fetch downloads a remote track into memory so it can be rewound.
func (b *Backend) fetch(rawURL string) (io.ReadSeekCloser, error) {
	resp, err := b.client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("track fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("track fetch status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("track read failed: %w", err)
	}
	if len(data) > maxRemoteSize {
		return nil, fmt.Errorf("%w: remote track exceeds %d bytes", shared.ErrUnsupportedTrack, maxRemoteSize)
	}

	return nopCloser{bytes.NewReader(data)}, nil
}

// decode wraps src in an MP3 decoder whose output matches the device sample rate.
func decode(src io.Reader, sampleRate int) (*mp3.Decoder, error) {
	decoder, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeFailed, err)
	}
	if decoder.SampleRate() != sampleRate {
		return nil, fmt.Errorf("%w: sample rate %d, device runs at %d", shared.ErrUnsupportedTrack, decoder.SampleRate(), sampleRate)
	}
	return decoder, nil
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }
