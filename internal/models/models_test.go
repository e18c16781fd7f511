package models

import (
	"math"
	"testing"
)

func TestClampVolume(t *testing.T) {
	tc := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "in range", in: 0.3, want: 0.3},
		{name: "above one", in: 1.05, want: 1},
		{name: "below zero", in: -0.2, want: 0},
		{name: "keeps precision", in: 0.333, want: 0.333},
		{name: "small step", in: 0.004, want: 0.004},
		{name: "nan", in: math.NaN(), want: 0},
		{name: "positive infinity", in: math.Inf(1), want: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampVolume(tt.in); got != tt.want {
				t.Errorf("ClampVolume(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestState(t *testing.T) {
	t.Run("DefaultState", func(t *testing.T) {
		s := DefaultState()
		if s.Volume != DefaultVolume || !s.Track.IsZero() {
			t.Errorf("unexpected default state: %+v", s)
		}
		if s.Favorites == nil || s.Queue == nil {
			t.Error("default lists should be empty, not nil")
		}
	})

	t.Run("Clone is independent", func(t *testing.T) {
		s := State{Track: "x", Volume: 0.3, Favorites: []Track{"a"}, Queue: []Track{"c"}}
		c := s.Clone()
		c.Favorites[0] = "changed"
		c.Queue = append(c.Queue, "d")

		if s.Favorites[0] != "a" {
			t.Error("mutating clone favorites changed original")
		}
		if len(s.Queue) != 1 {
			t.Error("appending to clone queue changed original")
		}
	})

	t.Run("Track Name", func(t *testing.T) {
		if got := Track("/music/dir/song.mp3").Name(); got != "song.mp3" {
			t.Errorf("Name() = %q, want song.mp3", got)
		}
	})
}
