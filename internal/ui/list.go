package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/playdeck/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name() }
func (i trackItem) Title() string       { return i.track.Name() }
func (i trackItem) Description() string { return i.track.String() }

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	return items
}

func newTrackList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 40, 12)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}
