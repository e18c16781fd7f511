package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/desertthunder/playdeck/internal/formatter"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/session"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	listFavorites = "favorites"
	listQueue     = "queue"
)

// entryLister is implemented by stores that can enumerate and drop their rows.
type entryLister interface {
	List(ctx context.Context) ([]session.Entry, error)
	Clear(ctx context.Context) error
}

// SessionShow prints the persisted session.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("raw") {
		return r.showEntries(ctx)
	}

	sess, err := r.Session()
	if err != nil {
		return err
	}

	state, err := sess.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(state, true)
	}

	r.writePlainHeader("Session")
	track := "(none)"
	if !state.Track.IsZero() {
		track = fmt.Sprintf("%s (%s)", state.Track.Name(), state.Track)
	}
	r.writePlain("Track:  %s\n", track)
	r.writePlain("Volume: %.0f%%\n", state.Volume*100)
	r.writeTracks("Favorites", state.Favorites)
	r.writeTracks("Queue", state.Queue)
	return nil
}

func (r *Runner) writeTracks(title string, tracks []models.Track) {
	r.writePlainln("%s (%d)", title, len(tracks))
	for i, track := range tracks {
		r.writePlain("  %d. %s\n", i+1, track)
	}
}

func (r *Runner) showEntries(ctx context.Context) error {
	store, err := r.Store()
	if err != nil {
		return err
	}

	lister, ok := store.(entryLister)
	if !ok {
		return fmt.Errorf("%w: store cannot list entries", shared.ErrNotImplemented)
	}

	entries, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	for _, e := range entries {
		r.writePlain("%s\t%s\n", e.Key, e.Value)
	}
	return nil
}

// SessionExport writes favorites or the queue in the requested format.
func (r *Runner) SessionExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	sess, err := r.Session()
	if err != nil {
		return err
	}

	state, err := sess.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	name, tracks, err := selectList(state, cmd.String("list"))
	if err != nil {
		return err
	}

	data, err := formatter.Export(format, name, state, tracks)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", name, err)
	}

	output := cmd.String("output")
	if err := formatter.WriteExport(r.output, output, data); err != nil {
		return err
	}

	if output != "" && output != "-" {
		r.logger.Info("export written", "list", name, "format", format, "tracks", len(tracks), "path", output)
	}
	return nil
}

// SessionImport appends the tracks of an M3U playlist to favorites or the queue, skipping duplicates.
func (r *Runner) SessionImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: playlist file", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	imported, err := formatter.ParseM3U(f)
	if err != nil {
		return err
	}

	sess, err := r.Session()
	if err != nil {
		return err
	}

	state, err := sess.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	name, tracks, err := selectList(state, cmd.String("list"))
	if err != nil {
		return err
	}

	added := 0
	for _, track := range imported {
		if track.IsZero() || slices.Contains(tracks, track) {
			continue
		}
		tracks = append(tracks, track)
		added++
	}

	if name == listFavorites {
		state.Favorites = tracks
	} else {
		state.Queue = tracks
	}

	if err := sess.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.logger.Info("playlist imported", "list", name, "added", added, "skipped", len(imported)-added)
	r.writePlain("✓ Added %d of %d tracks to %s\n", added, len(imported), name)
	return nil
}

// SessionReset restores the default session.
func (r *Runner) SessionReset(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("purge") {
		store, err := r.Store()
		if err != nil {
			return err
		}
		lister, ok := store.(entryLister)
		if !ok {
			return fmt.Errorf("%w: store cannot be purged", shared.ErrNotImplemented)
		}
		if err := lister.Clear(ctx); err != nil {
			return fmt.Errorf("failed to purge session: %w", err)
		}
		r.writePlain("✓ Session entries deleted\n")
		return nil
	}

	sess, err := r.Session()
	if err != nil {
		return err
	}
	if err := sess.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}

	r.writePlain("✓ Session reset to defaults\n")
	return nil
}

func selectList(state models.State, list string) (string, []models.Track, error) {
	switch list {
	case listFavorites:
		return listFavorites, slices.Clone(state.Favorites), nil
	case listQueue:
		return listQueue, slices.Clone(state.Queue), nil
	default:
		return "", nil, fmt.Errorf("%w: unknown list %q (want %s or %s)", shared.ErrInvalidArgument, list, listFavorites, listQueue)
	}
}
