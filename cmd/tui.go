package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/desertthunder/playdeck/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	ctrl, err := r.newController(ctx)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if track := strings.TrimSpace(cmd.StringArg("track")); track != "" {
		ctrl.Load(models.Track(track))
	}

	model := ui.NewModel(ctrl)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// newController rehydrates the persisted session into a [player.Controller].
//
// An unreadable session still yields defaults so the player can start.
func (r *Runner) newController(ctx context.Context) (*player.Controller, error) {
	sess, err := r.Session()
	if err != nil {
		return nil, err
	}

	state, err := sess.Load(ctx)
	if err != nil {
		r.logger.Warn("session unavailable, starting with defaults", "error", err)
	}

	return player.NewController(player.ControllerOpts{
		Backend:    r.Backend(),
		Store:      sess,
		Initial:    state,
		Logger:     shared.WithLogger(r.logger, "component", "player"),
		Context:    ctx,
		VolumeStep: r.Config().Player.VolumeStep,
	}), nil
}
