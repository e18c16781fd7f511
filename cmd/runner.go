package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/audio"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/session"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	store       session.Store
	backend     models.Backend
	db          *sql.DB
	getenv      func(string) string
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Logger      *log.Logger
	Output      io.Writer
	Store       session.Store       // Store overrides the sqlite store from the config
	Backend     models.Backend      // Backend overrides the audio device backend
	Getenv      func(string) string // Getenv defaults to [os.Getenv]
	OpenBrowser func(string) error  // OpenBrowser defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		store:       opts.Store,
		backend:     opts.Backend,
		getenv:      opts.Getenv,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, playCommand, sessionCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and applies global flags.
//
// A config supplied through [RunnerOpts] is kept as-is.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}
	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.LoadConfigOrDefault(r.configPath)
	if err != nil {
		return ctx, fmt.Errorf("failed to load config %s: %w", r.configPath, err)
	}
	config.ApplyEnv(r.getenv)
	r.config = config

	r.logger.Debug("configuration loaded", "path", r.configPath, "addr", config.Server.Addr())
	return ctx, nil
}

// Config returns the active configuration, falling back to defaults.
func (r *Runner) Config() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Store returns the session store, opening the configured database on first use.
func (r *Runner) Store() (session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.Config().Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	r.db = db
	r.store = session.NewSQLiteStore(db)
	return r.store, nil
}

// Session wraps [Runner.Store] with the session codec.
func (r *Runner) Session() (*session.Session, error) {
	store, err := r.Store()
	if err != nil {
		return nil, err
	}
	return session.New(store, shared.WithLogger(r.logger, "component", "session")), nil
}

// Backend returns the playback backend, creating the audio device backend on first use.
func (r *Runner) Backend() models.Backend {
	if r.backend == nil {
		cfg := r.Config().Player
		r.backend = audio.NewBackend(audio.BackendOpts{
			SampleRate:  cfg.SampleRate,
			HTTPTimeout: cfg.HTTPTimeout.Duration,
			Logger:      shared.WithLogger(r.logger, "component", "audio"),
		})
	}
	return r.backend
}

// Close releases the database if the runner opened one.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
