package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/bookmind/internal/models"
	"github.com/desertthunder/bookmind/internal/repositories"
	"github.com/desertthunder/bookmind/internal/services"
	"github.com/desertthunder/bookmind/internal/session"
	"github.com/desertthunder/bookmind/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	api     services.Service
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
	store   *session.Store
	wishing *repositories.WishlistCacheRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	API    services.Service
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		api:    opts.API,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) { r.logger = logger }

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, booksCommand, rateCommand, recsCommand,
		feedCommand, wishlistCommand, followCommand, usersCommand,
		exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// bootstrap opens the database and restores any persisted session. Sessions
// that idled out while no process was running are discarded here.
func (r *Runner) bootstrap() error {
	if r.store != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.wishing = repositories.NewWishlistCacheRepository(db)
	r.store = session.NewStore(session.StoreOpts{
		API:       r.api,
		Repo:      repositories.NewSessionRepository(db),
		Logger:    r.logger,
		IdleLimit: r.config.Session.IdleLimit(),
	})

	if err := r.store.Restore(); err != nil {
		r.logger.Warn("failed to restore session", "error", err)
	}
	if r.store.CheckIdle() {
		r.logger.Info("previous session expired while away")
	}
	return nil
}

// requireSession bootstraps and fails when nobody is signed in.
func (r *Runner) requireSession() (*models.Session, error) {
	if err := r.bootstrap(); err != nil {
		return nil, err
	}
	current := r.store.Current()
	if current == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return current, nil
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
