package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/camview/internal/camera"
	"github.com/five82/camview/internal/config"
	"github.com/five82/camview/internal/logging"
	"github.com/five82/camview/internal/prefs"
	"github.com/five82/camview/internal/service"
	"github.com/five82/camview/internal/ui"
)

// Options configure the camview application.
type Options struct {
	ConfigPath  string // empty uses ~/.mcp-camera/config.json
	PrefsPath   string // empty uses ~/.config/camview/prefs.toml
	LogLevel    string // overrides the prefs log level when set
	LogPath     string // empty puts camview.log next to the config file
	DownloadDir string // empty saves default-named images in the working dir
}

// Runtime holds the wired components shared by the TUI, CLI and bridge.
type Runtime struct {
	Store     *config.Store
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	Logger    zerolog.Logger
	Client    *camera.Client
	Service   *service.Service

	logFile io.Closer
}

// Bootstrap loads configuration and preferences, opens the activity log and
// builds the client and service. Callers must Close the runtime.
func Bootstrap(opts Options) (*Runtime, error) {
	userPrefs := prefs.Load(opts.PrefsPath)

	level := userPrefs.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	// The store logs through a no-op logger until the log path is known.
	store, err := config.NewStore(opts.ConfigPath, zerolog.Nop())
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	logPath := opts.LogPath
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(store.Path()), logging.FileName)
	}
	logger, logFile, err := logging.OpenFile(logPath, level)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}

	store, err = config.NewStore(store.Path(), logger.With().Str("component", "config").Logger())
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	client, err := camera.NewClient(camera.Options{
		Config:  store.Load(),
		Store:   store,
		Timeout: userPrefs.Timeout(),
		Logger:  logger.With().Str("component", "camera").Logger(),
	})
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init camera client: %w", err)
	}

	svc := service.New(service.Options{
		API:           client,
		Logger:        logger.With().Str("component", "service").Logger(),
		DefaultRadius: userPrefs.DefaultRadius,
		DownloadDir:   opts.DownloadDir,
	})

	logger.Debug().
		Str("config", store.Path()).
		Str("endpoint", client.Config().Endpoint()).
		Bool("has_key", client.Config().HasKey()).
		Msg("camview started")

	return &Runtime{
		Store:     store,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   logPath,
		Logger:    logger,
		Client:    client,
		Service:   svc,
		logFile:   logFile,
	}, nil
}

// Close flushes and closes the activity log.
func (r *Runtime) Close() error {
	if r == nil || r.logFile == nil {
		return nil
	}
	return r.logFile.Close()
}

// Run boots the camview TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	err = ui.Run(ui.Options{
		Context:    ctx,
		Service:    rt.Service,
		Prefs:      rt.Prefs,
		PrefsPath:  rt.PrefsPath,
		LogPath:    rt.LogPath,
		ConfigPath: rt.Store.Path(),
	})
	// Cancelling the context kills the program; that is a normal exit.
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
