package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/crawlboard/internal/config"
	"github.com/five82/crawlboard/internal/crawler"
	applog "github.com/five82/crawlboard/internal/log"
	"github.com/five82/crawlboard/internal/prefs"
	"github.com/five82/crawlboard/internal/state"
	"github.com/five82/crawlboard/internal/ui"
)

// Options are command-line overrides applied on top of the config file.
// Zero values leave the configured setting alone.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses the XDG default
	APIURL       string
	PollInterval time.Duration
	PageSize     int
	LogFile      string
	Debug        bool
}

// Session is the resolved configuration plus the clients built from it.
// Every command, the TUI included, starts from one.
type Session struct {
	Config config.Config
	Prefs  prefs.Prefs
	Logger *zap.Logger
	Client *crawler.Client

	prefsPath string
}

// Open loads the config file and environment, applies opts, and builds the
// logger and crawl service client. Callers must Close the session.
func Open(opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	// Remembered page size beats the config file; an explicit flag beats both.
	if userPrefs.PageSize > 0 {
		cfg.PageSize = userPrefs.PageSize
	}
	applyOverrides(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger, err := applog.New(applog.Options{Path: cfg.LogFile, Debug: opts.Debug})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := crawler.NewClient(cfg.APIURL, crawler.ClientOptions{
		Timeout:    cfg.RequestTimeout,
		SubmitRate: cfg.SubmitRate,
		Logger:     logger,
	})
	if err != nil {
		applog.Sync(logger)
		return nil, fmt.Errorf("init crawl client: %w", err)
	}

	return &Session{
		Config:    cfg,
		Prefs:     userPrefs,
		Logger:    logger,
		Client:    client,
		prefsPath: opts.PrefsPath,
	}, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}
	if opts.PageSize > 0 {
		cfg.PageSize = opts.PageSize
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
}

// Close flushes the logger.
func (s *Session) Close() {
	applog.Sync(s.Logger)
}

// Run boots the crawlboard TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Logger.Info("starting",
		zap.String("api_url", s.Config.APIURL),
		zap.Duration("poll_interval", s.Config.PollInterval),
		zap.Int("page_size", s.Config.PageSize),
	)

	store := &state.Store{}
	poller := NewPoller(store, s.Client, PollerOptions{
		Interval: s.Config.PollInterval,
		Timeout:  s.Config.RequestTimeout,
		Logger:   s.Logger,
	})
	poller.Start(ctx)
	defer poller.Stop()

	err = ui.Run(ui.Options{
		Context:   ctx,
		Service:   s.Client,
		Store:     store,
		Logger:    s.Logger,
		ThemeName: s.Prefs.Theme,
		PrefsPath: s.prefsPath,
		PageSize:  s.Config.PageSize,
		LogPath:   s.Config.LogFile,
	})
	if err != nil {
		s.Logger.Error("ui exited", zap.Error(err))
		return err
	}
	s.Logger.Info("stopped")
	return nil
}
