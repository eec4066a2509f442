package main

import (
	"fmt"

	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/config"
	"github.com/username/skema-widget/internal/navigation"
	"github.com/username/skema-widget/internal/source"
	"github.com/username/skema-widget/internal/widget"
	"github.com/username/skema-widget/pkg/dateutil"
	"go.uber.org/zap"
)

// app holds the wired components of one command run
type app struct {
	cfg        *config.Config
	store      widget.Store
	cache      *widget.Cache
	controller *navigation.Controller
	tokens     *auth.TokenManager
}

func (a *app) Close() {
	if a.tokens != nil {
		a.tokens.Stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("Failed to close widget store", zap.Error(err))
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openCache opens only the snapshot store; enough for reading commands
func openCache(cfg *config.Config) (*app, error) {
	store, err := widget.OpenStore(widget.StoreKind(cfg.Widget.Store), cfg.Widget.Dir, cfg.Widget.BundleID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open widget store: %w", err)
	}

	return &app{
		cfg:   cfg,
		store: store,
		cache: widget.NewCache(store, logger),
	}, nil
}

func initializeApp(cfg *config.Config) (*app, error) {
	a, err := openCache(cfg)
	if err != nil {
		return nil, err
	}

	sessions, err := initializeSessions(a, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	src, err := initializeSource(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.controller = navigation.NewController(src, sessions, a.cache, logger)
	a.controller.SetLocale(dateutil.ParseLocale(cfg.Locale))

	return a, nil
}

func initializeSessions(a *app, cfg *config.Config) (auth.SessionProvider, error) {
	if cfg.Auth.TokenCommand == "" {
		return auth.StaticSession{SchoolID: cfg.School.ID, Token: cfg.School.Token}, nil
	}

	tokens := auth.NewTokenManager(cfg.School.ID, cfg.Auth.TokenCommand, cfg.Auth.GetRefreshInterval(), logger)
	if err := tokens.Start(); err != nil {
		return nil, fmt.Errorf("failed to start token manager: %w", err)
	}
	a.tokens = tokens
	return tokens, nil
}

func initializeSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Type {
	case config.SourceHTTP:
		logger.Info("Using scraper service", zap.String("base_url", cfg.Source.BaseURL))
		return source.NewHTTPSource(cfg.Source.BaseURL, cfg.Source.GetTimeout(), cfg.Source.Retries, logger), nil

	case config.SourceFile:
		logger.Info("Using schedule file", zap.String("file", cfg.Source.File))
		return source.NewFileSource(cfg.Source.File, logger), nil

	case config.SourceComposite:
		primary := source.NewHTTPSource(cfg.Source.BaseURL, cfg.Source.GetTimeout(), cfg.Source.Retries, logger)
		fallback := source.NewFileSource(cfg.Source.File, logger)
		if err := fallback.Load(); err != nil {
			logger.Warn("Failed to load fallback schedule, continuing with scraper only",
				zap.Error(err))
		}
		return source.NewCompositeSource(primary, fallback, logger), nil
	}

	return nil, fmt.Errorf("unknown source type: %s", cfg.Source.Type)
}
