package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devsearch/internal/domain"
	"devsearch/internal/favorites"
	"devsearch/internal/github"
	"devsearch/internal/logging"
	"devsearch/internal/services/profile"
	"devsearch/internal/services/search"
	"devsearch/internal/store"
)

const sqliteFile = "devsearch.db"

// New constructs the dependency graph from cfg. The favorites store is loaded
// from storage before New returns.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			File:    cfg.Log.File,
			Verbose: cfg.Log.Verbose,
		})
		if err != nil {
			return nil, err
		}
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("creating session id: %w", err)
	}
	logger = logger.With(zap.String("session_id", sessionID.String()))

	kv, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Favorites: adapter, optional async writer, store, scope.
	var persister favorites.Persister = favorites.NewAdapter(kv, logger)
	if cfg.Favorites.AsyncWrites {
		persister = favorites.NewAsyncSaver(persister, 0, logger)
	}
	favs := favorites.NewStore(persister,
		favorites.WithLogger(logger),
		favorites.WithRedundantWrites(cfg.Favorites.RedundantWrites),
	)

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.GitHub.Timeout}
	}

	gh := github.New(cfg.GitHub.BaseURL, httpClient,
		github.WithToken(cfg.GitHub.Token),
		github.WithReposPerProfile(cfg.GitHub.ReposPerProfile),
		github.WithLogger(logger),
	)

	logger.Debug("app wired",
		zap.String("home", cfg.Home),
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("sealed", cfg.Storage.Passphrase != ""),
		zap.Int("favorites", favs.Count()))

	return &App{
		Config:    cfg,
		SessionID: sessionID,
		Logger:    logger,
		Storage:   kv,
		Favorites: favs,
		Scope:     favorites.NewScope(favs),
		GitHub:    gh,
		Search:    search.New(gh, favs),
		Profiles:  profile.New(gh, favs),
	}, nil
}

func openStorage(cfg Config) (domain.KeyValueStore, error) {
	if cfg.Storage.Backend != BackendMemory {
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, fmt.Errorf("creating home %s: %w", cfg.Home, err)
		}
	}

	var kv domain.KeyValueStore
	switch cfg.Storage.Backend {
	case BackendFile:
		fs, err := store.NewFileStore(cfg.Home)
		if err != nil {
			return nil, err
		}
		kv = fs
	case BackendSQLite:
		db, err := store.OpenSQLite(filepath.Join(cfg.Home, sqliteFile))
		if err != nil {
			return nil, err
		}
		kv = db
	case BackendMemory:
		kv = store.NewMemoryStore()
	}

	if cfg.Storage.Passphrase != "" {
		kv = store.NewSealedStore(kv, cfg.Storage.Passphrase)
	}
	return kv, nil
}
