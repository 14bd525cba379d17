package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devsearch/internal/domain"
	"devsearch/internal/favorites"
	"devsearch/internal/services/profile"
	"devsearch/internal/services/search"
)

// App bundles all stores, services, and clients for one CLI session.
type App struct {
	Config    Config
	SessionID uuid.UUID
	Logger    *zap.Logger

	Storage   domain.KeyValueStore
	Favorites *favorites.Store
	Scope     *favorites.Scope
	GitHub    domain.ProfileProvider

	Search   *search.Service
	Profiles *profile.Service
}

// Context returns parent carrying the favorites scope, so consumers can
// reach the store with favorites.Resolve.
func (a *App) Context(parent context.Context) context.Context {
	return a.Scope.Context(parent)
}

// Close ends the favorites scope, flushing pending writes, then releases
// storage.
func (a *App) Close() error {
	err := a.Scope.Close()
	if cerr := a.Storage.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	_ = a.Logger.Sync()
	return err
}
