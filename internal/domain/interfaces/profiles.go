package interfaces

import (
	"context"

	domaintypes "devsearch/internal/domain/types"
)

// ProfileProvider looks up accounts on the remote hosting platform.
type ProfileProvider interface {
	SearchUsers(ctx context.Context, query string) ([]domaintypes.Account, error)
	User(ctx context.Context, login domaintypes.Login) (domaintypes.UserProfile, error)
	Repos(ctx context.Context, login domaintypes.Login, limit int) ([]domaintypes.Repository, error)
	Profile(ctx context.Context, login domaintypes.Login) (domaintypes.Profile, error)
}
