package profile

import (
	"context"
	"fmt"

	"devsearch/internal/domain"
)

// Favorites is the part of the favorites store the profile page needs.
type Favorites interface {
	Contains(id domain.AccountID) bool
	Add(a domain.Account)
}

// View is a profile ready for display.
type View struct {
	domain.Profile
	Favorite bool
}

// Service fetches profiles and records favorites.
type Service struct {
	provider  domain.ProfileProvider
	favorites Favorites
}

// New returns a profile service.
func New(p domain.ProfileProvider, favs Favorites) *Service {
	return &Service{provider: p, favorites: favs}
}

// Show fetches login's profile and latest repositories.
func (s *Service) Show(ctx context.Context, login domain.Login) (View, error) {
	p, err := s.provider.Profile(ctx, login)
	if err != nil {
		return View{}, err
	}
	return View{Profile: p, Favorite: s.favorites.Contains(p.User.ID)}, nil
}

// Favorite fetches login and stores a snapshot of the account. The snapshot
// is taken as returned by the API; it is not refreshed later.
func (s *Service) Favorite(ctx context.Context, login domain.Login) (domain.Account, error) {
	u, err := s.provider.User(ctx, login)
	if err != nil {
		return domain.Account{}, fmt.Errorf("favoriting %q: %w", login, err)
	}
	a := u.Account()
	s.favorites.Add(a)
	return a, nil
}
