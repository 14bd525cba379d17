package search

import (
	"context"
	"fmt"
	"strings"

	"devsearch/internal/domain"
)

// Favorites is the read side of the favorites store used to annotate results.
type Favorites interface {
	Contains(id domain.AccountID) bool
}

// Result is a search hit and whether it is currently a favorite.
type Result struct {
	Account  domain.Account
	Favorite bool
}

// Service performs searches against a profile provider.
type Service struct {
	provider  domain.ProfileProvider
	favorites Favorites
}

// New returns a search service.
func New(p domain.ProfileProvider, favs Favorites) *Service {
	return &Service{provider: p, favorites: favs}
}

// Search returns the accounts whose login contains query, ignoring case,
// favorites marked. The provider may match on other fields (name, email);
// those hits are dropped.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	accounts, err := s.provider.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Result, 0, len(accounts))
	for _, a := range accounts {
		if !strings.Contains(strings.ToLower(a.Login.String()), needle) {
			continue
		}
		out = append(out, Result{Account: a, Favorite: s.favorites.Contains(a.ID)})
	}
	return out, nil
}
