package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"devsearch/internal/domain"
	"devsearch/internal/favorites"
	"devsearch/internal/services/profile"
)

func profileCmd(s *session) *cobra.Command {
	var fav bool
	cmd := &cobra.Command{
		Use:   "profile <login>",
		Short: "Show an account's profile and latest repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := s.app.Profiles.Show(cmd.Context(), domain.Login(args[0]))
			if err != nil {
				return err
			}
			if fav && !view.Favorite {
				favorites.Resolve(cmd.Context()).Add(view.User.Account())
				view.Favorite = true
			}
			printProfile(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fav, "fav", false, "add the account to favorites")
	return cmd
}

func printProfile(w io.Writer, v profile.View) {
	u := v.User
	star := ""
	if v.Favorite {
		star = " ★"
	}
	fmt.Fprintf(w, "%s (@%s)%s\n", u.DisplayName(), u.Login, star)
	if u.Bio != "" {
		fmt.Fprintln(w, u.Bio)
	}
	if u.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", u.Location)
	}
	fmt.Fprintf(w, "Followers: %d  Following: %d  Public repos: %d\n", u.Followers, u.Following, u.PublicRepos)
	fmt.Fprintln(w, u.ProfileURL)

	if len(v.Repos) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Latest repositories:")
	for _, r := range v.Repos {
		fmt.Fprintf(w, "  %-30s ★%-6d forks %-5d %s\n", r.Name, r.Stars, r.Forks, r.Description)
	}
}
