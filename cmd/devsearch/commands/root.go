package commands

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"devsearch/internal/app"
	"devsearch/internal/domain"
	"devsearch/internal/favorites"
)

// session carries the state shared by one CLI invocation.
type session struct {
	v   *viper.Viper
	app *app.App

	// changed is set by the favorites subscription when a command mutates
	// the collection.
	changed atomic.Bool

	// Test hooks; nil means build from config.
	http   *http.Client
	logger *zap.Logger
}

func newSession() *session {
	return &session{v: app.NewViper()}
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := app.LoadConfig(s.v)
	if err != nil {
		return err
	}
	cfg.HTTP = s.http
	cfg.Logger = s.logger

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	s.app = a
	a.Favorites.Subscribe(func([]domain.Account) { s.changed.Store(true) })
	cmd.SetContext(a.Context(cmd.Context()))
	return nil
}

// printBadge reports the favorites count on stderr after a command changed
// the collection.
func (s *session) printBadge(cmd *cobra.Command) {
	store, ok := favorites.Lookup(cmd.Context())
	if !ok || !s.changed.Load() {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "★ %d favorites\n", store.Count())
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// Execute runs the CLI with os.Args.
func Execute() error {
	s := newSession()
	err := newRootCmd(s).Execute()
	return errors.Join(err, s.close())
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:          "devsearch",
		Short:        "Search developer accounts and keep a list of favorites",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}
			return s.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.printBadge(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("home", "", "state directory (default ~/.devsearch)")
	flags.String("backend", "", "favorites storage: file, sqlite or memory")
	flags.StringP("passphrase", "p", "", "encrypt stored favorites with this passphrase")
	flags.String("api-url", "", "GitHub API base URL")
	flags.Bool("verbose", false, "debug logging")

	bind(s.v, root, "home", "home")
	bind(s.v, root, "storage.backend", "backend")
	bind(s.v, root, "storage.passphrase", "passphrase")
	bind(s.v, root, "github.base_url", "api-url")
	bind(s.v, root, "log.verbose", "verbose")

	root.AddCommand(searchCmd(s), profileCmd(s), favCmd(s))
	return root
}

func bind(v *viper.Viper, root *cobra.Command, key, flag string) {
	_ = v.BindPFlag(key, root.PersistentFlags().Lookup(flag))
}

// skipsApp reports commands that never touch favorites or the API.
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}
