package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"devsearch/internal/domain"
	"devsearch/internal/favorites"
)

// Output formats for fav list.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func favCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Manage favorite accounts",
	}
	cmd.AddCommand(
		favListCmd(),
		favAddCmd(s),
		favRmCmd(),
		favHasCmd(),
		favCountCmd(),
		favClearCmd(),
	)
	return cmd
}

func favListCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorites, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts := favorites.Resolve(cmd.Context()).List()
			return writeAccounts(cmd.OutOrStdout(), format, accounts)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func writeAccounts(w io.Writer, format string, accounts []domain.Account) error {
	switch format {
	case formatTable:
		if len(accounts) == 0 {
			_, err := fmt.Fprintln(w, "No favorites yet")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLOGIN\tPROFILE")
		for _, a := range accounts {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Login, a.ProfileURL)
		}
		return tw.Flush()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(accounts)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(accounts); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// fav add <login>: fetch the account and store its snapshot.
func favAddCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <login>",
		Short: "Favorite an account by login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.app.Profiles.Favorite(cmd.Context(), domain.Login(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%d)\n", a.Login, a.ID)
			return nil
		},
	}
}

func favRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a favorite by account id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store := favorites.Resolve(cmd.Context())
			a, ok := store.Get(id)
			store.Remove(id)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%d is not a favorite\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d)\n", a.Login, a.ID)
			return nil
		},
	}
}

func favHasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "has <id>",
		Short: "Print whether an account id is a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), favorites.Resolve(cmd.Context()).Contains(id))
			return nil
		},
	}
}

func favCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), favorites.Resolve(cmd.Context()).Count())
			return nil
		},
	}
}

func favClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := favorites.Resolve(cmd.Context())
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Clear all %d favorites?", store.Count()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			store.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseID(s string) (domain.AccountID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid account id %q", s)
	}
	return domain.AccountID(n), nil
}
