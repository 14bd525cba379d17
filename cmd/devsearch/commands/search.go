package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"devsearch/internal/favorites"
	"devsearch/internal/services/search"
)

// search <query>: list matching accounts, favorites starred.
func searchCmd(s *session) *cobra.Command {
	var (
		favN  int
		watch bool
		wait  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search accounts by login",
		Args: func(cmd *cobra.Command, args []string) error {
			if watch {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return watchSearch(cmd.Context(), s.app.Search, cmd.InOrStdin(), cmd.OutOrStdout(), wait)
			}

			results, err := s.app.Search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if favN == 0 {
				printResults(cmd.OutOrStdout(), results)
				return nil
			}
			if favN < 0 || favN > len(results) {
				return fmt.Errorf("--fav %d out of range (1-%d)", favN, len(results))
			}
			hit := results[favN-1].Account
			favorites.Resolve(cmd.Context()).Add(hit)
			results[favN-1].Favorite = true
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().IntVar(&favN, "fav", 0, "favorite the N-th result (1-based)")
	cmd.Flags().BoolVar(&watch, "watch", false, "read queries from stdin, one per line")
	cmd.Flags().DurationVar(&wait, "debounce", search.DefaultDebounce, "quiet period before a --watch query runs")
	cmd.MarkFlagsMutuallyExclusive("fav", "watch")
	return cmd
}

func printResults(w io.Writer, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}
	for i, r := range results {
		mark := " "
		if r.Favorite {
			mark = "★"
		}
		fmt.Fprintf(w, "%2d %s %-20s %s\n", i+1, mark, r.Account.Login, r.Account.ProfileURL)
	}
}

// watchSearch runs the last query of every burst of input lines once the
// input has been quiet for wait. Blank lines clear the results.
func watchSearch(ctx context.Context, svc *search.Service, in io.Reader, out io.Writer, wait time.Duration) error {
	d := search.NewDebouncer(wait)
	var outMu sync.Mutex
	run := func(q string) func() {
		return func() {
			results, err := svc.Search(ctx, q)

			outMu.Lock()
			defer outMu.Unlock()
			if strings.TrimSpace(q) == "" {
				return
			}
			fmt.Fprintf(out, "> %s\n", q)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return
			}
			printResults(out, results)
		}
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			break
		}
		d.Trigger(run(sc.Text()))
	}
	if ctx.Err() != nil {
		d.Stop()
	} else {
		d.Flush()
	}
	d.Wait()
	if err := sc.Err(); err != nil {
		return err
	}
	return ctx.Err()
}
