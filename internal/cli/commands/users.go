package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/debounce"
	"adminconsole/internal/format"
)

func UsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse and moderate user accounts",
	}
	cmd.AddCommand(usersListCmd(), usersShowCmd(), usersSearchCmd(), usersUpdateCmd(), usersBanCmd(), usersUnbanCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	var (
		pf     pageFlags
		search string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users with token usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ps, err := pf.state(a)
				if err != nil {
					return err
				}
				resp, err := a.Queries.Users(ctx, api.UserListParams{Limit: ps.Limit(), Offset: ps.Offset(), Search: search})
				if err != nil {
					return err
				}
				return render(cmd, resp, func(w *tabwriter.Writer) {
					printUsers(w, resp.Users)
					w.Flush()
					pageFooter(cmd.OutOrStdout(), ps, resp.Total)
				})
			})
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&search, "search", "", "Filter by email or name")
	return cmd
}

func printUsers(w *tabwriter.Writer, users []api.UserListItem) {
	row(w, "ID", "EMAIL", "NAME", "ADMIN", "STATUS", "TOKENS", "COST", "LAST ACTIVE")
	for _, u := range users {
		row(w, u.ID, u.Email, format.Optional(u.Name, "-"), yesNo(u.IsAdmin), u.Status,
			format.Tokens(u.TotalTokens), format.Currency(u.TotalCost), format.Optional(u.LastActiveAt, "never"))
	}
}

func usersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Queries.User(ctx, args[0])
				if err != nil {
					return notFound(err, "user", args[0])
				}
				return render(cmd, u, func(w *tabwriter.Writer) {
					row(w, "id", u.ID)
					row(w, "email", u.Email)
					row(w, "name", format.Optional(u.Name, "-"))
					row(w, "admin", fmt.Sprintf("%s (level %d)", yesNo(u.IsAdmin), u.AdminLevel))
					row(w, "banned", yesNo(u.IsBanned))
					if u.IsBanned {
						row(w, "ban reason", format.Optional(u.BanReason, "-"))
						row(w, "banned at", format.Optional(u.BannedAt, "-"))
					}
					row(w, "created", u.CreatedAt)
				})
			})
		},
	}
}

// usersSearchCmd reads search terms line by line. Each line restarts the
// debounce window; only settled terms reach the API.
func usersSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search users interactively, one term per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				window := a.Config.UI.DebounceWindow
				if window <= 0 {
					window = debounce.DefaultWindow
				}
				results := make(chan string, 1)
				d := debounce.New("", window, func(term string) {
					// Keep only the newest settled term.
					select {
					case <-results:
					default:
					}
					results <- term
				})
				defer d.Stop()

				done := make(chan struct{})
				go func() {
					defer close(done)
					sc := bufio.NewScanner(cmd.InOrStdin())
					for sc.Scan() {
						d.Set(strings.TrimSpace(sc.Text()))
					}
				}()

				for {
					select {
					case <-ctx.Done():
						return nil
					case term := <-results:
						if err := searchOnce(ctx, cmd, a, term, limit); err != nil {
							return err
						}
					case <-done:
						// Input closed: give the last term time to settle.
						select {
						case term := <-results:
							return searchOnce(ctx, cmd, a, term, limit)
						case <-time.After(2 * window):
							return nil
						case <-ctx.Done():
							return nil
						}
					}
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Rows per search")
	return cmd
}

func searchOnce(ctx context.Context, cmd *cobra.Command, a *app.App, term string, limit int) error {
	resp, err := a.Queries.Users(ctx, api.UserListParams{Limit: limit, Search: term})
	if err != nil {
		return err
	}
	return render(cmd, resp, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "\n%q: %d match(es)\n", term, resp.Total)
		printUsers(w, resp.Users)
	})
}

func usersUpdateCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Change a user's name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.UserUpdate{Name: optString(cmd, "name", name), Email: optString(cmd, "email", email)}
			if in.Name == nil && in.Email == nil {
				return fmt.Errorf("nothing to update: pass --name or --email")
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Queries.UpdateUser(ctx, args[0], in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", u.ID, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	return cmd
}

func usersBanCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "ban <user-id>",
		Short: "Ban a user and end their sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Queries.BanUser(ctx, args[0], reason)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "banned %s at %s\n", r.UserID, format.Optional(r.BannedAt, "now"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the ban")
	return cmd
}

func usersUnbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban <user-id>",
		Short: "Lift a ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Queries.UnbanUser(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "unbanned %s\n", r.UserID)
				return nil
			})
		},
	}
}
