package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/format"
)

func SessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Operator view of user browsing sessions",
	}
	cmd.AddCommand(sessionsListCmd(), sessionsStatsCmd(), sessionsRankingCmd(), sessionsTrendsCmd(), sessionsEndCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	var (
		pf                 pageFlags
		userID, status, dt string
		days               int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch api.SessionStatusFilter(status) {
			case "", api.SessionsActive, api.SessionsEnded:
			default:
				return fmt.Errorf("--status must be active or ended")
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ps, err := pf.state(a)
				if err != nil {
					return err
				}
				resp, err := a.Queries.Sessions(ctx, api.SessionListParams{
					Limit:      ps.Limit(),
					Offset:     ps.Offset(),
					UserID:     userID,
					Status:     api.SessionStatusFilter(status),
					DeviceType: dt,
					Days:       days,
				})
				if err != nil {
					return err
				}
				return render(cmd, resp, func(w *tabwriter.Writer) {
					row(w, "ID", "USER", "DEVICE", "STARTED", "DURATION", "PAGES", "MESSAGES", "STATE")
					for _, s := range resp.Sessions {
						dur := "-"
						if s.DurationSeconds != nil {
							dur = format.Duration(*s.DurationSeconds)
						}
						state := "active"
						if s.EndedAt != nil {
							state = "ended"
						}
						row(w, s.ID, s.UserEmail, format.Optional(s.DeviceType, "-"), s.StartedAt, dur, s.PageViews, s.MessageCount, state)
					}
					w.Flush()
					pageFooter(cmd.OutOrStdout(), ps, resp.Total)
				})
			})
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&userID, "user", "", "Filter by user id")
	cmd.Flags().StringVar(&status, "status", "", "active or ended")
	cmd.Flags().StringVar(&dt, "device", "", "Filter by device type")
	cmd.Flags().IntVar(&days, "days", 0, "Only sessions started within this many days")
	return cmd
}

func sessionsStatsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate session statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.Queries.SessionStats(ctx, days)
				if err != nil {
					return err
				}
				return render(cmd, s, func(w *tabwriter.Writer) {
					row(w, "sessions", s.TotalSessions)
					row(w, "active", s.ActiveSessions)
					row(w, "unique users", s.UniqueUsers)
					row(w, "total hours", fmt.Sprintf("%.1f", s.TotalDurationHours))
					row(w, "avg minutes", fmt.Sprintf("%.1f", s.AvgDurationMinutes))
					row(w, "page views", s.TotalPageViews)
					row(w, "messages", s.TotalMessages)
				})
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Window in days")
	return cmd
}

func sessionsRankingCmd() *cobra.Command {
	var limit, days int
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Users ranked by total session time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Queries.SessionRanking(ctx, api.RankingParams{Limit: limit, Days: days})
				if err != nil {
					return err
				}
				return render(cmd, r, func(w *tabwriter.Writer) {
					row(w, "#", "EMAIL", "TOTAL", "SESSIONS", "AVG", "LAST")
					for i, u := range r.Users {
						row(w, i+1, u.Email, format.Duration(u.TotalDurationSeconds), u.SessionCount,
							format.Duration(int64(u.AvgDurationSeconds)), format.Optional(u.LastSessionAt, "-"))
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of users")
	cmd.Flags().IntVar(&days, "days", 0, "Window in days (0 for all time)")
	return cmd
}

func sessionsTrendsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Daily session counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Queries.SessionTrends(ctx, days)
				if err != nil {
					return err
				}
				return render(cmd, t, func(w *tabwriter.Writer) {
					row(w, "DATE", "SESSIONS", "USERS", "HOURS")
					for _, d := range t.DailyStats {
						row(w, d.Date, d.SessionCount, d.UniqueUsers, fmt.Sprintf("%.1f", d.TotalDurationHours))
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Window in days")
	return cmd
}

func sessionsEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "Force-end a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ok, err := a.Queries.EndSession(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "session %s was already ended\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ended session %s\n", args[0])
				return nil
			})
		},
	}
}
