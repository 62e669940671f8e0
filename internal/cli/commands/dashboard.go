package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/daterange"
	"adminconsole/internal/format"
)

type dashboard struct {
	Stats    api.DashboardStats `json:"stats"`
	Usage    api.UsageSummary   `json:"usage"`
	Sessions api.SessionStats   `json:"sessions"`
	Feedback api.FeedbackStats  `json:"feedback"`
}

func loadDashboard(ctx context.Context, a *app.App, days int, now time.Time) (dashboard, error) {
	r, err := daterange.LastDays(now, days)
	if err != nil {
		return dashboard{}, err
	}
	var d dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Stats, err = a.Queries.DashboardStats(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		d.Usage, err = a.Queries.UsageSummary(gctx, api.UsageSummaryParams{StartDate: r.StartDate, EndDate: r.EndDate})
		return err
	})
	g.Go(func() (err error) {
		d.Sessions, err = a.Queries.SessionStats(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		d.Feedback, err = a.Queries.FeedbackStats(gctx, api.FeedbackStatsParams{Period: api.PeriodDay, StartDate: r.StartDate, EndDate: r.EndDate})
		return err
	})
	return d, g.Wait()
}

func DashboardCmd() *cobra.Command {
	var (
		days     int
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Headline numbers, optionally refreshed on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				show := func() error {
					d, err := loadDashboard(ctx, a, days, time.Now())
					if err != nil {
						return err
					}
					return render(cmd, d, func(w *tabwriter.Writer) {
						fmt.Fprintf(w, "%s .. %s (%d days)\n", d.Stats.StartDate, d.Stats.EndDate, d.Stats.Days)
						row(w, "users", d.Stats.TotalUsers, "+"+fmt.Sprint(sumTrend(d.Stats.UserRegistrations)))
						row(w, "projects", d.Stats.TotalProjects, "+"+fmt.Sprint(sumTrend(d.Stats.ProjectCreations)))
						row(w, "conversations", d.Stats.TotalConversations, "+"+fmt.Sprint(sumTrend(d.Stats.ConversationCreations)))
						row(w, "tokens", format.Tokens(d.Usage.TotalTokens), format.Currency(d.Usage.TotalCost))
						row(w, "sessions", d.Sessions.TotalSessions, fmt.Sprintf("%d active", d.Sessions.ActiveSessions))
						row(w, "feedback", d.Feedback.TotalCount, format.Percent(d.Feedback.LikeRatio)+" liked")
					})
				}
				if err := show(); err != nil {
					return err
				}
				if interval <= 0 {
					return nil
				}
				// Reads inside the stale window come from the cache; older ones
				// print immediately and refresh in the background.
				t := time.NewTicker(interval)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-t.C:
						fmt.Fprintln(cmd.OutOrStdout())
						if err := show(); err != nil {
							return err
						}
					}
				}
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, fmt.Sprintf("Window in days, usually one of %v", daterange.Presets))
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh every interval until interrupted, e.g. 30s")
	return cmd
}

func sumTrend(points []api.TrendCount) int {
	n := 0
	for _, p := range points {
		n += p.Count
	}
	return n
}
