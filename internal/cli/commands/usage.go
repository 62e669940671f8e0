package commands

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/format"
)

func UsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Token usage and cost",
	}
	cmd.AddCommand(usageSummaryCmd(), usageDailyCmd(), usageTopCmd())
	return cmd
}

func usageSummaryCmd() *cobra.Command {
	var (
		rf     rangeFlags
		userID string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals by model and by source",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rf.resolve(time.Now())
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.Queries.UsageSummary(ctx, api.UsageSummaryParams{UserID: userID, StartDate: r.StartDate, EndDate: r.EndDate})
				if err != nil {
					return err
				}
				return render(cmd, s, func(w *tabwriter.Writer) {
					fmt.Fprintf(w, "%s tokens (%s prompt, %s completion), %s over %d calls\n\n",
						format.Tokens(s.TotalTokens), format.Tokens(s.PromptTokens), format.Tokens(s.CompletionTokens),
						format.Currency(s.TotalCost), s.CallCount)
					row(w, "MODEL", "TOKENS", "COST", "CALLS")
					for _, name := range sortedKeys(s.ByModel) {
						m := s.ByModel[name]
						row(w, name, format.Tokens(m.TotalTokens), format.Currency(m.Cost), m.CallCount)
					}
					fmt.Fprintln(w)
					row(w, "SOURCE", "TOKENS", "COST", "CALLS")
					for _, name := range sortedKeys(s.BySource) {
						m := s.BySource[name]
						row(w, name, format.Tokens(m.TotalTokens), format.Currency(m.Cost), m.CallCount)
					}
				})
			})
		},
	}
	rf.bind(cmd, 30)
	cmd.Flags().StringVar(&userID, "user", "", "Only this user's usage")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func usageDailyCmd() *cobra.Command {
	var (
		days   int
		userID string
	)
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Usage per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				rows, err := a.Queries.DailyUsage(ctx, api.DailyUsageParams{UserID: userID, Days: days})
				if err != nil {
					return err
				}
				return render(cmd, rows, func(w *tabwriter.Writer) {
					row(w, "DATE", "TOKENS", "PROMPT", "COMPLETION", "COST", "CALLS")
					for _, d := range rows {
						row(w, d.Date, format.Tokens(d.TotalTokens), format.Tokens(d.PromptTokens),
							format.Tokens(d.CompletionTokens), format.Currency(d.Cost), d.CallCount)
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Number of days")
	cmd.Flags().StringVar(&userID, "user", "", "Only this user's usage")
	return cmd
}

func usageTopCmd() *cobra.Command {
	var (
		rf    rangeFlags
		limit int
		by    string
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Heaviest users by tokens or by messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "tokens" && by != "messages" {
				return fmt.Errorf("--by must be tokens or messages")
			}
			r, err := rf.resolve(time.Now())
			if err != nil {
				return err
			}
			p := api.TopUsersParams{StartDate: r.StartDate, EndDate: r.EndDate, Limit: limit}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if by == "messages" {
					top, err := a.Queries.TopUsersByMessages(ctx, p)
					if err != nil {
						return err
					}
					return render(cmd, top, func(w *tabwriter.Writer) {
						row(w, "#", "EMAIL", "NAME", "MESSAGES", "CONVERSATIONS")
						for i, u := range top.Users {
							row(w, i+1, u.Email, format.Optional(u.Name, "-"), u.Messages, u.Conversations)
						}
					})
				}
				top, err := a.Queries.TopUsers(ctx, p)
				if err != nil {
					return err
				}
				return render(cmd, top, func(w *tabwriter.Writer) {
					row(w, "#", "EMAIL", "NAME", "TOKENS", "COST", "CALLS")
					for i, u := range top.Users {
						row(w, i+1, u.Email, format.Optional(u.Name, "-"), format.Tokens(u.TotalTokens), format.Currency(u.TotalCost), u.CallCount)
					}
				})
			})
		},
	}
	rf.bind(cmd, 30)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of users")
	cmd.Flags().StringVar(&by, "by", "tokens", "Rank by tokens or messages")
	return cmd
}
