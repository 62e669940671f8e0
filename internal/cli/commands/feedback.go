package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/format"
)

func FeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Like/dislike feedback on assistant messages",
	}
	cmd.AddCommand(feedbackListCmd(), feedbackStatsCmd(), feedbackShowCmd(), feedbackExportCmd())
	return cmd
}

func feedbackType(s string) (api.FeedbackType, error) {
	switch api.FeedbackType(s) {
	case "", api.FeedbackLike, api.FeedbackDislike:
		return api.FeedbackType(s), nil
	}
	return "", fmt.Errorf("--type must be like or dislike")
}

func feedbackListCmd() *cobra.Command {
	var (
		pf                    pageFlags
		rf                    rangeFlags
		typ, projectID, model string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := feedbackType(typ)
			if err != nil {
				return err
			}
			r, err := rf.resolve(time.Now())
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ps, err := pf.state(a)
				if err != nil {
					return err
				}
				offset := ps.Offset()
				resp, err := a.Queries.Feedback(ctx, api.FeedbackListParams{
					Type:      ft,
					ProjectID: projectID,
					Model:     model,
					StartDate: r.StartDate,
					EndDate:   r.EndDate,
					Limit:     ps.Limit(),
					Offset:    &offset,
				})
				if err != nil {
					return err
				}
				return render(cmd, resp, func(w *tabwriter.Writer) {
					row(w, "ID", "TYPE", "MODEL", "REASON", "CREATED")
					for _, f := range resp.Feedbacks {
						row(w, f.ID, f.FeedbackType, format.Optional(f.ModelName, "-"), oneLine(f.Reason, 60), f.CreatedAt)
					}
					w.Flush()
					pageFooter(cmd.OutOrStdout(), ps, resp.Total)
				})
			})
		},
	}
	pf.bind(cmd)
	rf.bind(cmd, 30)
	cmd.Flags().StringVar(&typ, "type", "", "like or dislike")
	cmd.Flags().StringVar(&projectID, "project", "", "Filter by project id")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model name")
	return cmd
}

func feedbackStatsCmd() *cobra.Command {
	var (
		rf                       rangeFlags
		period, projectID, model string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Like ratio, per-model counts and trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch api.TrendPeriod(period) {
			case api.PeriodDay, api.PeriodWeek, api.PeriodMonth:
			default:
				return fmt.Errorf("--period must be day, week or month")
			}
			r, err := rf.resolve(time.Now())
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.Queries.FeedbackStats(ctx, api.FeedbackStatsParams{
					ProjectID: projectID,
					Model:     model,
					Period:    api.TrendPeriod(period),
					StartDate: r.StartDate,
					EndDate:   r.EndDate,
				})
				if err != nil {
					return err
				}
				return render(cmd, s, func(w *tabwriter.Writer) {
					fmt.Fprintf(w, "total %d, likes %d, dislikes %d, like ratio %s\n\n",
						s.TotalCount, s.LikeCount, s.DislikeCount, format.Percent(s.LikeRatio))
					row(w, "MODEL", "LIKES", "DISLIKES")
					for _, m := range s.ByModel {
						row(w, m.Model, m.Likes, m.Dislikes)
					}
					fmt.Fprintln(w)
					row(w, "DATE", "LIKES", "DISLIKES")
					for _, p := range s.Trend {
						row(w, p.Date, p.Likes, p.Dislikes)
					}
				})
			})
		},
	}
	rf.bind(cmd, 30)
	cmd.Flags().StringVar(&period, "period", string(api.PeriodDay), "Trend bucket: day, week or month")
	cmd.Flags().StringVar(&projectID, "project", "", "Filter by project id")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model name")
	return cmd
}

func feedbackShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <feedback-id>",
		Short: "Show the exchange a feedback entry refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				d, err := a.Queries.FeedbackDetail(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, d, func(w *tabwriter.Writer) {
					row(w, "type", d.FeedbackType)
					row(w, "reason", d.Reason)
					row(w, "model", format.Optional(d.ModelName, "-"))
					row(w, "created", d.CreatedAt)
					if d.TokenUsage != nil {
						row(w, "tokens", fmt.Sprintf("%s prompt, %s completion",
							format.Tokens(d.TokenUsage.PromptTokens), format.Tokens(d.TokenUsage.CompletionTokens)))
					}
					row(w, "input", oneLine(format.Optional(d.UserInput, "-"), 200))
					row(w, "output", oneLine(format.Optional(d.AssistantOutput, "-"), 200))
					for _, tc := range d.ToolCallsUsed {
						row(w, "tool", fmt.Sprintf("%s (%s) %s", tc.Name, tc.Type, tc.Status))
					}
				})
			})
		},
	}
}

func feedbackExportCmd() *cobra.Command {
	var (
		rf           rangeFlags
		typ, out     string
		limit, conns int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write feedback with full context as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := feedbackType(typ)
			if err != nil {
				return err
			}
			r, err := rf.resolve(time.Now())
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				var w io.Writer = cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer f.Close()
					w = f
				}
				n, err := a.Queries.API().Feedback.Export(ctx, w, api.ExportOptions{
					Type:        ft,
					StartDate:   r.StartDate,
					EndDate:     r.EndDate,
					Limit:       limit,
					Concurrency: conns,
				})
				if err != nil {
					return err
				}
				a.Log.Info().Int("records", n).Str("file", out).Msg("feedback exported")
				if out != "" && out != "-" {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", n, out)
				}
				return nil
			})
		},
	}
	rf.bind(cmd, 30)
	cmd.Flags().StringVar(&typ, "type", string(api.FeedbackDislike), "like or dislike")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to export (default 1000)")
	cmd.Flags().IntVar(&conns, "concurrency", 0, "Parallel detail fetches")
	return cmd
}
