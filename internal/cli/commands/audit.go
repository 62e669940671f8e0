package commands

import (
	"context"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/format"
)

func AuditCmd() *cobra.Command {
	var (
		pf                 pageFlags
		rf                 rangeFlags
		action, entityType string
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Admin audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r struct{ start, end string }
			if rf.from != "" || rf.to != "" || cmd.Flags().Changed("days") {
				dr, err := rf.resolve(time.Now())
				if err != nil {
					return err
				}
				r.start, r.end = dr.StartDate, dr.EndDate
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ps, err := pf.state(a)
				if err != nil {
					return err
				}
				logs, err := a.Queries.AuditLogs(ctx, api.AuditListParams{
					Limit:      ps.Limit(),
					Offset:     ps.Offset(),
					Action:     action,
					EntityType: entityType,
					StartDate:  r.start,
					EndDate:    r.end,
				})
				if err != nil {
					return err
				}
				return render(cmd, logs, func(w *tabwriter.Writer) {
					row(w, "TIME", "USER", "ACTION", "RESOURCE", "ID")
					for _, l := range logs.Logs {
						row(w, l.CreatedAt, l.UserID, l.Action, l.ResourceType, format.Optional(l.ResourceID, "-"))
					}
					w.Flush()
					pageFooter(cmd.OutOrStdout(), ps, logs.Total)
				})
			})
		},
	}
	pf.bind(cmd)
	rf.bind(cmd, 7)
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&entityType, "entity", "", "Filter by resource type")
	return cmd
}
