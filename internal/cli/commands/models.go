package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adminconsole/internal/app"
)

func ModelsCmd() *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Models available to agents, grouped by provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if defaults {
					d, err := a.Queries.ModelDefaults(ctx)
					if err != nil {
						return err
					}
					return render(cmd, d, func(w *tabwriter.Writer) {
						row(w, "orchestrator", d.OrchestratorModel)
						row(w, "subagent", d.DefaultSubagentModel)
					})
				}
				g, err := a.Queries.Models(ctx)
				if err != nil {
					return err
				}
				return render(cmd, g, func(w *tabwriter.Writer) {
					row(w, "PROVIDER", "ID", "NAME", "CONTEXT", "VISION", "TOOLS")
					for _, p := range g.Providers {
						for _, m := range p.Models {
							ctxWin := "-"
							if m.ContextWindow != nil {
								ctxWin = fmt.Sprint(*m.ContextWindow)
							}
							row(w, p.ProviderName, m.ID, m.Name, ctxWin, yesNo(m.SupportsVision), yesNo(m.SupportsTools))
						}
					}
				})
			})
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Show the default model assignments instead")
	return cmd
}
