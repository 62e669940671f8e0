package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adminconsole/internal/app"
)

func ToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Tool availability and settings",
	}
	cmd.AddCommand(toolsListCmd(), toolsToggleCmd(), toolsSettingsCmd())
	return cmd
}

func toolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools and which agents use them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				tools, err := a.Queries.Tools(ctx)
				if err != nil {
					return err
				}
				return render(cmd, tools, func(w *tabwriter.Writer) {
					row(w, "NAME", "CATEGORY", "ENABLED", "ORCHESTRATOR", "AGENTS")
					for _, t := range tools {
						row(w, t.Name, t.Category, yesNo(t.IsEnabled), yesNo(t.UsedByOrchestrator), strings.Join(t.UsedByAgents, ","))
					}
				})
			})
		},
	}
}

func toolsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name> <on|off>",
		Short: "Enable or disable a tool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseBool(args[1])
			if err != nil {
				return fmt.Errorf("state must be on or off: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Queries.ToggleTool(ctx, args[0], enabled)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s enabled=%t\n", t.Name, t.IsEnabled)
				return nil
			})
		},
	}
}

func toolsSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings <name> <json-object>",
		Short: "Replace a tool's settings object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Queries.UpdateToolSettings(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), t.Settings)
			})
		},
	}
}
