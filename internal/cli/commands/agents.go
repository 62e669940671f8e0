package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
)

func AgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Subagent configuration",
	}
	cmd.AddCommand(agentsListCmd(), agentsShowCmd(), agentsToggleCmd(), agentsUpdateCmd(), agentsResetCmd())
	return cmd
}

func overridden(flags ...bool) string {
	for _, f := range flags {
		if f {
			return "customized"
		}
	}
	return "default"
}

func agentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subagents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				agents, err := a.Queries.Agents(ctx)
				if err != nil {
					return err
				}
				return render(cmd, agents, func(w *tabwriter.Writer) {
					row(w, "NAME", "CATEGORY", "ENABLED", "MODEL", "TOOLS", "CONFIG")
					for _, ag := range agents {
						row(w, ag.Name, ag.Category, yesNo(ag.IsEnabled), ag.ModelID, ag.ToolCount,
							overridden(ag.IsModelOverridden, ag.IsPromptOverridden, ag.IsToolsOverridden, ag.IsDescriptionOverridden))
					}
				})
			})
		},
	}
}

func agentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one subagent, including its system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ag, err := a.Queries.Agent(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, ag, func(w *tabwriter.Writer) {
					row(w, "name", ag.Name)
					row(w, "description", ag.Description)
					row(w, "enabled", yesNo(ag.IsEnabled))
					row(w, "model", ag.ModelID)
					row(w, "tools", strings.Join(ag.Tools, ", "))
					fmt.Fprintf(w, "\n%s\n", ag.SystemPrompt)
				})
			})
		},
	}
}

func agentsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name> <on|off>",
		Short: "Enable or disable a subagent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseBool(args[1])
			if err != nil {
				return fmt.Errorf("state must be on or off: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ag, err := a.Queries.ToggleAgent(ctx, args[0], enabled)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s enabled=%t\n", ag.Name, ag.IsEnabled)
				return nil
			})
		},
	}
}

func agentsUpdateCmd() *cobra.Command {
	var (
		model, description, promptFile string
		tools                          []string
	)
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Override a subagent's model, prompt, tools or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.AgentUpdate{
				ModelID:     optString(cmd, "model", model),
				Description: optString(cmd, "description", description),
			}
			if cmd.Flags().Changed("tools") {
				in.Tools = &tools
			}
			if promptFile != "" {
				b, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				p := string(b)
				in.SystemPrompt = &p
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ag, err := a.Queries.UpdateAgent(ctx, args[0], in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s (model %s, %d tools)\n", ag.Name, ag.ModelID, ag.ToolCount)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model id")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "Read the system prompt from this file")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Comma-separated tool names")
	return cmd
}

func agentsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Drop every override of a subagent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Queries.ResetAgent(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s to defaults\n", args[0])
				return nil
			})
		},
	}
}

func OrchestratorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orchestrator",
		Short: "Top-level orchestrator configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Queries.Orchestrator(ctx)
				if err != nil {
					return err
				}
				return render(cmd, o, func(w *tabwriter.Writer) {
					row(w, "model", o.ModelID)
					row(w, "config", overridden(o.IsModelOverridden, o.IsPromptOverridden, o.IsToolsOverridden))
					row(w, "tools", strings.Join(o.Tools, ", "))
					row(w, "subagents", fmt.Sprintf("%d of %d enabled", o.EnabledSubagentCount, len(o.Subagents)))
					fmt.Fprintln(w)
					row(w, "SUBAGENT", "CATEGORY", "ENABLED", "TOOLS")
					for _, s := range o.Subagents {
						row(w, s.Name, s.Category, yesNo(s.IsEnabled), s.ToolCount)
					}
				})
			})
		},
	}
	cmd.AddCommand(orchestratorUpdateCmd(), orchestratorResetCmd())
	return cmd
}

func orchestratorUpdateCmd() *cobra.Command {
	var (
		model, promptFile string
		tools             []string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Override the orchestrator's model, prompt or tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.OrchestratorUpdate{ModelID: optString(cmd, "model", model)}
			if cmd.Flags().Changed("tools") {
				in.Tools = &tools
			}
			if promptFile != "" {
				b, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				p := string(b)
				in.SystemPrompt = &p
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Queries.UpdateOrchestrator(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "orchestrator model %s, %d tools\n", o.ModelID, len(o.Tools))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model id")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "Read the system prompt from this file")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Comma-separated tool names")
	return cmd
}

func orchestratorResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop every orchestrator override",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Queries.ResetOrchestrator(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "orchestrator reset to defaults")
				return nil
			})
		},
	}
}
