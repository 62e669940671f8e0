package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"adminconsole/internal/cli/commands"
)

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return NewRoot().ExecuteContext(ctx)
}

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "adminctl",
		Short:        "Admin console client for the agent platform API",
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("json", false, "Print raw JSON instead of tables")
	root.PersistentFlags().String("api-url", "", "Admin API base URL (overrides ADMIN_API_URL)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")

	root.AddCommand(
		commands.LoginCmd(),
		commands.LogoutCmd(),
		commands.WhoamiCmd(),
		commands.PrefsCmd(),
		commands.DashboardCmd(),
		commands.UsersCmd(),
		commands.ProjectsCmd(),
		commands.ConversationsCmd(),
		commands.SessionsCmd(),
		commands.FeedbackCmd(),
		commands.ContextCmd(),
		commands.AgentsCmd(),
		commands.OrchestratorCmd(),
		commands.ToolsCmd(),
		commands.ModelsCmd(),
		commands.InviteCodesCmd(),
		commands.AdminsCmd(),
		commands.PlaybooksCmd(),
		commands.UsageCmd(),
		commands.AuditCmd(),
	)
	return root
}
