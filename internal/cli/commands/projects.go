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

func ProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse, delete and transfer projects",
	}
	cmd.AddCommand(projectsListCmd(), projectsShowCmd(), projectsDeleteCmd(), projectsTransferCmd())
	return cmd
}

func projectsListCmd() *cobra.Command {
	var (
		pf     pageFlags
		userID string
		own    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects across all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ps, err := pf.state(a)
				if err != nil {
					return err
				}
				p := api.ProjectListParams{Limit: ps.Limit(), Offset: ps.Offset(), UserID: userID}
				var resp api.ProjectListResponse
				if own {
					resp, err = a.Queries.Projects(ctx, p)
				} else {
					resp, err = a.Queries.AdminProjects(ctx, p)
				}
				if err != nil {
					return err
				}
				return render(cmd, resp, func(w *tabwriter.Writer) {
					row(w, "ID", "NAME", "OWNER", "DOMAIN", "ONBOARDING", "CREATED")
					for _, p := range resp.Projects {
						row(w, p.ID, p.Name, format.Optional(p.OwnerEmail, p.UserID), format.Optional(p.Domain, "-"),
							format.Optional(p.OnboardingStatus, "-"), p.CreatedAt)
					}
					w.Flush()
					pageFooter(cmd.OutOrStdout(), ps, resp.Total)
				})
			})
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&userID, "user", "", "Only projects owned by this user id")
	cmd.Flags().BoolVar(&own, "own", false, "List the signed-in account's projects instead of all projects")
	return cmd
}

func projectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				p, err := a.Queries.Project(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, p, func(w *tabwriter.Writer) {
					row(w, "id", p.ID)
					row(w, "name", p.Name)
					row(w, "owner", format.Optional(p.OwnerEmail, p.UserID))
					row(w, "domain", format.Optional(p.Domain, "-"))
					row(w, "website", format.Optional(p.WebsiteURL, "-"))
					row(w, "onboarding", format.Optional(p.OnboardingStatus, "-"))
					row(w, "research", format.Optional(p.ResearchStatus, "-"))
					row(w, "step", format.Optional(p.CurrentStep, "-"))
					row(w, "created", p.CreatedAt)
					row(w, "updated", p.UpdatedAt)
				})
			})
		},
	}
}

func projectsDeleteCmd() *cobra.Command {
	var own bool
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with its context and conversations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				var err error
				if own {
					err = a.Queries.DeleteProject(ctx, args[0])
				} else {
					err = a.Queries.AdminDeleteProject(ctx, args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted project %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&own, "own", false, "Use the owner endpoint instead of the admin endpoint")
	return cmd
}

func projectsTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <project-id> <new-owner-id>",
		Short: "Move a project to another user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Queries.TransferProject(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if jsonOutput(cmd) {
					return printJSON(cmd.OutOrStdout(), r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "project %s: %s -> %s\n", r.ProjectID, r.OldOwnerID, r.NewOwnerID)
				return nil
			})
		},
	}
}
