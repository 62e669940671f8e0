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

func AdminsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Administrator grants",
	}
	cmd.AddCommand(adminsListCmd(), adminsSearchCmd(), adminsGrantCmd(), adminsUpdateCmd(), adminsRevokeCmd())
	return cmd
}

func adminsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List administrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				list, err := a.Queries.Admins(ctx)
				if err != nil {
					return err
				}
				return render(cmd, list, func(w *tabwriter.Writer) {
					row(w, "USER", "EMAIL", "NAME", "LEVEL", "GRANTED", "NOTE")
					for _, ad := range list.Admins {
						row(w, ad.UserID, ad.Email, format.Optional(ad.Name, "-"), fmt.Sprintf("%d %s", ad.Level, ad.LevelName),
							format.Optional(ad.GrantedAt, "-"), format.Optional(ad.Note, ""))
					}
				})
			})
		},
	}
}

func adminsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <email>",
		Short: "Find users to grant admin to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				users, err := a.Queries.SearchUsers(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, users, func(w *tabwriter.Writer) {
					row(w, "USER", "EMAIL", "NAME")
					for _, u := range users {
						row(w, u.UserID, u.Email, format.Optional(u.Name, "-"))
					}
				})
			})
		},
	}
}

func adminsGrantCmd() *cobra.Command {
	var (
		level int
		note  string
	)
	cmd := &cobra.Command{
		Use:   "grant <user-id>",
		Short: "Grant admin rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.AdminGrant{UserID: args[0], Level: optInt(cmd, "level", level), Note: optString(cmd, "note", note)}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ad, err := a.Queries.GrantAdmin(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "granted %s level %d (%s)\n", ad.Email, ad.Level, ad.LevelName)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "Admin level")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func adminsUpdateCmd() *cobra.Command {
	var (
		level int
		note  string
	)
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Change an administrator's level or note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.AdminUpdate{Level: optInt(cmd, "level", level), Note: optString(cmd, "note", note)}
			if in.Level == nil && in.Note == nil {
				return fmt.Errorf("nothing to update: pass --level or --note")
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ad, err := a.Queries.UpdateAdmin(ctx, args[0], in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now level %d (%s)\n", ad.Email, ad.Level, ad.LevelName)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&level, "level", 0, "Admin level")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func adminsRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user-id>",
		Short: "Revoke admin rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Queries.RevokeAdmin(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked admin from %s\n", args[0])
				return nil
			})
		},
	}
}
