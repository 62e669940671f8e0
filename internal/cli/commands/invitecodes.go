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

func InviteCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invite-codes",
		Aliases: []string{"invites"},
		Short:   "Registration invite codes",
	}
	cmd.AddCommand(
		inviteListCmd(),
		inviteCreateCmd(),
		inviteUpdateCmd(),
		inviteSetActiveCmd("activate", true),
		inviteSetActiveCmd("deactivate", false),
		inviteDeleteCmd(),
		inviteUsagesCmd(),
	)
	return cmd
}

func printInviteCodes(w *tabwriter.Writer, codes []api.InviteCode) {
	row(w, "ID", "CODE", "USED", "REMAINING", "ACTIVE", "VALID", "EXPIRES", "NOTE")
	for _, c := range codes {
		row(w, c.ID, c.Code, fmt.Sprintf("%d/%d", c.UsedCount, c.MaxUses), c.RemainingUses,
			yesNo(c.IsActive), yesNo(c.IsValid), format.Optional(c.ExpiresAt, "never"), format.Optional(c.Note, ""))
	}
}

func inviteListCmd() *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invite codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				list, err := a.Queries.InviteCodes(ctx, activeOnly)
				if err != nil {
					return err
				}
				return render(cmd, list, func(w *tabwriter.Writer) {
					printInviteCodes(w, list.Codes)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active codes")
	return cmd
}

func inviteCreateCmd() *cobra.Command {
	var (
		code, note       string
		maxUses, expires int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invite code",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.InviteCodeCreate{
				Code:          optString(cmd, "code", code),
				MaxUses:       optInt(cmd, "max-uses", maxUses),
				ExpiresInDays: optInt(cmd, "expires-in-days", expires),
				Note:          optString(cmd, "note", note),
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				c, err := a.Queries.CreateInviteCode(ctx, in)
				if err != nil {
					return err
				}
				return render(cmd, c, func(w *tabwriter.Writer) {
					printInviteCodes(w, []api.InviteCode{c})
				})
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Explicit code (default: server generated)")
	cmd.Flags().IntVar(&maxUses, "max-uses", 1, "How many registrations the code allows")
	cmd.Flags().IntVar(&expires, "expires-in-days", 0, "Expire the code after this many days")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func inviteUpdateCmd() *cobra.Command {
	var (
		note             string
		maxUses, expires int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an invite code's limits or note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.InviteCodeUpdate{
				MaxUses:       optInt(cmd, "max-uses", maxUses),
				ExpiresInDays: optInt(cmd, "expires-in-days", expires),
				Note:          optString(cmd, "note", note),
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				c, err := a.Queries.UpdateInviteCode(ctx, args[0], in)
				if err != nil {
					return err
				}
				return render(cmd, c, func(w *tabwriter.Writer) {
					printInviteCodes(w, []api.InviteCode{c})
				})
			})
		},
	}
	cmd.Flags().IntVar(&maxUses, "max-uses", 0, "How many registrations the code allows")
	cmd.Flags().IntVar(&expires, "expires-in-days", 0, "Expire the code after this many days from now")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func inviteSetActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark an invite code %s", map[bool]string{true: "active", false: "inactive"}[active]),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				var (
					c   api.InviteCode
					err error
				)
				if active {
					c, err = a.Queries.ActivateInviteCode(ctx, args[0])
				} else {
					c, err = a.Queries.DeactivateInviteCode(ctx, args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", c.Code, c.IsActive)
				return nil
			})
		},
	}
}

func inviteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Queries.DeleteInviteCode(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted invite code %s\n", args[0])
				return nil
			})
		},
	}
}

func inviteUsagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usages <id>",
		Short: "Who registered with an invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Queries.InviteCodeUsages(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, u, func(w *tabwriter.Writer) {
					row(w, "USER", "EMAIL", "NAME", "USED AT")
					for _, x := range u.Usages {
						row(w, x.UserID, x.Email, format.Optional(x.Name, "-"), x.UsedAt)
					}
				})
			})
		},
	}
}
