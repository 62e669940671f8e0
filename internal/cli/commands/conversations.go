package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/format"
)

func ConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"convs"},
		Short:   "Inspect agent conversations",
	}
	cmd.AddCommand(conversationsListCmd(), conversationsShowCmd(), conversationsMessagesCmd(), conversationsDeleteCmd())
	return cmd
}

func conversationsListCmd() *cobra.Command {
	var (
		pf                        pageFlags
		status, projectID, userID string
		hasFiles                  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !format.Status(status).Known {
				return fmt.Errorf("--status must be one of %s", strings.Join(format.KnownStatuses, ", "))
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				ps, err := pf.state(a)
				if err != nil {
					return err
				}
				p := api.ConversationListParams{
					Limit:     ps.Limit(),
					Offset:    ps.Offset(),
					ProjectID: projectID,
					UserID:    userID,
					Status:    status,
				}
				if cmd.Flags().Changed("has-files") {
					p.HasFiles = &hasFiles
				}
				resp, err := a.Queries.Conversations(ctx, p)
				if err != nil {
					return err
				}
				return render(cmd, resp, func(w *tabwriter.Writer) {
					row(w, "CID", "TITLE", "STATUS", "MESSAGES", "FILES", "USER", "UPDATED")
					for _, c := range resp.Items {
						row(w, c.CID, truncate(format.Optional(c.Title, "(untitled)"), 40), format.Status(c.Status).Label,
							c.MessageCount, c.FileCount, c.UserID, c.UpdatedAt)
					}
					w.Flush()
					pageFooter(cmd.OutOrStdout(), ps, resp.Total)
				})
			})
		},
	}
	pf.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: "+strings.Join(format.KnownStatuses, ", "))
	cmd.Flags().StringVar(&projectID, "project", "", "Filter by project id")
	cmd.Flags().StringVar(&userID, "user", "", "Filter by user id")
	cmd.Flags().BoolVar(&hasFiles, "has-files", false, "Only conversations with (or, with =false, without) files")
	return cmd
}

func conversationsShowCmd() *cobra.Command {
	var maxLen int
	cmd := &cobra.Command{
		Use:   "show <cid>",
		Short: "Show a conversation's messages and files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				d, err := a.Queries.Conversation(ctx, args[0])
				if err != nil {
					return notFound(err, "conversation", args[0])
				}
				return render(cmd, d, func(w *tabwriter.Writer) {
					c := d.Conversation
					fmt.Fprintf(w, "%s\t%s\n", format.Optional(c.Title, "(untitled)"), format.Status(c.Status).Label)
					fmt.Fprintf(w, "user %s, %d messages, created %s\n\n", c.UserID, c.MessageCount, c.CreatedAt)
					printMessages(w, d.Messages, maxLen)
					if len(d.Files) == 0 {
						return
					}
					fmt.Fprintln(w)
					row(w, "FILE", "TYPE", "CATEGORY", "UPDATED")
					for _, f := range d.Files {
						ft := format.LookupFile(f.Path, f.IsBinary)
						row(w, format.FileName(f.Path), ft.Label, ft.Category, f.UpdatedAt)
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&maxLen, "max-len", 120, "Truncate message content to this many characters (0 for no limit)")
	return cmd
}

func printMessages(w *tabwriter.Writer, msgs []api.Message, maxLen int) {
	row(w, "TIME", "ROLE", "CONTENT")
	for _, m := range msgs {
		row(w, m.CreatedAt, m.Role, oneLine(m.Content, maxLen))
		for _, tc := range m.ToolCalls {
			row(w, "", "", fmt.Sprintf("tool %s [%s]", tc.Name, tc.Status))
		}
	}
}

func conversationsMessagesCmd() *cobra.Command {
	var maxLen int
	cmd := &cobra.Command{
		Use:   "messages <cid>",
		Short: "Print only a conversation's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				msgs, err := a.Queries.ConversationMessages(ctx, args[0])
				if err != nil {
					return notFound(err, "conversation", args[0])
				}
				return render(cmd, msgs, func(w *tabwriter.Writer) {
					printMessages(w, msgs, maxLen)
				})
			})
		},
	}
	cmd.Flags().IntVar(&maxLen, "max-len", 0, "Truncate message content to this many characters (0 for no limit)")
	return cmd
}

func conversationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cid>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Queries.DeleteConversation(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted conversation %s\n", args[0])
				return nil
			})
		},
	}
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 {
		return s
	}
	return truncate(s, n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
