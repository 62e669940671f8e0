package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/format"
)

func ContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Per-project agent context storage",
	}
	cmd.AddCommand(contextStatsCmd(), contextShowCmd(), contextClearCmd())
	return cmd
}

func contextStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [project-id]",
		Short: "Context counts for one project, or every project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if len(args) == 1 {
					s, err := a.Queries.ContextStats(ctx, args[0])
					if err != nil {
						return err
					}
					return render(cmd, s, func(w *tabwriter.Writer) {
						row(w, "singletons", s.Singletons)
						row(w, "items", s.Items)
						row(w, "persons", s.Persons)
						row(w, "entities", s.Entities)
						row(w, "knowledge sources", s.KnowledgeSources)
						row(w, "total size", s.TotalSize)
					})
				}
				all, err := a.Queries.AllContextStats(ctx)
				if err != nil {
					return err
				}
				return render(cmd, all, func(w *tabwriter.Writer) {
					row(w, "PROJECT", "NAME", "OWNER", "SINGLETONS", "ITEMS", "PERSONS", "ENTITIES", "SOURCES", "SIZE")
					for _, p := range all {
						s := p.Stats
						row(w, p.ProjectID, p.ProjectName, format.Optional(p.OwnerEmail, p.OwnerID),
							s.Singletons, s.Items, s.Persons, s.Entities, s.KnowledgeSources, s.TotalSize)
					}
				})
			})
		},
	}
}

func contextShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "List the context records stored for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				d, err := a.Queries.ContextDetails(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd, d, func(w *tabwriter.Writer) {
					fmt.Fprintf(w, "%s (%s)\n\n", d.ProjectName, format.Optional(d.OwnerEmail, d.OwnerID))
					row(w, "SECTION", "ID", "CATEGORY", "FIELDS", "CREATED")
					for _, items := range [][]api.ContextDetailItem{d.Singletons, d.Items, d.Persons, d.Entities} {
						for _, item := range items {
							row(w, item.Section, item.ID, format.Optional(item.Category, "-"), truncate(dataKeys(item.Data), 50), item.CreatedAt)
						}
					}
					if len(d.KnowledgeSources) > 0 {
						fmt.Fprintln(w)
						row(w, "SOURCE", "TITLE", "TYPE", "LOCATION")
						for _, k := range d.KnowledgeSources {
							loc := format.Optional(k.URL, format.Optional(k.FilePath, "-"))
							row(w, k.ID, k.Title, k.SourceType, loc)
						}
					}
				})
			})
		},
	}
}

func contextClearCmd() *cobra.Command {
	var includeAudit bool
	cmd := &cobra.Command{
		Use:   "clear <project-id>",
		Short: "Delete all stored context for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Queries.ClearContext(ctx, args[0], includeAudit)
				if err != nil {
					return err
				}
				return render(cmd, r, func(w *tabwriter.Writer) {
					sections := make([]string, 0, len(r.Deleted))
					for k := range r.Deleted {
						sections = append(sections, k)
					}
					sort.Strings(sections)
					row(w, "SECTION", "DELETED")
					for _, k := range sections {
						row(w, k, r.Deleted[k])
					}
				})
			})
		},
	}
	cmd.Flags().BoolVar(&includeAudit, "include-audit", false, "Also delete the project's audit log")
	return cmd
}

func dataKeys(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
