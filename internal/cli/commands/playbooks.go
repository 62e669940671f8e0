package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
)

func PlaybooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbooks",
		Short: "Skill playbooks offered to users",
	}
	cmd.AddCommand(playbooksListCmd(), playbooksShowCmd(), playbooksApplyCmd(), playbooksDeleteCmd(), playbooksSyncCmd())
	return cmd
}

func playbooksListCmd() *cobra.Command {
	var (
		category   string
		activeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playbooks by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				list, err := a.Queries.Playbooks(ctx, category, activeOnly)
				if err != nil {
					return err
				}
				return render(cmd, list, func(w *tabwriter.Writer) {
					row(w, "CATEGORY", "ID", "SKILL", "NAME", "DIFFICULTY", "TAGS")
					for _, c := range list.Categories {
						for _, p := range c.Playbooks {
							row(w, c.CategoryName, p.ID, p.SkillID, p.Name, p.Difficulty, strings.Join(p.Tags, ","))
						}
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only this category")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active playbooks")
	return cmd
}

func playbooksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a playbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				p, err := a.Queries.Playbook(ctx, args[0])
				if err != nil {
					return notFound(err, "playbook", args[0])
				}
				if jsonOutput(cmd) {
					return printJSON(cmd.OutOrStdout(), p)
				}
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(newPlaybookFile(p))
			})
		},
	}
}

// playbookFile is the YAML layout accepted by `playbooks apply` and printed by
// `playbooks show`.
type playbookFile struct {
	SkillID      *string   `yaml:"skill_id,omitempty" json:"skillId,omitempty"`
	Name         *string   `yaml:"name,omitempty" json:"name,omitempty"`
	Description  *string   `yaml:"description,omitempty" json:"description,omitempty"`
	Category     *string   `yaml:"category,omitempty" json:"category,omitempty"`
	Difficulty   *string   `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Tags         *[]string `yaml:"tags,omitempty" json:"tags,omitempty"`
	AutoActions  *[]string `yaml:"auto_actions,omitempty" json:"autoActions,omitempty"`
	Artifacts    *[]string `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	HasConfigure *bool     `yaml:"has_configure,omitempty" json:"hasConfigure,omitempty"`
}

func newPlaybookFile(p api.Playbook) playbookFile {
	return playbookFile{
		SkillID:      &p.SkillID,
		Name:         &p.Name,
		Description:  p.Description,
		Category:     &p.Category,
		Difficulty:   &p.Difficulty,
		Tags:         &p.Tags,
		AutoActions:  &p.AutoActions,
		Artifacts:    &p.Artifacts,
		HasConfigure: &p.HasConfigure,
	}
}

func (f playbookFile) input() api.PlaybookInput {
	return api.PlaybookInput(f)
}

func readPlaybookFile(path string) (playbookFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return playbookFile{}, fmt.Errorf("read playbook: %w", err)
	}
	var f playbookFile
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(b, &f)
	} else {
		err = yaml.Unmarshal(b, &f)
	}
	if err != nil {
		return playbookFile{}, fmt.Errorf("parse playbook %s: %w", path, err)
	}
	return f, nil
}

func playbooksApplyCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Create a playbook from a YAML or JSON file, or update one with --id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readPlaybookFile(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				var p api.Playbook
				if id == "" {
					if f.SkillID == nil || f.Name == nil {
						return fmt.Errorf("skill_id and name are required to create a playbook")
					}
					p, err = a.Queries.CreatePlaybook(ctx, f.input())
				} else {
					p, err = a.Queries.UpdatePlaybook(ctx, id, f.input())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved playbook %s (%s)\n", p.ID, p.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Update this playbook instead of creating one")
	return cmd
}

func playbooksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a playbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Queries.DeletePlaybook(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted playbook %s\n", args[0])
				return nil
			})
		},
	}
}

func playbooksSyncCmd() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create playbooks for skills that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				r, err := a.Queries.SyncPlaybooks(ctx, overwrite)
				if err != nil {
					return err
				}
				return render(cmd, r, func(w *tabwriter.Writer) {
					row(w, "skills", r.TotalSkills)
					row(w, "created", r.Created)
					row(w, "updated", r.Updated)
					row(w, "skipped", r.Skipped)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Also overwrite existing playbooks")
	return cmd
}
