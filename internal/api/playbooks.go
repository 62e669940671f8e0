package api

import (
	"context"

	"adminconsole/internal/transport"
)

type Playbook struct {
	ID           string   `json:"id"`
	SkillID      string   `json:"skillId"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	Tags         []string `json:"tags"`
	AutoActions  []string `json:"autoActions"`
	Artifacts    []string `json:"artifacts"`
	HasConfigure bool     `json:"hasConfigure"`
}

type PlaybookCategory struct {
	Category     string     `json:"category"`
	CategoryName string     `json:"categoryName"`
	Playbooks    []Playbook `json:"playbooks"`
}

type PlaybookList struct {
	Categories []PlaybookCategory `json:"categories"`
	Total      int                `json:"total"`
}

// PlaybookInput is used for both create and update; nil fields are not sent.
type PlaybookInput struct {
	SkillID      *string   `json:"skillId,omitempty"`
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Difficulty   *string   `json:"difficulty,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	AutoActions  *[]string `json:"autoActions,omitempty"`
	Artifacts    *[]string `json:"artifacts,omitempty"`
	HasConfigure *bool     `json:"hasConfigure,omitempty"`
}

type SyncResult struct {
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Skipped     int `json:"skipped"`
	TotalSkills int `json:"totalSkills"`
}

type playbookWire struct {
	ID           *string  `json:"id"`
	SkillID      *string  `json:"skillId"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Difficulty   *string  `json:"difficulty"`
	Tags         []string `json:"tags"`
	AutoActions  []string `json:"autoActions"`
	Artifacts    []string `json:"artifacts"`
	HasConfigure *bool    `json:"hasConfigure"`
}

func (w playbookWire) normalize() Playbook {
	return Playbook{
		ID:           str(w.ID),
		SkillID:      str(w.SkillID),
		Name:         str(w.Name),
		Description:  optStr(w.Description),
		Category:     str(w.Category),
		Difficulty:   str(w.Difficulty),
		Tags:         list(w.Tags),
		AutoActions:  list(w.AutoActions),
		Artifacts:    list(w.Artifacts),
		HasConfigure: flag(w.HasConfigure),
	}
}

type PlaybooksClient struct {
	service
}

// List groups playbooks by category. An empty category lists all of them.
func (c *PlaybooksClient) List(ctx context.Context, category string, activeOnly bool) (PlaybookList, error) {
	var w struct {
		Categories []struct {
			Category     *string        `json:"category"`
			CategoryName *string        `json:"categoryName"`
			Playbooks    []playbookWire `json:"playbooks"`
		} `json:"categories"`
		Total *int `json:"total"`
	}
	q := transport.NewQuery().Str("category", category).Bool("active_only", activeOnly)
	if err := c.get(ctx, "/playbooks", q, &w); err != nil {
		return PlaybookList{}, err
	}
	out := PlaybookList{Categories: make([]PlaybookCategory, 0, len(w.Categories)), Total: num(w.Total)}
	for _, cat := range w.Categories {
		out.Categories = append(out.Categories, PlaybookCategory{
			Category:     str(cat.Category),
			CategoryName: str(cat.CategoryName),
			Playbooks:    mapList(cat.Playbooks, playbookWire.normalize),
		})
	}
	return out, nil
}

func (c *PlaybooksClient) Get(ctx context.Context, id string) (Playbook, error) {
	var w playbookWire
	if err := c.get(ctx, "/playbooks/"+seg(id), nil, &w); err != nil {
		return Playbook{}, err
	}
	return w.normalize(), nil
}

func (c *PlaybooksClient) Create(ctx context.Context, in PlaybookInput) (Playbook, error) {
	var w playbookWire
	if err := c.post(ctx, "/playbooks", in, &w); err != nil {
		return Playbook{}, err
	}
	return w.normalize(), nil
}

func (c *PlaybooksClient) Update(ctx context.Context, id string, in PlaybookInput) (Playbook, error) {
	var w playbookWire
	if err := c.put(ctx, "/playbooks/"+seg(id), in, &w); err != nil {
		return Playbook{}, err
	}
	return w.normalize(), nil
}

func (c *PlaybooksClient) Delete(ctx context.Context, id string) error {
	return c.del(ctx, "/playbooks/"+seg(id), nil, nil)
}

// SyncFromSkills imports playbooks from the skills catalogue. overwrite replaces
// playbooks that already exist.
func (c *PlaybooksClient) SyncFromSkills(ctx context.Context, overwrite bool) (SyncResult, error) {
	var out SyncResult
	if err := c.post(ctx, "/playbooks/sync-from-skills", map[string]bool{"overwrite": overwrite}, &out); err != nil {
		return SyncResult{}, err
	}
	return out, nil
}
