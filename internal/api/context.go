package api

import (
	"context"

	"adminconsole/internal/transport"
)

type ContextStats struct {
	Singletons       int   `json:"singletons"`
	Items            int   `json:"items"`
	Persons          int   `json:"persons"`
	Entities         int   `json:"entities"`
	KnowledgeSources int   `json:"knowledgeSources"`
	TotalSize        int64 `json:"totalSize"`
}

type ProjectContextStats struct {
	ProjectID   string       `json:"projectId"`
	ProjectName string       `json:"projectName"`
	OwnerID     string       `json:"ownerId"`
	OwnerEmail  *string      `json:"ownerEmail"`
	Stats       ContextStats `json:"stats"`
}

type ContextDetailItem struct {
	ID        string         `json:"id"`
	Section   string         `json:"section"`
	Category  *string        `json:"category"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt *string        `json:"updatedAt"`
}

type KnowledgeSource struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SourceType string  `json:"sourceType"`
	URL        *string `json:"url"`
	FilePath   *string `json:"filePath"`
	CreatedAt  string  `json:"createdAt"`
}

type ProjectContextDetail struct {
	ProjectID        string              `json:"projectId"`
	ProjectName      string              `json:"projectName"`
	OwnerID          string              `json:"ownerId"`
	OwnerEmail       *string             `json:"ownerEmail"`
	Singletons       []ContextDetailItem `json:"singletons"`
	Items            []ContextDetailItem `json:"items"`
	Persons          []ContextDetailItem `json:"persons"`
	Entities         []ContextDetailItem `json:"entities"`
	KnowledgeSources []KnowledgeSource   `json:"knowledgeSources"`
}

type ClearResult struct {
	Deleted map[string]int `json:"deleted"`
}

type contextStatsWire struct {
	Singletons       *int   `json:"singletons"`
	Items            *int   `json:"items"`
	Persons          *int   `json:"persons"`
	Entities         *int   `json:"entities"`
	KnowledgeSources *int   `json:"knowledge_sources"`
	TotalSize        *int64 `json:"total_size"`
}

// normalize reports TotalSize as 0 when the server does not compute it.
func (w contextStatsWire) normalize() ContextStats {
	return ContextStats{
		Singletons:       num(w.Singletons),
		Items:            num(w.Items),
		Persons:          num(w.Persons),
		Entities:         num(w.Entities),
		KnowledgeSources: num(w.KnowledgeSources),
		TotalSize:        num(w.TotalSize),
	}
}

type contextItemWire struct {
	ID        *string        `json:"id"`
	Section   *string        `json:"section"`
	Category  *string        `json:"category"`
	Data      map[string]any `json:"data"`
	CreatedAt *string        `json:"created_at"`
	UpdatedAt *string        `json:"updated_at"`
}

func (w contextItemWire) normalize() ContextDetailItem {
	return ContextDetailItem{
		ID:        str(w.ID),
		Section:   str(w.Section),
		Category:  optStr(w.Category),
		Data:      dict(w.Data),
		CreatedAt: str(w.CreatedAt),
		UpdatedAt: optStr(w.UpdatedAt),
	}
}

type knowledgeSourceWire struct {
	ID         *string `json:"id"`
	Title      *string `json:"title"`
	SourceType *string `json:"source_type"`
	URL        *string `json:"url"`
	FilePath   *string `json:"file_path"`
	CreatedAt  *string `json:"created_at"`
}

func (w knowledgeSourceWire) normalize() KnowledgeSource {
	return KnowledgeSource{
		ID:         str(w.ID),
		Title:      str(w.Title),
		SourceType: str(w.SourceType),
		URL:        optStr(w.URL),
		FilePath:   optStr(w.FilePath),
		CreatedAt:  str(w.CreatedAt),
	}
}

type ContextClient struct {
	service
}

func (c *ContextClient) ProjectStats(ctx context.Context, projectID string) (ContextStats, error) {
	var w contextStatsWire
	if err := c.get(ctx, "/admin/context/projects/"+seg(projectID)+"/stats", nil, &w); err != nil {
		return ContextStats{}, err
	}
	return w.normalize(), nil
}

// Clear deletes a project's stored context. includeAudit also drops its audit trail.
func (c *ContextClient) Clear(ctx context.Context, projectID string, includeAudit bool) (ClearResult, error) {
	var w struct {
		Deleted map[string]int `json:"deleted"`
	}
	q := transport.NewQuery().Bool("include_audit", includeAudit)
	if err := c.del(ctx, "/admin/context/projects/"+seg(projectID), q, &w); err != nil {
		return ClearResult{}, err
	}
	if w.Deleted == nil {
		w.Deleted = map[string]int{}
	}
	return ClearResult{Deleted: w.Deleted}, nil
}

func (c *ContextClient) AllStats(ctx context.Context) ([]ProjectContextStats, error) {
	var w struct {
		Projects []struct {
			ProjectID   *string          `json:"project_id"`
			ProjectName *string          `json:"project_name"`
			OwnerID     *string          `json:"owner_id"`
			OwnerEmail  *string          `json:"owner_email"`
			Stats       contextStatsWire `json:"stats"`
		} `json:"projects"`
	}
	if err := c.get(ctx, "/admin/context/stats", nil, &w); err != nil {
		return nil, err
	}
	out := make([]ProjectContextStats, 0, len(w.Projects))
	for _, p := range w.Projects {
		out = append(out, ProjectContextStats{
			ProjectID:   str(p.ProjectID),
			ProjectName: str(p.ProjectName),
			OwnerID:     str(p.OwnerID),
			OwnerEmail:  optStr(p.OwnerEmail),
			Stats:       p.Stats.normalize(),
		})
	}
	return out, nil
}

func (c *ContextClient) ProjectDetails(ctx context.Context, projectID string) (ProjectContextDetail, error) {
	var w struct {
		ProjectID        *string               `json:"project_id"`
		ProjectName      *string               `json:"project_name"`
		OwnerID          *string               `json:"owner_id"`
		OwnerEmail       *string               `json:"owner_email"`
		Singletons       []contextItemWire     `json:"singletons"`
		Items            []contextItemWire     `json:"items"`
		Persons          []contextItemWire     `json:"persons"`
		Entities         []contextItemWire     `json:"entities"`
		KnowledgeSources []knowledgeSourceWire `json:"knowledge_sources"`
	}
	if err := c.get(ctx, "/admin/context/projects/"+seg(projectID)+"/details", nil, &w); err != nil {
		return ProjectContextDetail{}, err
	}
	id := str(w.ProjectID)
	if id == "" {
		id = projectID
	}
	return ProjectContextDetail{
		ProjectID:        id,
		ProjectName:      str(w.ProjectName),
		OwnerID:          str(w.OwnerID),
		OwnerEmail:       optStr(w.OwnerEmail),
		Singletons:       mapList(w.Singletons, contextItemWire.normalize),
		Items:            mapList(w.Items, contextItemWire.normalize),
		Persons:          mapList(w.Persons, contextItemWire.normalize),
		Entities:         mapList(w.Entities, contextItemWire.normalize),
		KnowledgeSources: mapList(w.KnowledgeSources, knowledgeSourceWire.normalize),
	}, nil
}
