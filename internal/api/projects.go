package api

import (
	"context"

	"adminconsole/internal/transport"
)

type Project struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	OwnerEmail       *string        `json:"ownerEmail"`
	Name             string         `json:"name"`
	Domain           *string        `json:"domain"`
	WebsiteURL       *string        `json:"websiteUrl"`
	Settings         map[string]any `json:"settings"`
	OnboardingStatus *string        `json:"onboardingStatus"`
	ResearchStatus   *string        `json:"researchStatus"`
	CurrentStep      *string        `json:"currentStep"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

type ProjectListParams struct {
	Limit  int
	Offset int
	UserID string
}

func (p ProjectListParams) query() *transport.Query {
	return transport.NewQuery().
		Int("limit", p.Limit).
		Int("offset", p.Offset).
		Str("userId", p.UserID)
}

type ProjectListResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

type TransferResult struct {
	ProjectID  string `json:"projectId"`
	OldOwnerID string `json:"oldOwnerId"`
	NewOwnerID string `json:"newOwnerId"`
}

// projectWire is the self-service shape, already camelCase.
type projectWire struct {
	ID               *string        `json:"id"`
	UserID           *string        `json:"userId"`
	OwnerEmail       *string        `json:"ownerEmail"`
	Name             *string        `json:"name"`
	Domain           *string        `json:"domain"`
	WebsiteURL       *string        `json:"websiteUrl"`
	Settings         map[string]any `json:"settings"`
	OnboardingStatus *string        `json:"onboardingStatus"`
	ResearchStatus   *string        `json:"researchStatus"`
	CurrentStep      *string        `json:"currentStep"`
	CreatedAt        *string        `json:"createdAt"`
	UpdatedAt        *string        `json:"updatedAt"`
}

func (w projectWire) normalize() Project {
	return Project{
		ID:               str(w.ID),
		UserID:           str(w.UserID),
		OwnerEmail:       optStr(w.OwnerEmail),
		Name:             str(w.Name),
		Domain:           optStr(w.Domain),
		WebsiteURL:       optStr(w.WebsiteURL),
		Settings:         w.Settings,
		OnboardingStatus: optStr(w.OnboardingStatus),
		ResearchStatus:   optStr(w.ResearchStatus),
		CurrentStep:      optStr(w.CurrentStep),
		CreatedAt:        str(w.CreatedAt),
		UpdatedAt:        str(w.UpdatedAt),
	}
}

// adminProjectWire is the /admin/projects shape with owner fields.
type adminProjectWire struct {
	ID               *string `json:"id"`
	Name             *string `json:"name"`
	Domain           *string `json:"domain"`
	OwnerID          *string `json:"owner_id"`
	OwnerEmail       *string `json:"owner_email"`
	OnboardingStatus *string `json:"onboarding_status"`
	ResearchStatus   *string `json:"research_status"`
	CurrentStep      *string `json:"current_step"`
	CreatedAt        *string `json:"created_at"`
	UpdatedAt        *string `json:"updated_at"`
}

func (w adminProjectWire) normalize() Project {
	return Project{
		ID:               str(w.ID),
		UserID:           str(w.OwnerID),
		OwnerEmail:       optStr(w.OwnerEmail),
		Name:             str(w.Name),
		Domain:           optStr(w.Domain),
		OnboardingStatus: optStr(w.OnboardingStatus),
		ResearchStatus:   optStr(w.ResearchStatus),
		CurrentStep:      optStr(w.CurrentStep),
		CreatedAt:        str(w.CreatedAt),
		UpdatedAt:        str(w.UpdatedAt),
	}
}

type transferWire struct {
	ProjectID       *string `json:"projectId"`
	ProjectIDSnake  *string `json:"project_id"`
	OldOwnerID      *string `json:"oldOwnerId"`
	OldOwnerIDSnake *string `json:"old_owner_id"`
	NewOwnerID      *string `json:"newOwnerId"`
	NewOwnerIDSnake *string `json:"new_owner_id"`
}

type ProjectsClient struct {
	service
}

// List reads the caller's own projects. The endpoint returns a bare array, so the
// total is the number of rows returned; rows beyond Limit are dropped.
func (c *ProjectsClient) List(ctx context.Context, p ProjectListParams) (ProjectListResponse, error) {
	var w []projectWire
	if err := c.get(ctx, "/projects", p.query(), &w); err != nil {
		return ProjectListResponse{}, err
	}
	projects := mapList(w, projectWire.normalize)
	total := len(projects)
	if p.Limit > 0 && len(projects) > p.Limit {
		projects = projects[:p.Limit]
	}
	return ProjectListResponse{Projects: projects, Total: total}, nil
}

func (c *ProjectsClient) Get(ctx context.Context, projectID string) (Project, error) {
	var w projectWire
	if err := c.get(ctx, "/projects/"+seg(projectID), nil, &w); err != nil {
		return Project{}, err
	}
	return w.normalize(), nil
}

func (c *ProjectsClient) Delete(ctx context.Context, projectID string) error {
	return c.del(ctx, "/projects/"+seg(projectID), nil, nil)
}

func (c *ProjectsClient) AdminList(ctx context.Context, p ProjectListParams) (ProjectListResponse, error) {
	var w struct {
		Projects []adminProjectWire `json:"projects"`
		Total    *int               `json:"total"`
	}
	if err := c.get(ctx, "/admin/projects", p.query(), &w); err != nil {
		return ProjectListResponse{}, err
	}
	return ProjectListResponse{
		Projects: mapList(w.Projects, adminProjectWire.normalize),
		Total:    num(w.Total),
	}, nil
}

func (c *ProjectsClient) AdminDelete(ctx context.Context, projectID string) error {
	return c.del(ctx, "/admin/projects/"+seg(projectID), nil, nil)
}

func (c *ProjectsClient) TransferOwnership(ctx context.Context, projectID, newOwnerID string) (TransferResult, error) {
	body := map[string]string{"new_owner_id": newOwnerID}
	var w transferWire
	if err := c.post(ctx, "/admin/projects/"+seg(projectID)+"/transfer", body, &w); err != nil {
		return TransferResult{}, err
	}
	out := TransferResult{
		ProjectID:  firstStr(w.ProjectID, w.ProjectIDSnake),
		OldOwnerID: firstStr(w.OldOwnerID, w.OldOwnerIDSnake),
		NewOwnerID: firstStr(w.NewOwnerID, w.NewOwnerIDSnake),
	}
	if out.ProjectID == "" {
		out.ProjectID = projectID
	}
	if out.NewOwnerID == "" {
		out.NewOwnerID = newOwnerID
	}
	return out, nil
}
