package api

import "context"

type ModelOption struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Provider       string  `json:"provider"`
	Description    *string `json:"description"`
	ContextWindow  *int    `json:"contextWindow"`
	SupportsVision bool    `json:"supportsVision"`
	SupportsTools  bool    `json:"supportsTools"`
}

type ProviderModels struct {
	ProviderID   string        `json:"providerId"`
	ProviderName string        `json:"providerName"`
	Icon         string        `json:"icon"`
	Models       []ModelOption `json:"models"`
}

type ModelsGrouped struct {
	Providers []ProviderModels `json:"providers"`
}

type ModelDefaults struct {
	OrchestratorModel    string `json:"orchestratorModel"`
	DefaultSubagentModel string `json:"defaultSubagentModel"`
}

type modelWire struct {
	ID             *string `json:"id"`
	Name           *string `json:"name"`
	Provider       *string `json:"provider"`
	Description    *string `json:"description"`
	ContextWindow  *int    `json:"contextWindow"`
	SupportsVision *bool   `json:"supportsVision"`
	SupportsTools  *bool   `json:"supportsTools"`
}

func (w modelWire) normalize() ModelOption {
	return ModelOption{
		ID:             str(w.ID),
		Name:           str(w.Name),
		Provider:       str(w.Provider),
		Description:    optStr(w.Description),
		ContextWindow:  optNum(w.ContextWindow),
		SupportsVision: flag(w.SupportsVision),
		SupportsTools:  flag(w.SupportsTools),
	}
}

type ModelsClient struct {
	service
}

func (c *ModelsClient) Grouped(ctx context.Context) (ModelsGrouped, error) {
	var w struct {
		Providers []struct {
			ProviderID   *string     `json:"providerId"`
			ProviderName *string     `json:"providerName"`
			Icon         *string     `json:"icon"`
			Models       []modelWire `json:"models"`
		} `json:"providers"`
	}
	if err := c.get(ctx, "/models/grouped", nil, &w); err != nil {
		return ModelsGrouped{}, err
	}
	out := ModelsGrouped{Providers: make([]ProviderModels, 0, len(w.Providers))}
	for _, p := range w.Providers {
		out.Providers = append(out.Providers, ProviderModels{
			ProviderID:   str(p.ProviderID),
			ProviderName: str(p.ProviderName),
			Icon:         str(p.Icon),
			Models:       mapList(p.Models, modelWire.normalize),
		})
	}
	return out, nil
}

func (c *ModelsClient) Defaults(ctx context.Context) (ModelDefaults, error) {
	var out ModelDefaults
	if err := c.get(ctx, "/models/defaults", nil, &out); err != nil {
		return ModelDefaults{}, err
	}
	return out, nil
}
