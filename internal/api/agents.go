package api

import "context"

// AgentConfig is a sub-agent's effective configuration. The Is*Overridden flags
// mark values that differ from the built-in default.
type AgentConfig struct {
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	ModelID                 string   `json:"modelId"`
	SystemPrompt            string   `json:"systemPrompt"`
	Tools                   []string `json:"tools"`
	IsEnabled               bool     `json:"isEnabled"`
	Category                string   `json:"category"`
	ToolCount               int      `json:"toolCount"`
	IsModelOverridden       bool     `json:"isModelOverridden"`
	IsPromptOverridden      bool     `json:"isPromptOverridden"`
	IsToolsOverridden       bool     `json:"isToolsOverridden"`
	IsDescriptionOverridden bool     `json:"isDescriptionOverridden"`
}

type AgentUpdate struct {
	IsEnabled    *bool     `json:"isEnabled,omitempty"`
	ModelID      *string   `json:"modelId,omitempty"`
	SystemPrompt *string   `json:"systemPrompt,omitempty"`
	Tools        *[]string `json:"tools,omitempty"`
	Description  *string   `json:"description,omitempty"`
}

type SubagentSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsEnabled   bool   `json:"isEnabled"`
	Category    string `json:"category"`
	ToolCount   int    `json:"toolCount"`
}

type OrchestratorConfig struct {
	ModelID              string            `json:"modelId"`
	SystemPrompt         string            `json:"systemPrompt"`
	Tools                []string          `json:"tools"`
	Subagents            []SubagentSummary `json:"subagents"`
	EnabledSubagentCount int               `json:"enabledSubagentCount"`
	IsModelOverridden    bool              `json:"isModelOverridden"`
	IsPromptOverridden   bool              `json:"isPromptOverridden"`
	IsToolsOverridden    bool              `json:"isToolsOverridden"`
}

type OrchestratorUpdate struct {
	ModelID      *string   `json:"modelId,omitempty"`
	SystemPrompt *string   `json:"systemPrompt,omitempty"`
	Tools        *[]string `json:"tools,omitempty"`
}

type agentWire struct {
	Name                    *string  `json:"name"`
	Description             *string  `json:"description"`
	ModelID                 *string  `json:"modelId"`
	SystemPrompt            *string  `json:"systemPrompt"`
	Tools                   []string `json:"tools"`
	IsEnabled               *bool    `json:"isEnabled"`
	Category                *string  `json:"category"`
	ToolCount               *int     `json:"toolCount"`
	IsModelOverridden       *bool    `json:"isModelOverridden"`
	IsPromptOverridden      *bool    `json:"isPromptOverridden"`
	IsToolsOverridden       *bool    `json:"isToolsOverridden"`
	IsDescriptionOverridden *bool    `json:"isDescriptionOverridden"`
}

func (w agentWire) normalize() AgentConfig {
	tools := list(w.Tools)
	toolCount := num(w.ToolCount)
	if w.ToolCount == nil {
		toolCount = len(tools)
	}
	return AgentConfig{
		Name:                    str(w.Name),
		Description:             str(w.Description),
		ModelID:                 str(w.ModelID),
		SystemPrompt:            str(w.SystemPrompt),
		Tools:                   tools,
		IsEnabled:               flag(w.IsEnabled),
		Category:                str(w.Category),
		ToolCount:               toolCount,
		IsModelOverridden:       flag(w.IsModelOverridden),
		IsPromptOverridden:      flag(w.IsPromptOverridden),
		IsToolsOverridden:       flag(w.IsToolsOverridden),
		IsDescriptionOverridden: flag(w.IsDescriptionOverridden),
	}
}

type orchestratorWire struct {
	ModelID              *string           `json:"modelId"`
	SystemPrompt         *string           `json:"systemPrompt"`
	Tools                []string          `json:"tools"`
	Subagents            []SubagentSummary `json:"subagents"`
	EnabledSubagentCount *int              `json:"enabledSubagentCount"`
	IsModelOverridden    *bool             `json:"isModelOverridden"`
	IsPromptOverridden   *bool             `json:"isPromptOverridden"`
	IsToolsOverridden    *bool             `json:"isToolsOverridden"`
}

func (w orchestratorWire) normalize() OrchestratorConfig {
	subagents := list(w.Subagents)
	enabled := num(w.EnabledSubagentCount)
	if w.EnabledSubagentCount == nil {
		for _, s := range subagents {
			if s.IsEnabled {
				enabled++
			}
		}
	}
	return OrchestratorConfig{
		ModelID:              str(w.ModelID),
		SystemPrompt:         str(w.SystemPrompt),
		Tools:                list(w.Tools),
		Subagents:            subagents,
		EnabledSubagentCount: enabled,
		IsModelOverridden:    flag(w.IsModelOverridden),
		IsPromptOverridden:   flag(w.IsPromptOverridden),
		IsToolsOverridden:    flag(w.IsToolsOverridden),
	}
}

type AgentsClient struct {
	service
}

func (c *AgentsClient) List(ctx context.Context) ([]AgentConfig, error) {
	var w []agentWire
	if err := c.get(ctx, "/config/agents", nil, &w); err != nil {
		return nil, err
	}
	return mapList(w, agentWire.normalize), nil
}

func (c *AgentsClient) Get(ctx context.Context, name string) (AgentConfig, error) {
	var w agentWire
	if err := c.get(ctx, "/config/agents/"+seg(name), nil, &w); err != nil {
		return AgentConfig{}, err
	}
	return w.normalize(), nil
}

func (c *AgentsClient) Update(ctx context.Context, name string, in AgentUpdate) (AgentConfig, error) {
	var w agentWire
	if err := c.put(ctx, "/config/agents/"+seg(name), in, &w); err != nil {
		return AgentConfig{}, err
	}
	return w.normalize(), nil
}

func (c *AgentsClient) Toggle(ctx context.Context, name string, enabled bool) (AgentConfig, error) {
	body := map[string]bool{"isEnabled": enabled}
	var w agentWire
	if err := c.patch(ctx, "/config/agents/"+seg(name)+"/toggle", body, &w); err != nil {
		return AgentConfig{}, err
	}
	return w.normalize(), nil
}

// Reset drops every override of the agent, restoring defaults.
func (c *AgentsClient) Reset(ctx context.Context, name string) error {
	return c.del(ctx, "/config/agents/"+seg(name), nil, nil)
}

type OrchestratorClient struct {
	service
}

func (c *OrchestratorClient) Get(ctx context.Context) (OrchestratorConfig, error) {
	var w orchestratorWire
	if err := c.get(ctx, "/config/orchestrator", nil, &w); err != nil {
		return OrchestratorConfig{}, err
	}
	return w.normalize(), nil
}

func (c *OrchestratorClient) Update(ctx context.Context, in OrchestratorUpdate) (OrchestratorConfig, error) {
	var w orchestratorWire
	if err := c.put(ctx, "/config/orchestrator", in, &w); err != nil {
		return OrchestratorConfig{}, err
	}
	return w.normalize(), nil
}

func (c *OrchestratorClient) Reset(ctx context.Context) error {
	return c.del(ctx, "/config/orchestrator", nil, nil)
}
