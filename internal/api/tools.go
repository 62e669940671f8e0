package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidToolSettings = errors.New("tool settings must be a JSON object")

type ToolConfig struct {
	Name               string         `json:"name"`
	DisplayName        string         `json:"displayName"`
	Description        string         `json:"description"`
	Category           string         `json:"category"`
	IsEnabled          bool           `json:"isEnabled"`
	Settings           map[string]any `json:"settings"`
	UsedByAgents       []string       `json:"usedByAgents"`
	UsedByOrchestrator bool           `json:"usedByOrchestrator"`
}

type ToolUpdate struct {
	IsEnabled *bool          `json:"isEnabled,omitempty"`
	Settings  map[string]any `json:"settings,omitempty"`
}

type toolWire struct {
	Name               *string        `json:"name"`
	DisplayName        *string        `json:"displayName"`
	Description        *string        `json:"description"`
	Category           *string        `json:"category"`
	IsEnabled          *bool          `json:"isEnabled"`
	Settings           map[string]any `json:"settings"`
	UsedByAgents       []string       `json:"usedByAgents"`
	UsedByOrchestrator *bool          `json:"usedByOrchestrator"`
}

func (w toolWire) normalize() ToolConfig {
	name := str(w.Name)
	display := str(w.DisplayName)
	if display == "" {
		display = name
	}
	return ToolConfig{
		Name:               name,
		DisplayName:        display,
		Description:        str(w.Description),
		Category:           str(w.Category),
		IsEnabled:          flag(w.IsEnabled),
		Settings:           w.Settings,
		UsedByAgents:       list(w.UsedByAgents),
		UsedByOrchestrator: flag(w.UsedByOrchestrator),
	}
}

// ParseToolSettings validates settings typed by an operator before anything is
// sent. Blank input means an empty object.
func ParseToolSettings(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToolSettings, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrInvalidToolSettings
	}
	return obj, nil
}

type ToolsClient struct {
	service
}

func (c *ToolsClient) List(ctx context.Context) ([]ToolConfig, error) {
	var w []toolWire
	if err := c.get(ctx, "/config/tools", nil, &w); err != nil {
		return nil, err
	}
	return mapList(w, toolWire.normalize), nil
}

func (c *ToolsClient) Update(ctx context.Context, name string, in ToolUpdate) (ToolConfig, error) {
	var w toolWire
	if err := c.put(ctx, "/config/tools/"+seg(name), in, &w); err != nil {
		return ToolConfig{}, err
	}
	return w.normalize(), nil
}

// UpdateSettings parses raw as JSON and only dispatches when it is a valid object.
func (c *ToolsClient) UpdateSettings(ctx context.Context, name, raw string) (ToolConfig, error) {
	settings, err := ParseToolSettings(raw)
	if err != nil {
		return ToolConfig{}, err
	}
	// ToolUpdate omits an empty map, so send the body directly to allow clearing.
	body := map[string]any{"settings": settings}
	var w toolWire
	if err := c.put(ctx, "/config/tools/"+seg(name), body, &w); err != nil {
		return ToolConfig{}, err
	}
	return w.normalize(), nil
}

func (c *ToolsClient) Toggle(ctx context.Context, name string, enabled bool) (ToolConfig, error) {
	body := map[string]bool{"isEnabled": enabled}
	var w toolWire
	if err := c.patch(ctx, "/config/tools/"+seg(name)+"/toggle", body, &w); err != nil {
		return ToolConfig{}, err
	}
	return w.normalize(), nil
}
