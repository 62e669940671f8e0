package api

import (
	"context"

	"adminconsole/internal/transport"
)

const defaultUsageDays = 30

type TrendCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	TotalUsers            int          `json:"totalUsers"`
	TotalProjects         int          `json:"totalProjects"`
	TotalConversations    int          `json:"totalConversations"`
	UserRegistrations     []TrendCount `json:"userRegistrations"`
	ProjectCreations      []TrendCount `json:"projectCreations"`
	ConversationCreations []TrendCount `json:"conversationCreations"`
	Days                  int          `json:"days"`
	StartDate             string       `json:"startDate"`
	EndDate               string       `json:"endDate"`
}

type ModelUsage struct {
	PromptTokens     int64   `json:"promptTokens"`
	CompletionTokens int64   `json:"completionTokens"`
	TotalTokens      int64   `json:"totalTokens"`
	Cost             float64 `json:"cost"`
	CallCount        int     `json:"callCount"`
}

type SourceUsage struct {
	TotalTokens int64   `json:"totalTokens"`
	Cost        float64 `json:"cost"`
	CallCount   int     `json:"callCount"`
}

type UsageSummary struct {
	TotalTokens      int64                  `json:"totalTokens"`
	PromptTokens     int64                  `json:"promptTokens"`
	CompletionTokens int64                  `json:"completionTokens"`
	TotalCost        float64                `json:"totalCost"`
	CallCount        int                    `json:"callCount"`
	ByModel          map[string]ModelUsage  `json:"byModel"`
	BySource         map[string]SourceUsage `json:"bySource"`
}

type DailyUsage struct {
	Date             string  `json:"date"`
	TotalTokens      int64   `json:"totalTokens"`
	PromptTokens     int64   `json:"promptTokens"`
	CompletionTokens int64   `json:"completionTokens"`
	Cost             float64 `json:"cost"`
	CallCount        int     `json:"callCount"`
}

type TopUser struct {
	UserID      string  `json:"userId"`
	Email       string  `json:"email"`
	Name        *string `json:"name"`
	TotalTokens int64   `json:"totalTokens"`
	TotalCost   float64 `json:"totalCost"`
	CallCount   int     `json:"callCount"`
}

type TopUsers struct {
	Users     []TopUser `json:"users"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
}

type UserMessageUsage struct {
	UserID        string  `json:"userId"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	Messages      int     `json:"messages"`
	Conversations int     `json:"conversations"`
}

type TopUsersByMessages struct {
	Users     []UserMessageUsage `json:"users"`
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
}

type UsageSummaryParams struct {
	UserID    string
	StartDate string
	EndDate   string
}

type DailyUsageParams struct {
	UserID string
	Days   int
}

type TopUsersParams struct {
	StartDate string
	EndDate   string
	Limit     int
}

func (p TopUsersParams) query() *transport.Query {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return transport.NewQuery().
		Str("startDate", p.StartDate).
		Str("endDate", p.EndDate).
		Int("limit", limit)
}

type UsageClient struct {
	service
}

func (c *UsageClient) DashboardStats(ctx context.Context, days int) (DashboardStats, error) {
	if days <= 0 {
		days = defaultUsageDays
	}
	var out DashboardStats
	if err := c.get(ctx, "/admin/usage/dashboard-stats", transport.NewQuery().Int("days", days), &out); err != nil {
		return DashboardStats{}, err
	}
	out.UserRegistrations = list(out.UserRegistrations)
	out.ProjectCreations = list(out.ProjectCreations)
	out.ConversationCreations = list(out.ConversationCreations)
	return out, nil
}

func (c *UsageClient) Summary(ctx context.Context, p UsageSummaryParams) (UsageSummary, error) {
	q := transport.NewQuery().Str("userId", p.UserID).Str("startDate", p.StartDate).Str("endDate", p.EndDate)
	var out UsageSummary
	if err := c.get(ctx, "/admin/usage/summary", q, &out); err != nil {
		return UsageSummary{}, err
	}
	if out.ByModel == nil {
		out.ByModel = map[string]ModelUsage{}
	}
	if out.BySource == nil {
		out.BySource = map[string]SourceUsage{}
	}
	return out, nil
}

func (c *UsageClient) Daily(ctx context.Context, p DailyUsageParams) ([]DailyUsage, error) {
	days := p.Days
	if days <= 0 {
		days = defaultUsageDays
	}
	var w struct {
		DailyUsage []DailyUsage `json:"dailyUsage"`
	}
	if err := c.get(ctx, "/admin/usage/daily", transport.NewQuery().Str("userId", p.UserID).Int("days", days), &w); err != nil {
		return nil, err
	}
	return list(w.DailyUsage), nil
}

func (c *UsageClient) TopUsers(ctx context.Context, p TopUsersParams) (TopUsers, error) {
	var out TopUsers
	if err := c.get(ctx, "/admin/usage/top-users", p.query(), &out); err != nil {
		return TopUsers{}, err
	}
	out.Users = list(out.Users)
	return out, nil
}

func (c *UsageClient) TopUsersByMessages(ctx context.Context, p TopUsersParams) (TopUsersByMessages, error) {
	var out TopUsersByMessages
	if err := c.get(ctx, "/admin/usage/top-users-by-messages", p.query(), &out); err != nil {
		return TopUsersByMessages{}, err
	}
	out.Users = list(out.Users)
	return out, nil
}
