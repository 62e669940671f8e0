package api

import (
	"context"

	"adminconsole/internal/transport"
)

type SessionItem struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	UserEmail       string  `json:"userEmail"`
	UserName        *string `json:"userName"`
	DeviceType      *string `json:"deviceType"`
	StartedAt       string  `json:"startedAt"`
	LastActivityAt  string  `json:"lastActivityAt"`
	EndedAt         *string `json:"endedAt"`
	DurationSeconds *int64  `json:"durationSeconds"`
	PageViews       int     `json:"pageViews"`
	MessageCount    int     `json:"messageCount"`
	IPAddress       *string `json:"ipAddress"`
}

// Active reports a session that has not ended.
func (s SessionItem) Active() bool { return s.EndedAt == nil }

type SessionStatusFilter string

const (
	SessionsActive SessionStatusFilter = "active"
	SessionsEnded  SessionStatusFilter = "ended"
)

type SessionListParams struct {
	Limit      int
	Offset     int
	UserID     string
	Status     SessionStatusFilter
	DeviceType string
	Days       int
}

func (p SessionListParams) query() *transport.Query {
	return transport.NewQuery().
		Int("limit", p.Limit).
		Int("offset", p.Offset).
		Str("userId", p.UserID).
		Str("status", string(p.Status)).
		Str("deviceType", p.DeviceType).
		Int("days", p.Days)
}

type SessionListResponse struct {
	Sessions []SessionItem `json:"sessions"`
	Total    int           `json:"total"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
}

type SessionStats struct {
	TotalSessions      int     `json:"totalSessions"`
	ActiveSessions     int     `json:"activeSessions"`
	TotalDurationHours float64 `json:"totalDurationHours"`
	AvgDurationMinutes float64 `json:"avgDurationMinutes"`
	TotalPageViews     int     `json:"totalPageViews"`
	TotalMessages      int     `json:"totalMessages"`
	UniqueUsers        int     `json:"uniqueUsers"`
}

type DurationRankItem struct {
	UserID                 string  `json:"userId"`
	Email                  string  `json:"email"`
	Name                   *string `json:"name"`
	TotalDurationSeconds   int64   `json:"totalDurationSeconds"`
	TotalDurationFormatted string  `json:"totalDurationFormatted"`
	SessionCount           int     `json:"sessionCount"`
	AvgDurationSeconds     float64 `json:"avgDurationSeconds"`
	LastSessionAt          *string `json:"lastSessionAt"`
}

type DurationRanking struct {
	Users []DurationRankItem `json:"users"`
	Total int                `json:"total"`
	Since *string            `json:"since"`
}

type DailySessionStats struct {
	Date               string  `json:"date"`
	SessionCount       int     `json:"sessionCount"`
	UniqueUsers        int     `json:"uniqueUsers"`
	TotalDurationHours float64 `json:"totalDurationHours"`
}

type SessionTrends struct {
	DailyStats []DailySessionStats `json:"dailyStats"`
	Days       int                 `json:"days"`
}

type RankingParams struct {
	Limit int
	Days  int
}

type sessionWire struct {
	ID              *string `json:"id"`
	UserID          *string `json:"userId"`
	UserEmail       *string `json:"userEmail"`
	UserName        *string `json:"userName"`
	DeviceType      *string `json:"deviceType"`
	StartedAt       *string `json:"startedAt"`
	LastActivityAt  *string `json:"lastActivityAt"`
	EndedAt         *string `json:"endedAt"`
	DurationSeconds *int64  `json:"durationSeconds"`
	PageViews       *int    `json:"pageViews"`
	MessageCount    *int    `json:"messageCount"`
	IPAddress       *string `json:"ipAddress"`
}

func (w sessionWire) normalize() SessionItem {
	return SessionItem{
		ID:              str(w.ID),
		UserID:          str(w.UserID),
		UserEmail:       str(w.UserEmail),
		UserName:        optStr(w.UserName),
		DeviceType:      optStr(w.DeviceType),
		StartedAt:       str(w.StartedAt),
		LastActivityAt:  str(w.LastActivityAt),
		EndedAt:         optStr(w.EndedAt),
		DurationSeconds: optNum(w.DurationSeconds),
		PageViews:       num(w.PageViews),
		MessageCount:    num(w.MessageCount),
		IPAddress:       optStr(w.IPAddress),
	}
}

type SessionsClient struct {
	service
}

func (c *SessionsClient) List(ctx context.Context, p SessionListParams) (SessionListResponse, error) {
	var w struct {
		Sessions []sessionWire `json:"sessions"`
		Total    *int          `json:"total"`
		Limit    *int          `json:"limit"`
		Offset   *int          `json:"offset"`
	}
	if err := c.get(ctx, "/admin/sessions", p.query(), &w); err != nil {
		return SessionListResponse{}, err
	}
	return SessionListResponse{
		Sessions: mapList(w.Sessions, sessionWire.normalize),
		Total:    num(w.Total),
		Limit:    pageEcho(w.Limit, p.Limit, DefaultListLimit),
		Offset:   pageEcho(w.Offset, p.Offset, 0),
	}, nil
}

func (c *SessionsClient) Stats(ctx context.Context, days int) (SessionStats, error) {
	var out SessionStats
	if err := c.get(ctx, "/admin/sessions/stats", transport.NewQuery().Int("days", days), &out); err != nil {
		return SessionStats{}, err
	}
	return out, nil
}

func (c *SessionsClient) Ranking(ctx context.Context, p RankingParams) (DurationRanking, error) {
	var w struct {
		Users []DurationRankItem `json:"users"`
		Total *int               `json:"total"`
		Since *string            `json:"since"`
	}
	q := transport.NewQuery().Int("limit", p.Limit).Int("days", p.Days)
	if err := c.get(ctx, "/admin/sessions/ranking", q, &w); err != nil {
		return DurationRanking{}, err
	}
	return DurationRanking{Users: list(w.Users), Total: num(w.Total), Since: optStr(w.Since)}, nil
}

func (c *SessionsClient) Trends(ctx context.Context, days int) (SessionTrends, error) {
	var w struct {
		DailyStats []DailySessionStats `json:"dailyStats"`
		Days       *int                `json:"days"`
	}
	if err := c.get(ctx, "/admin/sessions/trends", transport.NewQuery().Int("days", days), &w); err != nil {
		return SessionTrends{}, err
	}
	return SessionTrends{DailyStats: list(w.DailyStats), Days: num(w.Days)}, nil
}

// End terminates a session on behalf of an admin.
func (c *SessionsClient) End(ctx context.Context, sessionID string) (bool, error) {
	var w struct {
		Success *bool `json:"success"`
	}
	if err := c.del(ctx, "/admin/sessions/"+seg(sessionID), nil, &w); err != nil {
		return false, err
	}
	if w.Success == nil {
		return true, nil
	}
	return *w.Success, nil
}
