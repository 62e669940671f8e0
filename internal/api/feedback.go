package api

import (
	"context"

	"adminconsole/internal/transport"
)

type FeedbackType string

const (
	FeedbackLike    FeedbackType = "like"
	FeedbackDislike FeedbackType = "dislike"
)

type TrendPeriod string

const (
	PeriodDay   TrendPeriod = "day"
	PeriodWeek  TrendPeriod = "week"
	PeriodMonth TrendPeriod = "month"
)

type FeedbackListItem struct {
	ID           string       `json:"id"`
	MessageID    string       `json:"messageId"`
	UserID       string       `json:"userId"`
	ProjectID    *string      `json:"projectId"`
	FeedbackType FeedbackType `json:"feedbackType"`
	Reason       string       `json:"reason"`
	ModelName    *string      `json:"modelName"`
	CreatedAt    string       `json:"createdAt"`
}

type FeedbackListResponse struct {
	Feedbacks  []FeedbackListItem `json:"feedbacks"`
	Total      int                `json:"total"`
	HasMore    bool               `json:"hasMore"`
	NextCursor *string            `json:"nextCursor"`
}

type FeedbackTrendPoint struct {
	Date     string `json:"date"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

type FeedbackModelStats struct {
	Model    string `json:"model"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

type FeedbackStats struct {
	TotalCount   int                  `json:"totalCount"`
	LikeCount    int                  `json:"likeCount"`
	DislikeCount int                  `json:"dislikeCount"`
	LikeRatio    float64              `json:"likeRatio"`
	Trend        []FeedbackTrendPoint `json:"trend"`
	ByModel      []FeedbackModelStats `json:"byModel"`
}

type HistoryMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

type ToolCallInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type TokenUsage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
}

type FeedbackDetail struct {
	ID                  string           `json:"id"`
	MessageID           string           `json:"messageId"`
	UserID              string           `json:"userId"`
	ProjectID           *string          `json:"projectId"`
	FeedbackType        FeedbackType     `json:"feedbackType"`
	Reason              string           `json:"reason"`
	CreatedAt           string           `json:"createdAt"`
	ModelName           *string          `json:"modelName"`
	ModelVersion        *string          `json:"modelVersion"`
	UserInput           *string          `json:"userInput"`
	AssistantOutput     *string          `json:"assistantOutput"`
	ConversationHistory []HistoryMessage `json:"conversationHistory"`
	ToolCallsUsed       []ToolCallInfo   `json:"toolCallsUsed"`
	TokenUsage          *TokenUsage      `json:"tokenUsage"`
}

type FeedbackListParams struct {
	Type      FeedbackType
	ProjectID string
	Model     string
	StartDate string
	EndDate   string
	Limit     int
	Offset    *int
}

func (p FeedbackListParams) query() *transport.Query {
	return transport.NewQuery().
		Str("type", string(p.Type)).
		Str("projectId", p.ProjectID).
		Str("model", p.Model).
		Str("startDate", p.StartDate).
		Str("endDate", p.EndDate).
		Int("limit", p.Limit).
		OptInt("offset", p.Offset)
}

type FeedbackStatsParams struct {
	ProjectID string
	Model     string
	Period    TrendPeriod
	StartDate string
	EndDate   string
}

func (p FeedbackStatsParams) query() *transport.Query {
	return transport.NewQuery().
		Str("projectId", p.ProjectID).
		Str("model", p.Model).
		Str("period", string(p.Period)).
		Str("startDate", p.StartDate).
		Str("endDate", p.EndDate)
}

type feedbackItemWire struct {
	ID           *string `json:"id"`
	MessageID    *string `json:"messageId"`
	UserID       *string `json:"userId"`
	ProjectID    *string `json:"projectId"`
	FeedbackType *string `json:"feedbackType"`
	Reason       *string `json:"reason"`
	ModelName    *string `json:"modelName"`
	CreatedAt    *string `json:"createdAt"`
}

func feedbackType(p *string) FeedbackType {
	if p != nil && FeedbackType(*p) == FeedbackDislike {
		return FeedbackDislike
	}
	return FeedbackLike
}

func (w feedbackItemWire) normalize() FeedbackListItem {
	return FeedbackListItem{
		ID:           str(w.ID),
		MessageID:    str(w.MessageID),
		UserID:       str(w.UserID),
		ProjectID:    optStr(w.ProjectID),
		FeedbackType: feedbackType(w.FeedbackType),
		Reason:       str(w.Reason),
		ModelName:    optStr(w.ModelName),
		CreatedAt:    str(w.CreatedAt),
	}
}

type feedbackStatsWire struct {
	TotalCount   *int     `json:"totalCount"`
	LikeCount    *int     `json:"likeCount"`
	DislikeCount *int     `json:"dislikeCount"`
	LikeRatio    *float64 `json:"likeRatio"`
	Trend        []struct {
		Date     *string `json:"date"`
		Likes    *int    `json:"likes"`
		Dislikes *int    `json:"dislikes"`
	} `json:"trend"`
	ByModel []struct {
		Model    *string `json:"model"`
		Likes    *int    `json:"likes"`
		Dislikes *int    `json:"dislikes"`
	} `json:"byModel"`
}

// normalize keeps the trend exactly as returned: ordered by date, with days that
// had no feedback simply absent.
func (w feedbackStatsWire) normalize() FeedbackStats {
	out := FeedbackStats{
		TotalCount:   num(w.TotalCount),
		LikeCount:    num(w.LikeCount),
		DislikeCount: num(w.DislikeCount),
		LikeRatio:    num(w.LikeRatio),
		Trend:        make([]FeedbackTrendPoint, 0, len(w.Trend)),
		ByModel:      make([]FeedbackModelStats, 0, len(w.ByModel)),
	}
	for _, t := range w.Trend {
		out.Trend = append(out.Trend, FeedbackTrendPoint{Date: str(t.Date), Likes: num(t.Likes), Dislikes: num(t.Dislikes)})
	}
	for _, m := range w.ByModel {
		out.ByModel = append(out.ByModel, FeedbackModelStats{Model: str(m.Model), Likes: num(m.Likes), Dislikes: num(m.Dislikes)})
	}
	return out
}

type feedbackDetailWire struct {
	feedbackItemWire
	ModelVersion        *string          `json:"modelVersion"`
	UserInput           *string          `json:"userInput"`
	AssistantOutput     *string          `json:"assistantOutput"`
	ConversationHistory []HistoryMessage `json:"conversationHistory"`
	ToolCallsUsed       []ToolCallInfo   `json:"toolCallsUsed"`
	TokenUsage          *struct {
		PromptTokens     *int64 `json:"promptTokens"`
		CompletionTokens *int64 `json:"completionTokens"`
	} `json:"tokenUsage"`
}

// normalize leaves absent context (history, tool calls, usage) as null: the
// detail view distinguishes "not recorded" from "recorded but empty".
func (w feedbackDetailWire) normalize() FeedbackDetail {
	item := w.feedbackItemWire.normalize()
	out := FeedbackDetail{
		ID:                  item.ID,
		MessageID:           item.MessageID,
		UserID:              item.UserID,
		ProjectID:           item.ProjectID,
		FeedbackType:        item.FeedbackType,
		Reason:              item.Reason,
		CreatedAt:           item.CreatedAt,
		ModelName:           item.ModelName,
		ModelVersion:        optStr(w.ModelVersion),
		UserInput:           optStr(w.UserInput),
		AssistantOutput:     optStr(w.AssistantOutput),
		ConversationHistory: w.ConversationHistory,
		ToolCallsUsed:       w.ToolCallsUsed,
	}
	if w.TokenUsage != nil {
		out.TokenUsage = &TokenUsage{
			PromptTokens:     num(w.TokenUsage.PromptTokens),
			CompletionTokens: num(w.TokenUsage.CompletionTokens),
		}
	}
	return out
}

type FeedbackClient struct {
	service
}

func (c *FeedbackClient) List(ctx context.Context, p FeedbackListParams) (FeedbackListResponse, error) {
	var w struct {
		Feedbacks  []feedbackItemWire `json:"feedbacks"`
		Total      *int               `json:"total"`
		HasMore    *bool              `json:"hasMore"`
		NextCursor *string            `json:"nextCursor"`
	}
	if err := c.get(ctx, "/admin/feedbacks", p.query(), &w); err != nil {
		return FeedbackListResponse{}, err
	}
	return FeedbackListResponse{
		Feedbacks:  mapList(w.Feedbacks, feedbackItemWire.normalize),
		Total:      num(w.Total),
		HasMore:    flag(w.HasMore),
		NextCursor: optStr(w.NextCursor),
	}, nil
}

func (c *FeedbackClient) Stats(ctx context.Context, p FeedbackStatsParams) (FeedbackStats, error) {
	var w feedbackStatsWire
	if err := c.get(ctx, "/admin/feedbacks/stats", p.query(), &w); err != nil {
		return FeedbackStats{}, err
	}
	return w.normalize(), nil
}

func (c *FeedbackClient) Detail(ctx context.Context, feedbackID string) (FeedbackDetail, error) {
	var w feedbackDetailWire
	if err := c.get(ctx, "/admin/feedbacks/"+seg(feedbackID), nil, &w); err != nil {
		return FeedbackDetail{}, err
	}
	return w.normalize(), nil
}
