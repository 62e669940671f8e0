package api

import (
	"context"

	"adminconsole/internal/transport"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Conversation.Status is kept as the server sent it; see format.ConversationStatus
// for the known display values.
type Conversation struct {
	CID          string  `json:"cid"`
	UserID       string  `json:"userId"`
	ProjectID    *string `json:"projectId"`
	Title        *string `json:"title"`
	Status       string  `json:"status"`
	MessageCount int     `json:"messageCount"`
	FileCount    int     `json:"fileCount"`
	LastMessage  *string `json:"lastMessage"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type ToolCall struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Args       map[string]any `json:"args"`
	Result     any            `json:"result"`
	Status     string         `json:"status"`
	DurationMs *int64         `json:"durationMs"`
	Error      *string        `json:"error"`
}

type Message struct {
	ID        string         `json:"id"`
	CID       string         `json:"cid"`
	Role      MessageRole    `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	ToolCalls []ToolCall     `json:"toolCalls"`
	CreatedAt string         `json:"createdAt"`
}

type ConversationFile struct {
	Path        string  `json:"path"`
	Language    *string `json:"language"`
	IsBinary    bool    `json:"isBinary"`
	FileSize    *int64  `json:"fileSize"`
	DownloadURL *string `json:"downloadUrl"`
	UpdatedAt   string  `json:"updatedAt"`
}

type ConversationListParams struct {
	Limit     int
	Offset    int
	ProjectID string
	UserID    string
	Status    string
	HasFiles  *bool
}

func (p ConversationListParams) query() *transport.Query {
	return transport.NewQuery().
		Int("limit", p.Limit).
		Int("offset", p.Offset).
		Str("projectId", p.ProjectID).
		Str("userId", p.UserID).
		Str("status", p.Status).
		OptBool("hasFiles", p.HasFiles)
}

type ConversationListResponse struct {
	Items   []Conversation `json:"items"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"hasMore"`
}

type ConversationDetail struct {
	Conversation Conversation       `json:"conversation"`
	Messages     []Message          `json:"messages"`
	Files        []ConversationFile `json:"files"`
}

type conversationWire struct {
	CID          *string `json:"cid"`
	UserID       *string `json:"user_id"`
	ProjectID    *string `json:"project_id"`
	Title        *string `json:"title"`
	Status       *string `json:"status"`
	MessageCount *int    `json:"message_count"`
	FileCount    *int    `json:"file_count"`
	LastMessage  *string `json:"last_message"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

func (w conversationWire) normalize() Conversation {
	return Conversation{
		CID:          str(w.CID),
		UserID:       str(w.UserID),
		ProjectID:    optStr(w.ProjectID),
		Title:        optStr(w.Title),
		Status:       str(w.Status),
		MessageCount: num(w.MessageCount),
		FileCount:    num(w.FileCount),
		LastMessage:  optStr(w.LastMessage),
		CreatedAt:    str(w.CreatedAt),
		UpdatedAt:    str(w.UpdatedAt),
	}
}

type toolCallWire struct {
	ID              *string        `json:"id"`
	Name            *string        `json:"name"`
	Type            *string        `json:"type"`
	Args            map[string]any `json:"args"`
	Result          any            `json:"result"`
	Status          *string        `json:"status"`
	DurationMs      *int64         `json:"durationMs"`
	DurationMsSnake *int64         `json:"duration_ms"`
	Error           *string        `json:"error"`
}

func (w toolCallWire) normalize() ToolCall {
	return ToolCall{
		ID:         str(w.ID),
		Name:       str(w.Name),
		Type:       str(w.Type),
		Args:       dict(w.Args),
		Result:     w.Result,
		Status:     str(w.Status),
		DurationMs: optNum(w.DurationMs, w.DurationMsSnake),
		Error:      optStr(w.Error),
	}
}

// messageWire accepts both the snake_case detail payload and the camelCase
// messages endpoint.
type messageWire struct {
	ID             *string        `json:"id"`
	CID            *string        `json:"cid"`
	Role           *string        `json:"role"`
	Content        *string        `json:"content"`
	Metadata       map[string]any `json:"metadata"`
	ToolCalls      []toolCallWire `json:"toolCalls"`
	ToolCallsSnake []toolCallWire `json:"tool_calls"`
	CreatedAt      *string        `json:"createdAt"`
	CreatedAtSnake *string        `json:"created_at"`
}

func (w messageWire) normalize(cid string) Message {
	calls := w.ToolCalls
	if calls == nil {
		calls = w.ToolCallsSnake
	}
	msgCID := str(w.CID)
	if msgCID == "" {
		msgCID = cid
	}
	return Message{
		ID:        str(w.ID),
		CID:       msgCID,
		Role:      MessageRole(str(w.Role)),
		Content:   str(w.Content),
		Metadata:  w.Metadata,
		ToolCalls: mapList(calls, toolCallWire.normalize),
		CreatedAt: firstStr(w.CreatedAt, w.CreatedAtSnake),
	}
}

type fileWire struct {
	Path        *string `json:"path"`
	Language    *string `json:"language"`
	IsBinary    *bool   `json:"is_binary"`
	FileSize    *int64  `json:"file_size"`
	DownloadURL *string `json:"download_url"`
	UpdatedAt   *string `json:"updated_at"`
}

func (w fileWire) normalize() ConversationFile {
	return ConversationFile{
		Path:        str(w.Path),
		Language:    optStr(w.Language),
		IsBinary:    flag(w.IsBinary),
		FileSize:    optNum(w.FileSize),
		DownloadURL: optStr(w.DownloadURL),
		UpdatedAt:   str(w.UpdatedAt),
	}
}

type conversationDetailWire struct {
	conversationWire
	Messages []messageWire `json:"messages"`
	Files    []fileWire    `json:"files"`
}

type ConversationsClient struct {
	service
}

func (c *ConversationsClient) List(ctx context.Context, p ConversationListParams) (ConversationListResponse, error) {
	var w struct {
		Items  []conversationWire `json:"items"`
		Total  *int               `json:"total"`
		Limit  *int               `json:"limit"`
		Offset *int               `json:"offset"`
	}
	if err := c.get(ctx, "/admin/conversations", p.query(), &w); err != nil {
		return ConversationListResponse{}, err
	}
	items := mapList(w.Items, conversationWire.normalize)
	offset := pageEcho(w.Offset, p.Offset, 0)
	total := num(w.Total)
	return ConversationListResponse{
		Items:   items,
		Total:   total,
		Limit:   pageEcho(w.Limit, p.Limit, DefaultListLimit),
		Offset:  offset,
		HasMore: hasMore(offset, len(items), total),
	}, nil
}

// Get returns the conversation with its messages and files. FileCount is derived
// from the files actually returned.
func (c *ConversationsClient) Get(ctx context.Context, cid string) (ConversationDetail, error) {
	var w conversationDetailWire
	if err := c.get(ctx, "/admin/conversations/"+seg(cid), nil, &w); err != nil {
		return ConversationDetail{}, err
	}
	conv := w.conversationWire.normalize()
	if conv.CID == "" {
		conv.CID = cid
	}
	files := mapList(w.Files, fileWire.normalize)
	conv.FileCount = len(files)
	messages := make([]Message, 0, len(w.Messages))
	for _, m := range w.Messages {
		messages = append(messages, m.normalize(conv.CID))
	}
	return ConversationDetail{Conversation: conv, Messages: messages, Files: files}, nil
}

func (c *ConversationsClient) Messages(ctx context.Context, cid string) ([]Message, error) {
	var w []messageWire
	if err := c.get(ctx, "/conversations/"+seg(cid)+"/messages", nil, &w); err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(w))
	for _, m := range w {
		out = append(out, m.normalize(cid))
	}
	return out, nil
}

func (c *ConversationsClient) Delete(ctx context.Context, cid string) error {
	return c.del(ctx, "/admin/conversations/"+seg(cid), nil, nil)
}
