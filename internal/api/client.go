package api

import (
	"context"
	"net/http"
	"net/url"

	"adminconsole/internal/transport"
)

// Doer is the transport dependency of every resource client.
type Doer interface {
	Do(ctx context.Context, method, path string, req transport.Request, out any) error
}

// FallbackHook observes a failed candidate before the next one is tried.
type FallbackHook func(candidate string, err error)

type Option func(*options)

type options struct {
	onFallback FallbackHook
}

func WithFallbackHook(h FallbackHook) Option {
	return func(o *options) { o.onFallback = h }
}

// Client groups the typed resource clients. Each one is stateless beyond the shared Doer.
type Client struct {
	Auth          *AuthClient
	Users         *UsersClient
	Projects      *ProjectsClient
	Conversations *ConversationsClient
	Sessions      *SessionsClient
	Feedback      *FeedbackClient
	Context       *ContextClient
	Agents        *AgentsClient
	Orchestrator  *OrchestratorClient
	Tools         *ToolsClient
	InviteCodes   *InviteCodesClient
	Admins        *AdminsClient
	Playbooks     *PlaybooksClient
	Models        *ModelsClient
	Usage         *UsageClient
	Audit         *AuditClient
}

func New(d Doer, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	s := service{d: d}
	return &Client{
		Auth:          &AuthClient{s},
		Users:         &UsersClient{service: s, onFallback: o.onFallback},
		Projects:      &ProjectsClient{s},
		Conversations: &ConversationsClient{s},
		Sessions:      &SessionsClient{s},
		Feedback:      &FeedbackClient{s},
		Context:       &ContextClient{s},
		Agents:        &AgentsClient{s},
		Orchestrator:  &OrchestratorClient{s},
		Tools:         &ToolsClient{s},
		InviteCodes:   &InviteCodesClient{s},
		Admins:        &AdminsClient{s},
		Playbooks:     &PlaybooksClient{s},
		Models:        &ModelsClient{s},
		Usage:         &UsageClient{s},
		Audit:         &AuditClient{s},
	}
}

type service struct {
	d Doer
}

func (s service) get(ctx context.Context, path string, q *transport.Query, out any) error {
	return s.d.Do(ctx, http.MethodGet, path, transport.Request{Params: q}, out)
}

func (s service) post(ctx context.Context, path string, body any, out any) error {
	return s.d.Do(ctx, http.MethodPost, path, transport.Request{Body: body}, out)
}

func (s service) put(ctx context.Context, path string, body any, out any) error {
	return s.d.Do(ctx, http.MethodPut, path, transport.Request{Body: body}, out)
}

func (s service) patch(ctx context.Context, path string, body any, out any) error {
	return s.d.Do(ctx, http.MethodPatch, path, transport.Request{Body: body}, out)
}

func (s service) del(ctx context.Context, path string, q *transport.Query, out any) error {
	return s.d.Do(ctx, http.MethodDelete, path, transport.Request{Params: q}, out)
}

// seg escapes an opaque identifier for use as one path segment.
func seg(id string) string {
	return url.PathEscape(id)
}
