package apitest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adminconsole/internal/api"
	"adminconsole/internal/cache"
	"adminconsole/internal/metrics"
	"adminconsole/internal/queries"
	"adminconsole/internal/session"
	"adminconsole/internal/storage"
	"adminconsole/internal/transport"
)

type harness struct {
	srv       *Server
	session   *session.Manager
	client    *api.Client
	queries   *queries.Queries
	mu        sync.Mutex
	fallbacks []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := New()
	t.Cleanup(srv.Close)

	store, err := storage.Open(context.Background(), "sqlite", ":memory:", true)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := &harness{srv: srv}
	c := cache.New(cache.Config{Logger: zerolog.Nop(), Metrics: metrics.New()})
	h.session = session.New(session.Config{
		Store:   store,
		Vault:   storage.NewDBVault(store, nil, zerolog.Nop()),
		Logger:  zerolog.Nop(),
		OnClear: func(ctx context.Context) { c.Invalidate(ctx, cache.Key{}) },
	})

	tc, err := transport.New(transport.Config{
		BaseURL:     srv.BaseURL(),
		Credentials: h.session,
		Logger:      zerolog.Nop(),
		Metrics:     metrics.New(),
	})
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	h.client = api.New(tc, api.WithFallbackHook(func(candidate string, err error) {
		h.mu.Lock()
		h.fallbacks = append(h.fallbacks, candidate)
		h.mu.Unlock()
	}))
	h.session.Bind(h.client.Auth)
	h.queries = queries.New(queries.Config{API: h.client, Cache: c, Logger: zerolog.Nop()})

	if _, err := h.session.Login(context.Background(), AdminEmail, AdminPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	return h
}

func TestConversationPaging(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.client.Conversations.List(ctx, api.ConversationListParams{Status: "completed", Limit: 20, Offset: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Items) != 20 || first.Total != 45 || !first.HasMore {
		t.Fatalf("unexpected first page: items=%d total=%d hasMore=%v", len(first.Items), first.Total, first.HasMore)
	}
	for _, c := range first.Items {
		if c.Status != "completed" {
			t.Fatalf("status filter leaked %q", c.Status)
		}
	}

	last, err := h.client.Conversations.List(ctx, api.ConversationListParams{Status: "completed", Limit: 20, Offset: 40})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last.Items) != 5 || last.Total != 45 || last.HasMore {
		t.Fatalf("unexpected last page: items=%d total=%d hasMore=%v", len(last.Items), last.Total, last.HasMore)
	}
	if last.Offset != 40 || last.Limit != 20 {
		t.Fatalf("page echo mismatch: limit=%d offset=%d", last.Limit, last.Offset)
	}
}

func TestCreateInviteCodeThenList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	maxUses := 10
	created, err := h.queries.CreateInviteCode(ctx, api.InviteCodeCreate{MaxUses: &maxUses})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code == "" || created.MaxUses != 10 || created.RemainingUses != 10 {
		t.Fatalf("unexpected created code %+v", created)
	}

	list, err := h.queries.InviteCodes(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var found *api.InviteCode
	for i := range list.Codes {
		if list.Codes[i].ID == created.ID {
			found = &list.Codes[i]
		}
	}
	if found == nil {
		t.Fatalf("new code %s missing from list %+v", created.ID, list.Codes)
	}
	if found.UsedCount != 0 || !found.IsActive {
		t.Fatalf("unexpected listed code %+v", found)
	}
}

func TestToggleAgentInvalidatesList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	before, err := h.queries.Agents(ctx)
	if err != nil {
		t.Fatalf("agents: %v", err)
	}
	if !agentEnabled(t, before, "research-agent") {
		t.Fatalf("research-agent should start enabled")
	}
	if _, err := h.queries.Agents(ctx); err != nil {
		t.Fatalf("agents: %v", err)
	}
	if n := h.srv.Hits("GET /config/agents"); n != 1 {
		t.Fatalf("second read should be served from cache, got %d hits", n)
	}

	updated, err := h.queries.ToggleAgent(ctx, "research-agent", false)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if updated.IsEnabled {
		t.Fatalf("toggle should return isEnabled=false")
	}

	after, err := h.queries.Agents(ctx)
	if err != nil {
		t.Fatalf("agents: %v", err)
	}
	if agentEnabled(t, after, "research-agent") {
		t.Fatalf("list still shows research-agent enabled")
	}
	if n := h.srv.Hits("GET /config/agents"); n != 2 {
		t.Fatalf("expected exactly one refetch, got %d hits", n)
	}
}

func agentEnabled(t *testing.T, agents []api.AgentConfig, name string) bool {
	t.Helper()
	for _, a := range agents {
		if a.Name == name {
			return a.IsEnabled
		}
	}
	t.Fatalf("agent %s missing", name)
	return false
}

func TestFeedbackTrendIsNotZeroFilled(t *testing.T) {
	h := newHarness(t)

	stats, err := h.client.Feedback.Stats(context.Background(), api.FeedbackStatsParams{
		Period:    api.PeriodDay,
		StartDate: "2024-01-01T00:00:00.000Z",
		EndDate:   "2024-01-31T23:59:59.000Z",
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := []api.FeedbackTrendPoint{
		{Date: "2024-01-02", Likes: 4, Dislikes: 1},
		{Date: "2024-01-05", Likes: 2, Dislikes: 0},
		{Date: "2024-01-17", Likes: 0, Dislikes: 3},
	}
	if len(stats.Trend) != len(want) {
		t.Fatalf("expected %d trend points, got %+v", len(want), stats.Trend)
	}
	for i := range want {
		if stats.Trend[i] != want[i] {
			t.Fatalf("trend[%d]=%+v want %+v", i, stats.Trend[i], want[i])
		}
	}
	if stats.LikeCount != 6 || stats.DislikeCount != 4 || stats.TotalCount != 10 {
		t.Fatalf("unexpected totals %+v", stats)
	}
}

func TestUsersFallBackToUsageEndpoint(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.srv.FailPrimaryUsers(true)

	resp, err := h.client.Users.List(ctx, api.UserListParams{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Users) != 2 || resp.Total != 2 {
		t.Fatalf("unexpected fallback response %+v", resp)
	}
	if resp.Users[0].ID != "u-admin" || !resp.Users[0].IsAdmin || resp.Users[0].Status != api.UserActive {
		t.Fatalf("snake_case fields not normalized: %+v", resp.Users[0])
	}
	if resp.Limit != 20 || resp.Offset != 0 {
		t.Fatalf("page echo mismatch %+v", resp)
	}
	if len(h.fallbacks) != 1 || h.fallbacks[0] != "/admin/users" {
		t.Fatalf("expected one fallback from /admin/users, got %v", h.fallbacks)
	}
	if h.srv.Hits("GET /admin/users") != 1 || h.srv.Hits("GET /admin/usage/users") != 1 {
		t.Fatalf("unexpected hits")
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if h.session.Expired(time.Now()) {
		t.Fatalf("fresh token should not be expired")
	}

	other := New()
	defer other.Close()
	forged, err := other.IssueToken(AdminEmail, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tc, err := transport.New(transport.Config{BaseURL: h.srv.BaseURL(), Credentials: transport.StaticToken(forged)})
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	_, err = api.New(tc).Agents.List(ctx)
	if !transport.IsUnauthorized(err) {
		t.Fatalf("expected 401 for a token signed by another server, got %v", err)
	}
	if !h.session.HandleError(ctx, err) {
		t.Fatalf("401 should clear the session")
	}
	if h.session.Token() != "" {
		t.Fatalf("token kept")
	}
	if _, err := h.session.Restore(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestNonAdminCannotSignIn(t *testing.T) {
	h := newHarness(t)
	if _, err := h.session.Login(context.Background(), UserEmail, UserPassword); !errors.Is(err, session.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}
