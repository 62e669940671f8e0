package queries

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"adminconsole/internal/api"
	"adminconsole/internal/cache"
	"adminconsole/internal/transport"
)

// backend is a stateful fake Doer holding one agent, one tool, one invite code
// and a conversation count.
type backend struct {
	mu            sync.Mutex
	agentEnabled  bool
	toolEnabled   bool
	codeActive    bool
	conversations int
	failPatch     error
	hits          map[string]int
}

func newBackend() *backend {
	return &backend{agentEnabled: true, toolEnabled: true, codeActive: true, conversations: 3, hits: map[string]int{}}
}

func (b *backend) Do(_ context.Context, method, path string, req transport.Request, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[method+" "+path]++

	var resp any
	switch method + " " + path {
	case "GET /config/agents":
		resp = []map[string]any{{"name": "coder", "isEnabled": b.agentEnabled}}
	case "PATCH /config/agents/coder/toggle":
		if b.failPatch != nil {
			return b.failPatch
		}
		var body struct {
			IsEnabled bool `json:"isEnabled"`
		}
		raw, _ := json.Marshal(req.Body)
		json.Unmarshal(raw, &body)
		b.agentEnabled = body.IsEnabled
		resp = map[string]any{"name": "coder", "isEnabled": b.agentEnabled}
	case "GET /config/orchestrator":
		resp = map[string]any{"modelId": "m", "subagents": []map[string]any{{"name": "coder", "isEnabled": b.agentEnabled}}}
	case "GET /invite-codes":
		resp = map[string]any{"codes": []map[string]any{{"id": "c1", "code": "ABC", "isActive": b.codeActive}}, "total": 1}
	case "PATCH /invite-codes/c1/deactivate":
		b.codeActive = false
		resp = map[string]any{"id": "c1", "code": "ABC", "isActive": false}
	case "GET /config/tools":
		resp = []map[string]any{{"name": "search", "isEnabled": b.toolEnabled}}
	case "PUT /config/tools/search":
		var body struct {
			IsEnabled *bool `json:"isEnabled"`
		}
		raw, _ := json.Marshal(req.Body)
		json.Unmarshal(raw, &body)
		if body.IsEnabled != nil {
			b.toolEnabled = *body.IsEnabled
		}
		resp = map[string]any{"name": "search", "isEnabled": b.toolEnabled}
	case "GET /conversations/c1/messages":
		resp = []map[string]any{{"id": "m1", "role": "user", "content": "hi"}}
	case "DELETE /admin/conversations/c1":
		b.conversations--
		resp = nil
	case "GET /admin/usage/dashboard-stats":
		resp = map[string]any{"totalConversations": b.conversations}
	case "GET /admin/users":
		resp = map[string]any{"users": []map[string]any{}, "total": 0}
	default:
		return &transport.Error{Method: method, Path: path, StatusCode: 404, Message: "not found"}
	}
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func newTestQueries(b *backend) *Queries {
	return New(Config{API: api.New(b), Cache: cache.New(cache.Config{})})
}

func TestEveryMutationHasInvalidationTargets(t *testing.T) {
	if len(Ops) != len(Invalidations) {
		t.Fatalf("Ops lists %d mutations, Invalidations maps %d", len(Ops), len(Invalidations))
	}
	for _, op := range Ops {
		targets, ok := Invalidations[op]
		if !ok || len(targets) == 0 {
			t.Fatalf("%s has no invalidation targets", op)
		}
		for _, k := range targets {
			if len(k) == 0 {
				t.Fatalf("%s invalidates the whole cache", op)
			}
		}
	}
}

func TestReadsAreCached(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := q.Agents(ctx); err != nil {
			t.Fatalf("agents: %v", err)
		}
	}
	if n := b.count("GET /config/agents"); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
}

func TestToggleAgentRefreshesListAndOrchestrator(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	agents, err := q.Agents(ctx)
	if err != nil || len(agents) != 1 || !agents[0].IsEnabled {
		t.Fatalf("unexpected agents %+v err=%v", agents, err)
	}
	orch, err := q.Orchestrator(ctx)
	if err != nil || !orch.Subagents[0].IsEnabled {
		t.Fatalf("unexpected orchestrator %+v err=%v", orch, err)
	}

	updated, err := q.ToggleAgent(ctx, "coder", false)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if updated.IsEnabled {
		t.Fatalf("toggle response should be disabled")
	}

	agents, _ = q.Agents(ctx)
	if agents[0].IsEnabled {
		t.Fatalf("list still shows the agent enabled after toggle")
	}
	orch, _ = q.Orchestrator(ctx)
	if orch.Subagents[0].IsEnabled {
		t.Fatalf("orchestrator still shows the agent enabled after toggle")
	}
	if n := b.count("GET /config/agents"); n != 2 {
		t.Fatalf("expected a refetch, got %d requests", n)
	}
}

func TestFailedMutationKeepsCache(t *testing.T) {
	b := newBackend()
	b.failPatch = &transport.Error{Method: "PATCH", StatusCode: 500, Message: "boom"}
	q := newTestQueries(b)
	ctx := context.Background()

	if _, err := q.Agents(ctx); err != nil {
		t.Fatalf("agents: %v", err)
	}
	if _, err := q.ToggleAgent(ctx, "coder", false); transport.StatusCode(err) != 500 {
		t.Fatalf("expected 500, got %v", err)
	}
	if _, err := q.Agents(ctx); err != nil {
		t.Fatalf("agents: %v", err)
	}
	if n := b.count("GET /config/agents"); n != 1 {
		t.Fatalf("failed mutation must not invalidate, got %d requests", n)
	}
}

func TestDeactivateInviteCodeInvalidatesAllListVariants(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	q.InviteCodes(ctx, false)
	q.InviteCodes(ctx, true)
	if n := b.count("GET /invite-codes"); n != 2 {
		t.Fatalf("each filter is its own key, got %d requests", n)
	}

	if _, err := q.DeactivateInviteCode(ctx, "c1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	list, err := q.InviteCodes(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Codes[0].IsActive {
		t.Fatalf("list still shows the code active")
	}
	q.InviteCodes(ctx, true)
	if n := b.count("GET /invite-codes"); n != 4 {
		t.Fatalf("expected both variants refetched, got %d requests", n)
	}
}

func TestInvalidToolSettingsNeverDispatch(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	_, err := q.UpdateToolSettings(ctx, "web_search", "{not json")
	if !errors.Is(err, api.ErrInvalidToolSettings) {
		t.Fatalf("expected ErrInvalidToolSettings, got %v", err)
	}
	if len(b.hits) != 0 {
		t.Fatalf("no request expected, got %v", b.hits)
	}
}

func TestResetDropsEverything(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	q.Agents(ctx)
	q.Users(ctx, api.UserListParams{Limit: 20})
	if err := q.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	q.Agents(ctx)
	q.Users(ctx, api.UserListParams{Limit: 20})
	if b.count("GET /config/agents") != 2 || b.count("GET /admin/users") != 2 {
		t.Fatalf("expected refetch after reset, got %v", b.hits)
	}
}

func TestUpdateToolRefreshesToolList(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	if _, err := q.Tools(ctx); err != nil {
		t.Fatalf("tools: %v", err)
	}
	off := false
	if _, err := q.UpdateTool(ctx, "search", api.ToolUpdate{IsEnabled: &off}); err != nil {
		t.Fatalf("update: %v", err)
	}
	tools, err := q.Tools(ctx)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if len(tools) != 1 || tools[0].IsEnabled {
		t.Fatalf("tool list not refreshed: %+v", tools)
	}
	if n := b.count("GET /config/tools"); n != 2 {
		t.Fatalf("expected one refetch, got %d requests", n)
	}
}

func TestDeleteConversationDropsCachedMessages(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		msgs, err := q.ConversationMessages(ctx, "c1")
		if err != nil {
			t.Fatalf("messages: %v", err)
		}
		if len(msgs) != 1 || msgs[0].CID != "c1" {
			t.Fatalf("unexpected messages %+v", msgs)
		}
	}
	if n := b.count("GET /conversations/c1/messages"); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
	if err := q.DeleteConversation(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := q.ConversationMessages(ctx, "c1"); err != nil {
		t.Fatalf("messages: %v", err)
	}
	if n := b.count("GET /conversations/c1/messages"); n != 2 {
		t.Fatalf("expected a refetch after delete, got %d requests", n)
	}
}

func TestDeleteConversationRefreshesDashboardTotals(t *testing.T) {
	b := newBackend()
	q := newTestQueries(b)
	ctx := context.Background()

	stats, err := q.DashboardStats(ctx, 7)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalConversations != 3 {
		t.Fatalf("unexpected total %d", stats.TotalConversations)
	}
	if err := q.DeleteConversation(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stats, err = q.DashboardStats(ctx, 7)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalConversations != 2 {
		t.Fatalf("dashboard total not refreshed, got %d", stats.TotalConversations)
	}
}

func TestContentMutationsInvalidateUsage(t *testing.T) {
	for _, op := range []Op{OpBanUser, OpUnbanUser, OpDeleteProject, OpAdminDeleteProject, OpDeleteConversation} {
		found := false
		for _, p := range Invalidations[op] {
			if p.Equal(prefixUsage) {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s must invalidate usage totals", op)
		}
	}
}
