package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestConversationListOmitsUnsetFilters(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/conversations"] = `{"items":[],"total":0}`

	if _, err := New(d).Conversations.List(context.Background(), ConversationListParams{Limit: 20}); err != nil {
		t.Fatalf("list: %v", err)
	}
	q := d.callsTo("/admin/conversations")[0].query
	if len(q) != 1 || q.Get("limit") != "20" {
		t.Fatalf("expected only limit in query, got %v", q)
	}
}

func TestConversationListFullPayload(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/conversations"] = `{
		"items": [{"cid":"c1","user_id":"u1","project_id":"p1","title":"Plan","status":"completed","message_count":4,"file_count":2,"last_message":"done","created_at":"t0","updated_at":"t1"}],
		"total": 45, "limit": 20, "offset": 0
	}`
	hasFiles := true
	got, err := New(d).Conversations.List(context.Background(), ConversationListParams{Limit: 20, Status: "completed", HasFiles: &hasFiles})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	c := got.Items[0]
	if c.CID != "c1" || c.UserID != "u1" || *c.ProjectID != "p1" || *c.Title != "Plan" || c.Status != "completed" ||
		c.MessageCount != 4 || c.FileCount != 2 || *c.LastMessage != "done" || c.CreatedAt != "t0" || c.UpdatedAt != "t1" {
		t.Fatalf("field dropped during normalization: %+v", c)
	}
	if !got.HasMore || got.Total != 45 {
		t.Fatalf("unexpected paging %+v", got)
	}
	if q := d.callsTo("/admin/conversations")[0].query; q.Get("hasFiles") != "true" || q.Get("status") != "completed" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestConversationDetailEmptyPayloadDefaults(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/conversations/c9"] = `{"messages":[{"id":"m1","role":"user","content":"hi"}]}`

	got, err := New(d).Conversations.Get(context.Background(), "c9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Conversation.CID != "c9" || got.Conversation.FileCount != 0 {
		t.Fatalf("unexpected conversation %+v", got.Conversation)
	}
	if got.Files == nil || got.Messages[0].ToolCalls == nil {
		t.Fatalf("lists must default to empty, got files=%v toolCalls=%v", got.Files, got.Messages[0].ToolCalls)
	}
	if got.Messages[0].CID != "c9" {
		t.Fatalf("message should inherit conversation id, got %q", got.Messages[0].CID)
	}

	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, frag := range []string{`"files":[]`, `"toolCalls":[]`, `"title":null`, `"messageCount":0`} {
		if !strings.Contains(s, frag) {
			t.Fatalf("expected %s in %s", frag, s)
		}
	}
}

func TestConversationDetailFileCountFromFiles(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/conversations/c1"] = `{
		"cid":"c1","file_count":9,"messages":[],
		"files":[{"path":"a.py","is_binary":false,"file_size":12},{"path":"b.png","is_binary":true}]
	}`
	got, err := New(d).Conversations.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Conversation.FileCount != 2 {
		t.Fatalf("expected file count 2, got %d", got.Conversation.FileCount)
	}
	if *got.Files[0].FileSize != 12 || !got.Files[1].IsBinary || got.Files[1].FileSize != nil {
		t.Fatalf("unexpected files %+v", got.Files)
	}
}

func TestProjectListCapsAtLimit(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /projects"] = `[{"id":"p1","userId":"u"},{"id":"p2","userId":"u"},{"id":"p3","userId":"u"}]`

	got, err := New(d).Projects.List(context.Background(), ProjectListParams{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got.Projects) != 2 || got.Total != 3 {
		t.Fatalf("expected 2 items of 3, got %d/%d", len(got.Projects), got.Total)
	}
}

func TestAdminProjectListMapsOwner(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/projects"] = `{"projects":[{"id":"p1","name":"Site","owner_id":"u7","owner_email":"o@x.io","research_status":"done"}],"total":1}`

	got, err := New(d).Projects.AdminList(context.Background(), ProjectListParams{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	p := got.Projects[0]
	if p.UserID != "u7" || *p.OwnerEmail != "o@x.io" || *p.ResearchStatus != "done" || p.Domain != nil {
		t.Fatalf("unexpected project %+v", p)
	}
}

func TestTransferOwnershipBody(t *testing.T) {
	d := newFakeDoer()
	d.responses["POST /admin/projects/p1/transfer"] = `{"oldOwnerId":"u1"}`

	got, err := New(d).Projects.TransferOwnership(context.Background(), "p1", "u2")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got != (TransferResult{ProjectID: "p1", OldOwnerID: "u1", NewOwnerID: "u2"}) {
		t.Fatalf("unexpected result %+v", got)
	}
	if body := string(d.callsTo("/admin/projects/p1/transfer")[0].body); body != `{"new_owner_id":"u2"}` {
		t.Fatalf("unexpected body %s", body)
	}
}
