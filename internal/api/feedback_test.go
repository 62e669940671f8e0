package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"adminconsole/internal/transport"
)

func TestFeedbackStatsKeepsTrendAsReturned(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/feedbacks/stats"] = `{
		"totalCount": 5, "likeCount": 3, "dislikeCount": 2, "likeRatio": 0.6,
		"trend": [
			{"date":"2024-01-01","likes":1,"dislikes":0},
			{"date":"2024-01-03","likes":2},
			{"date":"2024-01-09","likes":0,"dislikes":2}
		]
	}`
	got, err := New(d).Feedback.Stats(context.Background(), FeedbackStatsParams{
		Period:    PeriodDay,
		StartDate: "2024-01-01T00:00:00.000Z",
		EndDate:   "2024-01-31T23:59:59.000Z",
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(got.Trend) != 3 {
		t.Fatalf("expected 3 trend points without zero fill, got %d", len(got.Trend))
	}
	dates := []string{got.Trend[0].Date, got.Trend[1].Date, got.Trend[2].Date}
	if strings.Join(dates, ",") != "2024-01-01,2024-01-03,2024-01-09" {
		t.Fatalf("unexpected trend order %v", dates)
	}
	if got.Trend[1].Dislikes != 0 || got.ByModel == nil {
		t.Fatalf("missing values must default, got %+v", got)
	}
	q := d.callsTo("/admin/feedbacks/stats")[0].query
	if q.Get("period") != "day" || q.Get("startDate") != "2024-01-01T00:00:00.000Z" || q.Has("projectId") {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestFeedbackListDefaults(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/feedbacks"] = `{"feedbacks":[{"id":"f1","projectId":null}]}`

	got, err := New(d).Feedback.List(context.Background(), FeedbackListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	f := got.Feedbacks[0]
	if f.ProjectID != nil || f.ModelName != nil || f.FeedbackType != FeedbackLike || got.NextCursor != nil || got.HasMore {
		t.Fatalf("unexpected defaults %+v %+v", got, f)
	}
}

func TestFeedbackExportWritesJSONL(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/feedbacks"] = `{"feedbacks":[{"id":"f1"},{"id":"f2"}],"total":2}`
	d.responses["GET /admin/feedbacks/f1"] = `{"id":"f1","feedbackType":"dislike","reason":"wrong","userInput":"q1","assistantOutput":"a1","modelName":"m","createdAt":"t1","conversationHistory":[{"role":"user","content":"q1"}]}`
	d.responses["GET /admin/feedbacks/f2"] = `{"id":"f2","feedbackType":"dislike","reason":"slow","createdAt":"t2"}`

	var buf bytes.Buffer
	n, err := New(d).Feedback.Export(context.Background(), &buf, ExportOptions{StartDate: "s", EndDate: "e"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 records, got %d", n)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	for _, k := range []string{"prompt", "response", "feedback", "feedback_type", "model", "conversation_history", "created_at"} {
		if _, ok := first[k]; !ok {
			t.Fatalf("missing key %s in %s", k, lines[0])
		}
	}
	if first["feedback"] != "wrong" || first["prompt"] != "q1" {
		t.Fatalf("unexpected first record %v", first)
	}
	if !strings.Contains(lines[1], `"prompt":null`) {
		t.Fatalf("absent prompt should be null: %s", lines[1])
	}

	q := d.callsTo("/admin/feedbacks")[0].query
	if q.Get("type") != "dislike" || q.Get("limit") != "1000" || q.Get("offset") != "0" {
		t.Fatalf("unexpected export query %v", q)
	}
}

func TestFeedbackExportFailsOnDetailError(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/feedbacks"] = `{"feedbacks":[{"id":"f1"}]}`
	d.errs["GET /admin/feedbacks/f1"] = &transport.Error{StatusCode: 500}

	var buf bytes.Buffer
	if _, err := New(d).Feedback.Export(context.Background(), &buf, ExportOptions{}); err == nil {
		t.Fatalf("expected export error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on failure, got %q", buf.String())
	}
}

func TestParseToolSettings(t *testing.T) {
	if _, err := ParseToolSettings(`{"timeout": 30`); !errors.Is(err, ErrInvalidToolSettings) {
		t.Fatalf("expected ErrInvalidToolSettings for malformed json, got %v", err)
	}
	if _, err := ParseToolSettings(`[1,2]`); !errors.Is(err, ErrInvalidToolSettings) {
		t.Fatalf("expected ErrInvalidToolSettings for array, got %v", err)
	}
	got, err := ParseToolSettings(`{"timeout": 30}`)
	if err != nil || got["timeout"] != float64(30) {
		t.Fatalf("unexpected result %v %v", got, err)
	}
}

func TestUpdateSettingsBlocksInvalidJSON(t *testing.T) {
	d := newFakeDoer()
	if _, err := New(d).Tools.UpdateSettings(context.Background(), "web_search", "{nope"); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(d.calls) != 0 {
		t.Fatalf("invalid settings must not be dispatched")
	}
}

func TestAuditListTreatsMissingEndpointAsEmpty(t *testing.T) {
	for _, status := range []int{404, 501} {
		d := newFakeDoer()
		d.errs["GET /admin/audit/logs"] = &transport.Error{StatusCode: status}

		got, err := New(d).Audit.List(context.Background(), AuditListParams{Limit: 20})
		if err != nil {
			t.Fatalf("status %d must yield an empty log, got %v", status, err)
		}
		if got.Logs == nil || len(got.Logs) != 0 || got.Total != 0 {
			t.Fatalf("expected empty result, got %+v", got)
		}
	}
}

func TestAuditListReturnsOtherErrors(t *testing.T) {
	d := newFakeDoer()
	d.errs["GET /admin/audit/logs"] = &transport.Error{Method: "GET", Path: "/admin/audit/logs", StatusCode: 401}
	if _, err := New(d).Audit.List(context.Background(), AuditListParams{}); !transport.IsUnauthorized(err) {
		t.Fatalf("401 must reach the caller, got %v", err)
	}

	d = newFakeDoer()
	d.errs["GET /admin/audit/logs"] = &transport.Error{Method: "GET", Path: "/admin/audit/logs", StatusCode: 0, Message: "connection refused"}
	if _, err := New(d).Audit.List(context.Background(), AuditListParams{}); !transport.IsNetwork(err) {
		t.Fatalf("network failure must reach the caller, got %v", err)
	}
}

func TestAuditListMapsSnakeCase(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/audit/logs"] = `{"logs":[{"id":"a1","user_id":null,"action":"update","entity_type":"item","entity_id":"i1","new_value":{"k":"v"},"created_at":"t"}],"total":1}`

	got, err := New(d).Audit.List(context.Background(), AuditListParams{})
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	l := got.Logs[0]
	if l.UserID != "" || l.ResourceType != "item" || *l.ResourceID != "i1" || l.Details["k"] != "v" {
		t.Fatalf("unexpected log %+v", l)
	}
}

func TestInviteCodeRemainingUsesDerived(t *testing.T) {
	d := newFakeDoer()
	d.responses["POST /invite-codes"] = `{"id":"i1","code":"ABC","maxUses":10,"isActive":true,"isValid":true}`

	maxUses := 10
	got, err := New(d).InviteCodes.Create(context.Background(), InviteCodeCreate{MaxUses: &maxUses})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.UsedCount != 0 || got.RemainingUses != 10 || !got.IsActive {
		t.Fatalf("unexpected code %+v", got)
	}
	if body := string(d.callsTo("/invite-codes")[0].body); body != `{"maxUses":10}` {
		t.Fatalf("partial create must only send set fields, got %s", body)
	}
}

func TestAgentNormalizationDefaults(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /config/agents"] = `[{"name":"research-agent","tools":["web"]},{"name":"writer"}]`

	got, err := New(d).Agents.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].ToolCount != 1 || got[1].Tools == nil || got[1].IsEnabled {
		t.Fatalf("unexpected agents %+v", got)
	}
}
