package api

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"adminconsole/internal/transport"
)

func TestUsersListFallsBackToUsageEndpoint(t *testing.T) {
	d := newFakeDoer()
	d.errs["GET /admin/users"] = &transport.Error{Method: "GET", Path: "/admin/users", StatusCode: 404}
	d.responses["GET /admin/usage/users"] = `{
		"users": [
			{"user_id": "u1", "email": "a@x.io", "name": "Ann", "is_admin": true, "total_tokens": 1200, "total_cost": 1.5, "last_active_at": "2024-01-02T00:00:00Z", "status": "banned"},
			{"userId": "u2", "email": "b@x.io"}
		],
		"total": 42
	}`

	var fellBack []string
	c := New(d, WithFallbackHook(func(name string, err error) { fellBack = append(fellBack, name) }))

	got, err := c.Users.List(context.Background(), UserListParams{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}

	name := "Ann"
	lastActive := "2024-01-02T00:00:00Z"
	want := UserListResponse{
		Users: []UserListItem{
			{ID: "u1", Email: "a@x.io", Name: &name, IsAdmin: true, TotalTokens: 1200, TotalCost: 1.5, LastActiveAt: &lastActive, Status: UserBanned},
			{ID: "u2", Email: "b@x.io", Status: UserActive},
		},
		Total:  42,
		Limit:  10,
		Offset: 20,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected response\n got: %+v\nwant: %+v", got, want)
	}
	if len(fellBack) != 1 || fellBack[0] != "/admin/users" {
		t.Fatalf("expected one fallback from /admin/users, got %v", fellBack)
	}
	if q := d.callsTo("/admin/usage/users")[0].query; q.Get("limit") != "10" || q.Get("offset") != "20" {
		t.Fatalf("secondary endpoint did not receive paging params: %v", q)
	}
}

func TestUsersListPrimary(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/users"] = `{"users":[{"id":"u1","email":"a@x.io","isBanned":true,"totalTokens":5}],"total":1}`

	got, err := New(d).Users.List(context.Background(), UserListParams{})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if got.Limit != DefaultListLimit || got.Offset != 0 {
		t.Fatalf("expected default paging echo, got limit=%d offset=%d", got.Limit, got.Offset)
	}
	if got.Users[0].Status != UserBanned || got.Users[0].IsAdmin {
		t.Fatalf("unexpected user %+v", got.Users[0])
	}
	if len(d.callsTo("/admin/usage/users")) != 0 {
		t.Fatalf("secondary endpoint must not be called when primary succeeds")
	}
}

func TestUsersListBothFail(t *testing.T) {
	d := newFakeDoer()
	d.errs["GET /admin/users"] = errors.New("primary down")
	d.errs["GET /admin/usage/users"] = &transport.Error{Method: "GET", Path: "/admin/usage/users", StatusCode: 500}

	_, err := New(d).Users.List(context.Background(), UserListParams{})
	if err == nil {
		t.Fatalf("expected error when both endpoints fail")
	}
	if transport.StatusCode(err) != 500 {
		t.Fatalf("expected secondary failure to surface, got %v", err)
	}
}

func TestUserDetailAcceptsSnakeCase(t *testing.T) {
	d := newFakeDoer()
	d.responses["GET /admin/users/u%2F1"] = `{"id":"u/1","email":"a@x.io","is_admin":true,"admin_level":2,"is_banned":false,"created_at":"2024-01-01"}`

	got, err := New(d).Users.Get(context.Background(), "u/1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.IsAdmin || got.AdminLevel != 2 || got.CreatedAt != "2024-01-01" || got.Status() != UserActive {
		t.Fatalf("unexpected detail %+v", got)
	}
}

func TestBanSendsReasonOnlyWhenGiven(t *testing.T) {
	d := newFakeDoer()
	d.responses["POST /admin/users/u1/ban"] = `{"isBanned":true}`

	c := New(d)
	res, err := c.Users.Ban(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !res.IsBanned || res.UserID != "u1" {
		t.Fatalf("unexpected ban result %+v", res)
	}
	if string(d.callsTo("/admin/users/u1/ban")[0].body) != `{}` {
		t.Fatalf("expected empty body, got %s", d.callsTo("/admin/users/u1/ban")[0].body)
	}
}

func TestFirstSuccessStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := FirstSuccess(ctx, nil, Candidate[int]{Name: "a", Fetch: func(context.Context) (int, error) {
		calls++
		return 1, nil
	}})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("expected cancellation before any call, got err=%v calls=%d", err, calls)
	}
}
