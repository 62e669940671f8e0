package api

import (
	"context"

	"adminconsole/internal/transport"
)

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

const DefaultListLimit = 20

type UserDetail struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	IsAdmin    bool    `json:"isAdmin"`
	AdminLevel int     `json:"adminLevel"`
	IsBanned   bool    `json:"isBanned"`
	BanReason  *string `json:"banReason"`
	BannedAt   *string `json:"bannedAt"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

func (u UserDetail) Status() UserStatus {
	if u.IsBanned {
		return UserBanned
	}
	return UserActive
}

type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type BanResult struct {
	UserID    string  `json:"userId"`
	IsBanned  bool    `json:"isBanned"`
	BanReason *string `json:"banReason"`
	BannedAt  *string `json:"bannedAt"`
}

type UserListParams struct {
	Limit  int
	Offset int
	Search string
}

func (p UserListParams) query() *transport.Query {
	return transport.NewQuery().
		Int("limit", p.Limit).
		Int("offset", p.Offset).
		Str("search", p.Search)
}

type UserListItem struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         *string    `json:"name"`
	IsAdmin      bool       `json:"isAdmin"`
	TotalTokens  int64      `json:"totalTokens"`
	TotalCost    float64    `json:"totalCost"`
	LastActiveAt *string    `json:"lastActiveAt"`
	CreatedAt    *string    `json:"createdAt"`
	Status       UserStatus `json:"status"`
}

type UserListResponse struct {
	Users  []UserListItem `json:"users"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type userDetailWire struct {
	ID              *string `json:"id"`
	Email           *string `json:"email"`
	Name            *string `json:"name"`
	IsAdmin         *bool   `json:"isAdmin"`
	IsAdminSnake    *bool   `json:"is_admin"`
	AdminLevel      *int    `json:"adminLevel"`
	AdminLevelSnake *int    `json:"admin_level"`
	IsBanned        *bool   `json:"isBanned"`
	IsBannedSnake   *bool   `json:"is_banned"`
	BanReason       *string `json:"banReason"`
	BanReasonSnake  *string `json:"ban_reason"`
	BannedAt        *string `json:"bannedAt"`
	BannedAtSnake   *string `json:"banned_at"`
	CreatedAt       *string `json:"createdAt"`
	CreatedAtSnake  *string `json:"created_at"`
	UpdatedAt       *string `json:"updatedAt"`
	UpdatedAtSnake  *string `json:"updated_at"`
}

func (w userDetailWire) normalize() UserDetail {
	return UserDetail{
		ID:         str(w.ID),
		Email:      str(w.Email),
		Name:       optStr(w.Name),
		IsAdmin:    flag(w.IsAdmin, w.IsAdminSnake),
		AdminLevel: num(w.AdminLevel, w.AdminLevelSnake),
		IsBanned:   flag(w.IsBanned, w.IsBannedSnake),
		BanReason:  optStr(w.BanReason, w.BanReasonSnake),
		BannedAt:   optStr(w.BannedAt, w.BannedAtSnake),
		CreatedAt:  firstStr(w.CreatedAt, w.CreatedAtSnake),
		UpdatedAt:  optStr(w.UpdatedAt, w.UpdatedAtSnake),
	}
}

type banWire struct {
	UserID         *string `json:"userId"`
	UserIDSnake    *string `json:"user_id"`
	IsBanned       *bool   `json:"isBanned"`
	IsBannedSnake  *bool   `json:"is_banned"`
	BanReason      *string `json:"banReason"`
	BanReasonSnake *string `json:"ban_reason"`
	BannedAt       *string `json:"bannedAt"`
	BannedAtSnake  *string `json:"banned_at"`
}

func (w banWire) normalize(userID string) BanResult {
	id := firstStr(w.UserID, w.UserIDSnake)
	if id == "" {
		id = userID
	}
	return BanResult{
		UserID:    id,
		IsBanned:  flag(w.IsBanned, w.IsBannedSnake),
		BanReason: optStr(w.BanReason, w.BanReasonSnake),
		BannedAt:  optStr(w.BannedAt, w.BannedAtSnake),
	}
}

// adminUsersWire is the /admin/users listing.
type adminUsersWire struct {
	Users []struct {
		ID           *string  `json:"id"`
		Email        *string  `json:"email"`
		Name         *string  `json:"name"`
		IsAdmin      *bool    `json:"isAdmin"`
		IsBanned     *bool    `json:"isBanned"`
		TotalTokens  *int64   `json:"totalTokens"`
		TotalCost    *float64 `json:"totalCost"`
		LastActiveAt *string  `json:"lastActiveAt"`
		CreatedAt    *string  `json:"createdAt"`
	} `json:"users"`
	Total  *int `json:"total"`
	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}

// usageUsersWire is the legacy /admin/usage/users listing. It predates the
// camelCase migration and may carry either spelling.
type usageUsersWire struct {
	Users []struct {
		ID                *string  `json:"id"`
		UserID            *string  `json:"userId"`
		UserIDSnake       *string  `json:"user_id"`
		Email             *string  `json:"email"`
		Name              *string  `json:"name"`
		IsAdmin           *bool    `json:"isAdmin"`
		IsAdminSnake      *bool    `json:"is_admin"`
		IsBanned          *bool    `json:"isBanned"`
		IsBannedSnake     *bool    `json:"is_banned"`
		Status            *string  `json:"status"`
		TotalTokens       *int64   `json:"totalTokens"`
		TotalTokensSnake  *int64   `json:"total_tokens"`
		TotalCost         *float64 `json:"totalCost"`
		TotalCostSnake    *float64 `json:"total_cost"`
		LastActiveAt      *string  `json:"lastActiveAt"`
		LastActiveAtSnake *string  `json:"last_active_at"`
	} `json:"users"`
	Total  *int `json:"total"`
	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}

func pageEcho(resp *int, requested, def int) int {
	if resp != nil && *resp > 0 {
		return *resp
	}
	if requested > 0 {
		return requested
	}
	return def
}

func banStatus(banned bool) UserStatus {
	if banned {
		return UserBanned
	}
	return UserActive
}

func (w adminUsersWire) normalize(p UserListParams) UserListResponse {
	users := make([]UserListItem, 0, len(w.Users))
	for _, u := range w.Users {
		users = append(users, UserListItem{
			ID:           str(u.ID),
			Email:        str(u.Email),
			Name:         optStr(u.Name),
			IsAdmin:      flag(u.IsAdmin),
			TotalTokens:  num(u.TotalTokens),
			TotalCost:    num(u.TotalCost),
			LastActiveAt: optStr(u.LastActiveAt),
			CreatedAt:    optStr(u.CreatedAt),
			Status:       banStatus(flag(u.IsBanned)),
		})
	}
	return UserListResponse{
		Users:  users,
		Total:  num(w.Total),
		Limit:  pageEcho(w.Limit, p.Limit, DefaultListLimit),
		Offset: pageEcho(w.Offset, p.Offset, 0),
	}
}

func (w usageUsersWire) normalize(p UserListParams) UserListResponse {
	users := make([]UserListItem, 0, len(w.Users))
	for _, u := range w.Users {
		status := UserStatus(str(u.Status))
		if status != UserActive && status != UserBanned {
			status = banStatus(flag(u.IsBanned, u.IsBannedSnake))
		}
		users = append(users, UserListItem{
			ID:           firstStr(u.ID, u.UserID, u.UserIDSnake),
			Email:        str(u.Email),
			Name:         optStr(u.Name),
			IsAdmin:      flag(u.IsAdmin, u.IsAdminSnake),
			TotalTokens:  num(u.TotalTokens, u.TotalTokensSnake),
			TotalCost:    num(u.TotalCost, u.TotalCostSnake),
			LastActiveAt: optStr(u.LastActiveAt, u.LastActiveAtSnake),
			Status:       status,
		})
	}
	return UserListResponse{
		Users:  users,
		Total:  num(w.Total),
		Limit:  pageEcho(w.Limit, p.Limit, DefaultListLimit),
		Offset: pageEcho(w.Offset, p.Offset, 0),
	}
}

type UsersClient struct {
	service
	onFallback FallbackHook
}

// List reads /admin/users and falls back to /admin/usage/users on any failure.
// Both shapes are normalized to UserListResponse.
func (c *UsersClient) List(ctx context.Context, p UserListParams) (UserListResponse, error) {
	return FirstSuccess(ctx, c.onFallback,
		Candidate[UserListResponse]{
			Name: "/admin/users",
			Fetch: func(ctx context.Context) (UserListResponse, error) {
				var w adminUsersWire
				if err := c.get(ctx, "/admin/users", p.query(), &w); err != nil {
					return UserListResponse{}, err
				}
				return w.normalize(p), nil
			},
		},
		Candidate[UserListResponse]{
			Name: "/admin/usage/users",
			Fetch: func(ctx context.Context) (UserListResponse, error) {
				var w usageUsersWire
				if err := c.get(ctx, "/admin/usage/users", p.query(), &w); err != nil {
					return UserListResponse{}, err
				}
				return w.normalize(p), nil
			},
		},
	)
}

func (c *UsersClient) Get(ctx context.Context, userID string) (UserDetail, error) {
	var w userDetailWire
	if err := c.get(ctx, "/admin/users/"+seg(userID), nil, &w); err != nil {
		return UserDetail{}, err
	}
	return w.normalize(), nil
}

func (c *UsersClient) Update(ctx context.Context, userID string, in UserUpdate) (UserDetail, error) {
	var w userDetailWire
	if err := c.put(ctx, "/admin/users/"+seg(userID), in, &w); err != nil {
		return UserDetail{}, err
	}
	return w.normalize(), nil
}

func (c *UsersClient) Ban(ctx context.Context, userID string, reason string) (BanResult, error) {
	body := struct {
		Reason *string `json:"reason,omitempty"`
	}{Reason: optStr(&reason)}
	var w banWire
	if err := c.post(ctx, "/admin/users/"+seg(userID)+"/ban", body, &w); err != nil {
		return BanResult{}, err
	}
	return w.normalize(userID), nil
}

func (c *UsersClient) Unban(ctx context.Context, userID string) (BanResult, error) {
	var w banWire
	if err := c.post(ctx, "/admin/users/"+seg(userID)+"/unban", nil, &w); err != nil {
		return BanResult{}, err
	}
	return w.normalize(userID), nil
}
