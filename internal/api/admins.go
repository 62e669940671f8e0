package api

import (
	"context"

	"adminconsole/internal/transport"
)

type AdminUser struct {
	UserID    string  `json:"userId"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	Level     int     `json:"level"`
	LevelName string  `json:"levelName"`
	Note      *string `json:"note"`
	GrantedAt *string `json:"grantedAt"`
}

type AdminList struct {
	Admins []AdminUser `json:"admins"`
	Total  int         `json:"total"`
}

type AdminGrant struct {
	UserID string  `json:"userId"`
	Level  *int    `json:"level,omitempty"`
	Note   *string `json:"note,omitempty"`
}

type AdminUpdate struct {
	Level *int    `json:"level,omitempty"`
	Note  *string `json:"note,omitempty"`
}

type UserSearchResult struct {
	UserID string  `json:"userId"`
	Email  string  `json:"email"`
	Name   *string `json:"name"`
}

type adminWire struct {
	UserID    *string `json:"userId"`
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	Level     *int    `json:"level"`
	LevelName *string `json:"levelName"`
	Note      *string `json:"note"`
	GrantedAt *string `json:"grantedAt"`
}

func (w adminWire) normalize() AdminUser {
	return AdminUser{
		UserID:    str(w.UserID),
		Email:     str(w.Email),
		Name:      optStr(w.Name),
		Level:     num(w.Level),
		LevelName: str(w.LevelName),
		Note:      optStr(w.Note),
		GrantedAt: optStr(w.GrantedAt),
	}
}

type AdminsClient struct {
	service
}

func (c *AdminsClient) List(ctx context.Context) (AdminList, error) {
	var w struct {
		Admins []adminWire `json:"admins"`
		Total  *int        `json:"total"`
	}
	if err := c.get(ctx, "/config/admins", nil, &w); err != nil {
		return AdminList{}, err
	}
	return AdminList{Admins: mapList(w.Admins, adminWire.normalize), Total: num(w.Total)}, nil
}

func (c *AdminsClient) Grant(ctx context.Context, in AdminGrant) (AdminUser, error) {
	var w adminWire
	if err := c.post(ctx, "/config/admins", in, &w); err != nil {
		return AdminUser{}, err
	}
	return w.normalize(), nil
}

func (c *AdminsClient) Update(ctx context.Context, userID string, in AdminUpdate) (AdminUser, error) {
	var w adminWire
	if err := c.patch(ctx, "/config/admins/"+seg(userID), in, &w); err != nil {
		return AdminUser{}, err
	}
	return w.normalize(), nil
}

// Revoke deletes the grant record outright.
func (c *AdminsClient) Revoke(ctx context.Context, userID string) error {
	return c.del(ctx, "/config/admins/"+seg(userID), nil, nil)
}

func (c *AdminsClient) SearchUsers(ctx context.Context, email string) ([]UserSearchResult, error) {
	var w struct {
		Users []struct {
			UserID *string `json:"userId"`
			Email  *string `json:"email"`
			Name   *string `json:"name"`
		} `json:"users"`
	}
	if err := c.get(ctx, "/config/admins/search", transport.NewQuery().Str("email", email), &w); err != nil {
		return nil, err
	}
	out := make([]UserSearchResult, 0, len(w.Users))
	for _, u := range w.Users {
		out = append(out, UserSearchResult{UserID: str(u.UserID), Email: str(u.Email), Name: optStr(u.Name)})
	}
	return out, nil
}
