package api

import (
	"context"
	"fmt"
)

type LoginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	CreateSession *bool  `json:"createSession,omitempty"`
}

type RegisterRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Name       *string `json:"name,omitempty"`
	InviteCode *string `json:"inviteCode,omitempty"`
}

// UserInfo is the account record returned by the auth endpoints.
type UserInfo struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	Avatar    *string `json:"avatar"`
	CreatedAt string  `json:"createdAt"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type MeResponse struct {
	User     UserInfo       `json:"user"`
	Settings map[string]any `json:"settings"`
	IsAdmin  bool           `json:"isAdmin"`
}

type userInfoWire struct {
	ID             *string `json:"id"`
	Email          *string `json:"email"`
	Name           *string `json:"name"`
	Avatar         *string `json:"avatar"`
	CreatedAt      *string `json:"created_at"`
	CreatedAtCamel *string `json:"createdAt"`
}

func (w userInfoWire) normalize() UserInfo {
	return UserInfo{
		ID:        str(w.ID),
		Email:     str(w.Email),
		Name:      optStr(w.Name),
		Avatar:    optStr(w.Avatar),
		CreatedAt: firstStr(w.CreatedAt, w.CreatedAtCamel),
	}
}

type loginWire struct {
	Token *string      `json:"token"`
	User  userInfoWire `json:"user"`
}

type meWire struct {
	User         userInfoWire   `json:"user"`
	Settings     map[string]any `json:"settings"`
	IsAdmin      *bool          `json:"isAdmin"`
	IsAdminSnake *bool          `json:"is_admin"`
}

type AuthClient struct {
	service
}

func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var w loginWire
	if err := c.post(ctx, "/auth/admin/login", req, &w); err != nil {
		return LoginResponse{}, err
	}
	if str(w.Token) == "" {
		return LoginResponse{}, fmt.Errorf("login response carried no token")
	}
	return LoginResponse{Token: str(w.Token), User: w.User.normalize()}, nil
}

func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (LoginResponse, error) {
	var w loginWire
	if err := c.post(ctx, "/auth/register", req, &w); err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: str(w.Token), User: w.User.normalize()}, nil
}

func (c *AuthClient) Me(ctx context.Context) (MeResponse, error) {
	var w meWire
	if err := c.get(ctx, "/auth/me", nil, &w); err != nil {
		return MeResponse{}, err
	}
	return MeResponse{
		User:     w.User.normalize(),
		Settings: dict(w.Settings),
		IsAdmin:  flag(w.IsAdmin, w.IsAdminSnake),
	}, nil
}

func (c *AuthClient) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}
