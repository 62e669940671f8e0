package api

import (
	"context"

	"adminconsole/internal/transport"
)

type InviteCode struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	MaxUses       int     `json:"maxUses"`
	UsedCount     int     `json:"usedCount"`
	RemainingUses int     `json:"remainingUses"`
	IsActive      bool    `json:"isActive"`
	IsValid       bool    `json:"isValid"`
	ExpiresAt     *string `json:"expiresAt"`
	Note          *string `json:"note"`
	CreatedAt     string  `json:"createdAt"`
}

type InviteCodeUsage struct {
	UserID string  `json:"userId"`
	Email  string  `json:"email"`
	Name   *string `json:"name"`
	UsedAt string  `json:"usedAt"`
}

type InviteCodeList struct {
	Codes []InviteCode `json:"codes"`
	Total int          `json:"total"`
}

type InviteCodeUsages struct {
	Usages []InviteCodeUsage `json:"usages"`
	Total  int               `json:"total"`
}

// InviteCodeCreate leaves Code nil to let the server generate one.
type InviteCodeCreate struct {
	Code          *string `json:"code,omitempty"`
	MaxUses       *int    `json:"maxUses,omitempty"`
	ExpiresInDays *int    `json:"expiresInDays,omitempty"`
	Note          *string `json:"note,omitempty"`
}

type InviteCodeUpdate struct {
	MaxUses       *int    `json:"maxUses,omitempty"`
	Note          *string `json:"note,omitempty"`
	ExpiresInDays *int    `json:"expiresInDays,omitempty"`
}

type inviteCodeWire struct {
	ID            *string `json:"id"`
	Code          *string `json:"code"`
	MaxUses       *int    `json:"maxUses"`
	UsedCount     *int    `json:"usedCount"`
	RemainingUses *int    `json:"remainingUses"`
	IsActive      *bool   `json:"isActive"`
	IsValid       *bool   `json:"isValid"`
	ExpiresAt     *string `json:"expiresAt"`
	Note          *string `json:"note"`
	CreatedAt     *string `json:"createdAt"`
}

func (w inviteCodeWire) normalize() InviteCode {
	maxUses := num(w.MaxUses)
	used := num(w.UsedCount)
	remaining := num(w.RemainingUses)
	if w.RemainingUses == nil && maxUses > used {
		remaining = maxUses - used
	}
	return InviteCode{
		ID:            str(w.ID),
		Code:          str(w.Code),
		MaxUses:       maxUses,
		UsedCount:     used,
		RemainingUses: remaining,
		IsActive:      flag(w.IsActive),
		IsValid:       flag(w.IsValid),
		ExpiresAt:     optStr(w.ExpiresAt),
		Note:          optStr(w.Note),
		CreatedAt:     str(w.CreatedAt),
	}
}

type inviteUsageWire struct {
	UserID *string `json:"userId"`
	Email  *string `json:"email"`
	Name   *string `json:"name"`
	UsedAt *string `json:"usedAt"`
}

func (w inviteUsageWire) normalize() InviteCodeUsage {
	return InviteCodeUsage{UserID: str(w.UserID), Email: str(w.Email), Name: optStr(w.Name), UsedAt: str(w.UsedAt)}
}

type InviteCodesClient struct {
	service
}

func (c *InviteCodesClient) List(ctx context.Context, activeOnly bool) (InviteCodeList, error) {
	var w struct {
		Codes []inviteCodeWire `json:"codes"`
		Total *int             `json:"total"`
	}
	if err := c.get(ctx, "/invite-codes", transport.NewQuery().Bool("active_only", activeOnly), &w); err != nil {
		return InviteCodeList{}, err
	}
	return InviteCodeList{Codes: mapList(w.Codes, inviteCodeWire.normalize), Total: num(w.Total)}, nil
}

func (c *InviteCodesClient) Create(ctx context.Context, in InviteCodeCreate) (InviteCode, error) {
	var w inviteCodeWire
	if err := c.post(ctx, "/invite-codes", in, &w); err != nil {
		return InviteCode{}, err
	}
	return w.normalize(), nil
}

func (c *InviteCodesClient) Get(ctx context.Context, id string) (InviteCode, error) {
	var w inviteCodeWire
	if err := c.get(ctx, "/invite-codes/"+seg(id), nil, &w); err != nil {
		return InviteCode{}, err
	}
	return w.normalize(), nil
}

func (c *InviteCodesClient) Update(ctx context.Context, id string, in InviteCodeUpdate) (InviteCode, error) {
	var w inviteCodeWire
	if err := c.put(ctx, "/invite-codes/"+seg(id), in, &w); err != nil {
		return InviteCode{}, err
	}
	return w.normalize(), nil
}

func (c *InviteCodesClient) Delete(ctx context.Context, id string) error {
	return c.del(ctx, "/invite-codes/"+seg(id), nil, nil)
}

func (c *InviteCodesClient) Activate(ctx context.Context, id string) (InviteCode, error) {
	var w inviteCodeWire
	if err := c.patch(ctx, "/invite-codes/"+seg(id)+"/activate", nil, &w); err != nil {
		return InviteCode{}, err
	}
	return w.normalize(), nil
}

func (c *InviteCodesClient) Deactivate(ctx context.Context, id string) (InviteCode, error) {
	var w inviteCodeWire
	if err := c.patch(ctx, "/invite-codes/"+seg(id)+"/deactivate", nil, &w); err != nil {
		return InviteCode{}, err
	}
	return w.normalize(), nil
}

func (c *InviteCodesClient) Usages(ctx context.Context, id string) (InviteCodeUsages, error) {
	var w struct {
		Usages []inviteUsageWire `json:"usages"`
		Total  *int              `json:"total"`
	}
	if err := c.get(ctx, "/invite-codes/"+seg(id)+"/usages", nil, &w); err != nil {
		return InviteCodeUsages{}, err
	}
	usages := mapList(w.Usages, inviteUsageWire.normalize)
	total := num(w.Total)
	if w.Total == nil {
		total = len(usages)
	}
	return InviteCodeUsages{Usages: usages, Total: total}, nil
}
