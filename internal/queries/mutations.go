package queries

import (
	"context"

	"adminconsole/internal/api"
)

func (q *Queries) UpdateUser(ctx context.Context, userID string, in api.UserUpdate) (api.UserDetail, error) {
	return mutate(ctx, q, OpUpdateUser, func(ctx context.Context) (api.UserDetail, error) {
		return q.api.Users.Update(ctx, userID, in)
	})
}

func (q *Queries) BanUser(ctx context.Context, userID, reason string) (api.BanResult, error) {
	return mutate(ctx, q, OpBanUser, func(ctx context.Context) (api.BanResult, error) {
		return q.api.Users.Ban(ctx, userID, reason)
	})
}

func (q *Queries) UnbanUser(ctx context.Context, userID string) (api.BanResult, error) {
	return mutate(ctx, q, OpUnbanUser, func(ctx context.Context) (api.BanResult, error) {
		return q.api.Users.Unban(ctx, userID)
	})
}

func (q *Queries) DeleteProject(ctx context.Context, projectID string) error {
	return mutateErr(ctx, q, OpDeleteProject, func(ctx context.Context) error {
		return q.api.Projects.Delete(ctx, projectID)
	})
}

func (q *Queries) AdminDeleteProject(ctx context.Context, projectID string) error {
	return mutateErr(ctx, q, OpAdminDeleteProject, func(ctx context.Context) error {
		return q.api.Projects.AdminDelete(ctx, projectID)
	})
}

func (q *Queries) TransferProject(ctx context.Context, projectID, newOwnerID string) (api.TransferResult, error) {
	return mutate(ctx, q, OpTransferProject, func(ctx context.Context) (api.TransferResult, error) {
		return q.api.Projects.TransferOwnership(ctx, projectID, newOwnerID)
	})
}

func (q *Queries) DeleteConversation(ctx context.Context, cid string) error {
	return mutateErr(ctx, q, OpDeleteConversation, func(ctx context.Context) error {
		return q.api.Conversations.Delete(ctx, cid)
	})
}

func (q *Queries) EndSession(ctx context.Context, sessionID string) (bool, error) {
	return mutate(ctx, q, OpEndSession, func(ctx context.Context) (bool, error) {
		return q.api.Sessions.End(ctx, sessionID)
	})
}

func (q *Queries) ClearContext(ctx context.Context, projectID string, includeAudit bool) (api.ClearResult, error) {
	return mutate(ctx, q, OpClearContext, func(ctx context.Context) (api.ClearResult, error) {
		return q.api.Context.Clear(ctx, projectID, includeAudit)
	})
}

func (q *Queries) UpdateAgent(ctx context.Context, name string, in api.AgentUpdate) (api.AgentConfig, error) {
	return mutate(ctx, q, OpUpdateAgent, func(ctx context.Context) (api.AgentConfig, error) {
		return q.api.Agents.Update(ctx, name, in)
	})
}

func (q *Queries) ToggleAgent(ctx context.Context, name string, enabled bool) (api.AgentConfig, error) {
	return mutate(ctx, q, OpToggleAgent, func(ctx context.Context) (api.AgentConfig, error) {
		return q.api.Agents.Toggle(ctx, name, enabled)
	})
}

func (q *Queries) ResetAgent(ctx context.Context, name string) error {
	return mutateErr(ctx, q, OpResetAgent, func(ctx context.Context) error {
		return q.api.Agents.Reset(ctx, name)
	})
}

func (q *Queries) UpdateOrchestrator(ctx context.Context, in api.OrchestratorUpdate) (api.OrchestratorConfig, error) {
	return mutate(ctx, q, OpUpdateOrchestrator, func(ctx context.Context) (api.OrchestratorConfig, error) {
		return q.api.Orchestrator.Update(ctx, in)
	})
}

func (q *Queries) ResetOrchestrator(ctx context.Context) error {
	return mutateErr(ctx, q, OpResetOrchestrator, q.api.Orchestrator.Reset)
}

func (q *Queries) UpdateTool(ctx context.Context, name string, in api.ToolUpdate) (api.ToolConfig, error) {
	return mutate(ctx, q, OpUpdateTool, func(ctx context.Context) (api.ToolConfig, error) {
		return q.api.Tools.Update(ctx, name, in)
	})
}

// UpdateToolSettings validates raw locally; an invalid document never reaches
// the server and leaves the cache untouched.
func (q *Queries) UpdateToolSettings(ctx context.Context, name, raw string) (api.ToolConfig, error) {
	return mutate(ctx, q, OpUpdateToolSettings, func(ctx context.Context) (api.ToolConfig, error) {
		return q.api.Tools.UpdateSettings(ctx, name, raw)
	})
}

func (q *Queries) ToggleTool(ctx context.Context, name string, enabled bool) (api.ToolConfig, error) {
	return mutate(ctx, q, OpToggleTool, func(ctx context.Context) (api.ToolConfig, error) {
		return q.api.Tools.Toggle(ctx, name, enabled)
	})
}

func (q *Queries) CreateInviteCode(ctx context.Context, in api.InviteCodeCreate) (api.InviteCode, error) {
	return mutate(ctx, q, OpCreateInviteCode, func(ctx context.Context) (api.InviteCode, error) {
		return q.api.InviteCodes.Create(ctx, in)
	})
}

func (q *Queries) UpdateInviteCode(ctx context.Context, id string, in api.InviteCodeUpdate) (api.InviteCode, error) {
	return mutate(ctx, q, OpUpdateInviteCode, func(ctx context.Context) (api.InviteCode, error) {
		return q.api.InviteCodes.Update(ctx, id, in)
	})
}

func (q *Queries) DeleteInviteCode(ctx context.Context, id string) error {
	return mutateErr(ctx, q, OpDeleteInviteCode, func(ctx context.Context) error {
		return q.api.InviteCodes.Delete(ctx, id)
	})
}

func (q *Queries) ActivateInviteCode(ctx context.Context, id string) (api.InviteCode, error) {
	return mutate(ctx, q, OpActivateInviteCode, func(ctx context.Context) (api.InviteCode, error) {
		return q.api.InviteCodes.Activate(ctx, id)
	})
}

func (q *Queries) DeactivateInviteCode(ctx context.Context, id string) (api.InviteCode, error) {
	return mutate(ctx, q, OpDeactivateInviteCode, func(ctx context.Context) (api.InviteCode, error) {
		return q.api.InviteCodes.Deactivate(ctx, id)
	})
}

func (q *Queries) GrantAdmin(ctx context.Context, in api.AdminGrant) (api.AdminUser, error) {
	return mutate(ctx, q, OpGrantAdmin, func(ctx context.Context) (api.AdminUser, error) {
		return q.api.Admins.Grant(ctx, in)
	})
}

func (q *Queries) UpdateAdmin(ctx context.Context, userID string, in api.AdminUpdate) (api.AdminUser, error) {
	return mutate(ctx, q, OpUpdateAdmin, func(ctx context.Context) (api.AdminUser, error) {
		return q.api.Admins.Update(ctx, userID, in)
	})
}

func (q *Queries) RevokeAdmin(ctx context.Context, userID string) error {
	return mutateErr(ctx, q, OpRevokeAdmin, func(ctx context.Context) error {
		return q.api.Admins.Revoke(ctx, userID)
	})
}

func (q *Queries) CreatePlaybook(ctx context.Context, in api.PlaybookInput) (api.Playbook, error) {
	return mutate(ctx, q, OpCreatePlaybook, func(ctx context.Context) (api.Playbook, error) {
		return q.api.Playbooks.Create(ctx, in)
	})
}

func (q *Queries) UpdatePlaybook(ctx context.Context, id string, in api.PlaybookInput) (api.Playbook, error) {
	return mutate(ctx, q, OpUpdatePlaybook, func(ctx context.Context) (api.Playbook, error) {
		return q.api.Playbooks.Update(ctx, id, in)
	})
}

func (q *Queries) DeletePlaybook(ctx context.Context, id string) error {
	return mutateErr(ctx, q, OpDeletePlaybook, func(ctx context.Context) error {
		return q.api.Playbooks.Delete(ctx, id)
	})
}

func (q *Queries) SyncPlaybooks(ctx context.Context, overwrite bool) (api.SyncResult, error) {
	return mutate(ctx, q, OpSyncPlaybooks, func(ctx context.Context) (api.SyncResult, error) {
		return q.api.Playbooks.SyncFromSkills(ctx, overwrite)
	})
}
