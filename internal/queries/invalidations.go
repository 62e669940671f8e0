package queries

import "adminconsole/internal/cache"

type Op string

const (
	OpUpdateUser           Op = "users.update"
	OpBanUser              Op = "users.ban"
	OpUnbanUser            Op = "users.unban"
	OpDeleteProject        Op = "projects.delete"
	OpAdminDeleteProject   Op = "projects.admin-delete"
	OpTransferProject      Op = "projects.transfer"
	OpDeleteConversation   Op = "conversations.delete"
	OpEndSession           Op = "sessions.end"
	OpClearContext         Op = "context.clear"
	OpUpdateAgent          Op = "agents.update"
	OpToggleAgent          Op = "agents.toggle"
	OpResetAgent           Op = "agents.reset"
	OpUpdateOrchestrator   Op = "orchestrator.update"
	OpResetOrchestrator    Op = "orchestrator.reset"
	OpUpdateTool           Op = "tools.update"
	OpUpdateToolSettings   Op = "tools.settings"
	OpToggleTool           Op = "tools.toggle"
	OpCreateInviteCode     Op = "invite-codes.create"
	OpUpdateInviteCode     Op = "invite-codes.update"
	OpDeleteInviteCode     Op = "invite-codes.delete"
	OpActivateInviteCode   Op = "invite-codes.activate"
	OpDeactivateInviteCode Op = "invite-codes.deactivate"
	OpGrantAdmin           Op = "admins.grant"
	OpUpdateAdmin          Op = "admins.update"
	OpRevokeAdmin          Op = "admins.revoke"
	OpCreatePlaybook       Op = "playbooks.create"
	OpUpdatePlaybook       Op = "playbooks.update"
	OpDeletePlaybook       Op = "playbooks.delete"
	OpSyncPlaybooks        Op = "playbooks.sync"
)

var (
	prefixUsers         = cache.Key{keyUsers}
	prefixProjects      = cache.Key{keyProjects}
	prefixConversations = cache.Key{keyConversations}
	prefixConvDetail    = cache.Key{keyConversationDetail}
	prefixSessions      = cache.Key{keySessions}
	prefixContext       = cache.Key{keyContext}
	prefixUsage         = cache.Key{keyUsage}
	prefixAgents        = cache.Key{keyConfig, "agents"}
	prefixOrchestrator  = cache.Key{keyConfig, "orchestrator"}
	prefixTools         = cache.Key{keyConfig, "tools"}
	prefixInviteCodes   = cache.Key{keyConfig, "invite-codes"}
	prefixAdmins        = cache.Key{keyConfig, "admins"}
	prefixPlaybooks     = cache.Key{keyConfig, "playbooks"}
)

// Invalidations maps each mutation to the key prefixes whose data it can change.
// Agents and the orchestrator are invalidated together because the orchestrator
// view embeds agent summaries. Deleting content or changing a user's standing
// also drops usage totals, which count users, projects and conversations.
var Invalidations = map[Op][]cache.Key{
	OpUpdateUser: {prefixUsers},
	OpBanUser:    {prefixUsers, prefixSessions, prefixUsage},
	OpUnbanUser:  {prefixUsers, prefixUsage},

	OpDeleteProject:      {prefixProjects, prefixContext, prefixConversations, prefixUsage},
	OpAdminDeleteProject: {prefixProjects, prefixContext, prefixConversations, prefixUsage},
	OpTransferProject:    {prefixProjects},

	OpDeleteConversation: {prefixConversations, prefixConvDetail, prefixUsage},
	OpEndSession:         {prefixSessions},
	OpClearContext:       {prefixContext, prefixConvDetail},

	OpUpdateAgent:        {prefixAgents, prefixOrchestrator},
	OpToggleAgent:        {prefixAgents, prefixOrchestrator},
	OpResetAgent:         {prefixAgents, prefixOrchestrator},
	OpUpdateOrchestrator: {prefixOrchestrator},
	OpResetOrchestrator:  {prefixOrchestrator},

	OpUpdateTool:         {prefixTools},
	OpUpdateToolSettings: {prefixTools},
	OpToggleTool:         {prefixTools},

	OpCreateInviteCode:     {prefixInviteCodes},
	OpUpdateInviteCode:     {prefixInviteCodes},
	OpDeleteInviteCode:     {prefixInviteCodes},
	OpActivateInviteCode:   {prefixInviteCodes},
	OpDeactivateInviteCode: {prefixInviteCodes},

	OpGrantAdmin:  {prefixAdmins, prefixUsers},
	OpUpdateAdmin: {prefixAdmins, prefixUsers},
	OpRevokeAdmin: {prefixAdmins, prefixUsers},

	OpCreatePlaybook: {prefixPlaybooks},
	OpUpdatePlaybook: {prefixPlaybooks},
	OpDeletePlaybook: {prefixPlaybooks},
	OpSyncPlaybooks:  {prefixPlaybooks},
}

// Ops lists every mutation in declaration order.
var Ops = []Op{
	OpUpdateUser, OpBanUser, OpUnbanUser,
	OpDeleteProject, OpAdminDeleteProject, OpTransferProject,
	OpDeleteConversation, OpEndSession, OpClearContext,
	OpUpdateAgent, OpToggleAgent, OpResetAgent, OpUpdateOrchestrator, OpResetOrchestrator,
	OpUpdateTool, OpUpdateToolSettings, OpToggleTool,
	OpCreateInviteCode, OpUpdateInviteCode, OpDeleteInviteCode, OpActivateInviteCode, OpDeactivateInviteCode,
	OpGrantAdmin, OpUpdateAdmin, OpRevokeAdmin,
	OpCreatePlaybook, OpUpdatePlaybook, OpDeletePlaybook, OpSyncPlaybooks,
}
