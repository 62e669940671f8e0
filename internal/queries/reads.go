package queries

import (
	"context"

	"adminconsole/internal/api"
	"adminconsole/internal/cache"
)

const (
	keyUsers              = "users"
	keyProjects           = "projects"
	keyConversations      = "conversations"
	keyConversationDetail = "conversation-detail"
	keySessions           = "admin-sessions"
	keyFeedback           = "feedback"
	keyContext            = "context"
	keyConfig             = "config"
	keyUsage              = "usage"
	keyAudit              = "audit"
)

func (q *Queries) Users(ctx context.Context, p api.UserListParams) (api.UserListResponse, error) {
	return read(ctx, q, cache.K(keyUsers, "list", p), func(ctx context.Context) (api.UserListResponse, error) {
		return q.api.Users.List(ctx, p)
	})
}

func (q *Queries) User(ctx context.Context, userID string) (api.UserDetail, error) {
	return read(ctx, q, cache.K(keyUsers, "detail", userID), func(ctx context.Context) (api.UserDetail, error) {
		return q.api.Users.Get(ctx, userID)
	})
}

func (q *Queries) SearchUsers(ctx context.Context, email string) ([]api.UserSearchResult, error) {
	return read(ctx, q, cache.K(keyUsers, "search", email), func(ctx context.Context) ([]api.UserSearchResult, error) {
		return q.api.Admins.SearchUsers(ctx, email)
	})
}

func (q *Queries) Projects(ctx context.Context, p api.ProjectListParams) (api.ProjectListResponse, error) {
	return read(ctx, q, cache.K(keyProjects, "list", p), func(ctx context.Context) (api.ProjectListResponse, error) {
		return q.api.Projects.List(ctx, p)
	})
}

func (q *Queries) AdminProjects(ctx context.Context, p api.ProjectListParams) (api.ProjectListResponse, error) {
	return read(ctx, q, cache.K(keyProjects, "admin-list", p), func(ctx context.Context) (api.ProjectListResponse, error) {
		return q.api.Projects.AdminList(ctx, p)
	})
}

func (q *Queries) Project(ctx context.Context, projectID string) (api.Project, error) {
	return read(ctx, q, cache.K(keyProjects, "detail", projectID), func(ctx context.Context) (api.Project, error) {
		return q.api.Projects.Get(ctx, projectID)
	})
}

func (q *Queries) Conversations(ctx context.Context, p api.ConversationListParams) (api.ConversationListResponse, error) {
	return read(ctx, q, cache.K(keyConversations, "list", p), func(ctx context.Context) (api.ConversationListResponse, error) {
		return q.api.Conversations.List(ctx, p)
	})
}

func (q *Queries) Conversation(ctx context.Context, cid string) (api.ConversationDetail, error) {
	return read(ctx, q, cache.K(keyConversationDetail, cid), func(ctx context.Context) (api.ConversationDetail, error) {
		return q.api.Conversations.Get(ctx, cid)
	})
}

func (q *Queries) ConversationMessages(ctx context.Context, cid string) ([]api.Message, error) {
	return read(ctx, q, cache.K(keyConversationDetail, cid, "messages"), func(ctx context.Context) ([]api.Message, error) {
		return q.api.Conversations.Messages(ctx, cid)
	})
}

func (q *Queries) Sessions(ctx context.Context, p api.SessionListParams) (api.SessionListResponse, error) {
	return read(ctx, q, cache.K(keySessions, "list", p), func(ctx context.Context) (api.SessionListResponse, error) {
		return q.api.Sessions.List(ctx, p)
	})
}

func (q *Queries) SessionStats(ctx context.Context, days int) (api.SessionStats, error) {
	return read(ctx, q, cache.K(keySessions, "stats", days), func(ctx context.Context) (api.SessionStats, error) {
		return q.api.Sessions.Stats(ctx, days)
	})
}

func (q *Queries) SessionRanking(ctx context.Context, p api.RankingParams) (api.DurationRanking, error) {
	return read(ctx, q, cache.K(keySessions, "ranking", p), func(ctx context.Context) (api.DurationRanking, error) {
		return q.api.Sessions.Ranking(ctx, p)
	})
}

func (q *Queries) SessionTrends(ctx context.Context, days int) (api.SessionTrends, error) {
	return read(ctx, q, cache.K(keySessions, "trends", days), func(ctx context.Context) (api.SessionTrends, error) {
		return q.api.Sessions.Trends(ctx, days)
	})
}

func (q *Queries) Feedback(ctx context.Context, p api.FeedbackListParams) (api.FeedbackListResponse, error) {
	return read(ctx, q, cache.K(keyFeedback, "list", p), func(ctx context.Context) (api.FeedbackListResponse, error) {
		return q.api.Feedback.List(ctx, p)
	})
}

func (q *Queries) FeedbackStats(ctx context.Context, p api.FeedbackStatsParams) (api.FeedbackStats, error) {
	return read(ctx, q, cache.K(keyFeedback, "stats", p), func(ctx context.Context) (api.FeedbackStats, error) {
		return q.api.Feedback.Stats(ctx, p)
	})
}

func (q *Queries) FeedbackDetail(ctx context.Context, feedbackID string) (api.FeedbackDetail, error) {
	return read(ctx, q, cache.K(keyFeedback, "detail", feedbackID), func(ctx context.Context) (api.FeedbackDetail, error) {
		return q.api.Feedback.Detail(ctx, feedbackID)
	})
}

func (q *Queries) ContextStats(ctx context.Context, projectID string) (api.ContextStats, error) {
	return read(ctx, q, cache.K(keyContext, "stats", projectID), func(ctx context.Context) (api.ContextStats, error) {
		return q.api.Context.ProjectStats(ctx, projectID)
	})
}

func (q *Queries) AllContextStats(ctx context.Context) ([]api.ProjectContextStats, error) {
	return read(ctx, q, cache.K(keyContext, "all"), q.api.Context.AllStats)
}

func (q *Queries) ContextDetails(ctx context.Context, projectID string) (api.ProjectContextDetail, error) {
	return read(ctx, q, cache.K(keyContext, "details", projectID), func(ctx context.Context) (api.ProjectContextDetail, error) {
		return q.api.Context.ProjectDetails(ctx, projectID)
	})
}

func (q *Queries) Agents(ctx context.Context) ([]api.AgentConfig, error) {
	return read(ctx, q, cache.K(keyConfig, "agents", "list"), q.api.Agents.List)
}

func (q *Queries) Agent(ctx context.Context, name string) (api.AgentConfig, error) {
	return read(ctx, q, cache.K(keyConfig, "agents", "detail", name), func(ctx context.Context) (api.AgentConfig, error) {
		return q.api.Agents.Get(ctx, name)
	})
}

func (q *Queries) Orchestrator(ctx context.Context) (api.OrchestratorConfig, error) {
	return read(ctx, q, cache.K(keyConfig, "orchestrator"), q.api.Orchestrator.Get)
}

func (q *Queries) Tools(ctx context.Context) ([]api.ToolConfig, error) {
	return read(ctx, q, cache.K(keyConfig, "tools"), q.api.Tools.List)
}

func (q *Queries) InviteCodes(ctx context.Context, activeOnly bool) (api.InviteCodeList, error) {
	return read(ctx, q, cache.K(keyConfig, "invite-codes", "list", activeOnly), func(ctx context.Context) (api.InviteCodeList, error) {
		return q.api.InviteCodes.List(ctx, activeOnly)
	})
}

func (q *Queries) InviteCode(ctx context.Context, id string) (api.InviteCode, error) {
	return read(ctx, q, cache.K(keyConfig, "invite-codes", "detail", id), func(ctx context.Context) (api.InviteCode, error) {
		return q.api.InviteCodes.Get(ctx, id)
	})
}

func (q *Queries) InviteCodeUsages(ctx context.Context, id string) (api.InviteCodeUsages, error) {
	return read(ctx, q, cache.K(keyConfig, "invite-codes", "usages", id), func(ctx context.Context) (api.InviteCodeUsages, error) {
		return q.api.InviteCodes.Usages(ctx, id)
	})
}

func (q *Queries) Admins(ctx context.Context) (api.AdminList, error) {
	return read(ctx, q, cache.K(keyConfig, "admins"), q.api.Admins.List)
}

func (q *Queries) Playbooks(ctx context.Context, category string, activeOnly bool) (api.PlaybookList, error) {
	return read(ctx, q, cache.K(keyConfig, "playbooks", "list", category, activeOnly), func(ctx context.Context) (api.PlaybookList, error) {
		return q.api.Playbooks.List(ctx, category, activeOnly)
	})
}

func (q *Queries) Playbook(ctx context.Context, id string) (api.Playbook, error) {
	return read(ctx, q, cache.K(keyConfig, "playbooks", "detail", id), func(ctx context.Context) (api.Playbook, error) {
		return q.api.Playbooks.Get(ctx, id)
	})
}

func (q *Queries) Models(ctx context.Context) (api.ModelsGrouped, error) {
	return read(ctx, q, cache.K(keyConfig, "models", "grouped"), q.api.Models.Grouped)
}

func (q *Queries) ModelDefaults(ctx context.Context) (api.ModelDefaults, error) {
	return read(ctx, q, cache.K(keyConfig, "models", "defaults"), q.api.Models.Defaults)
}

func (q *Queries) DashboardStats(ctx context.Context, days int) (api.DashboardStats, error) {
	return read(ctx, q, cache.K(keyUsage, "dashboard", days), func(ctx context.Context) (api.DashboardStats, error) {
		return q.api.Usage.DashboardStats(ctx, days)
	})
}

func (q *Queries) UsageSummary(ctx context.Context, p api.UsageSummaryParams) (api.UsageSummary, error) {
	return read(ctx, q, cache.K(keyUsage, "summary", p), func(ctx context.Context) (api.UsageSummary, error) {
		return q.api.Usage.Summary(ctx, p)
	})
}

func (q *Queries) DailyUsage(ctx context.Context, p api.DailyUsageParams) ([]api.DailyUsage, error) {
	return read(ctx, q, cache.K(keyUsage, "daily", p), func(ctx context.Context) ([]api.DailyUsage, error) {
		return q.api.Usage.Daily(ctx, p)
	})
}

func (q *Queries) TopUsers(ctx context.Context, p api.TopUsersParams) (api.TopUsers, error) {
	return read(ctx, q, cache.K(keyUsage, "top-users", p), func(ctx context.Context) (api.TopUsers, error) {
		return q.api.Usage.TopUsers(ctx, p)
	})
}

func (q *Queries) TopUsersByMessages(ctx context.Context, p api.TopUsersParams) (api.TopUsersByMessages, error) {
	return read(ctx, q, cache.K(keyUsage, "top-users-messages", p), func(ctx context.Context) (api.TopUsersByMessages, error) {
		return q.api.Usage.TopUsersByMessages(ctx, p)
	})
}

func (q *Queries) AuditLogs(ctx context.Context, p api.AuditListParams) (api.AuditLogs, error) {
	return read(ctx, q, cache.K(keyAudit, p), func(ctx context.Context) (api.AuditLogs, error) {
		return q.api.Audit.List(ctx, p)
	})
}
