// Package apitest runs an in-process fake of the admin backend for end-to-end
// tests. It serves a small fixed dataset under /api/v1 and counts requests per
// route so tests can assert cache behaviour.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin-pass"
	UserEmail     = "user@example.com"
	UserPassword  = "user-pass"

	basePath = "/api/v1"
)

type account struct {
	id       string
	email    string
	password string
	name     string
	isAdmin  bool
}

type conversation struct {
	cid       string
	userID    string
	status    string
	messages  int
	createdAt time.Time
}

type inviteCode struct {
	id        string
	code      string
	maxUses   int
	usedCount int
	active    bool
	note      *string
	createdAt time.Time
}

type trendPoint struct {
	date     string
	likes    int
	dislikes int
}

type Server struct {
	*httptest.Server

	secret []byte

	mu            sync.Mutex
	hits          map[string]int
	accounts      []account
	conversations []conversation
	inviteCodes   []inviteCode
	agents        map[string]bool
	trend         []trendPoint
	primaryDown   bool
}

// New starts the fake backend. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		secret: []byte(uuid.NewString()),
		hits:   map[string]int{},
		accounts: []account{
			{id: "u-admin", email: AdminEmail, password: AdminPassword, name: "Root", isAdmin: true},
			{id: "u-user", email: UserEmail, password: UserPassword, name: "Plain"},
		},
		agents: map[string]bool{"research-agent": true, "coding-agent": true},
		trend: []trendPoint{
			{date: "2024-01-02", likes: 4, dislikes: 1},
			{date: "2024-01-05", likes: 2, dislikes: 0},
			{date: "2024-01-17", likes: 0, dislikes: 3},
			{date: "2024-02-01", likes: 9, dislikes: 9},
		},
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		status := "completed"
		if i%10 == 9 {
			status = "active"
		}
		s.conversations = append(s.conversations, conversation{
			cid:       fmt.Sprintf("c-%03d", i),
			userID:    "u-user",
			status:    status,
			messages:  i%7 + 1,
			createdAt: start.Add(time.Duration(i) * time.Hour),
		})
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// BaseURL is the API root clients should be configured with.
func (s *Server) BaseURL() string {
	return s.URL + basePath
}

// Hits returns how many requests reached "METHOD /route", with the route written
// as registered, e.g. "PATCH /config/agents/:name/toggle".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// FailPrimaryUsers makes /admin/users answer 503 so clients fall back.
func (s *Server) FailPrimaryUsers(down bool) {
	s.mu.Lock()
	s.primaryDown = down
	s.mu.Unlock()
}

// IssueToken signs a token for the account with the given email.
func (s *Server) IssueToken(email string, ttl time.Duration) (string, error) {
	for _, a := range s.accounts {
		if a.email == email {
			return s.sign(a.id, ttl)
		}
	}
	return "", fmt.Errorf("unknown account %q", email)
}

func (s *Server) sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.count)

	api := r.Group(basePath)
	api.POST("/auth/admin/login", s.login)

	protected := api.Group("")
	protected.Use(s.requireAuth)
	protected.GET("/auth/me", s.me)
	protected.POST("/auth/logout", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	protected.GET("/admin/conversations", s.listConversations)
	protected.GET("/admin/users", s.listUsers)
	protected.GET("/admin/usage/users", s.listUsageUsers)
	protected.GET("/admin/feedbacks/stats", s.feedbackStats)

	protected.GET("/invite-codes", s.listInviteCodes)
	protected.POST("/invite-codes", s.createInviteCode)

	protected.GET("/config/agents", s.listAgents)
	protected.PATCH("/config/agents/:name/toggle", s.toggleAgent)
	protected.GET("/config/orchestrator", s.orchestrator)
	return r
}

func (s *Server) count(c *gin.Context) {
	route := strings.TrimPrefix(c.FullPath(), basePath)
	if route == "" {
		route = c.Request.URL.Path
	}
	s.mu.Lock()
	s.hits[c.Request.Method+" "+route]++
	s.mu.Unlock()
	c.Next()
}

func (s *Server) requireAuth(c *gin.Context) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(parts[1], &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}
	a, ok := s.account(claims.Subject)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unknown user"})
		return
	}
	c.Set("account", a)
	c.Next()
}

func (s *Server) account(id string) (account, bool) {
	for _, a := range s.accounts {
		if a.id == id {
			return a, true
		}
	}
	return account{}, false
}

func (s *Server) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	for _, a := range s.accounts {
		if a.email == body.Email && a.password == body.Password {
			token, err := s.sign(a.id, time.Hour)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token, "user": userJSON(a)})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
}

func (s *Server) me(c *gin.Context) {
	a := c.MustGet("account").(account)
	c.JSON(http.StatusOK, gin.H{"user": userJSON(a), "settings": gin.H{}, "isAdmin": a.isAdmin})
}

func userJSON(a account) gin.H {
	return gin.H{"id": a.id, "email": a.email, "name": a.name, "avatar": nil, "created_at": "2024-01-01T00:00:00Z"}
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) listConversations(c *gin.Context) {
	limit, offset := pageParams(c)
	status := c.Query("status")

	s.mu.Lock()
	var matched []conversation
	for _, conv := range s.conversations {
		if status == "" || conv.status == status {
			matched = append(matched, conv)
		}
	}
	s.mu.Unlock()

	items := []gin.H{}
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		conv := matched[i]
		items = append(items, gin.H{
			"cid":           conv.cid,
			"user_id":       conv.userID,
			"project_id":    nil,
			"title":         "Conversation " + conv.cid,
			"status":        conv.status,
			"message_count": conv.messages,
			"created_at":    conv.createdAt.Format(time.RFC3339),
			"updated_at":    conv.createdAt.Add(time.Minute).Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(matched), "limit": limit, "offset": offset})
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	down := s.primaryDown
	s.mu.Unlock()
	if down {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "users service unavailable"})
		return
	}
	limit, offset := pageParams(c)
	users := []gin.H{}
	for _, a := range s.accounts {
		users = append(users, gin.H{
			"id": a.id, "email": a.email, "name": a.name, "isAdmin": a.isAdmin, "isBanned": false,
			"totalTokens": 1200, "totalCost": 0.42, "lastActiveAt": nil, "createdAt": "2024-01-01T00:00:00Z",
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users), "limit": limit, "offset": offset})
}

func (s *Server) listUsageUsers(c *gin.Context) {
	users := []gin.H{}
	for _, a := range s.accounts {
		users = append(users, gin.H{
			"user_id": a.id, "email": a.email, "name": a.name, "is_admin": a.isAdmin,
			"total_tokens": 1200, "total_cost": 0.42, "last_active_at": nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (s *Server) feedbackStats(c *gin.Context) {
	start := dateOnly(c.Query("startDate"))
	end := dateOnly(c.Query("endDate"))

	trend := []gin.H{}
	likes, dislikes := 0, 0
	for _, p := range s.trend {
		if (start != "" && p.date < start) || (end != "" && p.date > end) {
			continue
		}
		trend = append(trend, gin.H{"date": p.date, "likes": p.likes, "dislikes": p.dislikes})
		likes += p.likes
		dislikes += p.dislikes
	}
	ratio := 0.0
	if likes+dislikes > 0 {
		ratio = float64(likes) / float64(likes+dislikes)
	}
	c.JSON(http.StatusOK, gin.H{
		"totalCount":   likes + dislikes,
		"likeCount":    likes,
		"dislikeCount": dislikes,
		"likeRatio":    ratio,
		"trend":        trend,
		"byModel":      []gin.H{{"model": "gpt-test", "likes": likes, "dislikes": dislikes}},
	})
}

func dateOnly(v string) string {
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func inviteJSON(ic inviteCode) gin.H {
	return gin.H{
		"id":        ic.id,
		"code":      ic.code,
		"maxUses":   ic.maxUses,
		"usedCount": ic.usedCount,
		"isActive":  ic.active,
		"isValid":   ic.active && ic.usedCount < ic.maxUses,
		"expiresAt": nil,
		"note":      ic.note,
		"createdAt": ic.createdAt.Format(time.RFC3339),
	}
}

func (s *Server) listInviteCodes(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	s.mu.Lock()
	codes := []gin.H{}
	for _, ic := range s.inviteCodes {
		if activeOnly && !ic.active {
			continue
		}
		codes = append(codes, inviteJSON(ic))
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"codes": codes, "total": len(codes)})
}

func (s *Server) createInviteCode(c *gin.Context) {
	var body struct {
		Code    *string `json:"code"`
		MaxUses *int    `json:"maxUses"`
		Note    *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	ic := inviteCode{
		id:        uuid.NewString(),
		code:      strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		maxUses:   1,
		active:    true,
		note:      body.Note,
		createdAt: time.Now().UTC(),
	}
	if body.Code != nil && *body.Code != "" {
		ic.code = *body.Code
	}
	if body.MaxUses != nil {
		ic.maxUses = *body.MaxUses
	}
	s.mu.Lock()
	s.inviteCodes = append(s.inviteCodes, ic)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, inviteJSON(ic))
}

func (s *Server) agentJSON(name string, enabled bool) gin.H {
	return gin.H{
		"name":         name,
		"description":  "Fake " + name,
		"modelId":      "gpt-test",
		"systemPrompt": "",
		"tools":        []string{"web_search"},
		"isEnabled":    enabled,
		"category":     "builtin",
		"toolCount":    1,
	}
}

func (s *Server) sortedAgents() []string {
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) listAgents(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []gin.H{}
	for _, name := range s.sortedAgents() {
		out = append(out, s.agentJSON(name, s.agents[name]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) toggleAgent(c *gin.Context) {
	var body struct {
		IsEnabled *bool `json:"isEnabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsEnabled == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "isEnabled is required"})
		return
	}
	name := c.Param("name")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[name]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "agent not found"})
		return
	}
	s.agents[name] = *body.IsEnabled
	c.JSON(http.StatusOK, s.agentJSON(name, *body.IsEnabled))
}

func (s *Server) orchestrator(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subagents := []gin.H{}
	enabled := 0
	for _, name := range s.sortedAgents() {
		on := s.agents[name]
		if on {
			enabled++
		}
		subagents = append(subagents, gin.H{"name": name, "description": "Fake " + name, "isEnabled": on, "category": "builtin", "toolCount": 1})
	}
	c.JSON(http.StatusOK, gin.H{
		"modelId":              "gpt-test",
		"systemPrompt":         "",
		"tools":                []string{},
		"subagents":            subagents,
		"enabledSubagentCount": enabled,
	})
}
