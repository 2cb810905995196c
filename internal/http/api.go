package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pocket-notes/internal/auth"
	"pocket-notes/internal/domain"
	"pocket-notes/internal/service"
)

const (
	ctxUserKey      = "currentUser"
	requestIDHeader = "X-Request-ID"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	groups     service.GroupService
	notes      service.NoteService
	tokens     *auth.TokenManager
	logger     *logrus.Logger
	corsOrigin string
}

func NewHandler(users service.UserService, groups service.GroupService, notes service.NoteService, tokens *auth.TokenManager, logger *logrus.Logger, corsOrigin string) *Handler {
	return &Handler{
		users:      users,
		groups:     groups,
		notes:      notes,
		tokens:     tokens,
		logger:     logger,
		corsOrigin: corsOrigin,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware())
	router.Use(h.requestLogMiddleware())
	router.Use(corsMiddleware(h.corsOrigin))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.register)
			authGroup.POST("/login", h.login)
			authGroup.GET("/me", h.authRequired(), h.me)
		}

		groups := api.Group("/groups", h.authRequired())
		{
			groups.GET("", h.listGroups)
			groups.POST("", h.createGroup)
			groups.GET("/:id", h.getGroup)
			groups.DELETE("/:id", h.deleteGroup)
		}

		notes := api.Group("/notes", h.authRequired())
		{
			notes.GET("/group/:groupId", h.listNotes)
			notes.POST("/group/:groupId", h.createNote)
			notes.PUT("/:id", h.updateNote)
			notes.DELETE("/:id", h.deleteNote)
		}
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDHeader),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
		}).Info("request")
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authRequired resolves the bearer token to a user record and aborts with
// 401 otherwise. Every group/note route runs behind it.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			h.abortUnauthenticated(c, "Access denied. No token provided.")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		userID, err := h.tokens.Verify(token)
		if err != nil {
			h.abortUnauthenticated(c, "Invalid or expired token.")
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				h.abortUnauthenticated(c, "Invalid or expired token.")
				return
			}
			h.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func (h *Handler) abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
		Success: false,
		Message: message,
	})
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(ctxUserKey).(*domain.User)
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type createGroupRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type noteRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "User registered successfully",
		Data: gin.H{
			"token": token,
			"user":  userToResponse(user),
		},
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Login successful",
		Data: gin.H{
			"token": token,
			"user":  userToResponse(user),
		},
	})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    gin.H{"user": userToResponse(currentUser(c))},
	})
}

func (h *Handler) listGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]GroupResponse, len(groups))
	for i := range groups {
		resp[i] = groupToResponse(groups[i])
	}
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    gin.H{"groups": resp},
	})
}

func (h *Handler) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	group, err := h.groups.Create(c.Request.Context(), currentUser(c).ID, req.Name, req.Color)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "Group created successfully",
		Data:    gin.H{"group": groupToResponse(*group)},
	})
}

func (h *Handler) getGroup(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.respondNotFound(c, "Group not found")
		return
	}

	group, err := h.groups.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    gin.H{"group": groupToResponse(*group)},
	})
}

func (h *Handler) deleteGroup(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.respondNotFound(c, "Group not found")
		return
	}

	if err := h.groups.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Group and all its notes deleted successfully",
	})
}

func (h *Handler) listNotes(c *gin.Context) {
	groupID, ok := parseID(c.Param("groupId"))
	if !ok {
		h.respondNotFound(c, "Group not found")
		return
	}

	notes, err := h.notes.ListByGroup(c.Request.Context(), currentUser(c).ID, groupID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(notes[i])
	}
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    gin.H{"notes": resp},
	})
}

func (h *Handler) createNote(c *gin.Context) {
	groupID, ok := parseID(c.Param("groupId"))
	if !ok {
		h.respondNotFound(c, "Group not found")
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), currentUser(c).ID, groupID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "Note created successfully",
		Data:    gin.H{"note": noteToResponse(*note)},
	})
}

func (h *Handler) updateNote(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.respondNotFound(c, "Note not found")
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	note, err := h.notes.Update(c.Request.Context(), currentUser(c).ID, id, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Note updated successfully",
		Data:    gin.H{"note": noteToResponse(*note)},
	})
}

func (h *Handler) deleteNote(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.respondNotFound(c, "Note not found")
		return
	}

	if err := h.notes.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Note deleted successfully",
	})
}

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// parseID rejects anything that is not a positive integer. A malformed id
// is answered exactly like a missing row so existence never leaks.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  []string{err.Error()},
	})
}

func (h *Handler) respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, envelope{
		Success: false,
		Message: message,
	})
}

// respondError maps the closed error taxonomy to status codes. Anything
// outside the taxonomy is logged in full and degrades to a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		// the login endpoint reports bad credentials as a 400, matching
		// the documented surface
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Invalid credentials"})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, envelope{Success: false, Message: "Invalid or expired token."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: err.Error()})
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDHeader),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, envelope{Success: false, Message: "Server error"})
	}
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type GroupResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Initials  string  `json:"initials"`
	OwnerID   int64   `json:"owner_id"`
	MemberIDs []int64 `json:"member_ids"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type NoteResponse struct {
	ID         int64  `json:"id"`
	GroupID    int64  `json:"group_id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func groupToResponse(group domain.Group) GroupResponse {
	resp := GroupResponse{
		ID:        group.ID,
		Name:      group.Name,
		Color:     group.Color,
		Initials:  group.Initials,
		OwnerID:   group.OwnerID,
		MemberIDs: group.MemberIDs,
		CreatedAt: group.CreatedAt.Format(time.RFC3339),
		UpdatedAt: group.UpdatedAt.Format(time.RFC3339),
	}
	if resp.MemberIDs == nil {
		resp.MemberIDs = []int64{}
	}
	return resp
}

func noteToResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		GroupID:    note.GroupID,
		AuthorID:   note.AuthorID,
		AuthorName: note.AuthorName,
		Text:       note.Text,
		CreatedAt:  note.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  note.UpdatedAt.Format(time.RFC3339),
	}
}
