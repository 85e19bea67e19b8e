package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chefmate/backend/internal/middleware"
	"github.com/chefmate/backend/internal/service"
)

// ChatHandler handles chat session and turn requests
type ChatHandler struct {
	chat    *service.ChatService
	store   service.SessionStore
	auth    *service.AuthService
	history *service.HistoryService
	archive *service.ArchiveService
}

// NewChatHandler creates a new ChatHandler instance. history and archive are
// optional; without them closed sessions are simply discarded.
func NewChatHandler(chat *service.ChatService, store service.SessionStore, auth *service.AuthService, history *service.HistoryService, archive *service.ArchiveService) *ChatHandler {
	return &ChatHandler{
		chat:    chat,
		store:   store,
		auth:    auth,
		history: history,
		archive: archive,
	}
}

// RegisterRoutes registers the chat routes
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	{
		chat.POST("/sessions", h.CreateSession)
		chat.GET("/history", h.ListHistory)
		chat.GET("/history/:id", h.GetHistory)

		authed := chat.Group("", middleware.AuthMiddleware(h.auth))
		{
			authed.POST("/sessions/:id/messages", h.PostMessage)
			authed.GET("/sessions/:id", h.GetTranscript)
			authed.DELETE("/sessions/:id", h.CloseSession)
		}
	}
}

// CreateSession starts a new chat session and returns its bearer token.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session, err := h.store.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	token, err := h.auth.IssueSessionToken(session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"token":      token,
	})
}

// PostMessage runs one turn of the conversation.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.chat.HandleTurn(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetTranscript returns the full live transcript for a session.
func (h *ChatHandler) GetTranscript(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	session, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// CloseSession archives the transcript and clears the live session.
func (h *ChatHandler) CloseSession(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	session, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	if h.history != nil {
		if err := h.history.ArchiveSession(session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive session"})
			return
		}
	}

	// Transcript export is best-effort; a failed upload must not block the
	// close.
	if h.archive != nil {
		if _, err := h.archive.ExportTranscript(c.Request.Context(), session); err != nil {
			log.Printf("[ChatHandler] transcript export failed for session %s: %v", session.ID, err)
		}
	}

	if err := h.store.Delete(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session closed",
		"id":      sessionID,
	})
}

// ListHistory returns archived sessions, newest first.
func (h *ChatHandler) ListHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"sessions": []any{}})
		return
	}

	sessions, err := h.history.ListSessions(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetHistory returns one archived session with its entries.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	session, err := h.history.GetSession(id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// sessionFromPath parses the path ID and checks it against the token's
// session claim. A valid token for some other session is a 403, not a 401.
func (h *ChatHandler) sessionFromPath(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}

	claimVal, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}

	claimed, ok := claimVal.(uuid.UUID)
	if !ok || claimed != sessionID {
		c.JSON(http.StatusForbidden, gin.H{"error": "token does not match session"})
		return uuid.Nil, false
	}

	return sessionID, true
}
