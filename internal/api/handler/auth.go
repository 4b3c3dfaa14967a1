package handler

import (
	"net/http"
	"strings"

	"skillswap/backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUsername = "username"
	ctxSession  = "session"
)

// CreateIdentity generates a guest name and returns a token for it.
func (h *Handler) CreateIdentity(c *gin.Context) {
	username := h.Names.Username()
	session := h.Sessions.Get(username)

	token, err := h.Tokens.Issue(username)
	if err != nil {
		h.log.Error("failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	h.log.Info("guest identity created", zap.String("username", username))
	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"token":    token,
		"created":  session.Created.UnixMilli(),
	})
}

// GetSession reports what the server remembers about the caller.
func (h *Handler) GetSession(c *gin.Context) {
	session := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"username":    session.Username,
		"section":     session.CurrentSection(),
		"currentChat": session.CurrentChat(),
		"created":     session.Created.UnixMilli(),
	})
}

// DropIdentity forgets the caller's session state. The token stays valid
// until it expires; the next request starts a fresh session.
func (h *Handler) DropIdentity(c *gin.Context) {
	h.Sessions.Drop(currentUser(c))
	c.Status(http.StatusNoContent)
}

// bearerToken reads the Authorization header, or the token query parameter
// that browsers have to use for WebSocket upgrades.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return c.Query("token")
}

// RequireSession resolves the caller's guest name from the token.
func (h *Handler) RequireSession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
		return
	}

	username, err := h.Tokens.Parse(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": identity.ErrInvalidToken.Error()})
		return
	}

	c.Set(ctxUsername, username)
	c.Set(ctxSession, h.Sessions.Get(username))
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

func currentSession(c *gin.Context) *identity.Session {
	s, _ := c.MustGet(ctxSession).(*identity.Session)
	return s
}
