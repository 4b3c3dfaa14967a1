// Package handler exposes the skill service over HTTP and WebSocket.
package handler

import (
	"errors"
	"net/http"
	"time"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/identity"
	"skillswap/backend/internal/skillhub"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler holds everything the routes need.
type Handler struct {
	Service  *skillhub.Service
	Feed     skillhub.Feed
	Sessions *identity.Registry
	Tokens   *identity.Tokens
	Names    *identity.Generator
	Policy   config.AppConfig

	log *zap.Logger
}

func NewHandler(svc *skillhub.Service, feed skillhub.Feed, sessions *identity.Registry, tokens *identity.Tokens, names *identity.Generator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Service:  svc,
		Feed:     feed,
		Sessions: sessions,
		Tokens:   tokens,
		Names:    names,
		Policy:   svc.Policy,
		log:      log,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/identity", h.CreateIdentity)
	r.GET("/config", h.GetConfig)

	authed := r.Group("/", h.RequireSession)
	authed.GET("/session", h.GetSession)
	authed.DELETE("/identity", h.DropIdentity)
	authed.GET("/skills", h.ListSkills)
	authed.POST("/skills", h.AddSkill)
	authed.DELETE("/skills/:id", h.DeleteSkill)
	authed.GET("/requests", h.ListRequests)
	authed.POST("/requests", h.SendRequest)
	authed.GET("/chats", h.ListChats)
	authed.POST("/chats", h.CreateChat)
	authed.GET("/chats/:id/messages", h.ListMessages)
	authed.POST("/chats/:id/messages", h.SendMessage)
	authed.GET("/ws/skills", h.ServeSkillsFeed)
	authed.GET("/ws/chats/:id", h.ServeMessagesFeed)
}

// NewRouter builds a gin engine with recovery, request logging and the
// handler's routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))
	h.Register(r)
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// GetConfig returns the settings the client needs.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"autoAcceptRequests":        h.Policy.AutoAcceptRequests,
		"maxSkillTitleLength":       h.Policy.MaxSkillTitleLength,
		"maxSkillDescriptionLength": h.Policy.MaxSkillDescriptionLength,
		"maxMessageLength":          h.Policy.MaxMessageLength,
		"toastDurationMs":           h.Policy.ToastDuration.Milliseconds(),
		"pollIntervalMs":            h.Policy.PollInterval.Milliseconds(),
	})
}

// respondError maps service errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, skillhub.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, skillhub.ErrUnauthorized), errors.Is(err, skillhub.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, skillhub.ErrOwnSkill):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrInvalidToken):
		status = http.StatusUnauthorized
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
