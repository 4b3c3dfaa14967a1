package handler

import (
	"context"
	"net/http"
	"time"

	"skillswap/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the web client has a fixed host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeSkillsFeed streams skill list snapshots.
func (h *Handler) ServeSkillsFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := h.Feed.Skills(ctx)
	h.serveFeed(conn, cancel, currentUser(c), func() (models.LiveUpdate, bool) {
		snap, ok := <-updates
		return models.LiveUpdate{Type: models.EventSkills, Data: snap}, ok
	})
}

// ServeMessagesFeed streams one chat's message snapshots to a participant.
// The chat counts as open for as long as the stream is.
func (h *Handler) ServeMessagesFeed(c *gin.Context) {
	room, ok := h.memberRoom(c)
	if !ok {
		return
	}
	chatID := room.ID
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := currentSession(c)
	session.OpenChat(chatID, room.LastActivity)
	defer session.CloseChat()
	ctx, cancel := context.WithCancel(context.Background())
	updates := h.Feed.Messages(ctx, chatID)
	h.serveFeed(conn, cancel, currentUser(c), func() (models.LiveUpdate, bool) {
		snap, ok := <-updates
		if ok && len(snap) > 0 {
			session.OpenChat(chatID, snap[len(snap)-1].Timestamp)
		}
		return models.LiveUpdate{Type: models.EventMessages, ChatID: chatID, Data: snap}, ok
	})
}

// serveFeed runs the read and write pumps for one connection. next blocks
// until the feed has a new update and reports false once it is closed.
func (h *Handler) serveFeed(conn *websocket.Conn, cancel context.CancelFunc, username string, next func() (models.LiveUpdate, bool)) {
	updates := make(chan models.LiveUpdate)
	go func() {
		defer close(updates)
		for {
			u, ok := next()
			if !ok {
				return
			}
			updates <- u
		}
	}()

	go h.readPump(conn, cancel)
	h.writePump(conn, cancel, updates, username)
}

// readPump discards client frames and cancels the feed when the
// connection goes away.
func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, cancel context.CancelFunc, updates <-chan models.LiveUpdate, username string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
		// Let the forwarding goroutine finish once the feed closes.
		for range updates {
		}
	}()

	for {
		select {
		case u, ok := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(u); err != nil {
				h.log.Debug("websocket write failed", zap.String("username", username), zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
