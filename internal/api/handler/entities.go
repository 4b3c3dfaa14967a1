package handler

import (
	"net/http"

	"skillswap/backend/internal/identity"
	"skillswap/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type addSkillBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type sendRequestBody struct {
	SkillID    string `json:"skillId"`
	SkillTitle string `json:"skillTitle"`
	SkillOwner string `json:"skillOwner"`
	Message    string `json:"message"`
}

type createChatBody struct {
	With       string `json:"with"`
	SkillTitle string `json:"skillTitle"`
}

type sendMessageBody struct {
	Message string `json:"message"`
}

// chatView is a room plus the caller's view of it.
type chatView struct {
	models.ChatRoom
	Peer   string `json:"peer"`
	HasNew bool   `json:"hasNew"`
}

func (h *Handler) ListSkills(c *gin.Context) {
	currentSession(c).SwitchSection(identity.SectionLearn)
	skills, err := h.Service.ListSkills(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (h *Handler) AddSkill(c *gin.Context) {
	currentSession(c).SwitchSection(identity.SectionShare)
	var body addSkillBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	skill, err := h.Service.AddSkill(c.Request.Context(), models.NewSkill{
		Title:       body.Title,
		Description: body.Description,
		Owner:       currentUser(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

func (h *Handler) DeleteSkill(c *gin.Context) {
	currentSession(c).SwitchSection(identity.SectionShare)
	if err := h.Service.DeleteSkill(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListRequests(c *gin.Context) {
	currentSession(c).SwitchSection(identity.SectionRequests)
	reqs, err := h.Service.ListRequests(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *Handler) SendRequest(c *gin.Context) {
	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.Service.SendRequest(c.Request.Context(), models.NewRequest{
		SkillID:    body.SkillID,
		SkillTitle: body.SkillTitle,
		SkillOwner: body.SkillOwner,
		Requester:  currentUser(c),
		Message:    body.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) ListChats(c *gin.Context) {
	session := currentSession(c)
	session.SwitchSection(identity.SectionChat)

	rooms, err := h.Service.ListChatRooms(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	views := make([]chatView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, chatView{
			ChatRoom: room,
			Peer:     room.Peer(currentUser(c)),
			HasNew:   session.HasNew(room.ID, room.LastActivity),
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreateChat(c *gin.Context) {
	var body createChatBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.Service.CreateChatRoom(c.Request.Context(), currentUser(c), body.With, body.SkillTitle)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// memberRoom aborts with 403 unless the caller takes part in the :id chat.
func (h *Handler) memberRoom(c *gin.Context) (models.ChatRoom, bool) {
	room, err := h.Service.MemberChatRoom(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return models.ChatRoom{}, false
	}
	return room, true
}

// ListMessages returns the history and marks the chat as seen.
func (h *Handler) ListMessages(c *gin.Context) {
	room, ok := h.memberRoom(c)
	if !ok {
		return
	}
	msgs, err := h.Service.ListMessages(c.Request.Context(), room.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	seen := room.LastActivity
	if n := len(msgs); n > 0 && msgs[n-1].Timestamp > seen {
		seen = msgs[n-1].Timestamp
	}
	currentSession(c).OpenChat(room.ID, seen)

	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	room, ok := h.memberRoom(c)
	if !ok {
		return
	}
	msg, err := h.Service.SendMessage(c.Request.Context(), room.ID, currentUser(c), body.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	currentSession(c).OpenChat(room.ID, msg.Timestamp)
	c.JSON(http.StatusCreated, msg)
}
