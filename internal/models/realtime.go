package models

// Live update event types pushed over the websocket.
const (
	EventSkills   = "skills"
	EventMessages = "messages"
)

// LiveUpdate carries one full snapshot of a watched collection. Each update
// replaces the previous one wholesale.
type LiveUpdate struct {
	Type   string `json:"type"`
	ChatID string `json:"chatId,omitempty"`
	Data   any    `json:"data"`
}
