package models

// Message is a single chat line. Messages are append-only and ordered by
// Timestamp ascending within their room.
type Message struct {
	// ID is generated with NewID.
	ID string `gorm:"primaryKey" json:"id"`
	// ChatID links the row to its ChatRoom. It is implied by nesting in
	// every JSON representation, so it is not serialised.
	ChatID string `gorm:"type:text;not null;index:idx_chat_msg" json:"-"`
	// Sender is the username of the author.
	Sender string `gorm:"type:text;not null" json:"sender"`
	// Message is the text body.
	Message string `gorm:"type:text;not null" json:"message"`
	// Timestamp is the send time (unix millis).
	Timestamp int64 `gorm:"not null;index:idx_chat_msg" json:"timestamp"`
}

// TableName keeps the SQL table name explicit.
func (Message) TableName() string { return "chat_messages" }
