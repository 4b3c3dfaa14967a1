package models

// RequestStatus is the lifecycle state of a Request. Only the initial state
// is ever assigned; there are no transitions.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
)

// Request is a user's ask to learn a skill from its owner. SkillID is not
// enforced as a foreign key: the skill may have been deleted since.
type Request struct {
	ID         string        `gorm:"primaryKey" json:"id"`
	SkillID    string        `gorm:"type:text;not null" json:"skillId"`
	SkillTitle string        `gorm:"type:text" json:"skillTitle"`
	SkillOwner string        `gorm:"type:text;not null" json:"skillOwner"`
	Requester  string        `gorm:"type:text;not null;index" json:"requester"`
	Message    string        `gorm:"type:text" json:"message"`
	Status     RequestStatus `gorm:"type:text;not null" json:"status"`
	Timestamp  int64         `gorm:"not null;index" json:"timestamp"`
}

// NewRequest is the caller-supplied part of a Request.
type NewRequest struct {
	SkillID    string `json:"skillId"`
	SkillTitle string `json:"skillTitle"`
	SkillOwner string `json:"skillOwner"`
	Requester  string `json:"requester"`
	Message    string `json:"message"`
}
