package models

// Skill is a teachable offering posted by a user.
type Skill struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	// Owner is set at creation and never changes. Only the owner may delete.
	Owner     string `gorm:"type:text;not null;index" json:"owner"`
	Timestamp int64  `gorm:"not null;index" json:"timestamp"`
}

// NewSkill is the caller-supplied part of a Skill.
type NewSkill struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}
