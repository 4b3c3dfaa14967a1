package skillhub

import "errors"

var (
	// ErrUnauthorized covers both "no such skill" and "not the owner".
	ErrUnauthorized = errors.New("unauthorized or skill not found")
	// ErrOwnSkill rejects a request for one's own skill.
	ErrOwnSkill = errors.New("you cannot request your own skill")
	// ErrNotParticipant covers both "no such chat" and "not one of its two users".
	ErrNotParticipant = errors.New("chat not found or you are not a participant")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
)
