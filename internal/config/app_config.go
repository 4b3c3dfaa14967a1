package config

import "time"

const (
	// Field limits
	DefaultMaxSkillTitleLength       = 100
	DefaultMaxSkillDescriptionLength = 500
	DefaultMaxMessageLength          = 1000

	// Client timings
	DefaultToastDuration = 3 * time.Second
	DefaultPollInterval  = 3 * time.Second

	// Guest names get a numeric suffix in [0, UsernameSuffixRange).
	UsernameSuffixRange = 100

	DefaultReplyTo = "noreply@skillswap.com"
)

var UsernameAdjectives = []string{
	"Happy", "Clever", "Brave", "Calm", "Eager",
	"Gentle", "Jolly", "Kind", "Lucky", "Witty",
	"Bright", "Swift", "Curious", "Bold", "Cheerful",
}

var UsernameNouns = []string{
	"Panda", "Falcon", "Otter", "Tiger", "Koala",
	"Dolphin", "Fox", "Owl", "Penguin", "Lynx",
	"Badger", "Heron", "Rabbit", "Wolf", "Turtle",
}

// SampleSkill seeds an empty store so first visitors see something to request.
type SampleSkill struct {
	Title       string
	Description string
	Owner       string
}

var SampleSkills = []SampleSkill{
	{
		Title:       "Guitar Basics",
		Description: "Open chords, strumming patterns and your first three songs.",
		Owner:       "MusicMaster42",
	},
	{
		Title:       "Python for Beginners",
		Description: "Variables, loops and functions with small hands-on exercises.",
		Owner:       "CodeNinja7",
	},
	{
		Title:       "Conversational Spanish",
		Description: "Everyday phrases and pronunciation practice for travellers.",
		Owner:       "LinguaLover15",
	},
	{
		Title:       "Watercolor Painting",
		Description: "Washes, blending and simple landscapes with a minimal kit.",
		Owner:       "ArtsyOwl88",
	},
}
