package learn

import "time"

// Topic is a unit of learning content with ordered sections and quizzes.
type Topic struct {
	ID            int64
	Title         string
	Description   string
	Duration      int // minutes
	IsRecommended bool

	// SupplementaryPrompts holds one prompt per learning style. Stored as a
	// JSON array of {style, prompt}.
	SupplementaryPrompts []SupplementaryPrompt

	// OwnerID is the user that requested the topic. Nil for seed data.
	OwnerID *int64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Sections is populated only by loaders that fetch the full topic.
	Sections []Section
}

// SupplementaryPrompt is a per-learning-style instruction generated
// alongside a topic.
type SupplementaryPrompt struct {
	Style  string `json:"style"`
	Prompt string `json:"prompt"`
}

// Section is an ordered sub-unit of a topic's content.
type Section struct {
	ID      int64
	TopicID int64
	Title   string
	Content string
	Index   int
}
