package domain

import "time"

// Session is one ingested document plus whatever the generators have derived
// from it so far. SourceText is immutable after creation; GeneratedPosts is
// the only field mutated later, and only by a successful feed generation.
type Session struct {
	ID             string    `json:"session_id"`
	SourceText     string    `json:"source_text"`
	Platform       string    `json:"platform"`
	GeneratedPosts []Post    `json:"generated_posts"`
	CreatedAt      time.Time `json:"created_at"`
}
