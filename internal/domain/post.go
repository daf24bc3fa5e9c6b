package domain

// Post and Comment mirror the shape the feed prompt asks the model for.
// The shape is declared, not enforced: decoding is best effort and missing
// ids/platforms are backfilled after parsing.
type Post struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	PostType     string    `json:"post_type"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	AuthorHandle string    `json:"author_handle"`
	Upvotes      int       `json:"upvotes"`
	Timestamp    string    `json:"timestamp"`
	Citations    []string  `json:"citations"`
	Comments     []Comment `json:"comments"`
}

type Comment struct {
	ID           string   `json:"id"`
	AuthorHandle string   `json:"author_handle"`
	Body         string   `json:"body"`
	Upvotes      int      `json:"upvotes"`
	Citations    []string `json:"citations"`
}
