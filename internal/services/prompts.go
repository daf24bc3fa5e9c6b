package services

import (
	"fmt"
	"strings"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
)

const feedPromptTemplate = `You are a social feed generator. Generate exactly %d posts based on the source material provided.

Output format: JSON array of posts with this exact structure:
[
  {
    "id": "unique-id",
    "platform": "reddit" or "twitter",
    "post_type": "question" | "creator" | "rant" | "listicle",
    "title": "post title",
    "body": "post body text",
    "author_handle": "u/snake_case for reddit, @CamelCase for twitter",
    "upvotes": number between X-Y based on post_type,
    "timestamp": "relative time like '2 hours ago' or '3 days ago'",
    "citations": ["Source: title or domain"],
    "comments": [
      {
        "id": "comment-id",
        "author_handle": "u/snake_case or @CamelCase",
        "body": "comment text",
        "upvotes": number,
        "citations": ["optional citation"]
      }
    ]
  }
]

Post type diversity requirements:
- At minimum: 2 question posts, 2 creator posts, 1 rant post, 1 listicle, rest randomized

For question posts: Generate 3-5 comments with answer revealed progressively (first sets up context, subsequent deepen explanation)
For non-question posts: Generate 2-3 comments with tangential insights or debate

Citation format: "Source: [document title or domain]"
Upvote ranges: questions 500-5000, rants 1000-20000, listicles 2000-15000, creator posts 300-3000

Generate realistic author handles: Reddit u/snake_case, Twitter @CamelCase
Generate plausible timestamps in relative format.

Respond ONLY with valid JSON, no markdown, no explanation.`

func feedPrompt(sourceText, platform string, postCount int) string {
	system := fmt.Sprintf(feedPromptTemplate, postCount)
	return fmt.Sprintf("%s\n\nPlatform: %s\n\nSource material:\n%s", system, platform, sourceText)
}

const recommendationsPromptTemplate = `Based on the following source material, generate 5 follow-up single-text-prompt suggestions for further exploration.

The suggestions should be ready-to-use prompts that explore related topics, deeper dive into concepts, or tangential areas.

Source material:
%s

Output as JSON array of strings, each being a complete prompt. Example:
["How does analog audio signal chain work?", "What are the best practices for audio recording?", "Compare vinyl vs digital audio quality", "Best budget turntable recommendations", "How to maintain vinyl records properly"]

Respond ONLY with valid JSON array, no explanation, no markdown.`

func recommendationsPrompt(sourceText string) string {
	return fmt.Sprintf(recommendationsPromptTemplate, sourceText)
}

const graphPromptTemplate = `Extract a knowledge graph from the following material.

Output format: JSON object with this exact structure:
{
  "nodes": [
    {"id": "node-id", "label": "short name", "type": "concept" | "person" | "tool" | "event", "post_ids": ["ids of posts the node appears in, if any"]}
  ],
  "edges": [
    {"source": "node-id", "target": "node-id", "relationship": "short verb phrase"}
  ]
}

Extract 5-15 nodes covering the key entities and concepts. Every edge must reference node ids that appear in the nodes list.

Material:
%s

Respond ONLY with valid JSON, no markdown, no explanation.`

func graphPrompt(material string) string {
	return fmt.Sprintf(graphPromptTemplate, material)
}

// postsDigest flattens generated posts into a compact text block the graph
// prompt can work from.
func postsDigest(posts []domain.Post) string {
	var b strings.Builder
	for _, p := range posts {
		fmt.Fprintf(&b, "Post %s (%s): %s\n%s\n", p.ID, p.PostType, p.Title, p.Body)
		for _, c := range p.Comments {
			fmt.Fprintf(&b, "  Comment by %s: %s\n", c.AuthorHandle, c.Body)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
