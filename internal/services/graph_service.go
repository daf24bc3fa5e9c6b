package services

import (
	"context"
	"fmt"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/domain"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

// GraphService extracts a knowledge graph from a session's generated posts,
// falling back to the raw source text when no feed has been generated yet.
type GraphService struct {
	log     *logger.Logger
	repo    sessions.Repo
	manager *llm.Manager
}

func NewGraphService(log *logger.Logger, repo sessions.Repo, manager *llm.Manager) *GraphService {
	return &GraphService{
		log:     log.With("service", "GraphService"),
		repo:    repo,
		manager: manager,
	}
}

func (s *GraphService) Generate(ctx context.Context, sessionID string, overrides map[string]string) (*domain.KnowledgeGraph, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	material := postsDigest(session.GeneratedPosts)
	if material == "" {
		material = session.SourceText
	}

	prompt := graphPrompt(material)
	var graph domain.KnowledgeGraph
	provider, err := llm.GenerateStructured(ctx, s.log, s.manager, prompt, overrides, &graph)
	if err != nil {
		return nil, err
	}
	normalizeGraph(&graph)
	s.log.Info("Knowledge graph generated", "session_id", sessionID, "provider", provider,
		"nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return &graph, nil
}

// normalizeGraph synthesizes ids for nodes the model left unnamed and drops
// edges pointing at nodes that do not exist.
func normalizeGraph(g *domain.KnowledgeGraph) {
	ids := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		if g.Nodes[i].ID == "" {
			g.Nodes[i].ID = fmt.Sprintf("node-%d", i+1)
		}
		ids[g.Nodes[i].ID] = struct{}{}
	}
	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if _, ok := ids[e.Source]; !ok {
			continue
		}
		if _, ok := ids[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	if g.Nodes == nil {
		g.Nodes = []domain.GraphNode{}
	}
	if g.Edges == nil {
		g.Edges = []domain.GraphEdge{}
	}
}
