// internal/knowledge/corpus.go
package knowledge

import (
	"context"
	"sort"
	"strings"

	"contest-console/internal/common/logger"
	"contest-console/internal/models"
	"contest-console/internal/repository"
)

// DefaultLimit caps how many documents a single prompt may carry.
const DefaultLimit = 5

// Service selects knowledge documents relevant to a user message.
type Service struct {
	repo   repository.KnowledgeRepository
	logger logger.Logger
	limit  int
}

func NewService(repo repository.KnowledgeRepository, log logger.Logger, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{repo: repo, logger: log, limit: limit}
}

// Relevant returns enabled documents matching the message, ranked by
// priority descending, capped at the configured limit. A document matches
// when the message and its title overlap as substrings in either
// direction, when its body contains the message, or when the message
// contains one of its keywords. Matching is case-insensitive.
func (s *Service) Relevant(ctx context.Context, message string) []*models.KnowledgeDocument {
	docs, err := s.repo.ListEnabled(ctx)
	if err != nil {
		s.logger.Warn("failed to load knowledge corpus", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	needle := strings.ToLower(message)
	matched := make([]*models.KnowledgeDocument, 0, len(docs))
	for _, doc := range docs {
		if matches(doc, needle) {
			matched = append(matched, doc)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	if len(matched) > s.limit {
		matched = matched[:s.limit]
	}
	return matched
}

func matches(doc *models.KnowledgeDocument, needle string) bool {
	if title := strings.ToLower(doc.Title); title != "" {
		if strings.Contains(needle, title) || strings.Contains(title, needle) {
			return true
		}
	}
	if body := strings.ToLower(doc.Body); body != "" && strings.Contains(body, needle) {
		return true
	}
	for _, kw := range doc.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(needle, kw) {
			return true
		}
	}
	return false
}
