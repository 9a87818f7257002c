// internal/knowledge/corpus_test.go
package knowledge

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"contest-console/internal/common/logger"
	"contest-console/internal/models"
)

type stubRepo struct {
	docs []*models.KnowledgeDocument
	err  error
}

func (s *stubRepo) ListEnabled(ctx context.Context) ([]*models.KnowledgeDocument, error) {
	return s.docs, s.err
}

func doc(id int64, title string, priority int, keywords ...string) *models.KnowledgeDocument {
	return &models.KnowledgeDocument{ID: id, Title: title, Priority: priority, Keywords: keywords, Enabled: true}
}

func TestRelevant_MatchesByKeyword(t *testing.T) {
	repo := &stubRepo{docs: []*models.KnowledgeDocument{
		doc(1, "Scoring rules", 1, "leaderboard", "points"),
		doc(2, "Venue map", 1, "parking"),
	}}
	svc := NewService(repo, logger.NewTestLogger(t), 0)

	got := svc.Relevant(context.Background(), "How does the Leaderboard work?")

	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestRelevant_MatchesTitleInEitherDirection(t *testing.T) {
	repo := &stubRepo{docs: []*models.KnowledgeDocument{
		doc(1, "voting", 1),
		doc(2, "how the whole contest weekend is organized", 1),
	}}
	svc := NewService(repo, logger.NewTestLogger(t), 0)

	// message contains the title
	got := svc.Relevant(context.Background(), "explain VOTING to me")
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// title contains the message
	got = svc.Relevant(context.Background(), "contest weekend")
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestRelevant_RanksByPriorityAndCaps(t *testing.T) {
	docs := make([]*models.KnowledgeDocument, 0, 8)
	for i := 0; i < 8; i++ {
		docs = append(docs, doc(int64(i+1), fmt.Sprintf("doc %d", i+1), i, "votes"))
	}
	repo := &stubRepo{docs: docs}
	svc := NewService(repo, logger.NewTestLogger(t), 0)

	got := svc.Relevant(context.Background(), "where do votes go")

	assert.Len(t, got, DefaultLimit)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Priority, got[i].Priority)
	}
	assert.Equal(t, int64(8), got[0].ID)
}

func TestRelevant_RepositoryFailureDegradesToNothing(t *testing.T) {
	repo := &stubRepo{err: fmt.Errorf("connection refused")}
	svc := NewService(repo, logger.NewTestLogger(t), 0)

	got := svc.Relevant(context.Background(), "anything")
	assert.Empty(t, got)
}

func TestRelevant_NoMatchReturnsEmpty(t *testing.T) {
	repo := &stubRepo{docs: []*models.KnowledgeDocument{
		doc(1, "Scoring rules", 1, "points"),
	}}
	svc := NewService(repo, logger.NewTestLogger(t), 0)

	assert.Empty(t, svc.Relevant(context.Background(), "weather tomorrow"))
}
