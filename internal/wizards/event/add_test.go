// internal/wizards/event/add_test.go
package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contest-console/internal/common/logger"
	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/session"
	"contest-console/internal/wizard"
)

// ==========================
// Test Doubles
// ==========================

type stubEvents struct {
	repository.EventRepository
	templates []*models.EventTemplate
	schemes   []*models.VotingScheme
	created   []*models.Event
}

func (s *stubEvents) ListTemplates(ctx context.Context) ([]*models.EventTemplate, error) {
	return s.templates, nil
}

func (s *stubEvents) ListVotingSchemes(ctx context.Context) ([]*models.VotingScheme, error) {
	return s.schemes, nil
}

func (s *stubEvents) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	created := *e
	created.ID = int64(len(s.created) + 100)
	s.created = append(s.created, &created)
	return &created, nil
}

type memoryStore struct {
	states map[string]*session.State
}

func (m *memoryStore) Get(ctx context.Context, key string) (*session.State, error) {
	return m.states[key], nil
}

func (m *memoryStore) Put(ctx context.Context, key string, state *session.State) error {
	m.states[key] = state
	return nil
}

func (m *memoryStore) Forget(ctx context.Context, key string) error {
	delete(m.states, key)
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

func setupWizard(t *testing.T, events *stubEvents) *wizard.Orchestrator {
	deps := Deps{
		Events: events,
		Logger: logger.NewTestLogger(t),
	}

	registry, err := wizard.NewRegistry(Definitions(deps)...)
	assert.NoError(t, err)

	store := &memoryStore{states: make(map[string]*session.State)}
	return wizard.NewOrchestrator(registry, store, logger.NewTestLogger(t))
}

// ==========================
// Tests
// ==========================

func TestAddEvent_GuidedRun(t *testing.T) {
	events := &stubEvents{
		templates: []*models.EventTemplate{{ID: 3, Name: "Classic Brew"}},
		schemes:   []*models.VotingScheme{{ID: 2, Name: "Podium Points"}},
	}
	orch := setupWizard(t, events)
	ctx := context.Background()

	reply, err := orch.Start(ctx, "operator", "add-event", nil)
	assert.NoError(t, err)
	assert.Contains(t, reply.Message, "called")

	reply, err = orch.ProcessInput(ctx, "operator", "Autumn Brew Cup")
	assert.NoError(t, err)
	assert.Contains(t, reply.Message, "template")
	assert.Equal(t, []string{"1. Classic Brew"}, reply.Options)

	_, err = orch.ProcessInput(ctx, "operator", "1")
	assert.NoError(t, err)
	_, err = orch.ProcessInput(ctx, "operator", "podium")
	assert.NoError(t, err)
	_, err = orch.ProcessInput(ctx, "operator", "2026-10-01")
	assert.NoError(t, err)

	reply, err = orch.ProcessInput(ctx, "operator", "Main Hall")
	assert.NoError(t, err)
	assert.Contains(t, reply.Message, `Create event "Autumn Brew Cup" as a draft?`)

	reply, err = orch.ProcessInput(ctx, "operator", "yes")
	assert.NoError(t, err)
	assert.True(t, reply.Done)
	assert.Contains(t, reply.Message, `Created event "Autumn Brew Cup"`)

	assert.Len(t, events.created, 1)
	created := events.created[0]
	assert.Equal(t, models.EventStatusDraft, created.Status)
	assert.Equal(t, "Main Hall", created.Location)
	if assert.NotNil(t, created.TemplateID) {
		assert.Equal(t, int64(3), *created.TemplateID)
	}
	if assert.NotNil(t, created.VotingScheme) {
		assert.Equal(t, int64(2), *created.VotingScheme)
	}
	if assert.NotNil(t, created.EventDate) {
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *created.EventDate)
	}
}

func TestAddEvent_SkippingAllOptionalSteps(t *testing.T) {
	events := &stubEvents{}
	orch := setupWizard(t, events)
	ctx := context.Background()

	_, err := orch.Start(ctx, "operator", "add-event", nil)
	assert.NoError(t, err)

	// the name is required: "skip" is rejected in place, never stored
	reply, err := orch.ProcessInput(ctx, "operator", "skip")
	assert.NoError(t, err)
	assert.Contains(t, reply.Message, "can't be skipped")
	assert.False(t, reply.Done)
	assert.Empty(t, events.created)

	for _, input := range []string{"Winter Cup", "skip", "skip", "skip", "skip"} {
		_, err = orch.ProcessInput(ctx, "operator", input)
		assert.NoError(t, err)
	}

	reply, err = orch.ProcessInput(ctx, "operator", "yes")
	assert.NoError(t, err)
	assert.True(t, reply.Done)

	assert.Len(t, events.created, 1)
	created := events.created[0]
	assert.Equal(t, "Winter Cup", created.Name)
	assert.Nil(t, created.TemplateID)
	assert.Nil(t, created.VotingScheme)
	assert.Nil(t, created.EventDate)
	assert.Empty(t, created.Location)
}

func TestAddEvent_RejectsBadDate(t *testing.T) {
	events := &stubEvents{}
	orch := setupWizard(t, events)
	ctx := context.Background()

	_, err := orch.Start(ctx, "operator", "add-event", nil)
	assert.NoError(t, err)
	for _, input := range []string{"Autumn Cup", "skip", "skip"} {
		_, err = orch.ProcessInput(ctx, "operator", input)
		assert.NoError(t, err)
	}

	reply, err := orch.ProcessInput(ctx, "operator", "next friday")
	assert.NoError(t, err)
	assert.Contains(t, reply.Message, "YYYY-MM-DD")
	assert.False(t, reply.Done)

	// retry in place with a parseable date
	reply, err = orch.ProcessInput(ctx, "operator", "2026-11-20")
	assert.NoError(t, err)
	assert.Contains(t, reply.Message, "Where")
}
