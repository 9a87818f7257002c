// test/e2e/e2e_test.go

// Package e2e drives whole conversations through the real router,
// orchestrator, Redis-backed session store and AI gateway. Postgres is
// replaced by in-memory repositories and the provider endpoint by a
// local fake; everything else is the production wiring.
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contest-console/internal/ai"
	"contest-console/internal/ai/providers"
	"contest-console/internal/common/config"
	"contest-console/internal/common/database"
	"contest-console/internal/common/logger"
	"contest-console/internal/credentials"
	"contest-console/internal/knowledge"
	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/router"
	"contest-console/internal/scoring"
	"contest-console/internal/session"
	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
	participantwiz "contest-console/internal/wizards/participant"
)

// ==========================
// In-Memory Repositories
// ==========================

type memEvents struct {
	repository.EventRepository
	events []*models.Event
}

func (m *memEvents) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memEvents) List(ctx context.Context) ([]*models.Event, error) { return m.events, nil }

func (m *memEvents) ListTemplates(ctx context.Context) ([]*models.EventTemplate, error) {
	return nil, nil
}

func (m *memEvents) ListVotingSchemes(ctx context.Context) ([]*models.VotingScheme, error) {
	return nil, nil
}

type memParticipants struct {
	repository.ParticipantRepository
	mu      sync.Mutex
	nextID  int64
	rows    []*models.Participant
	deleted []int64
}

func (m *memParticipants) FindByID(ctx context.Context, id int64) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memParticipants) ListByEvent(ctx context.Context, eventID int64) ([]*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Participant
	for _, p := range m.rows {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memParticipants) Create(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	created := *p
	created.ID = m.nextID
	m.rows = append(m.rows, &created)
	return &created, nil
}

func (m *memParticipants) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.rows {
		if p.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memEntries struct {
	repository.EntryRepository
	rows    []*models.Entry
	deleted []int64
}

func (m *memEntries) ListByEvent(ctx context.Context, eventID int64) ([]*models.Entry, error) {
	return m.rows, nil
}

func (m *memEntries) ListByParticipant(ctx context.Context, participantID int64) ([]*models.Entry, error) {
	var out []*models.Entry
	for _, e := range m.rows {
		if e.ParticipantID == participantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEntries) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type memVotes struct {
	repository.VoteRepository
	perEntry map[int64]int
	purged   []int64
}

func (m *memVotes) CountByEntry(ctx context.Context, entryID int64) (int, error) {
	return m.perEntry[entryID], nil
}

func (m *memVotes) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	total := 0
	for _, n := range m.perEntry {
		total += n
	}
	return total, nil
}

func (m *memVotes) SoftDeleteByEntry(ctx context.Context, entryID int64, reason, actorID string) (int, error) {
	m.purged = append(m.purged, entryID)
	return m.perEntry[entryID], nil
}

type memHistory struct {
	records []*models.DeletionHistory
}

func (m *memHistory) Create(ctx context.Context, rec *models.DeletionHistory) error {
	m.records = append(m.records, rec)
	return nil
}

type memKnowledge struct{}

func (memKnowledge) ListEnabled(ctx context.Context) ([]*models.KnowledgeDocument, error) {
	return []*models.KnowledgeDocument{
		{ID: 1, Title: "voting rules", Body: "Each judge ranks three entries.", Keywords: []string{"votes", "standings"}, Priority: 5, Enabled: true},
	}, nil
}

type memProviders struct {
	repository.ProviderRepository
	provider *models.AIProvider
}

func (m *memProviders) GetSelected(ctx context.Context) (*models.AIProvider, error) {
	if m.provider == nil || !m.provider.Selected {
		return nil, repository.ErrNotFound
	}
	return m.provider, nil
}

func (m *memProviders) FindByCode(ctx context.Context, code string) (*models.AIProvider, error) {
	if m.provider != nil && m.provider.Code == code {
		return m.provider, nil
	}
	return nil, repository.ErrNotFound
}

type memScoring struct{}

func (memScoring) GetResults(ctx context.Context, eventID int64) ([]scoring.ResultRow, error) {
	return nil, nil
}

func (memScoring) GetLeaderboard(ctx context.Context, eventID int64, divisionID *int64, limit int) ([]scoring.ResultRow, error) {
	return []scoring.ResultRow{
		{EntryID: 4, EntryName: "Porter", ParticipantName: "Ada", DivisionName: "Pro", TotalPoints: 9, VoteCount: 3},
	}, nil
}

type emptyDivisions struct {
	repository.DivisionRepository
}

func (emptyDivisions) ListByEvent(ctx context.Context, eventID int64) ([]*models.Division, error) {
	return nil, nil
}

// ==========================
// Harness
// ==========================

type harness struct {
	router       *router.Router
	participants *memParticipants
	entries      *memEntries
	votes        *memVotes
	history      *memHistory
	prompts      []string
}

func setupHarness(t *testing.T) *harness {
	log := logger.NewTestLogger(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { redisClient.Close() })
	sessions := session.NewRedisStore(redisClient, config.SessionConfig{KeyPrefix: "wizard:", TTL: 1800})

	h := &harness{
		participants: &memParticipants{},
		entries:      &memEntries{},
		votes:        &memVotes{perEntry: map[int64]int{}},
		history:      &memHistory{},
	}

	// fake chat-completions endpoint; records the system prompt it saw
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 && req.Messages[0].Role == "system" {
			h.prompts = append(h.prompts, req.Messages[0].Content)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Step 1: Open the event.\nStep 2: Read the standings."}},
			},
			"usage": map[string]int{"total_tokens": 21},
		})
	}))
	t.Cleanup(server.Close)

	credCfg := config.CredentialConfig{MasterKey: "e2e-master-key"}
	sealed, err := credentials.Encrypt(credentials.DeriveKey(credCfg.MasterKey), "sk-e2e")
	require.NoError(t, err)
	providerRepo := &memProviders{provider: &models.AIProvider{
		ID: 1, Code: "openai", Name: "OpenAI", BaseURL: server.URL,
		Model: "gpt-4o-mini", Temperature: 0.2, MaxTokens: 512,
		Selected: true, EncryptedCredential: sealed,
	}}
	credStore := credentials.NewAESStore(providerRepo, credCfg, log)

	events := &memEvents{events: []*models.Event{
		{ID: 12, Name: "Spring Open", Status: models.EventStatusActive, Location: "North Hall"},
	}}

	deleter := cascade.NewDeleter(h.history, h.votes, h.entries, log)
	registry, err := wizard.NewRegistry(participantwiz.Definitions(participantwiz.Deps{
		Participants: h.participants,
		Entries:      h.entries,
		Votes:        h.votes,
		Cascade:      deleter,
		Logger:       log,
	})...)
	require.NoError(t, err)
	orchestrator := wizard.NewOrchestrator(registry, sessions, log)

	cfg := &config.Config{}
	cfg.AI.ChatTimeout = 60000
	cfg.AI.HistoryLimit = 10

	know := knowledge.NewService(memKnowledge{}, log, 0)
	assembler := ai.NewPromptAssembler(registry, know, events, emptyDivisions{}, h.participants,
		h.entries, h.votes, memScoring{}, log, "")
	gateway := ai.NewGateway(cfg, providerRepo, credStore, assembler, log, providers.NewOpenAIAdapter())

	h.router = router.New(orchestrator, registry, gateway, log)
	return h
}

func (h *harness) say(t *testing.T, text string) *router.Response {
	scope := int64(12)
	resp, err := h.router.Handle(context.Background(), "operator-e2e", text, &scope, nil)
	require.NoError(t, err, "input %q", text)
	return resp
}

// ==========================
// Tests
// ==========================

func TestConversation_GuidedRegistration(t *testing.T) {
	h := setupHarness(t)

	resp := h.say(t, "please add participant")
	assert.Contains(t, resp.Message, "participant's name")

	resp = h.say(t, "Ada Lovelace")
	assert.Contains(t, resp.Message, "email")

	// invalid answer retries in place
	resp = h.say(t, "not an email")
	assert.Contains(t, resp.Message, "doesn't look like an email")

	resp = h.say(t, "ada@example.org")
	assert.Contains(t, resp.Message, "club")

	resp = h.say(t, "skip")
	assert.Contains(t, resp.Message, `Register "Ada Lovelace"`)

	resp = h.say(t, "yes")
	assert.True(t, resp.WizardDone)
	assert.Contains(t, resp.Message, "Registered")
	assert.Contains(t, resp.FollowUps, "add-entry")

	require.Len(t, h.participants.rows, 1)
	created := h.participants.rows[0]
	assert.Equal(t, int64(12), created.EventID)
	assert.Equal(t, "Ada Lovelace", created.Name)
	assert.Equal(t, "ada@example.org", created.Email)
	assert.Empty(t, created.Club)
}

func TestConversation_DuplicateNameThenCancel(t *testing.T) {
	h := setupHarness(t)
	h.participants.rows = []*models.Participant{{ID: 1, EventID: 12, Name: "Ada Lovelace"}}
	h.participants.nextID = 1

	h.say(t, "add participant")
	resp := h.say(t, "ada lovelace")
	assert.Contains(t, resp.Message, "already used by Ada Lovelace")

	resp = h.say(t, "cancel")
	assert.True(t, resp.WizardDone)
	assert.Contains(t, resp.Message, "cancelled")
	assert.Len(t, h.participants.rows, 1)

	// next message routes fresh, no dangling session
	resp = h.say(t, "add participant")
	assert.Contains(t, resp.Message, "participant's name")
}

func TestConversation_CascadeDelete(t *testing.T) {
	h := setupHarness(t)
	h.participants.rows = []*models.Participant{{ID: 1, EventID: 12, Name: "Ada Lovelace"}}
	h.participants.nextID = 1
	h.entries.rows = []*models.Entry{
		{ID: 4, EventID: 12, ParticipantID: 1, Name: "Porter", Number: 1},
		{ID: 5, EventID: 12, ParticipantID: 1, Name: "Stout", Number: 2},
	}
	h.votes.perEntry = map[int64]int{4: 2, 5: 1}

	resp := h.say(t, "delete participant")
	assert.Contains(t, resp.Options[0], "Ada Lovelace")

	resp = h.say(t, "1")
	assert.Contains(t, resp.Message, "2 entries")
	assert.Contains(t, resp.Message, "3 votes")

	resp = h.say(t, "yes")
	assert.True(t, resp.WizardDone)

	// audit record first, dependents gone, target gone
	require.Len(t, h.history.records, 1)
	assert.Equal(t, "participant", h.history.records[0].EntityType)
	assert.Equal(t, map[string]int{"entries": 2, "votes": 3}, h.history.records[0].RelatedDeletions)
	assert.ElementsMatch(t, []int64{4, 5}, h.votes.purged)
	assert.ElementsMatch(t, []int64{4, 5}, h.entries.deleted)
	assert.Equal(t, []int64{1}, h.participants.deleted)
}

func TestConversation_OpenQuestionReachesProvider(t *testing.T) {
	h := setupHarness(t)

	resp := h.say(t, "how should judges handle the standings?")

	assert.Contains(t, resp.Message, "Step 1: Open the event.")
	require.NotNil(t, resp.TokensUsed)
	assert.Equal(t, 21, *resp.TokensUsed)

	// the reply's step list was annotated into a visual aid
	require.Len(t, resp.VisualAids, 1)
	assert.Equal(t, ai.AidTypeStepCard, resp.VisualAids[0].Type)

	// grounding context made it into the system prompt
	require.Len(t, h.prompts, 1)
	assert.Contains(t, h.prompts[0], "add-participant")
	assert.Contains(t, h.prompts[0], "Spring Open")
	assert.Contains(t, h.prompts[0], "Each judge ranks three entries.")
}

func TestConversation_ShortOrdinalWithoutWizardGetsHint(t *testing.T) {
	h := setupHarness(t)

	resp := h.say(t, "3")

	assert.Contains(t, resp.Message, "guided commands")
	assert.Empty(t, h.prompts, "no provider call for a stray ordinal")
}
