// internal/wizard/orchestrator_test.go
package wizard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/common/logger"
	"contest-console/internal/common/validation"
	"contest-console/internal/session"
)

// ==========================
// Test Doubles
// ==========================

// memoryStore keeps sessions in a map, standing in for Redis.
type memoryStore struct {
	states map[string]*session.State
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[string]*session.State)}
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

// scriptedHandler accepts any non-empty input except the literal "bad",
// allows skipping its middle step, and records Execute calls.
type scriptedHandler struct {
	executions []map[string]interface{}
}

func (h *scriptedHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	return map[int]string{0: "first?", 1: "second?", 2: "third?"}[step], nil
}

func (h *scriptedHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	return nil
}

func (h *scriptedHandler) CanSkipStep(step int) bool { return step == 1 }

func (h *scriptedHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) StepValidationResult {
	if input == nil {
		if h.CanSkipStep(step) {
			return Accept(nil)
		}
		return Reject("an answer is required here")
	}
	value := strings.TrimSpace(*input)
	if value == "" || value == "bad" {
		return Reject("that won't do")
	}
	if value == "abort" {
		return Abort("aborted by answer")
	}
	return Accept(value)
}

func (h *scriptedHandler) Execute(ctx context.Context, fields map[string]interface{}) (*ExecutionResult, error) {
	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	h.executions = append(h.executions, copied)
	return &ExecutionResult{Message: "done", FollowUps: []string{"another-command"}}, nil
}

func testOrchestrator(t *testing.T) (*Orchestrator, *memoryStore, *scriptedHandler) {
	handler := &scriptedHandler{}
	registry, err := NewRegistry(&Definition{
		Command:  "test-command",
		Category: "Testing",
		Steps:    []string{"alpha", "beta", "confirm"},
		Handler:  handler,
		FieldSchema: validation.JSONSchema{
			Type: "object",
			Properties: map[string]validation.Property{
				"alpha":   {Type: "string"},
				"beta":    {Type: "string"},
				"confirm": {Type: "string"},
			},
			Required:             []string{"alpha", "confirm"},
			AdditionalProperties: true,
		},
	})
	assert.NoError(t, err)

	store := newMemoryStore()
	return NewOrchestrator(registry, store, logger.NewTestLogger(t)), store, handler
}

// ==========================
// Tests
// ==========================

func TestStart_UnknownCommand(t *testing.T) {
	orch, store, _ := testOrchestrator(t)

	reply, err := orch.Start(context.Background(), "k", "no-such-command", nil)

	assert.Nil(t, reply)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnknownCommand))
	assert.Empty(t, store.states)
}

func TestStart_ReturnsFirstPrompt(t *testing.T) {
	orch, store, _ := testOrchestrator(t)

	reply, err := orch.Start(context.Background(), "k", "test-command", nil)

	assert.NoError(t, err)
	assert.Equal(t, "first?", reply.Message)
	assert.False(t, reply.Done)
	assert.Equal(t, 0, store.states["k"].StepIndex)
}

func TestProcessInput_NoActiveSession(t *testing.T) {
	orch, _, handler := testOrchestrator(t)

	reply, err := orch.ProcessInput(context.Background(), "k", "anything")

	assert.NoError(t, err)
	assert.True(t, reply.Done)
	assert.Contains(t, reply.Message, "no guided command")
	assert.Empty(t, handler.executions)
}

func TestProcessInput_FullRun(t *testing.T) {
	orch, store, handler := testOrchestrator(t)
	ctx := context.Background()

	_, err := orch.Start(ctx, "k", "test-command", nil)
	assert.NoError(t, err)

	reply, err := orch.ProcessInput(ctx, "k", "one")
	assert.NoError(t, err)
	assert.Equal(t, "second?", reply.Message)

	reply, err = orch.ProcessInput(ctx, "k", "two")
	assert.NoError(t, err)
	assert.Equal(t, "third?", reply.Message)

	reply, err = orch.ProcessInput(ctx, "k", "yes")
	assert.NoError(t, err)
	assert.True(t, reply.Done)
	assert.Equal(t, "done", reply.Message)
	assert.Equal(t, []string{"another-command"}, reply.FollowUps)

	// session cleared, exactly one execution with the stored answers
	assert.Empty(t, store.states)
	assert.Len(t, handler.executions, 1)
	assert.Equal(t, "one", handler.executions[0]["alpha"])
	assert.Equal(t, "two", handler.executions[0]["beta"])
}

func TestProcessInput_RetryInPlace(t *testing.T) {
	orch, store, handler := testOrchestrator(t)
	ctx := context.Background()

	_, _ = orch.Start(ctx, "k", "test-command", nil)

	for i := 0; i < 3; i++ {
		reply, err := orch.ProcessInput(ctx, "k", "bad")
		assert.NoError(t, err)
		assert.Equal(t, "that won't do", reply.Message)
		assert.Equal(t, 0, store.states["k"].StepIndex)
		_, stored := store.states["k"].Fields["alpha"]
		assert.False(t, stored)
	}

	reply, err := orch.ProcessInput(ctx, "k", "fine")
	assert.NoError(t, err)
	assert.Equal(t, "second?", reply.Message)
	assert.Equal(t, 1, store.states["k"].StepIndex)
	assert.Empty(t, handler.executions)
}

func TestProcessInput_CancelAtAnyStep(t *testing.T) {
	for _, inputs := range [][]string{
		{"cancel"},
		{"one", "CANCEL"},
		{"one", "two", "  Cancel  "},
	} {
		orch, store, handler := testOrchestrator(t)
		ctx := context.Background()

		_, _ = orch.Start(ctx, "k", "test-command", nil)

		var reply *Reply
		var err error
		for _, input := range inputs {
			reply, err = orch.ProcessInput(ctx, "k", input)
			assert.NoError(t, err)
		}

		assert.True(t, reply.Done)
		assert.Contains(t, reply.Message, "cancelled")
		assert.Empty(t, store.states)
		assert.Empty(t, handler.executions)
	}
}

func TestProcessInput_CancelBeatsValidation(t *testing.T) {
	// "cancel" must abort even where a validator would reject it
	orch, store, _ := testOrchestrator(t)
	ctx := context.Background()

	_, _ = orch.Start(ctx, "k", "test-command", nil)
	reply, err := orch.ProcessInput(ctx, "k", "cancel")

	assert.NoError(t, err)
	assert.True(t, reply.Done)
	assert.NotEqual(t, "that won't do", reply.Message)
	assert.Empty(t, store.states)
}

func TestProcessInput_SkipSkippableStep(t *testing.T) {
	orch, store, handler := testOrchestrator(t)
	ctx := context.Background()

	_, _ = orch.Start(ctx, "k", "test-command", nil)
	_, _ = orch.ProcessInput(ctx, "k", "one")

	reply, err := orch.ProcessInput(ctx, "k", "skip")
	assert.NoError(t, err)
	assert.Equal(t, "third?", reply.Message)
	_, stored := store.states["k"].Fields["beta"]
	assert.False(t, stored)

	_, err = orch.ProcessInput(ctx, "k", "yes")
	assert.NoError(t, err)
	assert.Len(t, handler.executions, 1)
	_, present := handler.executions[0]["beta"]
	assert.False(t, present)
}

func TestProcessInput_SkipOnRequiredStepIsRejected(t *testing.T) {
	orch, store, handler := testOrchestrator(t)
	ctx := context.Background()

	_, _ = orch.Start(ctx, "k", "test-command", nil)

	// Step 0 is not skippable. "skip" still reads as null input, so the
	// handler rejects it; the literal string must never be stored.
	reply, err := orch.ProcessInput(ctx, "k", "skip")
	assert.NoError(t, err)
	assert.Equal(t, "an answer is required here", reply.Message)
	assert.Equal(t, 0, store.states["k"].StepIndex)
	_, stored := store.states["k"].Fields["alpha"]
	assert.False(t, stored)
	assert.Empty(t, handler.executions)

	// The same token at the skippable step advances as before.
	_, _ = orch.ProcessInput(ctx, "k", "one")
	reply, err = orch.ProcessInput(ctx, "k", "SKIP")
	assert.NoError(t, err)
	assert.Equal(t, "third?", reply.Message)
}

func TestProcessInput_HandlerAbort(t *testing.T) {
	orch, store, handler := testOrchestrator(t)
	ctx := context.Background()

	_, _ = orch.Start(ctx, "k", "test-command", nil)
	reply, err := orch.ProcessInput(ctx, "k", "abort")

	assert.NoError(t, err)
	assert.True(t, reply.Done)
	assert.Equal(t, "aborted by answer", reply.Message)
	assert.Empty(t, store.states)
	assert.Empty(t, handler.executions)
}

func TestStart_SeedsScopeAndActor(t *testing.T) {
	orch, store, _ := testOrchestrator(t)
	scope := int64(7)

	_, err := orch.Start(context.Background(), "operator-1", "test-command", &scope)

	assert.NoError(t, err)
	got, ok := ScopeEvent(store.states["operator-1"].Fields)
	assert.True(t, ok)
	assert.Equal(t, int64(7), got)
	assert.Equal(t, "operator-1", FieldString(store.states["operator-1"].Fields, FieldActor))
}
