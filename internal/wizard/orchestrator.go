// internal/wizard/orchestrator.go
package wizard

import (
	"context"
	"fmt"
	"strings"

	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/common/logger"
	"contest-console/internal/common/metrics"
	"contest-console/internal/common/validation"
	"contest-console/internal/session"
)

const (
	cancelToken = "cancel"
	skipToken   = "skip"

	cancelledMessage = "Okay, I've cancelled that. Nothing was changed."
	noSessionMessage = "There's no guided command in progress. Say what you'd like to do, for example \"add participant\"."
)

// Reply is what one orchestrator turn hands back to the conversation.
type Reply struct {
	Message   string
	Options   []string
	Done      bool
	FollowUps []string
}

// Orchestrator runs wizard sessions against the registry. It assumes the
// caller serializes turns per session key; it holds no lock itself.
type Orchestrator struct {
	registry *Registry
	sessions session.Store
	logger   logger.Logger
}

func NewOrchestrator(registry *Registry, sessions session.Store, log logger.Logger) *Orchestrator {
	return &Orchestrator{registry: registry, sessions: sessions, logger: log}
}

// GetState returns the current session state, nil when none is active.
func (o *Orchestrator) GetState(ctx context.Context, key string) (*session.State, error) {
	return o.sessions.Get(ctx, key)
}

// Start begins a fresh wizard for the command, replacing any session
// already active under the key.
func (o *Orchestrator) Start(ctx context.Context, key, command string, scopeEventID *int64) (*Reply, error) {
	def := o.registry.Resolve(command)
	if def == nil {
		return nil, apperrors.NewUnknownCommandError(command)
	}

	state := &session.State{
		CommandName:  command,
		StepIndex:    0,
		Fields:       make(map[string]interface{}),
		ScopeEventID: scopeEventID,
	}
	if scopeEventID != nil {
		state.Fields[FieldScopeEvent] = *scopeEventID
	}
	state.Fields[FieldActor] = key
	if err := o.sessions.Put(ctx, key, state); err != nil {
		return nil, err
	}
	metrics.WizardStarts.WithLabelValues(command).Inc()

	return o.stepReply(ctx, def, state)
}

// Cancel drops any active session under the key.
func (o *Orchestrator) Cancel(ctx context.Context, key string) (*Reply, error) {
	state, err := o.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !state.Active() {
		return &Reply{Message: noSessionMessage, Done: true}, nil
	}
	if err := o.sessions.Forget(ctx, key); err != nil {
		return nil, err
	}
	metrics.WizardCancellations.WithLabelValues(state.CommandName).Inc()
	return &Reply{Message: cancelledMessage, Done: true}, nil
}

// ProcessInput advances the active wizard by one step. The cancel token
// is honored before any validation; an invalid answer leaves the session
// exactly where it was.
func (o *Orchestrator) ProcessInput(ctx context.Context, key, raw string) (*Reply, error) {
	state, err := o.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !state.Active() {
		return &Reply{Message: noSessionMessage, Done: true}, nil
	}

	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, cancelToken) {
		return o.Cancel(ctx, key)
	}

	def := o.registry.Resolve(state.CommandName)
	if def == nil {
		// A session referencing a vanished command is a deployment-level
		// precondition violation.
		o.logger.Error("active session references unknown command", map[string]interface{}{
			"command": state.CommandName,
			"key":     key,
		})
		_ = o.sessions.Forget(ctx, key)
		return nil, apperrors.NewUnknownCommandError(state.CommandName)
	}
	if state.StepIndex < 0 || state.StepIndex >= len(def.Steps) {
		o.logger.Error("session step index out of range", map[string]interface{}{
			"command": state.CommandName,
			"step":    state.StepIndex,
		})
		_ = o.sessions.Forget(ctx, key)
		return nil, apperrors.NewUnknownStepError(state.CommandName, fmt.Sprintf("%d", state.StepIndex))
	}

	// The skip token always reads as null input. Skippable steps accept
	// it and leave their field unset; every other step answers null with
	// its own required-field message.
	input := &trimmed
	if strings.EqualFold(trimmed, skipToken) {
		input = nil
	}

	result := def.Handler.ValidateStep(ctx, state.StepIndex, input, state.Fields)
	if result.Abort {
		if err := o.sessions.Forget(ctx, key); err != nil {
			return nil, err
		}
		metrics.WizardCancellations.WithLabelValues(state.CommandName).Inc()
		message := result.Message
		if message == "" {
			message = cancelledMessage
		}
		return &Reply{Message: message, Done: true}, nil
	}
	if !result.Valid {
		metrics.WizardValidationFailures.WithLabelValues(state.CommandName, def.Steps[state.StepIndex]).Inc()
		return &Reply{
			Message: result.Message,
			Options: def.Handler.OptionsForStep(ctx, state.StepIndex, state.Fields),
		}, nil
	}

	// A nil value means the step was skipped; the field stays unset so the
	// schema's required list still applies.
	if result.Value != nil {
		state.Fields[def.Steps[state.StepIndex]] = result.Value
	}
	state.StepIndex++

	if state.StepIndex == len(def.Steps) {
		return o.execute(ctx, key, def, state)
	}

	if err := o.sessions.Put(ctx, key, state); err != nil {
		return nil, err
	}
	return o.stepReply(ctx, def, state)
}

// execute runs the terminal mutation after a final schema check on the
// accumulated fields. The schema check guards handler bookkeeping bugs,
// not user input; user answers were validated step by step.
func (o *Orchestrator) execute(ctx context.Context, key string, def *Definition, state *session.State) (*Reply, error) {
	if err := validation.Validate(state.Fields, def.FieldSchema); err != nil {
		o.logger.Error("collected fields failed schema check", map[string]interface{}{
			"command": def.Command,
			"error":   err.Error(),
		})
		_ = o.sessions.Forget(ctx, key)
		return nil, apperrors.NewUnknownStepError(def.Command, "schema")
	}

	result, err := def.Handler.Execute(ctx, state.Fields)
	if err != nil {
		_ = o.sessions.Forget(ctx, key)
		return nil, err
	}
	if err := o.sessions.Forget(ctx, key); err != nil {
		return nil, err
	}
	metrics.WizardCompletions.WithLabelValues(def.Command).Inc()

	return &Reply{
		Message:   result.Message,
		Done:      true,
		FollowUps: result.FollowUps,
	}, nil
}

func (o *Orchestrator) stepReply(ctx context.Context, def *Definition, state *session.State) (*Reply, error) {
	prompt, err := def.Handler.PromptForStep(ctx, state.StepIndex, state.Fields)
	if err != nil {
		return nil, fmt.Errorf("prompt for %s step %d: %w", def.Command, state.StepIndex, err)
	}
	return &Reply{
		Message: prompt,
		Options: def.Handler.OptionsForStep(ctx, state.StepIndex, state.Fields),
	}, nil
}
