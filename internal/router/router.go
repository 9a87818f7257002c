// internal/router/router.go

// Package router decides, per inbound message, whether the wizard
// engine or the AI gateway answers. An active wizard always wins; a
// message that looks like a command starts one; only open questions
// reach a provider.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contest-console/internal/ai"
	"contest-console/internal/ai/providers"
	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/common/logger"
	"contest-console/internal/wizard"
)

// Response is the uniform reply for one conversation turn.
type Response struct {
	Message    string         `json:"message"`
	Options    []string       `json:"options,omitempty"`
	FollowUps  []string       `json:"followUps,omitempty"`
	VisualAids []ai.VisualAid `json:"visualAids,omitempty"`
	TokensUsed *int           `json:"tokensUsed,omitempty"`
	WizardDone bool           `json:"wizardDone,omitempty"`
}

// verbSynonyms maps the imperative prefixes operators actually type to
// the canonical command verbs.
var verbSynonyms = map[string][]string{
	"add":    {"add", "create", "new", "register"},
	"update": {"update", "edit", "change"},
	"delete": {"delete", "remove", "drop"},
}

type Router struct {
	orchestrator *wizard.Orchestrator
	registry     *wizard.Registry
	gateway      *ai.Gateway
	logger       logger.Logger
}

func New(orchestrator *wizard.Orchestrator, registry *wizard.Registry, gateway *ai.Gateway, log logger.Logger) *Router {
	return &Router{
		orchestrator: orchestrator,
		registry:     registry,
		gateway:      gateway,
		logger:       log,
	}
}

// Handle processes one message for the conversation identified by
// sessionKey. The caller serializes calls per key.
func (r *Router) Handle(ctx context.Context, sessionKey, text string, scopeEventID *int64, history []providers.Message) (*Response, error) {
	state, err := r.orchestrator.GetState(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if state.Active() {
		reply, err := r.orchestrator.ProcessInput(ctx, sessionKey, text)
		return r.fromWizard(reply, err)
	}

	if r.gateway.ShouldUseRules(text) {
		if command := r.resolveCommand(text); command != "" {
			reply, err := r.orchestrator.Start(ctx, sessionKey, command, scopeEventID)
			return r.fromWizard(reply, err)
		}
		return &Response{Message: r.commandHint()}, nil
	}

	result := r.gateway.Chat(ctx, text, scopeEventID, history)
	return &Response{
		Message:    result.Message,
		VisualAids: result.VisualAids,
		TokensUsed: result.TokensUsed,
	}, nil
}

// resolveCommand maps free text onto a registered command by matching
// verb-synonym + entity phrases as substrings.
func (r *Router) resolveCommand(text string) string {
	lowered := strings.ToLower(text)
	for _, command := range r.registry.Commands() {
		verb, entity, ok := strings.Cut(command, "-")
		if !ok {
			continue
		}
		for _, synonym := range verbSynonyms[verb] {
			if strings.Contains(lowered, synonym+" "+entity) {
				return command
			}
		}
	}
	return ""
}

func (r *Router) commandHint() string {
	return fmt.Sprintf("I can run these guided commands: %s. Which one would you like?",
		strings.Join(r.registry.Commands(), ", "))
}

// fromWizard converts an orchestrator outcome into a Response. Errors
// carrying a user-safe message become normal replies; anything else
// propagates.
func (r *Router) fromWizard(reply *wizard.Reply, err error) (*Response, error) {
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			r.logger.Warn("wizard turn failed", map[string]interface{}{
				"code":    string(stdErr.Code),
				"details": stdErr.Details,
			})
			return &Response{Message: stdErr.Message, WizardDone: true}, nil
		}
		return nil, err
	}
	return &Response{
		Message:    reply.Message,
		Options:    reply.Options,
		FollowUps:  reply.FollowUps,
		WizardDone: reply.Done,
	}, nil
}
