// internal/ai/gateway.go
package ai

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"contest-console/internal/ai/providers"
	"contest-console/internal/common/config"
	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/common/logger"
	"contest-console/internal/common/metrics"
	"contest-console/internal/credentials"
	"contest-console/internal/models"
	"contest-console/internal/repository"
)

// commandVocabulary are imperative phrases that mark a message as a
// structured command rather than an open question.
var commandVocabulary = []string{
	"create event", "add event", "new event",
	"update event", "edit event", "delete event", "remove event",
	"add participant", "register participant", "update participant",
	"edit participant", "delete participant", "remove participant",
	"add entry", "register entry", "update entry",
	"edit entry", "delete entry", "remove entry",
	"add division", "create division", "update division",
	"edit division", "delete division", "remove division",
	"delete", "cancel",
}

// Gateway fronts all AI provider traffic. It owns availability checks,
// provider selection, the per-call timeout and the uniform failure shape.
type Gateway struct {
	cfg         *config.Config
	providers   repository.ProviderRepository
	credentials credentials.Store
	adapters    map[string]providers.Adapter
	assembler   *PromptAssembler
	logger      logger.Logger
}

func NewGateway(
	cfg *config.Config,
	providerRepo repository.ProviderRepository,
	creds credentials.Store,
	assembler *PromptAssembler,
	log logger.Logger,
	adapters ...providers.Adapter,
) *Gateway {
	byCode := make(map[string]providers.Adapter, len(adapters))
	for _, a := range adapters {
		byCode[a.Code()] = a
	}
	return &Gateway{
		cfg:         cfg,
		providers:   providerRepo,
		credentials: creds,
		adapters:    byCode,
		assembler:   assembler,
		logger:      log,
	}
}

// IsAvailable reports whether a chat call could reach a provider: an
// active provider is selected, an adapter exists for its family, and its
// credential decrypts to a non-empty key.
func (g *Gateway) IsAvailable(ctx context.Context) bool {
	provider, err := g.activeProvider(ctx)
	if err != nil {
		return false
	}
	if _, ok := g.adapters[provider.Code]; !ok {
		return false
	}
	return g.credentials.GetDecryptedCredential(ctx, provider.Code) != ""
}

// Chat runs one chat turn. It never retries; a failed call is terminal
// for the turn and the caller may re-ask. The returned Message is always
// user-safe; diagnostics stay in Error and in the log.
func (g *Gateway) Chat(ctx context.Context, message string, scopeEventID *int64, history []providers.Message) *ChatResult {
	provider, err := g.activeProvider(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return g.notConfigured("no active provider selected")
		}
		// A store failure is transient, not a configuration problem.
		return g.failure("provider-lookup", err)
	}
	adapter, ok := g.adapters[provider.Code]
	if !ok {
		return g.notConfigured("no adapter for provider " + provider.Code)
	}
	apiKey := g.credentials.GetDecryptedCredential(ctx, provider.Code)
	if apiKey == "" {
		return g.notConfigured("credential missing or undecryptable for " + provider.Code)
	}

	prompt := g.assembler.Assemble(ctx, message, scopeEventID)

	limit := g.cfg.AI.HistoryLimit
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	callCtx, cancel := context.WithTimeout(ctx, config.GetDuration(g.cfg.AI.ChatTimeout))
	defer cancel()

	start := time.Now()
	resp, err := adapter.Send(callCtx, providers.Request{
		SystemPrompt: prompt,
		UserMessage:  message,
		History:      history,
		Model:        provider.Model,
		Temperature:  provider.Temperature,
		MaxTokens:    provider.MaxTokens,
		APIKey:       apiKey,
		BaseURL:      provider.BaseURL,
	})
	metrics.ChatDuration.WithLabelValues(provider.Code).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ChatRequests.WithLabelValues(provider.Code, "failure").Inc()
		return g.failure(provider.Code, err)
	}

	metrics.ChatRequests.WithLabelValues(provider.Code, "success").Inc()
	if resp.TokensUsed != nil {
		metrics.ChatTokensUsed.WithLabelValues(provider.Code).Add(float64(*resp.TokensUsed))
	}

	return &ChatResult{
		Success:    true,
		Message:    resp.Text,
		VisualAids: Annotate(resp.Text),
		TokensUsed: resp.TokensUsed,
	}
}

// ShouldUseRules classifies a message as a structured command: either it
// contains an imperative phrase from the vocabulary, or it is a short
// numeric token likely meant as a menu selection.
func (g *Gateway) ShouldUseRules(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return false
	}
	if len(trimmed) <= 3 && allDigits(trimmed) {
		return true
	}
	lowered := strings.ToLower(trimmed)
	for _, phrase := range commandVocabulary {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// activeProvider resolves the selected provider row, falling back to the
// configured default when nothing is selected in the database.
func (g *Gateway) activeProvider(ctx context.Context) (*models.AIProvider, error) {
	provider, err := g.providers.GetSelected(ctx)
	if err == nil {
		return g.withConfigDefaults(provider), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		g.logger.Warn("provider lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	if g.cfg.AI.ActiveProvider == "" {
		return nil, repository.ErrNotFound
	}
	provider, err = g.providers.FindByCode(ctx, g.cfg.AI.ActiveProvider)
	if err != nil {
		return nil, err
	}
	return g.withConfigDefaults(provider), nil
}

// withConfigDefaults fills in connection fields the operator left blank
// on the provider row from static configuration.
func (g *Gateway) withConfigDefaults(provider *models.AIProvider) *models.AIProvider {
	pc, ok := config.GetProviderConfig(g.cfg, provider.Code)
	if !ok {
		return provider
	}
	if provider.BaseURL == "" {
		provider.BaseURL = pc.BaseURL
	}
	if provider.Model == "" {
		provider.Model = pc.Model
	}
	if provider.Temperature == 0 {
		provider.Temperature = pc.Temperature
	}
	if provider.MaxTokens == 0 {
		provider.MaxTokens = pc.MaxTokens
	}
	return provider
}

func (g *Gateway) notConfigured(details string) *ChatResult {
	stdErr := apperrors.NewAINotConfiguredError(details)
	return &ChatResult{
		Success: false,
		Message: stdErr.Message,
		Error:   details,
	}
}

func (g *Gateway) failure(providerCode string, err error) *ChatResult {
	var stdErr *apperrors.StandardError
	if errors.Is(err, context.DeadlineExceeded) {
		stdErr = apperrors.NewAITimeoutError(providerCode)
	} else {
		stdErr = apperrors.NewAITransportError(providerCode, err)
	}
	g.logger.Error("chat call failed", map[string]interface{}{
		"provider": providerCode,
		"details":  stdErr.Details,
	})
	return &ChatResult{
		Success: false,
		Message: stdErr.Message,
		Error:   stdErr.Details,
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
