// cmd/console/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"contest-console/internal/ai"
	"contest-console/internal/ai/providers"
	"contest-console/internal/common/config"
	"contest-console/internal/common/database"
	"contest-console/internal/common/logger"
	"contest-console/internal/credentials"
	"contest-console/internal/knowledge"
	"contest-console/internal/repository"
	"contest-console/internal/router"
	"contest-console/internal/scoring"
	"contest-console/internal/session"
	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
	divisionwiz "contest-console/internal/wizards/division"
	entrywiz "contest-console/internal/wizards/entry"
	eventwiz "contest-console/internal/wizards/event"
	participantwiz "contest-console/internal/wizards/participant"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting contest console...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Repositories ---
	events := repository.NewPostgresEventRepository(pg.DB)
	participants := repository.NewPostgresParticipantRepository(pg.DB)
	entries := repository.NewPostgresEntryRepository(pg.DB)
	divisions := repository.NewPostgresDivisionRepository(pg.DB)
	votes := repository.NewPostgresVoteRepository(pg.DB)
	history := repository.NewPostgresDeletionHistoryRepository(pg.DB)
	knowledgeRepo := repository.NewPostgresKnowledgeRepository(pg.DB)
	providerRepo := repository.NewPostgresProviderRepository(pg.DB)
	scoringSvc := scoring.NewPostgresService(pg.DB)

	// --- Wizard engine ---
	deleter := cascade.NewDeleter(history, votes, entries, log)
	definitions := eventwiz.Definitions(eventwiz.Deps{
		Events: events, Entries: entries, Votes: votes, Cascade: deleter, Logger: log,
	})
	definitions = append(definitions, participantwiz.Definitions(participantwiz.Deps{
		Participants: participants, Entries: entries, Votes: votes, Cascade: deleter, Logger: log,
	})...)
	definitions = append(definitions, entrywiz.Definitions(entrywiz.Deps{
		Events: events, Participants: participants, Divisions: divisions,
		Entries: entries, Votes: votes, Cascade: deleter, Logger: log,
	})...)
	definitions = append(definitions, divisionwiz.Definitions(divisionwiz.Deps{
		Events: events, Divisions: divisions, Entries: entries, Votes: votes,
		Cascade: deleter, Logger: log,
	})...)

	registry, err := wizard.NewRegistry(definitions...)
	if err != nil {
		zapLog.Fatal("command registry failed", zap.Error(err))
	}

	sessions := session.NewRedisStore(redis, cfg.Sessions)
	orchestrator := wizard.NewOrchestrator(registry, sessions, log)

	// --- AI gateway ---
	credStore := credentials.NewAESStore(providerRepo, cfg.Credentials, log)
	knowledgeSvc := knowledge.NewService(knowledgeRepo, log, cfg.AI.KnowledgeLimit)
	assembler := ai.NewPromptAssembler(
		registry, knowledgeSvc,
		events, divisions, participants, entries, votes,
		scoringSvc, log, cfg.AI.SystemPrompt,
	)
	gateway := ai.NewGateway(cfg, providerRepo, credStore, assembler, log,
		providers.NewOpenAIAdapter(),
		providers.NewAnthropicAdapter(),
		providers.NewGeminiAdapter(),
		providers.NewHuggingFaceAdapter(),
	)

	rt := router.New(orchestrator, registry, gateway, log)
	zapLog.Info("Router initialized", zap.Int("commands", len(registry.Commands())))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := http.ListenAndServe(cfg.App.MetricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Operator REPL ---
	replDone := make(chan struct{})
	go runREPL(ctx, rt, cfg, zapLog, replDone)

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received")
	case <-replDone:
		zapLog.Info("Operator session ended")
	}

	zapLog.Info("Contest console stopped")
}

// runREPL drives the router from stdin. One process is one conversation;
// "/event <id>" pins the current event, "/quit" exits.
func runREPL(ctx context.Context, rt *router.Router, cfg *config.Config, log *zap.Logger, done chan<- struct{}) {
	defer close(done)

	sessionKey := fmt.Sprintf("operator-%d", os.Getpid())
	var scopeEventID *int64
	var chatHistory []providers.Message

	fmt.Println("Contest console ready. Type a command or question; /event <id> sets the current event; /quit exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}
		if rest, ok := strings.CutPrefix(line, "/event "); ok {
			id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
			if err != nil {
				fmt.Println("Usage: /event <numeric id>")
				continue
			}
			scopeEventID = &id
			fmt.Printf("Current event set to %d.\n", id)
			continue
		}

		resp, err := rt.Handle(ctx, sessionKey, line, scopeEventID, chatHistory)
		if err != nil {
			log.Error("turn failed", zap.Error(err))
			fmt.Println("Something went wrong. Please try again.")
			continue
		}

		fmt.Println(resp.Message)
		for _, opt := range resp.Options {
			fmt.Println("  " + opt)
		}
		if len(resp.FollowUps) > 0 {
			fmt.Println("Next: " + strings.Join(resp.FollowUps, ", "))
		}

		chatHistory = append(chatHistory,
			providers.Message{Role: providers.RoleUser, Content: line},
			providers.Message{Role: providers.RoleAssistant, Content: resp.Message},
		)
		if limit := cfg.AI.HistoryLimit * 2; len(chatHistory) > limit {
			chatHistory = chatHistory[len(chatHistory)-limit:]
		}
	}
}
