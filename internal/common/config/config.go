// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig                 `mapstructure:"app"`
	Database    DatabaseConfig            `mapstructure:"database"`
	AI          AIConfig                  `mapstructure:"ai"`
	Sessions    SessionConfig             `mapstructure:"sessions"`
	Credentials CredentialConfig          `mapstructure:"credentials"`
	Knowledge   KnowledgeConfig           `mapstructure:"knowledge"`
	Logging     LoggingConfig             `mapstructure:"logging"`
	Providers   map[string]ProviderConfig `mapstructure:"providers"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- AI Gateway Configuration ---

// AIConfig holds gateway-level settings shared by all providers.
type AIConfig struct {
	ActiveProvider string `mapstructure:"active_provider"`
	ChatTimeout    int    `mapstructure:"chat_timeout"`    // milliseconds
	MediaTimeout   int    `mapstructure:"media_timeout"`   // milliseconds, non-text workloads
	HistoryLimit   int    `mapstructure:"history_limit"`   // prior turns sent to a provider
	SystemPrompt   string `mapstructure:"system_prompt"`   // operator override of the persona
	KnowledgeLimit int    `mapstructure:"knowledge_limit"` // documents injected into the prompt
}

// ProviderConfig describes one remote chat-completion API family.
type ProviderConfig struct {
	Code        string  `mapstructure:"code"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// SessionConfig controls the wizard session store.
type SessionConfig struct {
	TTL       int    `mapstructure:"ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CredentialConfig holds the master key used to decrypt provider credentials.
type CredentialConfig struct {
	MasterKey string `mapstructure:"master_key"`
}

// KnowledgeConfig controls knowledge corpus relevance filtering.
type KnowledgeConfig struct {
	MaxDocuments int `mapstructure:"max_documents"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
