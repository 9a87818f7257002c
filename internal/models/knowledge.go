package models

import "time"

// KnowledgeDocument is one article of the operator knowledge corpus that
// the prompt assembler can inject into the system prompt.
type KnowledgeDocument struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Keywords  []string  `json:"keywords" db:"keywords"`
	Priority  int       `json:"priority" db:"priority"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DeletionHistory records a cascading delete before the cascade begins, so a
// crash mid-cascade stays recoverable and auditable.
type DeletionHistory struct {
	ID               string         `json:"id" db:"id"`
	EntityType       string         `json:"entityType" db:"entity_type"`
	EntityID         int64          `json:"entityId" db:"entity_id"`
	Snapshot         string         `json:"snapshot" db:"snapshot"` // serialized pre-deletion entity
	RelatedDeletions map[string]int `json:"relatedDeletions" db:"related_deletions"`
	Reason           string         `json:"reason" db:"reason"`
	ActorID          string         `json:"actorId" db:"actor_id"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
}

// AIProvider is the persisted configuration row for one provider family.
// Exactly one provider is selected at a time.
type AIProvider struct {
	ID                  int64     `json:"id" db:"id"`
	Code                string    `json:"code" db:"code"`
	Name                string    `json:"name" db:"name"`
	BaseURL             string    `json:"baseUrl" db:"base_url"`
	Model               string    `json:"model" db:"model"`
	Temperature         float64   `json:"temperature" db:"temperature"`
	MaxTokens           int       `json:"maxTokens" db:"max_tokens"`
	Selected            bool      `json:"selected" db:"selected"`
	EncryptedCredential string    `json:"-" db:"encrypted_credential"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// HasCredential reports whether a credential is stored for the provider.
func (p *AIProvider) HasCredential() bool {
	return p.EncryptedCredential != ""
}
