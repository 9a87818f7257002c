// internal/ai/models.go
package ai

// Visual aid types attached to a chat reply.
const (
	AidTypeStepCard  = "stepCard"
	AidTypeStatsCard = "statsCard"
)

// VisualAid is a structured rendering hint derived from reply text.
type VisualAid struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Content map[string]interface{} `json:"content"`
	Order   int                    `json:"order"`
}

// ChatResult is the uniform outcome of one chat turn. Error carries the
// diagnostic for logs; Message is always safe to show the user.
type ChatResult struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	VisualAids []VisualAid `json:"visual_aids,omitempty"`
	TokensUsed *int        `json:"tokens_used,omitempty"`
	Error      string      `json:"-"`
}
