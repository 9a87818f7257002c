// internal/wizard/fields.go
package wizard

import "encoding/json"

// Reserved fields seeded by Start, never by a step.
const (
	// FieldScopeEvent carries the current event's ID into scoped handlers.
	FieldScopeEvent = "scope_event_id"
	// FieldActor carries the conversation identity for audit stamping.
	FieldActor = "actor_id"
)

// FieldInt64 reads a numeric field. Sessions round-trip through JSON, so
// a value stored as int64 may come back as float64.
func FieldInt64(fields map[string]interface{}, key string) (int64, bool) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// FieldString reads a string field, empty when unset or skipped.
func FieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// ScopeEvent returns the current event's ID seeded at session start.
func ScopeEvent(fields map[string]interface{}) (int64, bool) {
	return FieldInt64(fields, FieldScopeEvent)
}
