// internal/wizard/confirm.go
package wizard

import "strings"

// Confirmation classifies an answer to a yes/no step.
type Confirmation int

const (
	ConfirmUnclear Confirmation = iota
	ConfirmYes
	ConfirmNo
)

// ParseConfirmation interprets a confirmation answer. verb is the
// command's own imperative (delete, create, update), accepted as an
// affirmative alongside the standard vocabulary.
func ParseConfirmation(input, verb string) Confirmation {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y", "confirm", strings.ToLower(verb):
		return ConfirmYes
	case "no", "n", "cancel":
		return ConfirmNo
	default:
		return ConfirmUnclear
	}
}

// ConfirmationHint is the re-prompt shown for an unclear answer.
func ConfirmationHint(verb string) string {
	return "Please answer \"yes\" to " + verb + " or \"no\" to abort."
}
