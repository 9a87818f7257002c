// internal/wizard/handler.go
package wizard

import "context"

// StepValidationResult is the outcome of validating one step input.
// Value is only meaningful when Valid; Message carries the user-facing
// rejection or abort text otherwise.
type StepValidationResult struct {
	Valid   bool
	Value   interface{}
	Message string
	// Abort ends the wizard entirely, used by confirmation steps when the
	// operator declines.
	Abort bool
}

// Reject builds a retry-in-place rejection with a user-facing message.
func Reject(message string) StepValidationResult {
	return StepValidationResult{Message: message}
}

// Accept stores value under the step's field name and advances.
func Accept(value interface{}) StepValidationResult {
	return StepValidationResult{Valid: true, Value: value}
}

// Abort cancels the wizard with a user-facing message.
func Abort(message string) StepValidationResult {
	return StepValidationResult{Abort: true, Message: message}
}

// ExecutionResult is the terminal outcome of a completed wizard.
type ExecutionResult struct {
	Message   string
	FollowUps []string
}

// Handler drives one command's steps. Implementations are stateless;
// all accumulated answers travel in the fields map.
type Handler interface {
	// PromptForStep returns the question to ask for the given step.
	PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error)

	// ValidateStep checks one answer. input is nil when the operator said
	// "skip"; steps CanSkipStep reports false for must reject nil with a
	// required-field message. A rejection must leave fields untouched.
	ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) StepValidationResult

	// OptionsForStep returns selectable choices for the step, nil when the
	// step is free-form.
	OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string

	// CanSkipStep reports whether "skip" is accepted at the given step.
	CanSkipStep(step int) bool

	// Execute performs the mutation from fully validated fields. It must
	// not re-validate user input.
	Execute(ctx context.Context, fields map[string]interface{}) (*ExecutionResult, error)
}
