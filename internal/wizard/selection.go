// internal/wizard/selection.go
package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// PreviewLimit caps how many records a selection step lists; ordinal
// answers only address this window.
const PreviewLimit = 10

// SelectionItem is one selectable record in a wizard step. Code is an
// optional secondary match key (division codes, entry numbers).
type SelectionItem struct {
	ID   int64
	Name string
	Code string
}

// PreviewOptions renders the numbered preview for a selection step.
func PreviewOptions(items []SelectionItem) []string {
	limit := len(items)
	if limit > PreviewLimit {
		limit = PreviewLimit
	}
	options := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		label := items[i].Name
		if items[i].Code != "" {
			label = fmt.Sprintf("[%s] %s", items[i].Code, label)
		}
		options = append(options, fmt.Sprintf("%d. %s", i+1, label))
	}
	if len(items) > PreviewLimit {
		options = append(options, fmt.Sprintf("(%d more not shown; answer with a name or ID)", len(items)-PreviewLimit))
	}
	return options
}

// ResolveSelection maps an answer onto one item. A purely numeric answer
// within the preview window is a 1-based ordinal; otherwise the answer is
// matched as a case-insensitive substring of name or code; a numeric
// answer that matched nothing else is tried as a direct record ID.
// Returns the item, or a user-facing message explaining the miss.
func ResolveSelection(input string, items []SelectionItem) (*SelectionItem, string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, "Please pick one of the listed options."
	}
	if len(items) == 0 {
		return nil, "There is nothing to select."
	}

	number, isNumeric := parseNumeric(trimmed)
	previewSize := len(items)
	if previewSize > PreviewLimit {
		previewSize = PreviewLimit
	}
	if isNumeric && number >= 1 && int(number) <= previewSize {
		return &items[number-1], ""
	}

	var matches []*SelectionItem
	needle := strings.ToLower(trimmed)
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), needle) ||
			(items[i].Code != "" && strings.Contains(strings.ToLower(items[i].Code), needle)) {
			matches = append(matches, &items[i])
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], ""
	case 0:
	default:
		return nil, fmt.Sprintf("%q matches %d records. Please be more specific, or answer with a number from the list.", trimmed, len(matches))
	}

	if isNumeric {
		for i := range items {
			if items[i].ID == number {
				return &items[i], ""
			}
		}
	}

	return nil, fmt.Sprintf("I couldn't find %q. Answer with a number from the list, a name, or a record ID.", trimmed)
}

// ResolveChoice maps an answer onto one of a fixed set of choices, by
// 1-based ordinal or case-insensitive substring. Used for steps whose
// options are labels rather than records.
func ResolveChoice(input string, choices []string) (string, string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", "Please pick one of the listed options."
	}

	if n, ok := parseNumeric(trimmed); ok && n >= 1 && int(n) <= len(choices) {
		return choices[n-1], ""
	}

	needle := strings.ToLower(trimmed)
	var matches []string
	for _, c := range choices {
		if strings.Contains(strings.ToLower(c), needle) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], ""
	case 0:
		return "", fmt.Sprintf("%q is not one of the options. Pick one of: %s.", trimmed, strings.Join(choices, ", "))
	default:
		return "", fmt.Sprintf("%q matches more than one option. Pick one of: %s.", trimmed, strings.Join(matches, ", "))
	}
}

// NumberedChoices renders fixed choices as a numbered option list.
func NumberedChoices(choices []string) []string {
	options := make([]string, len(choices))
	for i, c := range choices {
		options[i] = fmt.Sprintf("%d. %s", i+1, c)
	}
	return options
}

func parseNumeric(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
