// internal/ai/annotator.go
package ai

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	stepPattern     = regexp.MustCompile(`(?m)Step\s+(\d+)\s*:\s*(.+)`)
	numberedPattern = regexp.MustCompile(`(?m)^\s*(\d+)\.\s+(.+)$`)
	statPattern     = regexp.MustCompile(`\*\*([^*]+)\*\*\s*:\s*(-?\d+)\b`)

	// aidNamespace scopes the deterministic aid IDs below.
	aidNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("contest-console/visual-aid"))
)

// aidID derives a stable ID from the aid's type, position and content,
// so annotating the same text twice yields identical aids.
func aidID(aidType string, order int, parts []string) string {
	seed := aidType + "|" + strconv.Itoa(order) + "|" + strings.Join(parts, "\n")
	return uuid.NewSHA1(aidNamespace, []byte(seed)).String()
}

// Annotate derives visual aids from reply text. It never modifies the
// text and is pure: the same input always yields the same aids, IDs
// included.
func Annotate(text string) []VisualAid {
	var aids []VisualAid

	steps := extractSteps(text)
	if len(steps) > 0 {
		aids = append(aids, stepCard(steps, true, len(aids)))
	} else if items := extractNumberedList(text); len(items) > 0 {
		aids = append(aids, stepCard(items, false, len(aids)))
	}

	if stats := extractStats(text); len(stats) > 0 {
		parts := make([]string, 0, len(stats))
		for _, s := range stats {
			parts = append(parts, s.Label+"="+strconv.Itoa(s.Value))
		}
		aids = append(aids, VisualAid{
			ID:   aidID(AidTypeStatsCard, len(aids), parts),
			Type: AidTypeStatsCard,
			Content: map[string]interface{}{
				"stats": stats,
			},
			Order: len(aids),
		})
	}

	return aids
}

// extractSteps collects "Step N: text" occurrences; fewer than two is
// treated as prose, not a procedure.
func extractSteps(text string) []string {
	matches := stepPattern.FindAllStringSubmatch(text, -1)
	if len(matches) < 2 {
		return nil
	}
	steps := make([]string, 0, len(matches))
	for _, m := range matches {
		steps = append(steps, strings.TrimSpace(m[2]))
	}
	return steps
}

// extractNumberedList collects "N. text" lines; it needs three to avoid
// firing on incidental enumerations.
func extractNumberedList(text string) []string {
	matches := numberedPattern.FindAllStringSubmatch(text, -1)
	if len(matches) < 3 {
		return nil
	}
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, strings.TrimSpace(m[2]))
	}
	return items
}

type statEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

func extractStats(text string) []statEntry {
	matches := statPattern.FindAllStringSubmatch(text, -1)
	if len(matches) < 2 {
		return nil
	}
	stats := make([]statEntry, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		stats = append(stats, statEntry{Label: strings.TrimSpace(m[1]), Value: value})
	}
	if len(stats) < 2 {
		return nil
	}
	return stats
}

func stepCard(steps []string, showProgress bool, order int) VisualAid {
	return VisualAid{
		ID:   aidID(AidTypeStepCard, order, steps),
		Type: AidTypeStepCard,
		Content: map[string]interface{}{
			"steps":        steps,
			"showProgress": showProgress,
		},
		Order: order,
	}
}
