// internal/ai/annotator_test.go
package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotate_StepPattern(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		expectedAids int
		expectedType string
		validateAids func(t *testing.T, aids []VisualAid)
	}{
		{
			name:         "two step markers produce one step card with progress",
			text:         "Step 1: Pick an event.\nStep 2: Add a division.",
			expectedAids: 1,
			expectedType: AidTypeStepCard,
			validateAids: func(t *testing.T, aids []VisualAid) {
				steps := aids[0].Content["steps"].([]string)
				assert.Equal(t, []string{"Pick an event.", "Add a division."}, steps)
				assert.Equal(t, true, aids[0].Content["showProgress"])
			},
		},
		{
			name:         "single step marker is prose",
			text:         "Step 1: this is the only step mentioned.",
			expectedAids: 0,
		},
		{
			name:         "numbered list of three produces step card without progress",
			text:         "Here is how:\n1. Open the console.\n2. Pick the event.\n3. Run the command.",
			expectedAids: 1,
			expectedType: AidTypeStepCard,
			validateAids: func(t *testing.T, aids []VisualAid) {
				steps := aids[0].Content["steps"].([]string)
				assert.Len(t, steps, 3)
				assert.Equal(t, false, aids[0].Content["showProgress"])
			},
		},
		{
			name:         "numbered list of two is not enough",
			text:         "1. first\n2. second",
			expectedAids: 0,
		},
		{
			name:         "step markers win over numbered list",
			text:         "Step 1: a\nStep 2: b\n1. x\n2. y\n3. z",
			expectedAids: 1,
			expectedType: AidTypeStepCard,
			validateAids: func(t *testing.T, aids []VisualAid) {
				assert.Equal(t, true, aids[0].Content["showProgress"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aids := Annotate(tt.text)

			assert.Len(t, aids, tt.expectedAids)
			if tt.expectedAids > 0 {
				assert.Equal(t, tt.expectedType, aids[0].Type)
				assert.NotEmpty(t, aids[0].ID)
				assert.Equal(t, 0, aids[0].Order)
			}
			if tt.validateAids != nil {
				tt.validateAids(t, aids)
			}
		})
	}
}

func TestAnnotate_StatsPattern(t *testing.T) {
	text := "Event summary:\n**Participants**: 12\n**Entries**: 30\n**Votes**: 245"

	aids := Annotate(text)

	assert.Len(t, aids, 1)
	assert.Equal(t, AidTypeStatsCard, aids[0].Type)
	stats := aids[0].Content["stats"].([]statEntry)
	assert.Equal(t, []statEntry{
		{Label: "Participants", Value: 12},
		{Label: "Entries", Value: 30},
		{Label: "Votes", Value: 245},
	}, stats)
}

func TestAnnotate_SingleStatIsProse(t *testing.T) {
	aids := Annotate("**Total**: 42 is the only figure here.")
	assert.Empty(t, aids)
}

func TestAnnotate_StatsCoexistWithSteps(t *testing.T) {
	text := "Step 1: count things.\nStep 2: report.\n**Counted**: 5\n**Reported**: 5"

	aids := Annotate(text)

	assert.Len(t, aids, 2)
	assert.Equal(t, AidTypeStepCard, aids[0].Type)
	assert.Equal(t, AidTypeStatsCard, aids[1].Type)
	assert.Equal(t, 0, aids[0].Order)
	assert.Equal(t, 1, aids[1].Order)
}

func TestAnnotate_Idempotent(t *testing.T) {
	text := "Step 1: one.\nStep 2: two.\n**A**: 1\n**B**: 2"

	first := Annotate(text)
	second := Annotate(text)

	// IDs are derived from the content, so the aids match exactly.
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)

	// Different text yields different IDs.
	other := Annotate("Step 1: alpha.\nStep 2: beta.")
	assert.NotEqual(t, first[0].ID, other[0].ID)
}

func TestAnnotate_PlainProse(t *testing.T) {
	aids := Annotate("The active event is the Autumn Brew Cup with three divisions.")
	assert.Empty(t, aids)
}
