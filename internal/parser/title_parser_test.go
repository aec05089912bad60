package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/tempus/internal/models"
)

func TestParseCapture(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		text      string
		important bool
		urgent    bool
		quadrant  models.Quadrant
		errors    int
	}{
		{name: "plain", input: "Buy milk", text: "Buy milk"},
		{name: "long flags", input: "Finish report +important +urgent", text: "Finish report", important: true, urgent: true},
		{name: "short flags", input: "+i call mom +u", text: "call mom", important: true, urgent: true},
		{name: "abbreviated", input: "Plan sprint +IMP", text: "Plan sprint", important: true},
		{name: "quadrant", input: "Answer email @q3", text: "Answer email", urgent: true, quadrant: models.QuadrantDelegate},
		{name: "quadrant wins", input: "Sort photos +important +urgent @q4", text: "Sort photos", quadrant: models.QuadrantEliminate},
		{name: "unknown flag", input: "Read +later", text: "Read", errors: 1},
		{name: "invalid quadrant", input: "Read @q9", text: "Read", errors: 1},
		{name: "conflicting quadrants", input: "Read @q1 @q2", text: "Read", important: true, urgent: true, quadrant: models.QuadrantDoFirst, errors: 1},
		{name: "embedded symbols kept", input: "Fix a+b in me@q1.dev", text: "Fix a+b in me@q1.dev"},
		{name: "whitespace collapsed", input: "  Many   spaces  +u ", text: "Many spaces", urgent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCapture(tt.input)

			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.important, got.IsImportant)
			assert.Equal(t, tt.urgent, got.IsUrgent)
			assert.Equal(t, tt.quadrant, got.Quadrant)
			assert.Len(t, got.Errors, tt.errors)
		})
	}
}

func TestCapture_QuadrantOf(t *testing.T) {
	assert.Equal(t, models.QuadrantSchedule, ParseCapture("Learn Go +i").QuadrantOf())
	assert.Equal(t, models.QuadrantEliminate, ParseCapture("Scroll feeds").QuadrantOf())
}
