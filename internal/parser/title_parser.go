package parser

import (
	"regexp"
	"strings"

	"github.com/balkashynov/tempus/internal/models"
)

// Capture represents a task parsed from a chat line
type Capture struct {
	Text        string
	IsImportant bool
	IsUrgent    bool
	Quadrant    models.Quadrant // set only by an explicit @qN marker
	Errors      []string
}

var (
	// markers must start a word so "a+b" or "me@q1.dev" stay part of the text
	flagRegex     = regexp.MustCompile(`(^|\s)\+([^\s]+)`)
	quadrantRegex = regexp.MustCompile(`(^|\s)@([qQ]\d+)\b`)
)

// ParseCapture extracts the quadrant from a task typed in free text
// Syntax: "Finish report +important +urgent" or "Finish report @q1"
func ParseCapture(input string) Capture {
	result := Capture{
		Errors: []string{},
	}

	// Extract flags (+important, +imp, +i, +urgent, +urg, +u)
	for _, match := range flagRegex.FindAllStringSubmatch(input, -1) {
		switch strings.ToLower(match[2]) {
		case "important", "imp", "i":
			result.IsImportant = true
		case "urgent", "urg", "u":
			result.IsUrgent = true
		default:
			result.Errors = append(result.Errors, "Unknown marker '+"+match[2]+"'. Use: +important or +urgent")
		}
	}
	// Remove from text
	input = flagRegex.ReplaceAllString(input, "$1")

	// Extract quadrant (@q1..@q4); it replaces whatever the flags said
	for _, match := range quadrantRegex.FindAllStringSubmatch(input, -1) {
		q, err := models.ParseQuadrant(match[2])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid quadrant '@"+match[2]+"'. Use: @q1, @q2, @q3 or @q4")
			continue
		}
		if result.Quadrant != "" && result.Quadrant != q {
			result.Errors = append(result.Errors, "Multiple quadrants given, using @"+string(result.Quadrant))
			continue
		}
		result.Quadrant = q
	}
	// Remove from text
	input = quadrantRegex.ReplaceAllString(input, "$1")

	if result.Quadrant != "" {
		result.IsImportant, result.IsUrgent = result.Quadrant.Flags()
	}

	// Clean up the text (remove extra spaces)
	result.Text = strings.Join(strings.Fields(input), " ")

	return result
}

// QuadrantOf reports where the capture will land
func (c Capture) QuadrantOf() models.Quadrant {
	return models.QuadrantOf(c.IsImportant, c.IsUrgent)
}
