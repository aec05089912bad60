package models

import (
	"fmt"
	"strings"
)

// Quadrant is one cell of the Eisenhower matrix
type Quadrant string

const (
	QuadrantDoFirst   Quadrant = "q1" // important & urgent
	QuadrantSchedule  Quadrant = "q2" // important & not urgent
	QuadrantDelegate  Quadrant = "q3" // not important & urgent
	QuadrantEliminate Quadrant = "q4" // not important & not urgent
)

// Quadrants lists all quadrants in board order
var Quadrants = []Quadrant{QuadrantDoFirst, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate}

// QuadrantOf maps the two flags to exactly one quadrant
func QuadrantOf(isImportant, isUrgent bool) Quadrant {
	switch {
	case isImportant && isUrgent:
		return QuadrantDoFirst
	case isImportant:
		return QuadrantSchedule
	case isUrgent:
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}

// Flags is the inverse of QuadrantOf
func (q Quadrant) Flags() (isImportant, isUrgent bool) {
	switch q {
	case QuadrantDoFirst:
		return true, true
	case QuadrantSchedule:
		return true, false
	case QuadrantDelegate:
		return false, true
	default:
		return false, false
	}
}

// Valid reports whether q is one of the four quadrants
func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantDoFirst, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate:
		return true
	}
	return false
}

// Index returns the zero-based board position (q1=0 ... q4=3)
func (q Quadrant) Index() int {
	for i, candidate := range Quadrants {
		if candidate == q {
			return i
		}
	}
	return -1
}

// ParseQuadrant accepts q1..q4 in any case
func ParseQuadrant(s string) (Quadrant, error) {
	q := Quadrant(strings.ToLower(strings.TrimSpace(s)))
	if !q.Valid() {
		return "", fmt.Errorf("invalid quadrant '%s'. Use: q1, q2, q3 or q4", s)
	}
	return q, nil
}

// Matrix holds the four quadrant views of a task collection
type Matrix struct {
	DoFirst   []Task `json:"q1"`
	Schedule  []Task `json:"q2"`
	Delegate  []Task `json:"q3"`
	Eliminate []Task `json:"q4"`
}

// Get returns the view for q
func (m Matrix) Get(q Quadrant) []Task {
	switch q {
	case QuadrantDoFirst:
		return m.DoFirst
	case QuadrantSchedule:
		return m.Schedule
	case QuadrantDelegate:
		return m.Delegate
	case QuadrantEliminate:
		return m.Eliminate
	}
	return nil
}

// Partition splits tasks by quadrant, keeping input order. The input is not modified.
func Partition(tasks []Task) Matrix {
	m := Matrix{
		DoFirst:   []Task{},
		Schedule:  []Task{},
		Delegate:  []Task{},
		Eliminate: []Task{},
	}
	for _, t := range tasks {
		c := t.Clone()
		switch c.Quadrant() {
		case QuadrantDoFirst:
			m.DoFirst = append(m.DoFirst, c)
		case QuadrantSchedule:
			m.Schedule = append(m.Schedule, c)
		case QuadrantDelegate:
			m.Delegate = append(m.Delegate, c)
		default:
			m.Eliminate = append(m.Eliminate, c)
		}
	}
	return m
}
