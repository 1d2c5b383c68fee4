package story

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority ranks a story for planning.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is used for new editor input.
const DefaultPriority = PriorityMedium

// AllPriorities returns the priorities from highest to lowest.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is High, Medium or Low.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

// Rank orders priorities, High first. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority parses user input case-insensitively into a canonical Priority.
func ParsePriority(str string) (Priority, error) {
	str = strings.TrimSpace(str)
	for _, p := range AllPriorities() {
		if strings.EqualFold(string(p), str) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q", str)
}

// Points is a story-point estimate from the closed set 1, 2, 3, 5, 8.
type Points int

// DefaultPoints is used for new editor input.
const DefaultPoints Points = 3

var allowedPoints = []Points{1, 2, 3, 5, 8}

// AllowedPoints returns the allowed estimates in ascending order.
func AllowedPoints() []Points {
	out := make([]Points, len(allowedPoints))
	copy(out, allowedPoints)
	return out
}

// IsValid returns true if p is one of the allowed estimates.
func (p Points) IsValid() bool {
	for _, a := range allowedPoints {
		if a == p {
			return true
		}
	}
	return false
}

// ParsePoints parses an estimate such as "5".
func ParsePoints(str string) (Points, error) {
	str = strings.TrimSpace(str)
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid story points: %q", str)
	}
	p := Points(n)
	if !p.IsValid() {
		return 0, fmt.Errorf("story points must be one of %v, got %d", allowedPoints, n)
	}
	return p, nil
}
