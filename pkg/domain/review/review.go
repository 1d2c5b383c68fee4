// Package review filters story collections by status and summarises them.
// Everything here is a pure function over its input.
package review

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Selector picks a subset of stories by status.
type Selector string

const (
	SelectAll       Selector = "all"
	SelectNew       Selector = "new"
	SelectApproved  Selector = "approved"
	SelectRejected  Selector = "rejected"
	SelectPublished Selector = "published"
)

// AllSelectors returns the selectors in tab order.
func AllSelectors() []Selector {
	return []Selector{SelectAll, SelectNew, SelectApproved, SelectRejected, SelectPublished}
}

// ParseSelector parses a selector name case-insensitively. The empty string
// selects all stories.
func ParseSelector(name string) (Selector, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SelectAll, nil
	}
	for _, s := range AllSelectors() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", story.NewValidationError("status",
		fmt.Sprintf("unknown filter %q (want all, new, approved, rejected or published)", name))
}

// Classify returns the single status selector a story falls under.
func Classify(st story.Story) Selector {
	switch st.Status {
	case story.StatusApproved:
		return SelectApproved
	case story.StatusRejected:
		return SelectRejected
	case story.StatusPublished:
		return SelectPublished
	default:
		return SelectNew
	}
}

// Matches reports whether st falls under the selector.
func (s Selector) Matches(st story.Story) bool {
	if s == SelectAll {
		return true
	}
	return Classify(st) == s
}

// Filter returns the stories matching the selector, in input order.
func Filter(stories []story.Story, sel Selector) []story.Story {
	out := make([]story.Story, 0, len(stories))
	for _, st := range stories {
		if sel.Matches(st) {
			out = append(out, st)
		}
	}
	return out
}

// Counts summarises a collection. New+Approved+Rejected+Published == Total.
type Counts struct {
	Total     int `json:"total" yaml:"total"`
	New       int `json:"new" yaml:"new"`
	Approved  int `json:"approved" yaml:"approved"`
	Rejected  int `json:"rejected" yaml:"rejected"`
	Published int `json:"published" yaml:"published"`
}

// Aggregate counts stories per status.
func Aggregate(stories []story.Story) Counts {
	c := Counts{Total: len(stories)}
	for _, st := range stories {
		switch Classify(st) {
		case SelectApproved:
			c.Approved++
		case SelectRejected:
			c.Rejected++
		case SelectPublished:
			c.Published++
		default:
			c.New++
		}
	}
	return c
}

// Of returns the count for a single selector.
func (c Counts) Of(sel Selector) int {
	switch sel {
	case SelectNew:
		return c.New
	case SelectApproved:
		return c.Approved
	case SelectRejected:
		return c.Rejected
	case SelectPublished:
		return c.Published
	default:
		return c.Total
	}
}
