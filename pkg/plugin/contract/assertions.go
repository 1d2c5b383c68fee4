// Package contract provides contract test assertions for storyreview tracker plugins.
package contract

import (
	"fmt"
	"net/url"

	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Result captures the outcome of a single contract assertion.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

func contractStory(id string) story.Story {
	return story.Story{
		ID:                 id,
		Title:              "Contract story " + id,
		UserStory:          "As a plugin author, I want a contract so that my tracker works.",
		AcceptanceCriteria: []string{"Work item is created"},
		StoryPoints:        story.DefaultPoints,
		Priority:           story.DefaultPriority,
		Status:             story.StatusApproved,
	}
}

// AssertInitSuccess verifies that Init succeeds with valid config.
func AssertInitSuccess(pub domainPlugin.Publisher) Result {
	err := pub.Init(map[string]string{"project": "test"})
	if err != nil {
		return Result{Name: "InitSuccess", Passed: false, Message: fmt.Sprintf("Init failed: %v", err)}
	}
	return Result{Name: "InitSuccess", Passed: true, Message: "Init succeeded"}
}

// AssertInitWithBadConfig verifies that Init returns an error for bad config.
func AssertInitWithBadConfig(pub domainPlugin.Publisher) Result {
	err := pub.Init(map[string]string{"fail": "true"})
	if err == nil {
		return Result{Name: "InitWithBadConfig", Passed: false, Message: "expected Init to fail with fail=true config"}
	}
	return Result{Name: "InitWithBadConfig", Passed: true, Message: fmt.Sprintf("Init correctly failed: %v", err)}
}

// AssertCreateWorkItem verifies a work item comes back with an id and an absolute URL.
func AssertCreateWorkItem(pub domainPlugin.Publisher) Result {
	if err := pub.Init(map[string]string{"project": "test"}); err != nil {
		return Result{Name: "CreateWorkItem", Passed: false, Message: fmt.Sprintf("Init failed: %v", err)}
	}
	item, err := pub.CreateWorkItem(contractStory("contract-1"))
	if err != nil {
		return Result{Name: "CreateWorkItem", Passed: false, Message: fmt.Sprintf("CreateWorkItem failed: %v", err)}
	}
	if item.ID == "" {
		return Result{Name: "CreateWorkItem", Passed: false, Message: "work item has no id"}
	}
	u, err := url.Parse(item.URL)
	if err != nil || !u.IsAbs() {
		return Result{Name: "CreateWorkItem", Passed: false, Message: fmt.Sprintf("work item URL %q is not absolute", item.URL)}
	}
	return Result{Name: "CreateWorkItem", Passed: true, Message: fmt.Sprintf("created %s", item.ID)}
}

// AssertDistinctWorkItems verifies two stories get two different work items.
func AssertDistinctWorkItems(pub domainPlugin.Publisher) Result {
	a, errA := pub.CreateWorkItem(contractStory("contract-2"))
	b, errB := pub.CreateWorkItem(contractStory("contract-3"))
	if errA != nil || errB != nil {
		return Result{Name: "DistinctWorkItems", Passed: false, Message: fmt.Sprintf("CreateWorkItem failed: %v %v", errA, errB)}
	}
	if a.ID == b.ID {
		return Result{Name: "DistinctWorkItems", Passed: false, Message: fmt.Sprintf("both stories got work item %s", a.ID)}
	}
	return Result{Name: "DistinctWorkItems", Passed: true, Message: fmt.Sprintf("created %s and %s", a.ID, b.ID)}
}

// AssertEmptyStory verifies the plugin handles a story without content.
func AssertEmptyStory(pub domainPlugin.Publisher) Result {
	_, err := pub.CreateWorkItem(story.Story{})
	if err == nil {
		// Some trackers accept empty titles; this is a soft check
		return Result{Name: "EmptyStory", Passed: true, Message: "empty story accepted (acceptable)"}
	}
	return Result{Name: "EmptyStory", Passed: true, Message: fmt.Sprintf("empty story rejected: %v", err)}
}
