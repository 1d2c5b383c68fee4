package story

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/statekit"
)

// Event names a review transition.
type Event string

// Event names as untyped constants for the statekit builder.
const (
	eventApprove = "approve"
	eventReject  = "reject"
	eventPublish = "publish"
)

const (
	EventApprove Event = eventApprove
	EventReject  Event = eventReject
	EventPublish Event = eventPublish
)

// Target returns the status an event leads to.
func (e Event) Target() (Status, bool) {
	switch e {
	case EventApprove:
		return StatusApproved, true
	case EventReject:
		return StatusRejected, true
	case EventPublish:
		return StatusPublished, true
	default:
		return StatusNew, false
	}
}

// ParseEvent parses an event name such as "approve".
func ParseEvent(str string) (Event, error) {
	e := Event(strings.ToLower(strings.TrimSpace(str)))
	if _, ok := e.Target(); !ok {
		return "", fmt.Errorf("unknown review event: %q", str)
	}
	return e, nil
}

// State names for statekit. They must match Status.String().
const (
	StateNew       = "New"
	StateApproved  = "Approved"
	StateRejected  = "Rejected"
	StatePublished = "Published"
)

func init() {
	stateMap := map[string]Status{
		StateNew:       StatusNew,
		StateApproved:  StatusApproved,
		StateRejected:  StatusRejected,
		StatePublished: StatusPublished,
	}
	for state, status := range stateMap {
		if state != status.String() {
			panic(fmt.Sprintf("FSM state %q does not match Status %q", state, status))
		}
	}
}

// ReviewContext carries the story being reviewed through the machine.
type ReviewContext struct {
	StoryID string
	Guard   func(storyID string, event Event) bool
}

// StateMachine drives a single story through its review transitions.
type StateMachine struct {
	storyID     string
	interpreter *statekit.Interpreter[ReviewContext]
}

// NewStateMachine builds a machine starting at current. The optional guard can
// veto approve and publish, for example to enforce a reviewer policy.
func NewStateMachine(current Status, storyID string, guard func(string, Event) bool) (*StateMachine, error) {
	if !current.IsValid() {
		return nil, fmt.Errorf("invalid initial status: %s", current)
	}
	if guard == nil {
		guard = func(string, Event) bool { return true }
	}

	builder := statekit.NewMachine[ReviewContext]("story-review").
		WithInitial(statekit.StateID(current.String())).
		WithContext(ReviewContext{
			StoryID: storyID,
			Guard:   guard,
		}).
		WithGuard("canApprove", func(ctx ReviewContext, e statekit.Event) bool {
			return ctx.Guard(ctx.StoryID, EventApprove)
		}).
		WithGuard("canPublish", func(ctx ReviewContext, e statekit.Event) bool {
			return ctx.Guard(ctx.StoryID, EventPublish)
		})

	builder.State(StateNew).
		On(eventApprove).Target(StateApproved).Guard("canApprove").
		On(eventReject).Target(StateRejected).
		On(eventPublish).Target(StatePublished).Guard("canPublish").
		Done()

	builder.State(StateApproved).
		On(eventReject).Target(StateRejected).
		On(eventPublish).Target(StatePublished).Guard("canPublish").
		Done()

	builder.State(StateRejected).
		On(eventApprove).Target(StateApproved).Guard("canApprove").
		On(eventPublish).Target(StatePublished).Guard("canPublish").
		Done()

	// Published has no outgoing transitions.
	builder.State(StatePublished).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build story state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &StateMachine{storyID: storyID, interpreter: interpreter}, nil
}

// Fire applies an event. Re-approving an approved story and re-rejecting a
// rejected one are no-ops. Any event on a published story fails with
// AlreadyPublishedError.
func (sm *StateMachine) Fire(event Event) (Status, error) {
	before := sm.Current()
	if before.IsTerminal() {
		return before, &AlreadyPublishedError{ID: sm.storyID}
	}
	if target, ok := event.Target(); ok && target == before {
		return before, nil
	}

	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()
	if after == before {
		return before, &TransitionError{ID: sm.storyID, From: before, Event: event}
	}
	return after, nil
}

// Current returns the machine's status.
func (sm *StateMachine) Current() Status {
	s, err := ParseStatus(string(sm.interpreter.State().Value))
	if err != nil {
		return StatusNew
	}
	return s
}

// Transition runs event against s and returns the resulting status.
func Transition(s Status, storyID string, event Event) (Status, error) {
	sm, err := NewStateMachine(s, storyID, nil)
	if err != nil {
		return s, err
	}
	return sm.Fire(event)
}
