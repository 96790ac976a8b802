package planning

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// statekit state IDs. They must stay equal to the ItemStatus values.
const (
	StatePending    = "pending"
	StateInProgress = "in-progress"
	StateCompleted  = "completed"
	StateOverdue    = "overdue"
)

func init() {
	stateMap := map[string]ItemStatus{
		StatePending:    StatusPending,
		StateInProgress: StatusInProgress,
		StateCompleted:  StatusCompleted,
		StateOverdue:    StatusOverdue,
	}
	for fsmState, status := range stateMap {
		if fsmState != string(status) {
			panic(fmt.Sprintf("FSM state %q does not match ItemStatus %q", fsmState, status))
		}
	}
}

// ItemContext is the statekit context for one item.
type ItemContext struct {
	ItemID string
}

// ItemStateMachine drives status changes for a single work item.
type ItemStateMachine struct {
	interpreter *statekit.Interpreter[ItemContext]
}

// NewItemStateMachine builds a machine positioned at the item's current status.
func NewItemStateMachine(itemID string, current ItemStatus) (*ItemStateMachine, error) {
	if !current.IsValid() {
		return nil, fmt.Errorf("invalid item status: %s", current)
	}

	builder := statekit.NewMachine[ItemContext]("item-machine").
		WithInitial(statekit.StateID(current)).
		WithContext(ItemContext{ItemID: itemID})

	builder.State(StatePending).
		On(EventStart).Target(StateInProgress).
		On(EventComplete).Target(StateCompleted).
		On(EventLapse).Target(StateOverdue).
		Done()

	builder.State(StateInProgress).
		On(EventComplete).Target(StateCompleted).
		On(EventLapse).Target(StateOverdue).
		On(EventPause).Target(StatePending).
		Done()

	builder.State(StateOverdue).
		On(EventStart).Target(StateInProgress).
		On(EventComplete).Target(StateCompleted).
		Done()

	builder.State(StateCompleted).
		On(EventReopen).Target(StatePending).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build item state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ItemStateMachine{interpreter: interpreter}, nil
}

// Transition fires event and reports ErrInvalidTransition when the state
// does not move.
func (sm *ItemStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return fmt.Errorf("%w: '%s' is not allowed while the item is '%s'", ErrInvalidTransition, event, before)
}

// Current returns the current status.
func (sm *ItemStateMachine) Current() ItemStatus {
	return ItemStatus(sm.interpreter.State().Value)
}
