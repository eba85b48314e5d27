package enums

import "fmt"

// DispatchState tracks a checkout session through payment dispatch.
// IDLE -> DISPATCHING -> {AWAITING_GATEWAY | IMMEDIATE_RESULT} -> {SUCCEEDED | FAILED}.
type DispatchState string

const (
	DispatchStateIdle            DispatchState = "IDLE"
	DispatchStateDispatching     DispatchState = "DISPATCHING"
	DispatchStateAwaitingGateway DispatchState = "AWAITING_GATEWAY"
	DispatchStateImmediateResult DispatchState = "IMMEDIATE_RESULT"
	DispatchStateSucceeded       DispatchState = "SUCCEEDED"
	DispatchStateFailed          DispatchState = "FAILED"
)

var validDispatchStates = []DispatchState{
	DispatchStateIdle,
	DispatchStateDispatching,
	DispatchStateAwaitingGateway,
	DispatchStateImmediateResult,
	DispatchStateSucceeded,
	DispatchStateFailed,
}

var dispatchTransitions = map[DispatchState][]DispatchState{
	DispatchStateIdle:            {DispatchStateDispatching},
	DispatchStateDispatching:     {DispatchStateAwaitingGateway, DispatchStateImmediateResult, DispatchStateFailed},
	DispatchStateAwaitingGateway: {DispatchStateSucceeded, DispatchStateFailed},
	DispatchStateImmediateResult: {DispatchStateSucceeded, DispatchStateFailed},
	// FAILED returns to IDLE when the user explicitly retries from the cart.
	DispatchStateFailed: {DispatchStateIdle},
}

// String implements fmt.Stringer.
func (d DispatchState) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DispatchState.
func (d DispatchState) IsValid() bool {
	for _, candidate := range validDispatchStates {
		if candidate == d {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the state machine permits the move.
func (d DispatchState) CanTransitionTo(next DispatchState) bool {
	for _, candidate := range dispatchTransitions[d] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session has reached a final payment outcome.
func (d DispatchState) IsTerminal() bool {
	return d == DispatchStateSucceeded
}

// ParseDispatchState converts raw input into a DispatchState.
func ParseDispatchState(value string) (DispatchState, error) {
	for _, candidate := range validDispatchStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch state %q", value)
}
