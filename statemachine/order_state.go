package statemachine

import (
	"resto-pos-api/models"
)

// Transition defines a valid state change
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the authoritative state machine definition. Statuses
// move strictly forward one step at a time — skip-ahead (e.g. PENDING
// straight to PREPARING) is rejected. CANCELLED is reachable from any
// non-terminal state.
var validTransitions = []Transition{
	{From: models.StatusPending, To: models.StatusConfirmed},
	{From: models.StatusConfirmed, To: models.StatusPreparing},
	{From: models.StatusPreparing, To: models.StatusReady},
	{From: models.StatusReady, To: models.StatusCompleted},
	{From: models.StatusPending, To: models.StatusCancelled},
	{From: models.StatusConfirmed, To: models.StatusCancelled},
	{From: models.StatusPreparing, To: models.StatusCancelled},
	{From: models.StatusReady, To: models.StatusCancelled},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks if an order can move from one state to another
func CanTransition(from, to models.OrderStatus) error {
	if transitionMap[transitionKey{From: from, To: to}] {
		return nil
	}
	return models.Conflict(
		"invalid transition: %s → %s is not allowed. Valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
