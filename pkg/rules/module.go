// Package rules contains the gameplay modules. Each module owns one
// slice of the rules, layered over the shared state store, and claims
// its actions through the Module contract.
package rules

import "github.com/jwebster45206/grid-engine/pkg/action"

// Module is the capability interface every gameplay system implements.
// The router dispatches each action to the first registered module
// whose CanHandle returns true.
type Module interface {
	// CanHandle is a pure predicate over the action's type tag.
	// It must not mutate state.
	CanHandle(a action.Action) bool

	// Process performs the effect and reports success. A returned
	// error is a module fault: the router logs it and keeps scanning
	// for another handler. (false, nil) means the module claimed the
	// action and rejected it; routing stops there.
	Process(a action.Action) (bool, error)

	// AvailableActions enumerates the currently legal actions for a
	// character, reflecting live resource state.
	AvailableActions(characterID string) []action.Descriptor
}
