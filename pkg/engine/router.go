// Package engine wires the gameplay modules behind a single action
// pipeline and drives the turn loop.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/rules"
)

// Router dispatches actions to registered modules in registration
// order. A module error is contained: the router logs it and keeps
// scanning for another handler, so one faulty module cannot take the
// pipeline down.
type Router struct {
	modules []rules.Module
	log     *slog.Logger
}

func NewRouter(log *slog.Logger) *Router {
	return &Router{
		modules: make([]rules.Module, 0),
		log:     log,
	}
}

// Register appends a module. Registration order is dispatch order.
func (r *Router) Register(m rules.Module) {
	r.modules = append(r.modules, m)
	r.log.Debug("registered module", "module", fmt.Sprintf("%T", m))
}

// Route sends the action to the first module that claims it. A claimed
// rejection (false, nil) stops routing; only errors fall through to
// later modules. Unclaimed actions are logged and fail.
func (r *Router) Route(a action.Action) bool {
	for _, m := range r.modules {
		if !m.CanHandle(a) {
			continue
		}
		ok, err := m.Process(a)
		if err != nil {
			r.log.Error("module failed processing action",
				"module", fmt.Sprintf("%T", m),
				"action", a.Type,
				"error", err)
			continue
		}
		if ok {
			r.log.Debug("action processed", "action", a.Type, "module", fmt.Sprintf("%T", m))
		}
		return ok
	}
	r.log.Warn("no module claimed action", "action", a.Type)
	return false
}

// AvailableActions concatenates every module's legal actions for a
// character, in registration order.
func (r *Router) AvailableActions(characterID string) []action.Descriptor {
	out := make([]action.Descriptor, 0)
	for _, m := range r.modules {
		out = append(out, m.AvailableActions(characterID)...)
	}
	return out
}
