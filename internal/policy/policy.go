// Package policy decides which shipment status transitions are allowed.
// The default policy permits any transition, matching the historical
// behaviour of the service; a table-driven policy can be loaded from a
// JSON file to tighten this without code changes.
package policy

import (
	"shiptrack/internal/model"
)

// TransitionPolicy reports whether a shipment may move between two statuses.
type TransitionPolicy interface {
	Allowed(from, to model.ShipmentStatus) bool
}

// allowAll permits every transition, including no-op transitions.
type allowAll struct{}

// AllowAll returns the permissive default policy.
func AllowAll() TransitionPolicy {
	return allowAll{}
}

func (allowAll) Allowed(_, _ model.ShipmentStatus) bool {
	return true
}

// tablePolicy permits only the transitions listed in its table. A
// same-status transition is always allowed since it is a persisted no-op.
type tablePolicy struct {
	allowed map[model.ShipmentStatus]map[model.ShipmentStatus]bool
}

// NewTablePolicy builds a policy from an explicit transition table.
func NewTablePolicy(transitions map[model.ShipmentStatus][]model.ShipmentStatus) TransitionPolicy {
	allowed := make(map[model.ShipmentStatus]map[model.ShipmentStatus]bool, len(transitions))
	for from, tos := range transitions {
		targets := make(map[model.ShipmentStatus]bool, len(tos))
		for _, to := range tos {
			targets[to] = true
		}
		allowed[from] = targets
	}
	return &tablePolicy{allowed: allowed}
}

func (p *tablePolicy) Allowed(from, to model.ShipmentStatus) bool {
	if from == to {
		return true
	}
	return p.allowed[from][to]
}
