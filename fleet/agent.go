// Package fleet owns the Agent data model and the empty-agent registry.
package fleet

import "github.com/ridefleet-sim/ridefleet/roadnet"

// State is the agent's position in its lifecycle state machine.
type State int

const (
	// Searching: agent is empty and cruising, a member of the empty-agents registry.
	Searching State = iota
	// Approaching: agent has been reserved for a resource and is traveling to pickup.
	Approaching
	// Occupied: agent has picked up its resource and is traveling to dropoff.
	Occupied
)

func (s State) String() string {
	switch s {
	case Searching:
		return "Searching"
	case Approaching:
		return "Approaching"
	case Occupied:
		return "Occupied"
	default:
		return "Unknown"
	}
}

// ID identifies an Agent, stable for the run.
type ID int64

// Agent models a single driver/vehicle.
type Agent struct {
	ID              ID
	Loc             roadnet.LocationOnRoad
	State           State
	SearchStartTime int64

	// Generation is bumped every time the agent transitions state; a
	// pending AgentMove event captures the generation it was scheduled
	// under, and the dispatcher discards the event if the agent's
	// generation has since advanced.
	Generation uint64

	// ResourceID is set while Approaching/Occupied, identifying which
	// resource this agent is servicing. Unused (zero value) while Searching.
	ResourceID int64

	// StrategyState is opaque state owned by the external search
	// strategy; the kernel never reads or mutates its contents.
	StrategyState any
}

// NewAgent creates an Agent in the Searching state at loc, as agents are
// at t=0.
func NewAgent(id ID, loc roadnet.LocationOnRoad, startTime int64) *Agent {
	return &Agent{
		ID:              id,
		Loc:             loc,
		State:           Searching,
		SearchStartTime: startTime,
	}
}

// EnterSearching transitions the agent to Searching at loc, as happens
// at simulation start and after every dropoff. Bumps Generation so any
// stale pending event for the prior state is discarded when popped.
func (a *Agent) EnterSearching(now int64, loc roadnet.LocationOnRoad) {
	a.State = Searching
	a.Loc = loc
	a.SearchStartTime = now
	a.ResourceID = 0
	a.Generation++
}

// Reserve transitions the agent from Searching to Approaching for
// resourceID, as happens when the dispatcher applies a match result.
func (a *Agent) Reserve(resourceID int64) {
	a.State = Approaching
	a.ResourceID = resourceID
	a.Generation++
}

// ArriveAtResource transitions the agent from Approaching to Occupied.
func (a *Agent) ArriveAtResource(loc roadnet.LocationOnRoad) {
	a.State = Occupied
	a.Loc = loc
	a.Generation++
}

// SearchStrategy is the external, consumed capability that decides where
// an empty agent cruises. Implementations must be deterministic for a
// given seed and must not mutate the Map they are given.
type SearchStrategy interface {
	// NextIntersection picks the next intersection for agent to move
	// toward from its current intersection. Must return either an
	// intersection adjacent to current or current itself, which leaves the
	// agent idle; any other intersection is a StrategyError.
	NextIntersection(agent *Agent, current roadnet.Intersection, m roadnet.Map) roadnet.Intersection
	// OnAssignment is an optional notification hook, called after an
	// agent is reserved for a resource. May be a no-op.
	OnAssignment(agent *Agent, resourceID int64)
}
