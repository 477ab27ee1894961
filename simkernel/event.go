// Package simkernel implements the discrete-event simulation kernel:
// the event queue, the event variants, and the Simulator event loop that
// dispatches them.
package simkernel

import (
	"github.com/ridefleet-sim/ridefleet/fleet"
	"github.com/ridefleet-sim/ridefleet/requests"
	"github.com/ridefleet-sim/ridefleet/roadnet"
)

// Event is the common interface for every variant in the simulation.
type Event interface {
	Timestamp() int64
	// Execute runs the event's handler against the simulator, mutating
	// simulator state and scheduling any follow-up events.
	Execute(s *Simulator)
}

// AgentMoveEvent fires when an agent finishes traversing a road; the
// next intersection is chosen by the external search strategy.
type AgentMoveEvent struct {
	time       int64
	AgentID    fleet.ID
	Generation uint64 // agent's Generation at schedule time; stale if mismatched on pop
}

func (e *AgentMoveEvent) Timestamp() int64 { return e.time }

// Execute implements Event. Lazily discards itself if the agent's
// generation has advanced since this event was scheduled.
func (e *AgentMoveEvent) Execute(s *Simulator) {
	agent := s.Agents.Get(e.AgentID)
	if agent == nil || agent.Generation != e.Generation || agent.State != fleet.Searching {
		return // stale: cancelled by a later reservation or state change
	}
	agent.Loc = roadnet.AtIntersection(agent.Loc.Road.To)
	s.scheduleNextMove(agent)
}

// ResourceAnnounceEvent fires when a resource becomes available.
type ResourceAnnounceEvent struct {
	time       int64
	ResourceID requests.ID
}

func (e *ResourceAnnounceEvent) Timestamp() int64 { return e.time }

// Execute implements Event. Hands the arrival to the batching window.
func (e *ResourceAnnounceEvent) Execute(s *Simulator) {
	s.onResourceArrival(e.ResourceID)
}

// ResourceExpireEvent is a synthetic event scheduled when a waiting
// resource's batch exit makes expiration inevitable. Its time is the resource's absolute expiration_time,
// or the current clock when the window closes after that instant.
type ResourceExpireEvent struct {
	time       int64
	ResourceID requests.ID
}

func (e *ResourceExpireEvent) Timestamp() int64 { return e.time }

// Execute implements Event. Counts one expiration only if the resource
// is still Waiting; a resource matched between scheduling and this pop
// is a no-op here.
func (e *ResourceExpireEvent) Execute(s *Simulator) {
	if s.Resources.ExpireIfWaiting(e.ResourceID) {
		s.Scoreboard.RecordExpiration()
	}
}

// WindowCloseEvent fires a batching window's horizon by simulated time
// rather than waiting for the next resource's arrival, so a window
// still closes (and its resources get a chance to match) even when no
// further resource ever arrives to trigger the overflow rule.
type WindowCloseEvent struct {
	time  int64
	Epoch int64 // window epoch at schedule time; stale if the window has since moved on
}

func (e *WindowCloseEvent) Timestamp() int64 { return e.time }

// Execute implements Event. A no-op if the window already closed or
// reopened (by an overflow arrival or an earlier timer) since this was
// scheduled.
func (e *WindowCloseEvent) Execute(s *Simulator) {
	if !s.Window.IsOpen() || s.Window.Epoch() != e.Epoch {
		return
	}
	s.closeAndReopenIfCarried()
}

// AgentArriveAtResourceEvent fires when an approaching agent reaches its
// reserved resource's pickup point.
type AgentArriveAtResourceEvent struct {
	time       int64
	AgentID    fleet.ID
	ResourceID requests.ID
	PickupTime int64 // P, the travel time computed at reservation
}

func (e *AgentArriveAtResourceEvent) Timestamp() int64 { return e.time }

// Execute implements Event.
func (e *AgentArriveAtResourceEvent) Execute(s *Simulator) {
	agent := s.Agents.Get(e.AgentID)
	res := s.Resources.Get(e.ResourceID)
	if agent == nil || res == nil {
		panic("simkernel: AgentArriveAtResourceEvent references unknown agent or resource")
	}
	agent.ArriveAtResource(res.PickupLoc)
	s.Scoreboard.RecordApproach(e.PickupTime)
	s.Scoreboard.RecordWait(e.time - res.AnnounceTime)
	s.Scoreboard.RecordTrip(res.TripDuration)
	s.Schedule(&AgentArriveAtDropoffEvent{
		time:       e.time + res.TripDuration,
		AgentID:    agent.ID,
		ResourceID: res.ID,
	})
}

// AgentArriveAtDropoffEvent fires when an occupied agent completes its
// trip; the agent re-enters Searching at the dropoff location.
type AgentArriveAtDropoffEvent struct {
	time       int64
	AgentID    fleet.ID
	ResourceID requests.ID
}

func (e *AgentArriveAtDropoffEvent) Timestamp() int64 { return e.time }

// Execute implements Event.
func (e *AgentArriveAtDropoffEvent) Execute(s *Simulator) {
	agent := s.Agents.Get(e.AgentID)
	res := s.Resources.Get(e.ResourceID)
	if agent == nil || res == nil {
		panic("simkernel: AgentArriveAtDropoffEvent references unknown agent or resource")
	}
	// The agent's dropoff position may sit mid-road; snap its Searching
	// position to the road's terminal intersection. Precise in-trip
	// geospatial position is not needed once the agent is empty again.
	agent.EnterSearching(e.time, roadnet.AtIntersection(res.DropoffLoc.Road.To))
	s.Agents.MarkEmpty(agent.ID)
	s.scheduleNextMove(agent)
}
