package simkernel

import (
	"github.com/sirupsen/logrus"

	"github.com/ridefleet-sim/ridefleet/dispatch"
	"github.com/ridefleet-sim/ridefleet/fleet"
	"github.com/ridefleet-sim/ridefleet/match"
	"github.com/ridefleet-sim/ridefleet/requests"
	"github.com/ridefleet-sim/ridefleet/roadnet"
	"github.com/ridefleet-sim/ridefleet/scoreboard"
	"github.com/ridefleet-sim/ridefleet/simerr"
)

// Simulator is the core object holding simulated time, the event queue,
// the entity registries, and the batching/matching wiring.
type Simulator struct {
	Clock             int64
	SimulationEndTime int64
	Queue             *EventQueue
	Agents            *fleet.Registry
	Resources         *requests.Registry
	Window            *dispatch.Window
	Scoreboard        *scoreboard.Scoreboard
	Map               roadnet.Map
	Oracle            roadnet.Oracle
	Strategy          fleet.SearchStrategy
	Matcher           match.Matcher
	Policy            dispatch.Policy
	FilterByLifetime  bool
	intersectionByID  map[roadnet.IntersectionID]roadnet.Intersection
}

// NewSimulator wires a Simulator from its external collaborators. m and
// oracle are the consumed Map/Oracle; strategy is the consumed search
// strategy; matcher/policy select the assignment algorithm.
func NewSimulator(m roadnet.Map, oracle roadnet.Oracle, strategy fleet.SearchStrategy, matcher match.Matcher, policy dispatch.Policy, batchFrame int64, filterByLifetime bool) *Simulator {
	byID := make(map[roadnet.IntersectionID]roadnet.Intersection)
	for _, in := range m.Intersections() {
		byID[in.ID] = in
	}
	return &Simulator{
		Queue:            NewEventQueue(),
		Agents:           fleet.NewRegistry(),
		Resources:        requests.NewRegistry(),
		Window:           dispatch.NewWindow(batchFrame),
		Scoreboard:       scoreboard.New(),
		Map:              m,
		Oracle:           oracle,
		Strategy:         strategy,
		Matcher:          matcher,
		Policy:           policy,
		FilterByLifetime: filterByLifetime,
		intersectionByID: byID,
	}
}

// Schedule pushes ev onto the event queue.
func (s *Simulator) Schedule(ev Event) {
	s.Queue.Push(ev)
}

// AddAgent registers a new agent starting Searching at loc, and seeds
// its initial AgentMove.
func (s *Simulator) AddAgent(id fleet.ID, loc roadnet.LocationOnRoad) {
	a := fleet.NewAgent(id, loc, 0)
	s.Agents.Add(a)
	s.scheduleNextMove(a)
}

// AddResource registers a resource and schedules its ResourceAnnounce
// event. Also bumps the scoreboard's totalResources and extends
// SimulationEndTime to the resource's expiration_time.
func (s *Simulator) AddResource(r *requests.Resource) {
	s.Resources.Add(r)
	s.Scoreboard.RecordResource()
	if exp := r.ExpirationTime(); exp > s.SimulationEndTime {
		s.SimulationEndTime = exp
	}
	s.Schedule(&ResourceAnnounceEvent{time: r.AnnounceTime, ResourceID: r.ID})
}

// Run drains the event queue, advancing simulated time monotonically and
// terminating when the queue empties or the next event's time exceeds
// SimulationEndTime.
func (s *Simulator) Run() {
	for s.Queue.Len() > 0 {
		next := s.Queue.Peek()
		if next.Timestamp() > s.SimulationEndTime {
			break
		}
		ev := s.Queue.Pop()
		if ev.Timestamp() < s.Clock {
			panic(simerr.Invariant("event popped out of time order: %d < %d", ev.Timestamp(), s.Clock))
		}
		s.Clock = max64(s.Clock, ev.Timestamp())
		logrus.Debugf("[tick %d] executing %T", s.Clock, ev)
		ev.Execute(s)
	}
	s.finish()
}

// finish applies end-of-run bookkeeping: every resource still Waiting
// (whether still sitting in the open window or with an unpopped
// ResourceExpire event) is counted expired, and every agent still
// Searching accrues its remaining search time.
func (s *Simulator) finish() {
	for _, id := range s.Resources.WaitingIDs() {
		s.Resources.ExpireIfWaiting(id)
		s.Scoreboard.RecordExpiration()
	}
	for _, a := range s.Agents.All() {
		if a.State == fleet.Searching {
			s.Scoreboard.RecordStillSearching(s.SimulationEndTime - a.SearchStartTime)
		}
	}
}

// Report computes the final scoreboard report.
func (s *Simulator) Report() scoreboard.Report {
	stillSearching := 0
	for _, a := range s.Agents.All() {
		if a.State == fleet.Searching {
			stillSearching++
		}
	}
	return s.Scoreboard.Compute(s.Agents.Len(), stillSearching)
}

// onResourceArrival implements the Batching Window's arrival algorithm.
func (s *Simulator) onResourceArrival(id requests.ID) {
	res := s.Resources.Get(id)
	if res == nil {
		panic(simerr.Invariant("ResourceAnnounceEvent references unknown resource %d", id))
	}

	switch {
	case !s.Window.IsOpen():
		s.openWindow(res.AnnounceTime, nil)
		s.Window.Append(id)
		s.Resources.EnterWaiting(id)
	case res.AnnounceTime <= s.Window.Horizon():
		s.Window.Append(id)
		s.Resources.EnterWaiting(id)
	default:
		carried := s.closeWindow()
		s.openWindow(res.AnnounceTime, carried)
		s.Window.Append(id)
		s.Resources.EnterWaiting(id)
	}
}

// openWindow opens the window at startTime, re-appending any carried-over
// resource ids, and arms a WindowCloseEvent at the new horizon so the
// window closes by simulated time even if no further resource ever
// arrives to trigger the overflow rule (see WindowCloseEvent).
func (s *Simulator) openWindow(startTime int64, carried []requests.ID) {
	s.Window.Open(startTime)
	for _, cid := range carried {
		s.Window.Append(cid)
	}
	s.Schedule(&WindowCloseEvent{time: s.Window.Horizon(), Epoch: s.Window.Epoch()})
}

// closeAndReopenIfCarried closes the current window and, if the matcher
// left any resources unmatched, opens a fresh window at the current
// clock to carry them forward.
func (s *Simulator) closeAndReopenIfCarried() {
	carried := s.closeWindow()
	if len(carried) == 0 {
		s.Window.Close()
		return
	}
	s.openWindow(s.Clock, carried)
}

// closeWindow prunes resources that will expire before the horizon into
// scheduled ResourceExpire events, builds the cost matrix over what
// remains, runs the configured matcher, applies its assignments, and
// returns the unmatched resource ids to carry into the next window.
func (s *Simulator) closeWindow() []requests.ID {
	horizon := s.Window.Horizon()
	ids := s.Window.IDs()

	var batch []*requests.Resource
	for _, id := range ids {
		res := s.Resources.Get(id)
		if res.ExpirationTime() <= horizon {
			// The resource's natural expiration instant can fall at or before
			// the close itself (closing is what makes expiration inevitable,
			// so it is frequently simultaneous with it, and the overflow
			// close path can run strictly after it once the triggering
			// arrival has already advanced the clock). Clamping to the
			// current clock keeps the queue's min-time invariant intact
			// without changing which resources count as expired.
			s.Schedule(&ResourceExpireEvent{time: max64(res.ExpirationTime(), s.Clock), ResourceID: id})
			continue
		}
		batch = append(batch, res)
	}
	s.Scoreboard.RecordPoolClosed()

	if len(batch) == 0 {
		return nil
	}

	agents := s.Agents.EmptyAgents()
	cm := dispatch.Build(batch, agents, s.Oracle, s.Policy, s.Clock, s.FilterByLifetime)
	result := s.Matcher.Match(cm)

	for _, asn := range result.Assignments {
		res := cm.Resources[asn.ResourceIdx]
		agent := cm.Agents[asn.AgentIdx]
		s.reserve(agent, res, asn.PickupTime, asn.Weight)
	}

	carried := make([]requests.ID, 0, len(result.UnmatchedIdx))
	for _, idx := range result.UnmatchedIdx {
		carried = append(carried, cm.Resources[idx].ID)
	}
	return carried
}

// reserve applies one matcher assignment: reserves the agent, transitions
// it to Approaching, notifies the search strategy, marks the resource
// Assigned, records scoreboard counters, and schedules its
// AgentArriveAtResource event.
func (s *Simulator) reserve(agent *fleet.Agent, res *requests.Resource, pickupTime int64, weight float64) {
	if agent.State != fleet.Searching {
		panic(simerr.Invariant("matcher reserved agent %d which is not Searching (state=%s)", agent.ID, agent.State))
	}
	s.Agents.MarkReserved(agent.ID)
	agent.Reserve(int64(res.ID))
	s.Strategy.OnAssignment(agent, int64(res.ID))
	s.Resources.Assign(res.ID)

	benefitWeight := 0.0
	if s.Policy == dispatch.Optimum {
		benefitWeight = weight
	}
	s.Scoreboard.RecordAssignment(res.Fare, benefitWeight)

	s.Schedule(&AgentArriveAtResourceEvent{
		time:       s.Clock + pickupTime,
		AgentID:    agent.ID,
		ResourceID: res.ID,
		PickupTime: pickupTime,
	})
}

// scheduleNextMove asks the search strategy where agent should go next
// from its current intersection and schedules the resulting AgentMove.
func (s *Simulator) scheduleNextMove(agent *fleet.Agent) {
	currentID := agent.Loc.Road.To
	current, ok := s.intersectionByID[currentID]
	if !ok {
		panic(simerr.Invariant("agent %d sits at unknown intersection %d", agent.ID, currentID))
	}

	next := s.Strategy.NextIntersection(agent, current, s.Map)
	if next.ID == current.ID {
		// Dead end or strategy chose to idle; nothing to schedule until
		// the agent is reserved.
		return
	}

	var road roadnet.Road
	found := false
	for _, r := range s.Map.RoadsFrom(current.ID) {
		if r.To == next.ID {
			road = r
			found = true
			break
		}
	}
	if !found {
		panic(simerr.Strategy("search strategy returned non-adjacent intersection", nil))
	}

	agent.Loc = roadnet.LocationOnRoad{Road: road, TravelTimeFromStart: 0}
	s.Schedule(&AgentMoveEvent{
		time:       s.Clock + road.Duration,
		AgentID:    agent.ID,
		Generation: agent.Generation,
	})
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
