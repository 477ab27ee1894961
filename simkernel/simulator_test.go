package simkernel

import (
	"math/rand"
	"testing"

	"github.com/ridefleet-sim/ridefleet/dispatch"
	"github.com/ridefleet-sim/ridefleet/fleet"
	"github.com/ridefleet-sim/ridefleet/match"
	"github.com/ridefleet-sim/ridefleet/requests"
	"github.com/ridefleet-sim/ridefleet/roadnet"
	"github.com/ridefleet-sim/ridefleet/scoreboard"
)

// fixedMap is a minimal Map with no connectivity: every agent is a
// permanent dead end, so tests control positions directly instead of
// driving a search strategy.
type fixedMap struct{ intersections []roadnet.Intersection }

func (m fixedMap) Intersections() []roadnet.Intersection           { return m.intersections }
func (m fixedMap) RoadsFrom(roadnet.IntersectionID) []roadnet.Road { return nil }

// tableOracle answers TravelTime from a lookup table keyed by
// (from.Road.To, to.Road.To), letting tests pin exact scenario values.
type tableOracle struct {
	table map[[2]roadnet.IntersectionID]int64
}

func (o tableOracle) TravelTime(from, to roadnet.LocationOnRoad) int64 {
	return o.table[[2]roadnet.IntersectionID{from.Road.To, to.Road.To}]
}

func newTestSimulator(oracle roadnet.Oracle, matcher match.Matcher, policy dispatch.Policy, batchFrame int64) *Simulator {
	m := fixedMap{intersections: []roadnet.Intersection{{ID: 1}, {ID: 2}, {ID: 3}}}
	strategy := fleet.NewRandomWalkStrategy(rand.New(rand.NewSource(1)))
	return NewSimulator(m, oracle, strategy, matcher, policy, batchFrame, false)
}

// TestS1_SinglePair_MatchesAndReportsExactly reproduces the one-agent,
// one-resource scenario.
func TestS1_SinglePair_MatchesAndReportsExactly(t *testing.T) {
	// GIVEN 1 agent at X, 1 resource at X -> Y, fare 10, lifetime 600.
	// batch_frame=0 so the window closes at the same instant it opens,
	// isolating the zero-wait expectation to the zero pickup time rather
	// than also depending on batching delay.
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{
		{1, 1}: 0,
	}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 0)
	sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
	sim.AddResource(&requests.Resource{
		ID: 1, AnnounceTime: 0,
		PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(2),
		TripDuration: 300, Fare: 10.0, MaxLifetime: 600,
	})

	// WHEN the simulation runs to completion
	sim.Run()
	report := sim.Report()

	// THEN the resource is assigned, not expired, with zero wait
	if report.TotalAssignments != 1 {
		t.Errorf("TotalAssignments = %d, want 1", report.TotalAssignments)
	}
	if report.TotalFare != 10.0 {
		t.Errorf("TotalFare = %v, want 10.0", report.TotalFare)
	}
	if report.ExpirationPercent != 0 {
		t.Errorf("ExpirationPercent = %v, want 0", report.ExpirationPercent)
	}
	if report.AverageWaitTime != 0 {
		t.Errorf("AverageWaitTime = %d, want 0", report.AverageWaitTime)
	}
}

// TestS2_Expiration covers an agent too far from the sole resource's
// pickup for it to arrive within the lifetime.
func TestS2_Expiration(t *testing.T) {
	// GIVEN an agent whose pickup time (700) exceeds the resource's
	// lifetime (600), with infeasible-filtering enabled so the builder
	// excludes it as a candidate
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{
		{1, 1}: 700,
	}}
	m := fixedMap{intersections: []roadnet.Intersection{{ID: 1}}}
	strategy := fleet.NewRandomWalkStrategy(rand.New(rand.NewSource(1)))
	sim := NewSimulator(m, oracle, strategy, match.Greedy{}, dispatch.Fair, 30, true)
	sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
	sim.AddResource(&requests.Resource{
		ID: 1, AnnounceTime: 0,
		PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
		TripDuration: 60, Fare: 10.0, MaxLifetime: 600,
	})

	// WHEN the simulation runs to completion
	sim.Run()
	report := sim.Report()

	// THEN the resource expires unassigned
	if report.TotalAssignments != 0 {
		t.Errorf("TotalAssignments = %d, want 0", report.TotalAssignments)
	}
	if report.ExpiredResources != 1 {
		t.Errorf("ExpiredResources = %d, want 1", report.ExpiredResources)
	}
}

// TestS4_BatchOverflow_SplitsAtTheRightPoint covers resources at
// t=0,10,29,31 with batch_frame=30; the first three batch together
// (horizon=30), the fourth starts a new window.
func TestS4_BatchOverflow_SplitsAtTheRightPoint(t *testing.T) {
	// GIVEN 4 agents, so every resource can match immediately once its
	// batch closes, and 4 resources at t=0,10,29,31
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{
		{1, 1}: 1,
	}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 30)
	for i := 1; i <= 4; i++ {
		sim.AddAgent(fleet.ID(i), roadnet.AtIntersection(1))
	}
	times := []int64{0, 10, 29, 31}
	for i, at := range times {
		sim.AddResource(&requests.Resource{
			ID: requests.ID(i + 1), AnnounceTime: at,
			PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
			TripDuration: 60, Fare: 5.0, MaxLifetime: 600,
		})
	}

	// WHEN the simulation runs
	sim.Run()
	report := sim.Report()

	// THEN every resource is eventually matched (none is infeasible), and
	// pool count reflects at least 2 closed batches: one for {1,2,3} and
	// one for {4}
	if report.TotalAssignments != 4 {
		t.Errorf("TotalAssignments = %d, want 4", report.TotalAssignments)
	}
	if report.PoolCount < 2 {
		t.Errorf("PoolCount = %d, want >= 2 (batch split at t=31)", report.PoolCount)
	}
}

// TestS5_CarryOver covers more resources than agents in one batch
// carrying the unmatched ones forward until a later batch (after an
// agent frees up) or expiration.
func TestS5_CarryOver(t *testing.T) {
	// GIVEN batch_frame=10, 1 agent, 3 resources all announced together
	// and all feasible for a long time
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{
		{1, 1}: 1,
	}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 10)
	sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
	for i := 1; i <= 3; i++ {
		sim.AddResource(&requests.Resource{
			ID: requests.ID(i), AnnounceTime: 0,
			PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
			TripDuration: 5, Fare: 5.0, MaxLifetime: 1000,
		})
	}

	// WHEN the simulation runs
	sim.Run()
	report := sim.Report()

	// THEN with a single agent freeing up repeatedly (trip 5s, pickup 1s),
	// all 3 resources are eventually served within their generous lifetime
	if report.TotalAssignments != 3 {
		t.Errorf("TotalAssignments = %d, want 3", report.TotalAssignments)
	}
	if report.TotalResources != report.TotalAssignments+report.ExpiredResources {
		t.Errorf("conservation violated: %d != %d + %d", report.TotalResources, report.TotalAssignments, report.ExpiredResources)
	}
}

// TestS6_TieBreak_DeterminedByInsertionOrder covers two resources
// announced at the same time with identical candidate sets; the outcome
// depends only on insertion (batch) order.
func TestS6_TieBreak_DeterminedByInsertionOrder(t *testing.T) {
	// GIVEN 2 resources announced simultaneously with identical pickup
	// times and fares, and only 1 agent able to serve one of them. The
	// first batch (closing at t=5) matches one; the loser carries into a
	// second window whose horizon (t=10) reaches its expiration (t=8)
	// before the agent frees up to serve it.
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{
		{1, 1}: 1,
	}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 5)
	sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
	sim.AddResource(&requests.Resource{
		ID: 1, AnnounceTime: 0,
		PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
		TripDuration: 5, Fare: 5.0, MaxLifetime: 8,
	})
	sim.AddResource(&requests.Resource{
		ID: 2, AnnounceTime: 0,
		PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
		TripDuration: 5, Fare: 5.0, MaxLifetime: 8,
	})

	// WHEN the simulation runs
	sim.Run()
	report := sim.Report()

	// THEN exactly one resource is matched (the first one inserted, by
	// the greedy matcher's deterministic batch-order tie-break) and the
	// other expires
	if report.TotalAssignments != 1 {
		t.Errorf("TotalAssignments = %d, want 1", report.TotalAssignments)
	}
	if report.ExpiredResources != 1 {
		t.Errorf("ExpiredResources = %d, want 1", report.ExpiredResources)
	}
	if got := sim.Resources.Get(1).State; got != requests.Assigned {
		t.Errorf("resource 1 State = %v, want Assigned (inserted first)", got)
	}
	if got := sim.Resources.Get(2).State; got != requests.Expired {
		t.Errorf("resource 2 State = %v, want Expired", got)
	}
}

// TestProperty_Conservation checks conservation (assigned + expired =
// total) across a run with a mix of matched and expired resources.
func TestProperty_Conservation(t *testing.T) {
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{{1, 1}: 700}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 30)
	sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
	sim.AddResource(&requests.Resource{
		ID: 1, AnnounceTime: 0,
		PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
		TripDuration: 60, Fare: 5.0, MaxLifetime: 10,
	})
	sim.Run()
	r := sim.Report()
	if r.TotalResources != r.TotalAssignments+r.ExpiredResources {
		t.Errorf("conservation violated: total=%d assignments=%d expired=%d", r.TotalResources, r.TotalAssignments, r.ExpiredResources)
	}
}

// TestProperty_Determinism checks that identical inputs and seed produce
// bit-identical reports.
func TestProperty_Determinism(t *testing.T) {
	run := func() scoreboard.Report {
		oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{{1, 1}: 5}}
		sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 10)
		sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
		for i := 1; i <= 3; i++ {
			sim.AddResource(&requests.Resource{
				ID: requests.ID(i), AnnounceTime: int64(i - 1),
				PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
				TripDuration: 5, Fare: 5.0, MaxLifetime: 1000,
			})
		}
		sim.Run()
		return sim.Report()
	}
	a := run()
	b := run()
	if a != b {
		t.Errorf("non-deterministic report: %+v != %+v", a, b)
	}
}

// TestProperty_TimeMonotonicity checks that the clock never decreases
// across the run.
func TestProperty_TimeMonotonicity(t *testing.T) {
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{{1, 1}: 5}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 10)
	sim.AddAgent(fleet.ID(1), roadnet.AtIntersection(1))
	for i := 1; i <= 3; i++ {
		sim.AddResource(&requests.Resource{
			ID: requests.ID(i), AnnounceTime: int64(i-1) * 3,
			PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
			TripDuration: 5, Fare: 5.0, MaxLifetime: 1000,
		})
	}

	last := int64(-1)
	for sim.Queue.Len() > 0 {
		next := sim.Queue.Peek()
		if next.Timestamp() > sim.SimulationEndTime {
			break
		}
		ev := sim.Queue.Pop()
		sim.Clock = max64(sim.Clock, ev.Timestamp())
		if sim.Clock < last {
			t.Fatalf("clock decreased: %d < %d", sim.Clock, last)
		}
		last = sim.Clock
		ev.Execute(sim)
	}
}

// TestProperty_AgentExclusivity checks that no two simultaneous
// assignments share an agent.
func TestProperty_AgentExclusivity(t *testing.T) {
	oracle := tableOracle{table: map[[2]roadnet.IntersectionID]int64{{1, 1}: 1}}
	sim := newTestSimulator(oracle, match.Greedy{}, dispatch.Fair, 10)
	for i := 1; i <= 2; i++ {
		sim.AddAgent(fleet.ID(i), roadnet.AtIntersection(1))
	}
	for i := 1; i <= 2; i++ {
		sim.AddResource(&requests.Resource{
			ID: requests.ID(i), AnnounceTime: 0,
			PickupLoc: roadnet.AtIntersection(1), DropoffLoc: roadnet.AtIntersection(1),
			TripDuration: 5, Fare: 5.0, MaxLifetime: 1000,
		})
	}
	sim.Run()
	r := sim.Report()
	if r.TotalAssignments != 2 {
		t.Fatalf("TotalAssignments = %d, want 2 (one agent each)", r.TotalAssignments)
	}
}
