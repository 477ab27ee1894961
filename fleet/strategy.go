package fleet

import (
	"fmt"
	"math/rand"

	"github.com/ridefleet-sim/ridefleet/roadnet"
)

// RandomWalkStrategy is the default SearchStrategy: at each decision
// point it picks uniformly among the current intersection's outgoing
// roads, using a dedicated *rand.Rand so the choice is deterministic for
// a given seed.
//
// This is the adapter the kernel exercises in tests and the synthetic
// demo; a real deployment would inject a strategy informed by demand
// forecasts.
type RandomWalkStrategy struct {
	rng *rand.Rand
}

// NewRandomWalkStrategy creates a RandomWalkStrategy seeded by rng.
func NewRandomWalkStrategy(rng *rand.Rand) *RandomWalkStrategy {
	return &RandomWalkStrategy{rng: rng}
}

// NextIntersection implements SearchStrategy.
func (s *RandomWalkStrategy) NextIntersection(agent *Agent, current roadnet.Intersection, m roadnet.Map) roadnet.Intersection {
	roads := m.RoadsFrom(current.ID)
	if len(roads) == 0 {
		// Dead end: stay put. A real map build would guarantee strong
		// connectivity; the kernel tolerates this degenerate case rather
		// than panicking.
		return current
	}
	choice := roads[s.rng.Intn(len(roads))]
	for _, in := range m.Intersections() {
		if in.ID == choice.To {
			return in
		}
	}
	panic(fmt.Sprintf("RandomWalkStrategy: road target %v not found in map intersections", choice.To))
}

// OnAssignment implements SearchStrategy. No-op: this strategy carries
// no state that needs updating on assignment.
func (s *RandomWalkStrategy) OnAssignment(agent *Agent, resourceID int64) {}
