package match

import "github.com/ridefleet-sim/ridefleet/dispatch"

// Greedy implements the earliest-pickup policy: repeatedly pick the
// global minimum pickup time among remaining (resource, agent)
// candidates, reserve that agent, and drop every other entry
// referencing it.
type Greedy struct{}

// Match implements Matcher.
func (Greedy) Match(cm *dispatch.CostMatrix) Result {
	matchedResource := make([]bool, len(cm.Resources))
	matchedAgent := make([]bool, len(cm.Agents))

	var assignments []Assignment
	var total float64

	for {
		bestI, bestJ := -1, -1
		var bestPickup int64

		// Deterministic scan order: batch order x candidate-list order.
		for i, cands := range cm.Candidates {
			if matchedResource[i] {
				continue
			}
			for _, c := range cands {
				if matchedAgent[c.AgentIdx] {
					continue
				}
				if bestI == -1 || c.PickupTime < bestPickup {
					bestI, bestJ, bestPickup = i, c.AgentIdx, c.PickupTime
				}
			}
		}

		if bestI == -1 {
			break
		}

		matchedResource[bestI] = true
		matchedAgent[bestJ] = true
		w := cm.Weights.At(bestI, bestJ)
		assignments = append(assignments, Assignment{
			ResourceIdx: bestI,
			AgentIdx:    bestJ,
			PickupTime:  bestPickup,
			Weight:      w,
		})
		total += w
	}

	var unmatched []int
	for i := range cm.Resources {
		if !matchedResource[i] {
			unmatched = append(unmatched, i)
		}
	}

	return Result{Assignments: assignments, UnmatchedIdx: unmatched, TotalWeight: total}
}
