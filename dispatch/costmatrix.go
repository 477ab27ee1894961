package dispatch

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ridefleet-sim/ridefleet/fleet"
	"github.com/ridefleet-sim/ridefleet/requests"
	"github.com/ridefleet-sim/ridefleet/roadnet"
)

// Policy selects the weight function the cost-matrix builder applies.
type Policy int

const (
	// Fair is the greedy, earliest-pickup policy (P1): weight = pickup_time.
	Fair Policy = iota
	// Optimum is the benefit-weighted, globally-optimal policy (P2):
	// weight = pickup_time / fare.
	Optimum
)

func (p Policy) String() string {
	if p == Optimum {
		return "optimum"
	}
	return "fair"
}

// InfeasibleWeight is the sentinel value for infeasible cells. Chosen
// strictly larger than any weight either policy can produce for
// realistic fare/pickup-time ranges; Feasible additionally flags
// infeasibility directly so the optimal matcher never has to rely on a
// float comparison against this sentinel alone.
const InfeasibleWeight = 1e9

// Candidate is one (agent, pickup_time) pair for a resource. AgentIdx
// indexes into the same Agents slice as the dense Weights matrix's
// columns.
type Candidate struct {
	AgentIdx   int
	PickupTime int64
}

// CostMatrix is the output of the cost-matrix builder: a dense weight
// matrix for the optimal matcher plus per-resource candidate lists for
// the greedy matcher, which selects pairs from the candidate lists and
// reads the dense matrix only to record each chosen pair's weight.
type CostMatrix struct {
	Resources  []*requests.Resource
	Agents     []*fleet.Agent
	Weights    *mat.Dense
	Feasible   [][]bool
	Candidates [][]Candidate
	Policy     Policy
}

// Build enumerates candidate (resource, agent) pairs and produces their
// weights under policy. When filterByLifetime is true, pairs whose
// pickup_time exceeds the resource's remaining lifetime at now are
// marked infeasible; when false, every (resource, agent) pair is a
// candidate.
func Build(batch []*requests.Resource, agents []*fleet.Agent, oracle roadnet.Oracle, policy Policy, now int64, filterByLifetime bool) *CostMatrix {
	m, n := len(batch), len(agents)
	weights := mat.NewDense(max(m, 1), max(n, 1), nil)
	feasible := make([][]bool, m)
	candidates := make([][]Candidate, m)

	for i, res := range batch {
		feasible[i] = make([]bool, n)
		for j, agent := range agents {
			pickup := oracle.TravelTime(agent.Loc, res.PickupLoc)
			ok := true
			if filterByLifetime && pickup > res.RemainingLifetime(now) {
				ok = false
			}
			if ok {
				w := weightFor(policy, pickup, res.Fare)
				weights.Set(i, j, w)
				feasible[i][j] = true
				candidates[i] = append(candidates[i], Candidate{AgentIdx: j, PickupTime: pickup})
			} else {
				weights.Set(i, j, InfeasibleWeight)
				feasible[i][j] = false
			}
		}
	}

	return &CostMatrix{
		Resources:  batch,
		Agents:     agents,
		Weights:    weights,
		Feasible:   feasible,
		Candidates: candidates,
		Policy:     policy,
	}
}

func weightFor(policy Policy, pickup int64, fare float64) float64 {
	switch policy {
	case Optimum:
		return float64(pickup) / fare
	default:
		return float64(pickup)
	}
}
