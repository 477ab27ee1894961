// Package match implements the two assignment policies: a greedy earliest-pickup matcher and a
// globally-optimal rectangular Hungarian matcher.
package match

import "github.com/ridefleet-sim/ridefleet/dispatch"

// Assignment is one resolved (resource, agent) pair from a matcher.
type Assignment struct {
	ResourceIdx int // row index into the CostMatrix's Resources
	AgentIdx    int // column index into the CostMatrix's Agents
	PickupTime  int64
	Weight      float64
}

// Result is a matcher's output: the assignments it selected plus the
// row indices that remain unmatched and must carry into the next batch.
type Result struct {
	Assignments  []Assignment
	UnmatchedIdx []int
	TotalWeight  float64
}

// Matcher is implemented by both policies so the dispatcher can select
// one by configuration.
type Matcher interface {
	Match(cm *dispatch.CostMatrix) Result
}
