package match

import "github.com/ridefleet-sim/ridefleet/dispatch"

// Optimal implements the globally-optimal policy: a dense O((m+n)^3)
// rectangular Hungarian algorithm with standard potentials, minimizing
// the sum of selected weights (pickup_time/fare under policy Optimum).
type Optimal struct{}

// Match implements Matcher.
func (Optimal) Match(cm *dispatch.CostMatrix) Result {
	m := len(cm.Resources)
	n := len(cm.Agents)
	if m == 0 {
		return Result{}
	}
	if n == 0 {
		unmatched := make([]int, m)
		for i := range unmatched {
			unmatched[i] = i
		}
		return Result{UnmatchedIdx: unmatched}
	}

	// rowToCol[i] = matched column for row i, or -1 if unmatched.
	var rowToCol []int
	if m <= n {
		rowToCol = solveHungarian(m, n, func(i, j int) float64 { return cm.Weights.At(i, j) })
	} else {
		// Transpose: solve with agents as rows, resources as columns,
		// then invert.
		colToRow := solveHungarian(n, m, func(j, i int) float64 { return cm.Weights.At(i, j) })
		rowToCol = make([]int, m)
		for i := range rowToCol {
			rowToCol[i] = -1
		}
		for j, i := range colToRow {
			if i >= 0 {
				rowToCol[i] = j
			}
		}
	}

	var assignments []Assignment
	var unmatched []int
	var total float64
	for i, j := range rowToCol {
		if j < 0 || !cm.Feasible[i][j] {
			unmatched = append(unmatched, i)
			continue
		}
		w := cm.Weights.At(i, j)
		var pickup int64
		for _, c := range cm.Candidates[i] {
			if c.AgentIdx == j {
				pickup = c.PickupTime
				break
			}
		}
		assignments = append(assignments, Assignment{ResourceIdx: i, AgentIdx: j, PickupTime: pickup, Weight: w})
		total += w
	}

	return Result{Assignments: assignments, UnmatchedIdx: unmatched, TotalWeight: total}
}

// solveHungarian solves the min-cost assignment for a rows x cols matrix
// with rows <= cols, returning rowToCol[i] = assigned column, or -1.
// cost(i, j) reads the weight for row i, column j.
//
// This is the classical O(rows^2 * cols) primal-dual (potentials)
// Hungarian algorithm, 1-indexed internally to match the standard
// formulation; gonum has no assignment-problem solver, so this is
// hand-implemented.
func solveHungarian(rows, cols int, cost func(i, j int) float64) []int {
	const inf = 1e18

	u := make([]float64, rows+1)
	v := make([]float64, cols+1)
	p := make([]int, cols+1) // p[j] = row matched to column j (1-indexed row), 0 = none
	way := make([]int, cols+1)

	for i := 1; i <= rows; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, cols+1)
		used := make([]bool, cols+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= cols; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= cols; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, rows)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j := 1; j <= cols; j++ {
		if p[j] != 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}
