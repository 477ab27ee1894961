package cmd

import (
	"io"

	"github.com/ridefleet-sim/ridefleet/config"
	"github.com/ridefleet-sim/ridefleet/dispatch"
	"github.com/ridefleet-sim/ridefleet/fleet"
	"github.com/ridefleet-sim/ridefleet/match"
	"github.com/ridefleet-sim/ridefleet/requests"
	"github.com/ridefleet-sim/ridefleet/roadnet"
	"github.com/ridefleet-sim/ridefleet/simkernel"
	"github.com/ridefleet-sim/ridefleet/simrand"
)

// demoGridWidth/Height/EdgeSeconds size the in-memory Grid stand-in for
// the real road network. Real OSM/KML map ingestion is an external
// collaborator out of scope for this simulator; the CLI exercises the
// kernel against roadnet.Grid instead of cfg.MapPath.
const (
	demoGridWidth       = 12
	demoGridHeight      = 12
	demoGridEdgeSeconds = 60
)

// readAllRows drains feed into a slice, used so the same dataset can
// drive more than one simulation run (e.g. `compare`'s fair vs optimum
// runs over identical inputs).
func readAllRows(feed requests.Feed) ([]requests.Row, error) {
	var rows []requests.Row
	for {
		row, err := feed.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// buildSimulator assembles a Simulator for one run of cfg's inputs under
// algorithm, using rows as the resource dataset and rng to place agents
// deterministically and drive the default search strategy.
func buildSimulator(cfg *config.Config, algorithm config.Algorithm, rows []requests.Row, rng *simrand.PartitionedRNG) *simkernel.Simulator {
	grid := roadnet.NewGrid(demoGridWidth, demoGridHeight, demoGridEdgeSeconds)

	var matcher match.Matcher
	var policy dispatch.Policy
	if algorithm == config.Optimum {
		matcher = match.Optimal{}
		policy = dispatch.Optimum
	} else {
		matcher = match.Greedy{}
		policy = dispatch.Fair
	}

	strategy := fleet.NewRandomWalkStrategy(rng.For(simrand.SubsystemStrategy))
	sim := simkernel.NewSimulator(grid, grid, strategy, matcher, policy, cfg.AssignmentPeriod, cfg.FilterInfeasibleByLifetime)

	placementRNG := rng.For(simrand.SubsystemPlacement)
	intersections := grid.Intersections()
	for i := 0; i < cfg.NumberOfAgents; i++ {
		start := intersections[placementRNG.Intn(len(intersections))]
		sim.AddAgent(fleet.ID(i), roadnet.AtIntersection(start.ID))
	}

	for i, row := range rows {
		res := &requests.Resource{
			ID:           requests.ID(i),
			AnnounceTime: row.AnnounceTime,
			PickupLoc:    row.PickupLoc,
			DropoffLoc:   row.DropoffLoc,
			TripDuration: row.TripDuration,
			Fare:         row.Fare,
			MaxLifetime:  cfg.ResourceMaximumLifeTime,
		}
		sim.AddResource(res)
	}

	return sim
}

// newPlacementRNG builds a PartitionedRNG from cfg's seed; kept as a
// thin wrapper so run.go/compare.go share one construction path.
func newPlacementRNG(cfg *config.Config) *simrand.PartitionedRNG {
	return simrand.New(cfg.AgentPlacementSeed)
}
