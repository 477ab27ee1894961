package cmd

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ridefleet-sim/ridefleet/roadnet"
	"github.com/ridefleet-sim/ridefleet/simrand"
)

var (
	generateOutPath    string
	generateSeed       int64
	generateRowCount   int
	generateHorizonSec int64
	generateMaxFare    float64
)

// generateCmd writes a synthetic resource dataset CSV compatible with
// requests.CSVFeed, driven by the grid built in build.go and a
// dedicated dataset-subsystem RNG, so `run`/`compare` can be exercised
// without a real demand dataset.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic resource dataset CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		grid := roadnet.NewGrid(demoGridWidth, demoGridHeight, demoGridEdgeSeconds)
		rng := simrand.New(generateSeed).For(simrand.SubsystemDataset)
		intersections := grid.Intersections()

		file, err := os.Create(generateOutPath)
		if err != nil {
			return err
		}
		defer file.Close()

		w := csv.NewWriter(file)
		defer w.Flush()

		header := []string{
			"announce_time", "pickup_road_from", "pickup_road_to", "pickup_road_duration", "pickup_offset",
			"dropoff_road_from", "dropoff_road_to", "dropoff_road_duration", "dropoff_offset",
			"trip_duration", "fare",
		}
		if err := w.Write(header); err != nil {
			return err
		}

		announceTime := int64(0)
		for i := 0; i < generateRowCount; i++ {
			announceTime += int64(rng.Intn(int(generateHorizonSec) + 1))

			pickup := randomLocation(grid, intersections, rng)
			dropoff := randomLocation(grid, intersections, rng)
			tripDuration := int64(60 + rng.Intn(1800))
			fare := 2 + rng.Float64()*generateMaxFare

			record := []string{
				strconv.FormatInt(announceTime, 10),
				strconv.FormatInt(int64(pickup.Road.From), 10),
				strconv.FormatInt(int64(pickup.Road.To), 10),
				strconv.FormatInt(pickup.Road.Duration, 10),
				strconv.FormatInt(pickup.TravelTimeFromStart, 10),
				strconv.FormatInt(int64(dropoff.Road.From), 10),
				strconv.FormatInt(int64(dropoff.Road.To), 10),
				strconv.FormatInt(dropoff.Road.Duration, 10),
				strconv.FormatInt(dropoff.TravelTimeFromStart, 10),
				strconv.FormatInt(tripDuration, 10),
				strconv.FormatFloat(fare, 'f', 2, 64),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	},
}

// randomLocation picks a random intersection and, when it has outgoing
// roads, a random point partway along one of them; falls back to
// sitting exactly at the intersection for an isolated node (grid
// corners always have at least one outgoing road, but nothing prevents
// a future non-grid Map from supplying a true dead end).
func randomLocation(m roadnet.Map, intersections []roadnet.Intersection, rng interface{ Intn(int) int }) roadnet.LocationOnRoad {
	in := intersections[rng.Intn(len(intersections))]
	roads := m.RoadsFrom(in.ID)
	if len(roads) == 0 {
		return roadnet.AtIntersection(in.ID)
	}
	road := roads[rng.Intn(len(roads))]
	offset := int64(0)
	if road.Duration > 0 {
		offset = int64(rng.Intn(int(road.Duration) + 1))
	}
	return roadnet.LocationOnRoad{Road: road, TravelTimeFromStart: offset}
}

func init() {
	generateCmd.Flags().StringVar(&generateOutPath, "out", "dataset.csv", "output CSV path")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 1, "dataset RNG seed")
	generateCmd.Flags().IntVar(&generateRowCount, "rows", 100, "number of resource rows to generate")
	generateCmd.Flags().Int64Var(&generateHorizonSec, "interarrival-max", 30, "maximum seconds between consecutive announce times")
	generateCmd.Flags().Float64Var(&generateMaxFare, "max-fare", 40, "maximum additional fare above the 2.0 base fare")
}
