package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridefleet-sim/ridefleet/config"
	"github.com/ridefleet-sim/ridefleet/requests"
)

var compareConfigPath string

// compareCmd runs both assignment policies over identical inputs and
// seed and prints the two reports one after the other.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run both the fair and optimum policies over the same inputs and compare their reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(compareConfigPath)
		if err != nil {
			return err
		}

		feed, err := requests.OpenCSVFeed(cfg.DatasetPath)
		if err != nil {
			return err
		}
		rows, err := readAllRows(feed)
		feed.Close()
		if err != nil {
			return err
		}

		for _, algo := range []config.Algorithm{config.Fair, config.Optimum} {
			rng := newPlacementRNG(cfg)
			sim := buildSimulator(cfg, algo, rows, rng)
			sim.Run()
			report := sim.Report()
			fmt.Fprintf(os.Stdout, "--- policy: %s ---\n", algo)
			report.Print(os.Stdout)
			fmt.Fprintln(os.Stdout)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareConfigPath, "config", "", "path to the YAML configuration file (required)")
	_ = compareCmd.MarkFlagRequired("config")
}
