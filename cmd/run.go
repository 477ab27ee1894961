package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ridefleet-sim/ridefleet/config"
	"github.com/ridefleet-sim/ridefleet/requests"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation from a configuration file and print its report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath)
		if err != nil {
			return err
		}

		feed, err := requests.OpenCSVFeed(cfg.DatasetPath)
		if err != nil {
			return err
		}
		defer feed.Close()

		rows, err := readAllRows(feed)
		if err != nil {
			return err
		}
		logrus.Infof("loaded %d resource rows from %s", len(rows), cfg.DatasetPath)

		rng := newPlacementRNG(cfg)
		sim := buildSimulator(cfg, cfg.AssignmentAlgorithm, rows, rng)
		sim.Run()

		report := sim.Report()
		report.Print(os.Stdout)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to the YAML configuration file (required)")
	_ = runCmd.MarkFlagRequired("config")
}
