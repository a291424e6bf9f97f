package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gc-ohds/expenditure-forecast/sim"
	"github.com/gc-ohds/expenditure-forecast/sim/report"
	"github.com/gc-ohds/expenditure-forecast/sim/scenario"
)

var (
	// CLI flags for the run subcommand
	startDate    string // Simulation start date (YYYY-MM-DD)
	endDate      string // Simulation end date (YYYY-MM-DD)
	timeInterval string // MONTHLY, QUARTERLY or ANNUAL; empty = from config
	configDir    string // Directory containing base_config.yaml and scenarios/
	scenarioName string // Scenario to overlay on the base configuration
	outputDir    string // Directory for JSON/CSV results
	seed         int64  // Random seed; negative = use config seed
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "expenditure-forecast",
	Short: "Population program-flow forecast simulator",
}

// runCmd executes a simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a forecast scenario",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		doc, err := scenario.Load(configDir, scenarioName)
		if err != nil {
			logrus.Fatalf("Loading configuration: %v", err)
		}

		overrides := scenario.RunOverrides{
			StartDate:    startDate,
			EndDate:      endDate,
			TimeInterval: timeInterval,
			ScenarioName: scenarioName,
		}
		if seed >= 0 {
			overrides.Seed = &seed
		}
		cfg, err := scenario.Build(doc, overrides)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Initializing simulation: %v", err)
		}
		summary, err := s.Run()
		if err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}

		records := s.Tracker().Records()
		jsonPath := filepath.Join(outputDir, resultsBaseName(scenarioName)+".json")
		if err := report.WriteJSON(jsonPath, summary, records); err != nil {
			logrus.Fatalf("Writing JSON results: %v", err)
		}
		if _, err := report.WriteCSV(outputDir, resultsBaseName(scenarioName), records); err != nil {
			logrus.Fatalf("Writing CSV results: %v", err)
		}

		report.PrintSummary(os.Stdout, summary, s.Tracker())
	},
}

// scenariosCmd lists the scenarios available in the config directory
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List available scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		names, err := scenario.ListScenarios(configDir)
		if err != nil {
			logrus.Fatalf("Listing scenarios: %v", err)
		}
		if len(names) == 0 {
			fmt.Println("no scenarios found")
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

// resultsBaseName picks the output file prefix for a run.
func resultsBaseName(scenarioName string) string {
	if scenarioName == "" {
		return "results"
	}
	return "results_" + scenarioName
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&startDate, "start-date", "2025-04-01", "Start date for simulation (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&endDate, "end-date", "2026-03-31", "End date for simulation (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&timeInterval, "time-interval", "", "Time interval (MONTHLY, QUARTERLY, ANNUAL); default from config")
	runCmd.Flags().StringVar(&configDir, "config-dir", "config", "Directory containing configuration files")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "", "Name of the scenario to run")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "output", "Directory for output files")
	runCmd.Flags().Int64Var(&seed, "seed", -1, "Random seed for reproducible runs; negative uses the config seed")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	scenariosCmd.Flags().StringVar(&configDir, "config-dir", "config", "Directory containing configuration files")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
