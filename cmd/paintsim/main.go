package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/paintsim/internal/config"
	"github.com/san-kum/paintsim/internal/metrics"
	"github.com/san-kum/paintsim/internal/sim"
	"github.com/san-kum/paintsim/internal/station"
	"github.com/san-kum/paintsim/internal/store"
	"github.com/san-kum/paintsim/internal/tui"
)

var (
	dataDir     string
	dt          float64
	ticks       int
	stationName string
	configFile  string
	preset      string
	verbose     bool
	column      string
	outFile     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "paintsim",
		Short: "paint mixing plant simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view when no command given.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".paintsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save the tick history",
		RunE:  runSimulation,
	}
	addStationFlags(runCmd)
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every tick")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "operate the station interactively in the terminal",
		RunE:  runLive,
	}
	addStationFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", store.MixerLevelColumn, "column to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().StringVar(&stationName, "station", "station1", "station name")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and CLI flags, flags winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("station") {
		cfg.Station = stationName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildStepper(cfg *config.Config) (*sim.Stepper, error) {
	st, err := station.New(cfg.StationParams())
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(st); err != nil {
		return nil, err
	}
	return sim.New(st, cfg.Dt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	stepper, err := buildStepper(cfg)
	if err != nil {
		return err
	}
	stepper.AddMetric(metrics.NewMassBalance())
	stepper.AddMetric(metrics.NewOverflows())
	stepper.AddMetric(metrics.NewDispensed())

	db := store.New(dataDir)
	if err := db.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s for %d ticks (dt=%gs)...\n", cfg.Station, cfg.Ticks, cfg.Dt)
	start := time.Now()

	result, err := stepper.Collect(context.Background(), cfg.Ticks)
	if err != nil {
		return err
	}

	if verbose {
		for _, rec := range result.Records {
			printSnapshot(rec.Time, rec.Snapshot, rec.Overflows)
		}
	} else if n := len(result.Records); n > 0 {
		last := result.Records[n-1]
		printSnapshot(last.Time, last.Snapshot, last.Overflows)
	}

	runID, err := db.Save(cfg.Station, cfg.Dt, result)
	if err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func printSnapshot(t float64, snap station.Snapshot, overflows []station.Overflow) {
	fmt.Printf("t=%.1fs\n", t)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  tank\tvolume\tvalve\tflow\tcolor")
	for _, ts := range snap.Tanks {
		fmt.Fprintf(w, "  %s\t%.2f/%.0f\t%.0f%%\t%.2f l/s\t%s\n",
			ts.Name, ts.Volume, ts.Capacity, ts.Valve*100, ts.Outflow, ts.Color)
	}
	w.Flush()
	for _, ov := range overflows {
		fmt.Printf("  ! %s overflow: %.2f l discarded\n", ov.Tank, ov.Excess)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	stepper, err := buildStepper(cfg)
	if err != nil {
		return err
	}
	return tui.Run(stepper)
}

func listRuns(cmd *cobra.Command, args []string) error {
	db := store.New(dataDir)
	runs, err := db.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "run id\tstation\ttimestamp\tdt\tticks")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\n",
			run.ID, run.Station, run.Timestamp.Format(time.RFC3339), run.Dt, run.Ticks)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	db := store.New(dataDir)
	table, err := db.LoadTicks(args[0])
	if err != nil {
		return err
	}

	series, ok := table.Series(column)
	if !ok {
		return fmt.Errorf("unknown column %q (available: %v)", column, table.Columns)
	}
	if len(series) < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("%s: %s", args[0], column))))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	db := store.New(dataDir)
	table, err := db.LoadTicks(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, table.Columns...)
	header = append(header, "mixer_color")
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range table.Times {
		row := []string{strconv.FormatFloat(table.Times[i], 'f', 6, 64)}
		for _, v := range table.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		color := ""
		if i < len(table.Colors) {
			color = table.Colors[i]
		}
		row = append(row, color)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	db := store.New(dataDir)
	meta, err := db.Load(args[0])
	if err != nil {
		return err
	}
	table, err := db.LoadTicks(args[0])
	if err != nil {
		return err
	}

	if outFile != "" {
		return store.ExportJSONFile(outFile, meta, table)
	}
	return store.ExportJSON(os.Stdout, meta, table)
}
