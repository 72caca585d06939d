package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/config"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/datastore"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/parser"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/system"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/sysmod"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "r2x-reeds",
		Short: "r2x-reeds - translate ReEDS model output into a component system",
		Long: `r2x-reeds reads the tabular output of a ReEDS capacity-expansion run and
builds a typed, cross-referenced system of power-system components:
regions, generators, transmission, demand, reserves, and emissions.`,
	}

	root.AddCommand(versionCommand())
	root.AddCommand(translateCommand())
	root.AddCommand(datasetsCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("r2x-reeds v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func datasetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the datasets the translation reads from a run directory",
		Run: func(cmd *cobra.Command, args []string) {
			entries := datastore.DefaultEntries()
			sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
			for _, e := range entries {
				marker := ""
				if e.Optional {
					marker = " (optional)"
				}
				fmt.Printf("  %-24s %s%s\n", e.Name, e.File, marker)
			}
		},
	}
}

func translateCommand() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Build the component system from a ReEDS run directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(v)
		},
	}

	flags := cmd.Flags()
	flags.String("case", "", "path to the ReEDS run directory (required)")
	flags.IntSlice("solve-year", nil, "solve year(s) to translate (required)")
	flags.IntSlice("weather-year", nil, "weather year(s) for profiles (required)")
	flags.String("scenario", "", "scenario label (default base)")
	flags.String("name", "", "system name (defaults to the case name)")
	flags.String("output", "", "write the system summary JSON to this file")
	flags.String("break-gens", "", "reference JSON file to split aggregated generators")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("config", "", "run config YAML (flags override it)")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("R2X")
	v.AutomaticEnv()
	return cmd
}

func runTranslate(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := logger.Init(logger.Config{Level: v.GetString("log-level")}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	caseFolder := v.GetString("case")
	if caseFolder == "" {
		return fmt.Errorf("--case is required")
	}
	cfg, err := config.New(config.ReEDSConfig{
		SolveYear:   intsToYears(v.GetIntSlice("solve-year")),
		WeatherYear: intsToYears(v.GetIntSlice("weather-year")),
		CaseName:    v.GetString("name"),
		Scenario:    v.GetString("scenario"),
		Folder:      caseFolder,
	})
	if err != nil {
		return err
	}

	store, err := datastore.FromEntries(caseFolder, datastore.DefaultEntries(), datastore.Substitutions{
		SolveYear:   cfg.PrimarySolveYear(),
		WeatherYear: cfg.PrimaryWeatherYear(),
		Scenario:    cfg.Scenario,
	})
	if err != nil {
		return err
	}

	p, err := parser.New(cfg, store, v.GetString("name"))
	if err != nil {
		return err
	}
	sys, err := p.BuildSystem()
	if err != nil {
		return err
	}

	if ref := v.GetString("break-gens"); ref != "" {
		if err := sysmod.BreakGenerators(sys, ref, nil); err != nil {
			return err
		}
	}

	logger.Info("translation complete",
		zap.String("case", caseFolder),
		zap.Any("components", sys.ComponentCounts()))

	if output := v.GetString("output"); output != "" {
		if err := writeSummary(sys, output); err != nil {
			return err
		}
		logger.Info("system summary written", zap.String("path", output))
	}
	return nil
}

func intsToYears(values []int) config.Years {
	return config.Years(values)
}

// summary is the exported shape of a built system.
type summary struct {
	Name       string                        `json:"name"`
	Counts     map[string]int                `json:"component_counts"`
	Components map[string][]models.Component `json:"components"`
}

func writeSummary(sys *system.System, path string) error {
	out := summary{
		Name:       sys.Name(),
		Counts:     sys.ComponentCounts(),
		Components: make(map[string][]models.Component),
	}
	for _, typeName := range []string{
		models.TypeRegion, models.TypeReserveRegion, models.TypeGenerator,
		models.TypeInterface, models.TypeLine, models.TypeDemand, models.TypeReserve,
	} {
		if components := sys.GetComponents(typeName, nil); len(components) > 0 {
			out.Components[typeName] = components
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
