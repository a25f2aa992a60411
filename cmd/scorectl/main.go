package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/app"
	"github.com/bbernstein/groundscout/backend-go/internal/benchmark"
	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/source"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
	"github.com/bbernstein/groundscout/backend-go/internal/terrain"
)

type CLI struct {
	Offline bool `help:"Skip live data sources and AWS."`

	Score       ScoreCmd       `cmd:"" help:"Score a candidate location."`
	Competitors CompetitorsCmd `cmd:"" help:"List the competitors nearest a location."`
	Enrich      EnrichCmd      `cmd:"" help:"Enrich a catalog station with live and fallback data."`
	Benchmark   BenchmarkCmd   `cmd:"" help:"Rate catalog stations against industry benchmarks."`
	Risk        RiskCmd        `cmd:"" help:"Extract terrain features and assess site risk."`
	Correlate   CorrelateCmd   `cmd:"" help:"Correlate catalog station terrain with a performance metric."`
	Seed        SeedCmd        `cmd:"" help:"Seed the country economics table."`
}

// runContext is bound into every command's Run method
type runContext struct {
	ctx     context.Context
	cfg     *config.Config
	offline bool
	out     io.Writer

	services *app.App
}

func (rc *runContext) app() (*app.App, error) {
	if rc.services != nil {
		return rc.services, nil
	}
	var opts []app.Option
	if rc.offline {
		opts = append(opts, app.WithOffline())
	}
	a, err := app.New(rc.ctx, rc.cfg, opts...)
	if err != nil {
		return nil, err
	}
	rc.services = a
	return a, nil
}

func (rc *runContext) print(v any) error {
	enc := json.NewEncoder(rc.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type ScoreCmd struct {
	Lat    float64 `required:"" help:"Latitude in degrees."`
	Lon    float64 `required:"" help:"Longitude in degrees."`
	Radius float64 `help:"Competitor radius in km (default 1000)."`
}

func (c *ScoreCmd) Run(rc *runContext) error {
	a, err := rc.app()
	if err != nil {
		return err
	}
	req := models.LocationRequest{Latitude: c.Lat, Longitude: c.Lon}
	if c.Radius != 0 {
		req.RadiusKm = &c.Radius
	}
	analysis, err := a.Analyzer.Analyze(rc.ctx, req)
	if err != nil {
		return err
	}
	return rc.print(analysis)
}

type CompetitorsCmd struct {
	Lat   float64 `required:"" help:"Latitude in degrees."`
	Lon   float64 `required:"" help:"Longitude in degrees."`
	Limit int     `default:"5" help:"Maximum competitors to list."`
}

func (c *CompetitorsCmd) Run(rc *runContext) error {
	a, err := rc.app()
	if err != nil {
		return err
	}
	ranked, err := a.Catalog.FindNearestCompetitors(rc.ctx, geo.Location{Latitude: c.Lat, Longitude: c.Lon}, c.Limit)
	if err != nil {
		return err
	}
	return rc.print(ranked)
}

type EnrichCmd struct {
	StationID string `arg:"" help:"Catalog station ID."`
}

func (c *EnrichCmd) Run(rc *runContext) error {
	a, err := rc.app()
	if err != nil {
		return err
	}
	station, err := a.Catalog.FindStation(rc.ctx, c.StationID)
	if err != nil {
		return err
	}
	enriched, err := a.Fallback.GetEnrichedStationWithFallback(rc.ctx, *station)
	if err != nil {
		return err
	}
	return rc.print(enriched)
}

type BenchmarkCmd struct {
	StationIDs []string `arg:"" optional:"" help:"Station IDs; all catalog stations when omitted."`
}

func (c *BenchmarkCmd) Run(rc *runContext) error {
	a, err := rc.app()
	if err != nil {
		return err
	}
	validator, err := benchmark.NewValidator()
	if err != nil {
		return err
	}

	var stations []models.StationRecord
	if len(c.StationIDs) == 0 {
		stations, err = a.Catalog.ListStations(rc.ctx)
		if err != nil {
			return err
		}
	}
	for _, id := range c.StationIDs {
		s, err := a.Catalog.FindStation(rc.ctx, id)
		if err != nil {
			return err
		}
		stations = append(stations, *s)
	}

	reports := make([]benchmark.Report, 0, len(stations))
	for _, s := range stations {
		report, err := validator.Validate(s)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	return rc.print(reports)
}

type RiskCmd struct {
	Input  string `arg:"" type:"existingfile" help:"JSON file with location, metrics, viewshed, infrastructure and population."`
	Trials int    `default:"10000" help:"Monte Carlo trials."`
	Seed   uint64 `help:"Seed for reproducible simulations; 0 seeds from the runtime."`
}

type riskOutput struct {
	Features    models.TerrainMLFeatures    `json:"features"`
	Assessment  models.RiskAssessmentResult `json:"assessment"`
	Sensitivity []terrain.SensitivityResult `json:"sensitivity"`
	Importance  map[string]float64          `json:"importance"`
}

func (c *RiskCmd) Run(rc *runContext) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	var in terrain.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding %s: %w", c.Input, err)
	}

	features, err := terrain.ExtractFeatures(in)
	if err != nil {
		return err
	}

	opts := []terrain.AssessorOption{terrain.WithTrials(c.Trials)}
	if c.Seed != 0 {
		opts = append(opts, terrain.WithRandom(stats.NewRandom(c.Seed)))
	}

	return rc.print(riskOutput{
		Features:    features,
		Assessment:  terrain.NewAssessor(opts...).Assess(features),
		Sensitivity: terrain.Sensitivity(features),
		Importance:  terrain.FeatureImportance(features),
	})
}

type CorrelateCmd struct {
	Input  string `arg:"" type:"existingfile" help:"JSON object of station ID to metrics, viewshed, infrastructure and population."`
	Metric string `default:"utilization" help:"Benchmark metric to correlate against."`
}

func (c *CorrelateCmd) Run(rc *runContext) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	var inputs map[string]terrain.Input
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("decoding %s: %w", c.Input, err)
	}

	a, err := rc.app()
	if err != nil {
		return err
	}
	stations, err := a.Catalog.ListStations(rc.ctx)
	if err != nil {
		return err
	}

	var samples []terrain.Sample
	for _, s := range stations {
		in, ok := inputs[s.ID]
		if !ok {
			continue
		}
		// terrain is always measured at the catalog location
		in.Location = s.Location
		features, err := terrain.ExtractFeatures(in)
		if err != nil {
			return fmt.Errorf("station %s: %w", s.ID, err)
		}

		observed := make(map[string]float64, len(benchmark.DefaultMetrics))
		for _, m := range benchmark.DefaultMetrics {
			if v, ok := m.Value(s); ok {
				observed[m.Name] = v
			}
		}
		samples = append(samples, terrain.Sample{StationID: s.ID, Features: features, Metrics: observed})
	}
	log.Debug().Int("samples", len(samples)).Str("metric", c.Metric).Msg("Correlating catalog stations")

	correlations, err := terrain.Correlate(samples, c.Metric)
	if err != nil {
		return err
	}
	return rc.print(correlations)
}

type SeedCmd struct{}

func (c *SeedCmd) Run(rc *runContext) error {
	if rc.offline {
		return fmt.Errorf("seeding needs DynamoDB; drop --offline")
	}
	a, err := rc.app()
	if err != nil {
		return err
	}
	if a.Economics == nil {
		return fmt.Errorf("no economics table configured")
	}

	records := source.SeedRecords()
	if err := a.Economics.Seed(rc.ctx, records); err != nil {
		return err
	}
	log.Info().Int("count", len(records)).Str("table", rc.cfg.EconomicsTable).Msg("Seeded country economics")
	return nil
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("scorectl"),
		kong.Description("Ground station opportunity scoring tools."),
		kong.UsageOnError(),
	)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	return kctx.Run(&runContext{
		ctx:     ctx,
		cfg:     cfg,
		offline: cli.Offline,
		out:     out,
	})
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("scorectl failed")
		os.Exit(1)
	}
}
