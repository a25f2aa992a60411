package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/groundscout/backend-go/internal/benchmark"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/terrain"
)

func runCLI(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))
	return out.Bytes()
}

func TestScoreCommand(t *testing.T) {
	out := runCLI(t, "--offline", "score", "--lat=1.35", "--lon=103.82", "--radius=250")

	var analysis models.OpportunityAnalysis
	require.NoError(t, json.Unmarshal(out, &analysis))
	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, 1.35, analysis.Location.Latitude)
	assert.NotEmpty(t, analysis.PriorityTier)
}

func TestScoreCommand_InvalidLocation(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"--offline", "score", "--lat=120", "--lon=0"}, &out)
	assert.Error(t, err)
}

func TestCompetitorsCommand(t *testing.T) {
	out := runCLI(t, "--offline", "competitors", "--lat=-33.4", "--lon=-70.6", "--limit=2")

	var ranked []map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &ranked))
	require.Len(t, ranked, 2)
	item := ranked[0]["item"].(map[string]interface{})
	assert.Equal(t, "cmp-starlink-cl", item["id"])
}

func TestEnrichCommand(t *testing.T) {
	out := runCLI(t, "--offline", "enrich", "gs-no-01")

	var record models.EnrichedStationRecord
	require.NoError(t, json.Unmarshal(out, &record))
	assert.Equal(t, "gs-no-01", record.ID)
	assert.Greater(t, record.GDPPerCapita, 0.0)
	for _, src := range record.Quality.Sources {
		assert.NotEqual(t, models.SourceLive, src, "offline enrichment never reports live data")
	}
}

func TestBenchmarkCommand(t *testing.T) {
	out := runCLI(t, "--offline", "benchmark", "gs-sg-01", "gs-za-01")

	var reports []benchmark.Report
	require.NoError(t, json.Unmarshal(out, &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "gs-sg-01", reports[0].StationID)
	assert.Equal(t, "gs-za-01", reports[1].StationID)
	assert.NotEmpty(t, reports[0].Results)
}

func TestBenchmarkCommand_AllStations(t *testing.T) {
	out := runCLI(t, "--offline", "benchmark")

	var reports []benchmark.Report
	require.NoError(t, json.Unmarshal(out, &reports))
	assert.Len(t, reports, 8)
}

func TestRiskCommand(t *testing.T) {
	input := `{
		"location": {"latitude": 39.74, "longitude": -104.99},
		"metrics": {"elevationM": 1600, "slopeDeg": 9, "aspectDeg": 180, "ruggedness": 100, "elevationStdDevM": 100, "aspectEntropyBits": 1.5},
		"viewshed": {"visibleAreaKm2": 800, "coveragePct": 80, "avgHorizonAngleDeg": 2, "obstructionRatio": 0.1, "maxRangeKm": 60},
		"infrastructure": [
			{"type": "road", "location": {"latitude": 39.75, "longitude": -104.99}},
			{"type": "fiber", "location": {"latitude": 39.76, "longitude": -105.0}}
		],
		"population": [{"name": "Denver", "location": {"latitude": 39.7392, "longitude": -104.9903}, "population": 2900000}]
	}`
	path := filepath.Join(t.TempDir(), "site.json")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o600))

	first := runCLI(t, "risk", path, "--trials=500", "--seed=42")
	second := runCLI(t, "risk", path, "--trials=500", "--seed=42")

	var a, b riskOutput
	require.NoError(t, json.Unmarshal(first, &a))
	require.NoError(t, json.Unmarshal(second, &b))
	assert.Len(t, a.Assessment.Categories, 4)
	assert.Equal(t, 500, a.Assessment.MonteCarlo.Trials)
	assert.Equal(t, a.Assessment.MonteCarlo, b.Assessment.MonteCarlo, "same seed gives the same simulation")
	assert.Len(t, a.Sensitivity, 4)
}

func writeCorrelationInput(t *testing.T) string {
	t.Helper()
	ids := []string{"gs-sg-01", "gs-no-01", "gs-us-01", "gs-ie-01", "gs-za-01", "gs-cl-01", "gs-au-01", "gs-ae-01"}
	inputs := make(map[string]terrain.Input, len(ids))
	for i, id := range ids {
		inputs[id] = terrain.Input{
			Metrics: models.TerrainMetrics{
				ElevationM:        float64(100 + 300*i),
				SlopeDeg:          float64(2 + 3*i),
				AspectDeg:         180,
				Ruggedness:        float64(20 + 25*i),
				ElevationStdDevM:  float64(10 + 15*i),
				AspectEntropyBits: 1.5,
			},
			Viewshed: models.ViewshedAnalysis{
				VisibleAreaKm2:     float64(1000 - 80*i),
				CoveragePct:        float64(90 - 5*i),
				AvgHorizonAngleDeg: float64(1 + i),
				ObstructionRatio:   0.05 * float64(i),
				MaxRangeKm:         60,
			},
		}
	}
	data, err := json.Marshal(inputs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "terrain.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCorrelateCommand(t *testing.T) {
	path := writeCorrelationInput(t)

	out := runCLI(t, "--offline", "correlate", path, "--metric=utilization")

	var correlations []terrain.Correlation
	require.NoError(t, json.Unmarshal(out, &correlations))
	assert.Len(t, correlations, len(terrain.Vector(models.TerrainMLFeatures{})))
	for _, c := range correlations {
		assert.Equal(t, 8, c.N, "feature %s", c.Feature)
		assert.GreaterOrEqual(t, c.R, -1.0)
		assert.LessOrEqual(t, c.R, 1.0)
		assert.LessOrEqual(t, c.CILow, c.CIHigh)
	}
}

func TestCorrelateCommand_UnknownMetric(t *testing.T) {
	path := writeCorrelationInput(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"--offline", "correlate", path, "--metric=uptime"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 4 samples")
}

func TestSeedCommand_RequiresDynamo(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"--offline", "seed"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DynamoDB")
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"launch"}, &out))
}
