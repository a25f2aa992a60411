package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/cache"
	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/fallback"
	"github.com/bbernstein/groundscout/backend-go/internal/scoring"
	"github.com/bbernstein/groundscout/backend-go/internal/source"
	"github.com/bbernstein/groundscout/backend-go/internal/station"
	"github.com/bbernstein/groundscout/backend-go/pkg/http/client"
)

// App holds the wired services shared by the lambdas and the CLI
type App struct {
	Config    *config.Config
	Catalog   *station.Catalog
	Fallback  *fallback.Service
	Analyzer  *scoring.Analyzer
	Results   *cache.AnalysisCache
	Economics *source.DynamoEconomics
}

type options struct {
	offline   bool
	cacheCfg  *config.CacheConfig
	dynamo    source.DynamoDBClient
	fixtureS3 cache.S3Client
	noAWS     bool
}

type Option func(*options)

// WithOffline skips every live source and the AWS clients
func WithOffline() Option {
	return func(o *options) {
		o.offline = true
		o.noAWS = true
	}
}

func WithCacheConfig(cfg *config.CacheConfig) Option {
	return func(o *options) {
		o.cacheCfg = cfg
	}
}

// WithDynamoClient replaces the DynamoDB client built from the AWS config
func WithDynamoClient(c source.DynamoDBClient) Option {
	return func(o *options) {
		o.dynamo = c
	}
}

// WithFixtureS3Client replaces the S3 client built from the AWS config
func WithFixtureS3Client(c cache.S3Client) Option {
	return func(o *options) {
		o.fixtureS3 = c
	}
}

// New wires sources, caches, the fallback service and the analyzer from cfg
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.cacheCfg == nil {
		o.cacheCfg = config.GetCacheConfig()
	}

	fallbackCfg, err := config.GetFallbackConfig()
	if err != nil {
		return nil, fmt.Errorf("loading fallback config: %w", err)
	}
	if o.offline {
		fallbackCfg.OfflineMode = true
	}

	a := &App{Config: cfg}

	sources := httpSources(cfg)
	if !o.noAWS && o.dynamo == nil && cfg.EconomicsTable != "" {
		ddb, err := cache.NewDynamoClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		o.dynamo = ddb
	}
	if o.dynamo != nil {
		a.Economics = source.NewDynamoEconomics(o.dynamo, cfg.EconomicsTable, o.cacheCfg)
		sources.Economic = a.Economics
	}
	a.Fallback = fallback.NewService(fallbackCfg, fallback.WithSources(sources))

	catalogOpts := []station.Option{
		station.WithFixtureCache(cache.NewFixtureCache(o.cacheCfg)),
	}
	if cfg.FixtureBucket != "" && o.cacheCfg.EnableS3Fixtures {
		if !o.noAWS && o.fixtureS3 == nil {
			s3c, err := cache.NewS3Client(ctx, cfg)
			if err != nil {
				return nil, fmt.Errorf("creating S3 client: %w", err)
			}
			o.fixtureS3 = s3c
		}
		if o.fixtureS3 != nil {
			catalogOpts = append(catalogOpts, station.WithRemoteStore(cache.NewS3FixtureStore(o.fixtureS3, cfg.FixtureBucket, o.cacheCfg)))
		}
	}
	a.Catalog = station.NewCatalog(catalogOpts...)

	analyzerOpts := []scoring.AnalyzerOption{scoring.WithCompetitors(a.Catalog)}
	if o.cacheCfg.EnableLRUCache {
		a.Results, err = cache.NewAnalysisCache(o.cacheCfg)
		if err != nil {
			return nil, err
		}
		analyzerOpts = append(analyzerOpts, scoring.WithResultCache(a.Results))
	}
	a.Analyzer = scoring.NewAnalyzer(nil, analyzerOpts...)

	log.Info().
		Str("environment", cfg.Environment).
		Bool("offline", fallbackCfg.OfflineMode).
		Bool("liveEconomics", a.Economics != nil).
		Bool("resultCache", a.Results != nil).
		Msg("Services initialized")
	return a, nil
}

func httpSources(cfg *config.Config) fallback.Sources {
	var sources fallback.Sources
	if cfg.MaritimeBaseURL != "" {
		sources.Maritime = source.NewMaritimeAPI(newHTTPClient(cfg, cfg.MaritimeBaseURL))
	}
	if cfg.WeatherBaseURL != "" {
		sources.Weather = source.NewWeatherAPI(newHTTPClient(cfg, cfg.WeatherBaseURL))
	}
	if cfg.InfrastructureBaseURL != "" {
		sources.Infrastructure = source.NewInfrastructureAPI(newHTTPClient(cfg, cfg.InfrastructureBaseURL))
	}
	return sources
}

func newHTTPClient(cfg *config.Config, baseURL string) *client.Client {
	return client.New(client.Options{
		BaseURL:    baseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
}
