package source

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/fallback"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

const economicSource = "economics"

// DynamoDBClient is the subset of the DynamoDB API the economics table needs
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ fallback.EconomicSource = (*DynamoEconomics)(nil)

// economicsItem is the table layout; country is the partition key
type economicsItem struct {
	Country       string  `dynamodbav:"country"`
	GDPPerCapita  float64 `dynamodbav:"gdpPerCapita"`
	InfraIndex    float64 `dynamodbav:"infraIndex"`
	DigitalIndex  float64 `dynamodbav:"digitalIndex"`
	GrowthRatePct float64 `dynamodbav:"growthRatePct"`
	LastUpdated   int64   `dynamodbav:"lastUpdated"`
}

// DynamoEconomics serves country indicators from a DynamoDB table
type DynamoEconomics struct {
	client        DynamoDBClient
	table         string
	config        *config.CacheConfig
	retryInterval time.Duration
	now           func() time.Time
}

func NewDynamoEconomics(client DynamoDBClient, table string, cacheConfig *config.CacheConfig) *DynamoEconomics {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoEconomics{
		client:        client,
		table:         table,
		config:        cacheConfig,
		retryInterval: 100 * time.Millisecond,
		now:           time.Now,
	}
}

// FetchEconomics returns the stored indicators for country. A missing row is
// an error so the caller can fall back to the statistical table.
func (d *DynamoEconomics) FetchEconomics(ctx context.Context, country string) (models.EconomicData, error) {
	if country == "" {
		return models.EconomicData{}, NewUpstreamError(economicSource, "empty country", nil)
	}

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			"country": &types.AttributeValueMemberS{Value: country},
		},
	})
	if err != nil {
		return models.EconomicData{}, NewUpstreamError(economicSource, "getting item from DynamoDB", err)
	}
	if result.Item == nil {
		return models.EconomicData{}, NewUpstreamError(economicSource, "no record for "+country, nil)
	}

	var item economicsItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return models.EconomicData{}, NewUpstreamError(economicSource, "unmarshaling economics record", err)
	}
	if err := checkRange(economicSource, "gdpPerCapita", item.GDPPerCapita, 0, 1e7); err != nil {
		return models.EconomicData{}, err
	}

	return models.EconomicData{
		Country:       country,
		GDPPerCapita:  item.GDPPerCapita,
		InfraIndex:    item.InfraIndex,
		DigitalIndex:  item.DigitalIndex,
		GrowthRatePct: item.GrowthRatePct,
	}, nil
}

// Seed writes records in batches of CacheConfig.BatchSize, retrying failed
// batches and unprocessed items up to MaxBatchRetries times
func (d *DynamoEconomics) Seed(ctx context.Context, records []models.EconomicData) error {
	for _, r := range records {
		if r.Country == "" {
			return fmt.Errorf("invalid economics record: country is required")
		}
		if r.GDPPerCapita < 0 {
			return fmt.Errorf("invalid economics record %s: negative GDP per capita", r.Country)
		}
	}

	batchSize := d.config.BatchSize
	if batchSize <= 0 || batchSize > 25 {
		batchSize = 25
	}

	now := d.now().Unix()
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, r := range records[i:end] {
			item, err := attributevalue.MarshalMap(economicsItem{
				Country:       r.Country,
				GDPPerCapita:  r.GDPPerCapita,
				InfraIndex:    r.InfraIndex,
				DigitalIndex:  r.DigitalIndex,
				GrowthRatePct: r.GrowthRatePct,
				LastUpdated:   now,
			})
			if err != nil {
				return fmt.Errorf("marshaling economics record: %w", err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := d.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	log.Info().
		Str("table", d.table).
		Int("records", len(records)).
		Msg("Seeded economics table")
	return nil
}

func (d *DynamoEconomics) writeBatch(ctx context.Context, pending []types.WriteRequest) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(d.config.MaxBatchRetries, 0))), ctx)

	op := func() error {
		out, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				d.table: pending,
			},
		})
		if err != nil {
			return err
		}
		if out != nil && len(out.UnprocessedItems[d.table]) > 0 {
			pending = out.UnprocessedItems[d.table]
			return fmt.Errorf("%d unprocessed items", len(pending))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("Retrying economics batch write")
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return fmt.Errorf("batch writing economics after %d retries: %w", d.config.MaxBatchRetries, err)
	}
	return nil
}

// SeedRecords returns the built-in country table in a stable order
func SeedRecords() []models.EconomicData {
	countries := stats.Countries()
	sort.Strings(countries)

	out := make([]models.EconomicData, 0, len(countries))
	for _, c := range countries {
		e := stats.LookupCountryEconomics(c)
		out = append(out, models.EconomicData{
			Country:       c,
			GDPPerCapita:  e.GDPPerCapita,
			InfraIndex:    e.InfraIndex,
			DigitalIndex:  e.DigitalIndex,
			GrowthRatePct: e.GrowthRatePct,
		})
	}
	return out
}
