package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/fallback"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

// mockDynamoDBClient implements DynamoDBClient with overridable behaviour
type mockDynamoDBClient struct {
	getItemFunc        func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	batchWriteItemFunc func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if m.batchWriteItemFunc != nil {
		return m.batchWriteItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func testCacheConfig(batchSize, retries int) *config.CacheConfig {
	cfg := config.GetCacheConfig()
	cfg.BatchSize = batchSize
	cfg.MaxBatchRetries = retries
	return cfg
}

func newTestEconomics(client DynamoDBClient, cfg *config.CacheConfig) *DynamoEconomics {
	d := NewDynamoEconomics(client, "country-economics", cfg)
	d.retryInterval = time.Millisecond
	d.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }
	return d
}

func TestFetchEconomics(t *testing.T) {
	t.Parallel()

	norway, err := attributevalue.MarshalMap(economicsItem{
		Country:       "Norway",
		GDPPerCapita:  87900,
		InfraIndex:    89,
		DigitalIndex:  90,
		GrowthRatePct: 0.5,
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		country   string
		mockSetup func() *mockDynamoDBClient
		wantGDP   float64
		wantErr   bool
	}{
		{
			name:    "record found",
			country: "Norway",
			mockSetup: func() *mockDynamoDBClient {
				return &mockDynamoDBClient{
					getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
						assert.Equal(t, "country-economics", *params.TableName)
						key := params.Key["country"].(*types.AttributeValueMemberS)
						assert.Equal(t, "Norway", key.Value)
						return &dynamodb.GetItemOutput{Item: norway}, nil
					},
				}
			},
			wantGDP: 87900,
		},
		{
			name:      "record missing",
			country:   "Atlantis",
			mockSetup: func() *mockDynamoDBClient { return &mockDynamoDBClient{} },
			wantErr:   true,
		},
		{
			name:    "dynamo failure",
			country: "Norway",
			mockSetup: func() *mockDynamoDBClient {
				return &mockDynamoDBClient{
					getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
						return nil, errors.New("throttled")
					},
				}
			},
			wantErr: true,
		},
		{
			name:      "empty country",
			country:   "",
			mockSetup: func() *mockDynamoDBClient { return &mockDynamoDBClient{} },
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newTestEconomics(tt.mockSetup(), testCacheConfig(25, 3))
			got, err := d.FetchEconomics(context.Background(), tt.country)
			if tt.wantErr {
				var upstream *UpstreamError
				assert.True(t, errors.As(err, &upstream))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGDP, got.GDPPerCapita)
			assert.Equal(t, tt.country, got.Country)
		})
	}
}

func TestSeedBatches(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var batchSizes []int
	client := &mockDynamoDBClient{
		batchWriteItemFunc: func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
			mu.Lock()
			defer mu.Unlock()
			batchSizes = append(batchSizes, len(params.RequestItems["country-economics"]))
			return &dynamodb.BatchWriteItemOutput{}, nil
		},
	}

	records := SeedRecords()
	require.NotEmpty(t, records)

	d := newTestEconomics(client, testCacheConfig(10, 3))
	require.NoError(t, d.Seed(context.Background(), records))

	total := 0
	for _, n := range batchSizes {
		assert.LessOrEqual(t, n, 10)
		total += n
	}
	assert.Equal(t, len(records), total)
	assert.Len(t, batchSizes, (len(records)+9)/10)
}

func TestSeedRetriesUnprocessedItems(t *testing.T) {
	t.Parallel()

	calls := 0
	client := &mockDynamoDBClient{
		batchWriteItemFunc: func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
			calls++
			pending := params.RequestItems["country-economics"]
			if calls == 1 {
				return &dynamodb.BatchWriteItemOutput{
					UnprocessedItems: map[string][]types.WriteRequest{"country-economics": pending[:1]},
				}, nil
			}
			assert.Len(t, pending, 1)
			return &dynamodb.BatchWriteItemOutput{}, nil
		},
	}

	d := newTestEconomics(client, testCacheConfig(25, 3))
	err := d.Seed(context.Background(), []models.EconomicData{
		{Country: "Norway", GDPPerCapita: 87900},
		{Country: "Chile", GDPPerCapita: 17100},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSeedGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	client := &mockDynamoDBClient{
		batchWriteItemFunc: func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
			calls++
			return nil, errors.New("provisioned throughput exceeded")
		},
	}

	d := newTestEconomics(client, testCacheConfig(25, 2))
	err := d.Seed(context.Background(), []models.EconomicData{{Country: "Kenya", GDPPerCapita: 2000}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, 3, calls)
}

func TestSeedRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	d := newTestEconomics(&mockDynamoDBClient{}, testCacheConfig(25, 3))
	assert.Error(t, d.Seed(context.Background(), []models.EconomicData{{Country: ""}}))
	assert.Error(t, d.Seed(context.Background(), []models.EconomicData{{Country: "X", GDPPerCapita: -1}}))
}

func TestDynamoEconomicsFeedsFallbackChain(t *testing.T) {
	t.Parallel()

	item, err := attributevalue.MarshalMap(economicsItem{Country: "Iceland", GDPPerCapita: 80000, InfraIndex: 80, DigitalIndex: 88})
	require.NoError(t, err)
	client := &mockDynamoDBClient{
		getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: item}, nil
		},
	}

	svc := fallback.NewService(config.DefaultFallbackConfig(), fallback.WithSources(fallback.Sources{
		Economic: newTestEconomics(client, testCacheConfig(25, 3)),
	}))

	got := svc.GetEconomicData(context.Background(), "Iceland")
	assert.Equal(t, models.SourceLive, got.Metadata.Source)
	assert.Equal(t, 80000.0, got.Data.GDPPerCapita)
}
