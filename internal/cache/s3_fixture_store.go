package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const (
	fixturesKey = "fixtures.json"
)

// S3FixtureStore keeps a refreshed copy of the station and competitor fixtures in S3
type S3FixtureStore struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

// FixtureCacheRecord is the stored object with its freshness metadata
type FixtureCacheRecord struct {
	FixtureSet
	LastUpdated int64 `json:"lastUpdated"`
	TTL         int64 `json:"ttl"`
}

// FixtureStoreProvider defines the interface for remote fixture storage
type FixtureStoreProvider interface {
	GetFixtures(ctx context.Context) (*FixtureSet, error)
	SaveFixtures(ctx context.Context, fixtures *FixtureSet) error
}

var _ FixtureStoreProvider = (*S3FixtureStore)(nil)

func NewS3FixtureStore(client S3Client, bucketName string, cfg *config.CacheConfig) *S3FixtureStore {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	return &S3FixtureStore{
		client:     client,
		bucketName: bucketName,
		ttl:        cfg.GetFixtureTTL(),
		clock:      realClock{},
	}
}

// GetFixtures returns nil without error when the object is missing or stale
func (c *S3FixtureStore) GetFixtures(ctx context.Context) (*FixtureSet, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(fixturesKey),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting fixtures from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record FixtureCacheRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding fixture record: %w", err)
	}

	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Msg("Fixture cache expired")
		return nil, nil
	}

	return &record.FixtureSet, nil
}

// SaveFixtures writes the fixture set with a fresh TTL
func (c *S3FixtureStore) SaveFixtures(ctx context.Context, fixtures *FixtureSet) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}
	if fixtures == nil {
		return fmt.Errorf("nil fixture set")
	}

	now := c.clock.Now().Unix()
	record := FixtureCacheRecord{
		FixtureSet:  *fixtures,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding fixture record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(fixturesKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().
		Int("station_count", len(fixtures.Stations)).
		Int("competitor_count", len(fixtures.Competitors)).
		Msg("Saved fixtures to S3")
	return nil
}
