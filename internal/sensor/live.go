package sensor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

const (
	latestReadingKey  = "sensors:latest_reading"
	recordChannelFmt  = "vitals:record:%s"
	latestReadingTTL  = 0 // kept until overwritten
)

// LivePublisher delivers readings to live subscribers over Redis pub/sub and
// maintains the latest-reading cache. Implements ReadingPublisher.
type LivePublisher struct {
	client *redis.Client
	logger *logger.Logger
}

// NewLivePublisher creates a new Redis-backed reading publisher
func NewLivePublisher(client *redis.Client, log *logger.Logger) interfaces.ReadingPublisher {
	return &LivePublisher{
		client: client,
		logger: log,
	}
}

// PublishReading pushes a reading to the medical record's channel.
// Subscriber absence is not an error.
func (p *LivePublisher) PublishReading(ctx context.Context, reading *types.LatestReading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	channel := fmt.Sprintf(recordChannelFmt, reading.MedicalRecordID)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish reading to %s: %w", channel, err)
	}

	return nil
}

// CacheLatest stores the most recent reading for the latest-reading endpoint
func (p *LivePublisher) CacheLatest(ctx context.Context, reading *types.LatestReading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	if err := p.client.Set(ctx, latestReadingKey, payload, latestReadingTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache latest reading: %w", err)
	}

	return nil
}

// Latest returns the most recently cached reading
func (p *LivePublisher) Latest(ctx context.Context) (*types.LatestReading, error) {
	payload, err := p.client.Get(ctx, latestReadingKey).Result()
	if err == redis.Nil {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "no reading received yet")
	}
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to read latest reading cache", err)
	}

	reading := &types.LatestReading{}
	if err := json.Unmarshal([]byte(payload), reading); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to decode latest reading", err)
	}

	return reading, nil
}
