package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"boatwatch/backend/services/ingest-service/internal/models"
)

// Channel returns the pub/sub channel carrying inserted rows for one boat.
func Channel(boatID string) string {
	return fmt.Sprintf("telemetry:inserted:%s", boatID)
}

// Publisher pushes persisted telemetry rows onto per-boat redis channels, where
// the dashboard service fans them out to browsers.
type Publisher struct {
	client *redis.Client
}

// NewPublisher returns publisher.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// RecordInserted publishes one record as JSON.
func (p *Publisher) RecordInserted(ctx context.Context, record models.TelemetryRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(record.BoatID), payload).Err()
}
