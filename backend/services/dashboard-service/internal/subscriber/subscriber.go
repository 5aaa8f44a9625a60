package subscriber

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"boatwatch/backend/services/dashboard-service/internal/models"
	"boatwatch/backend/services/dashboard-service/internal/view"
	"boatwatch/backend/services/dashboard-service/internal/ws"
)

// channelPattern matches the per-boat channels the ingest service publishes on.
const channelPattern = "telemetry:inserted:*"

// Update is the envelope pushed to dashboard subscribers for every new row.
type Update struct {
	Type     string                 `json:"type"`
	Record   models.TelemetryRecord `json:"record"`
	Snapshot view.Snapshot          `json:"snapshot"`
}

// Subscriber bridges redis pub/sub to the per-boat view state and the
// WebSocket fan-out. Each message triggers a synchronous map update, a
// snapshot recompute, and a broadcast; there is no buffering beyond redis.
type Subscriber struct {
	client   *redis.Client
	registry *view.Registry
	manager  *ws.Manager
	logger   *zap.Logger
}

// NewSubscriber returns subscriber.
func NewSubscriber(client *redis.Client, registry *view.Registry, manager *ws.Manager, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		client:   client,
		registry: registry,
		manager:  manager,
		logger:   logger,
	}
}

// Run consumes inserted-row notifications until the context is cancelled.
// Malformed messages are logged and skipped; the view degrades rather than
// crashes.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.PSubscribe(ctx, channelPattern)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg *redis.Message) {
	boatID := boatIDFromChannel(msg.Channel)
	if boatID == "" {
		return
	}

	var record models.TelemetryRecord
	if err := json.Unmarshal([]byte(msg.Payload), &record); err != nil {
		s.logger.Warn("dropping malformed telemetry notification",
			zap.String("channel", msg.Channel),
			zap.Error(err),
		)
		return
	}

	state := s.registry.Get(ctx, boatID)
	snapshot := state.Apply(record)

	payload, err := json.Marshal(Update{
		Type:     "telemetry",
		Record:   record,
		Snapshot: snapshot,
	})
	if err != nil {
		s.logger.Warn("failed to encode update", zap.Error(err))
		return
	}
	s.manager.Broadcast(boatID, payload)
}

func boatIDFromChannel(channel string) string {
	idx := strings.LastIndex(channel, ":")
	if idx < 0 || idx == len(channel)-1 {
		return ""
	}
	return channel[idx+1:]
}
