package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"boatwatch/backend/services/ingest-service/internal/models"
)

// ErrUnauthorizedDevice is returned when secret verification is enabled and the
// reporting hardware presented a wrong or missing secret.
var ErrUnauthorizedDevice = errors.New("unauthorized device: boat id or secret mismatch")

// ErrEmptyBatch is returned for requests without a non-empty measurements list.
var ErrEmptyBatch = errors.New("invalid payload: non-empty 'measurements' array expected")

// TelemetryWriter persists normalized batches.
type TelemetryWriter interface {
	InsertBatch(ctx context.Context, records []models.TelemetryRecord) ([]models.TelemetryRecord, error)
}

// InsertNotifier pushes persisted records to live subscribers.
type InsertNotifier interface {
	RecordInserted(ctx context.Context, record models.TelemetryRecord) error
}

// IngestService runs the full ingestion pipeline: resolve identity, normalize,
// persist as one batch, notify.
type IngestService struct {
	resolver     *Resolver
	normalizer   *Normalizer
	telemetry    TelemetryWriter
	notifier     InsertNotifier
	verifySecret bool
	logger       *zap.Logger
}

// NewIngestService wires the pipeline. notifier may be nil.
func NewIngestService(resolver *Resolver, normalizer *Normalizer, telemetry TelemetryWriter, notifier InsertNotifier, verifySecret bool, logger *zap.Logger) *IngestService {
	return &IngestService{
		resolver:     resolver,
		normalizer:   normalizer,
		telemetry:    telemetry,
		notifier:     notifier,
		verifySecret: verifySecret,
		logger:       logger,
	}
}

// Ingest processes one measurement batch. The whole batch is inserted as a
// single multi-row statement: either every record is persisted or none is.
// There is no retry and no per-row fallback.
func (s *IngestService) Ingest(ctx context.Context, identityToken, deviceSecret string, measurements []Measurement) ([]models.TelemetryRecord, error) {
	if len(measurements) == 0 {
		return nil, ErrEmptyBatch
	}

	resolved, err := s.resolver.Resolve(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	if s.verifySecret {
		if err := verifyDeviceSecret(resolved.Boat, deviceSecret); err != nil {
			return nil, err
		}
	}

	records := s.normalizer.NormalizeBatch(resolved.BoatID, measurements)

	inserted, err := s.telemetry.InsertBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("telemetry insert failed: %w", err)
	}

	if s.notifier != nil {
		for _, record := range inserted {
			if err := s.notifier.RecordInserted(ctx, record); err != nil {
				s.logger.Warn("failed to notify inserted record",
					zap.String("boat_id", record.BoatID),
					zap.Error(err),
				)
			}
		}
	}

	s.logger.Info("ingested telemetry batch",
		zap.String("boat_id", resolved.BoatID),
		zap.Int("records", len(inserted)),
	)
	return inserted, nil
}

// verifyDeviceSecret requires a loaded boat with a configured secret. The
// lenient UUID path never loads the boat, so secret verification implies the
// strict policy; config validation enforces that pairing.
func verifyDeviceSecret(boat *models.Boat, presented string) error {
	if boat == nil || boat.DeviceSecret == "" {
		return ErrUnauthorizedDevice
	}
	if subtle.ConstantTimeCompare([]byte(boat.DeviceSecret), []byte(presented)) != 1 {
		return ErrUnauthorizedDevice
	}
	return nil
}
