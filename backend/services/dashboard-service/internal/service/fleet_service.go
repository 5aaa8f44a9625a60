package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boatwatch/backend/services/dashboard-service/internal/models"
	"boatwatch/backend/services/dashboard-service/internal/repository"
)

// ErrBoatNotOwned is returned when a user requests a boat they do not own.
var ErrBoatNotOwned = errors.New("boat not found or not owned by user")

// FleetService covers boat onboarding and claiming.
type FleetService struct {
	boats  *repository.BoatRepository
	logger *zap.Logger
}

// NewFleetService returns service instance.
func NewFleetService(boats *repository.BoatRepository, logger *zap.Logger) *FleetService {
	return &FleetService{boats: boats, logger: logger}
}

// CreatedBoat carries the one-time plaintext device secret back to the user.
type CreatedBoat struct {
	Boat         models.Boat `json:"boat"`
	DeviceSecret string      `json:"device_secret"`
}

// CreateBoat registers a new boat for the user and generates its device secret.
// The secret is returned exactly once, for flashing onto the hardware.
func (s *FleetService) CreateBoat(ctx context.Context, name string, userID int64) (*CreatedBoat, error) {
	if name == "" {
		return nil, errors.New("boat name is required")
	}

	secret, err := newDeviceSecret()
	if err != nil {
		return nil, fmt.Errorf("secret generation failed: %w", err)
	}

	boat := &models.Boat{
		ID:           uuid.NewString(),
		Name:         name,
		DeviceSecret: secret,
		UserID:       &userID,
	}
	if err := s.boats.Create(ctx, boat); err != nil {
		return nil, fmt.Errorf("boat creation failed: %w", err)
	}

	s.logger.Info("boat created", zap.String("boat_id", boat.ID), zap.Int64("user_id", userID))
	return &CreatedBoat{Boat: *boat, DeviceSecret: secret}, nil
}

// ListBoats returns the user's fleet.
func (s *FleetService) ListBoats(ctx context.Context, userID int64) ([]models.Boat, error) {
	return s.boats.ListByUser(ctx, userID)
}

// VerifyOwnership checks the user owns the boat.
func (s *FleetService) VerifyOwnership(ctx context.Context, boatID string, userID int64) error {
	_, err := s.boats.GetOwned(ctx, boatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBoatNotOwned
	}
	return err
}

// Claim binds an unowned boat to the user when id and secret match.
func (s *FleetService) Claim(ctx context.Context, boatID, secret string, userID int64) (bool, error) {
	claimed, err := s.boats.Claim(ctx, boatID, secret, userID)
	if err != nil {
		return false, fmt.Errorf("claim failed: %w", err)
	}
	if claimed {
		s.logger.Info("boat claimed", zap.String("boat_id", boatID), zap.Int64("user_id", userID))
	}
	return claimed, nil
}

func newDeviceSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
