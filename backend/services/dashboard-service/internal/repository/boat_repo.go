package repository

import (
	"context"
	"database/sql"

	"boatwatch/backend/services/dashboard-service/internal/models"
)

// BoatRepository manages the fleet registry from the dashboard side.
type BoatRepository struct {
	db *sql.DB
}

// NewBoatRepository returns repository.
func NewBoatRepository(db *sql.DB) *BoatRepository {
	return &BoatRepository{db: db}
}

// ListByUser returns the boats owned by a user, oldest first.
func (r *BoatRepository) ListByUser(ctx context.Context, userID int64) ([]models.Boat, error) {
	const query = `
		SELECT id, name, device_secret, user_id, created_at
		FROM boats
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boats []models.Boat
	for rows.Next() {
		var b models.Boat
		if err := rows.Scan(&b.ID, &b.Name, &b.DeviceSecret, &b.UserID, &b.CreatedAt); err != nil {
			return nil, err
		}
		boats = append(boats, b)
	}
	return boats, rows.Err()
}

// GetOwned returns a boat only if the user owns it.
func (r *BoatRepository) GetOwned(ctx context.Context, boatID string, userID int64) (*models.Boat, error) {
	const query = `
		SELECT id, name, device_secret, user_id, created_at
		FROM boats
		WHERE id = $1 AND user_id = $2
	`
	var b models.Boat
	if err := r.db.QueryRowContext(ctx, query, boatID, userID).Scan(
		&b.ID, &b.Name, &b.DeviceSecret, &b.UserID, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new boat owned by the user.
func (r *BoatRepository) Create(ctx context.Context, boat *models.Boat) error {
	const query = `
		INSERT INTO boats (id, name, device_secret, user_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		boat.ID,
		boat.Name,
		boat.DeviceSecret,
		boat.UserID,
	).Scan(&boat.CreatedAt)
}

// Claim binds an unowned boat to a user when the secret matches. Returns false
// when the boat does not exist, the secret is wrong, or it is already owned.
func (r *BoatRepository) Claim(ctx context.Context, boatID, secret string, userID int64) (bool, error) {
	const query = `
		UPDATE boats
		SET user_id = $1
		WHERE id = $2 AND device_secret = $3 AND user_id IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, userID, boatID, secret)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
