package repository

import (
	"context"
	"database/sql"

	"boatwatch/backend/services/ingest-service/internal/models"
)

// BoatRepository reads and provisions boat registry rows.
type BoatRepository struct {
	db *sql.DB
}

// NewBoatRepository returns repository.
func NewBoatRepository(db *sql.DB) *BoatRepository {
	return &BoatRepository{db: db}
}

// GetByID returns the boat with the given identifier.
func (r *BoatRepository) GetByID(ctx context.Context, id string) (*models.Boat, error) {
	const query = `
		SELECT id, name, device_secret, user_id, created_at
		FROM boats
		WHERE id = $1
	`
	return r.scanBoat(r.db.QueryRowContext(ctx, query, id))
}

// FindByName matches the display name case-insensitively. Names are not unique
// system-wide; the first match by creation order wins.
func (r *BoatRepository) FindByName(ctx context.Context, name string) (*models.Boat, error) {
	const query = `
		SELECT id, name, device_secret, user_id, created_at
		FROM boats
		WHERE LOWER(name) = LOWER($1)
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanBoat(r.db.QueryRowContext(ctx, query, name))
}

// First returns the earliest-created boat, used by the single-tenant fallback.
func (r *BoatRepository) First(ctx context.Context) (*models.Boat, error) {
	const query = `
		SELECT id, name, device_secret, user_id, created_at
		FROM boats
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanBoat(r.db.QueryRowContext(ctx, query))
}

// Create inserts a new boat row.
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

func (r *BoatRepository) scanBoat(row *sql.Row) (*models.Boat, error) {
	var boat models.Boat
	if err := row.Scan(&boat.ID, &boat.Name, &boat.DeviceSecret, &boat.UserID, &boat.CreatedAt); err != nil {
		return nil, err
	}
	return &boat, nil
}
