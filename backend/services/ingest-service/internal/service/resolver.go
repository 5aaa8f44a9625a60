package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boatwatch/backend/services/ingest-service/internal/models"
)

// Policy controls how unknown device identities are handled.
type Policy string

const (
	// PolicyStrict rejects identity tokens that do not match a registered boat.
	// Suited to closed fleets where boats are onboarded through the panel.
	PolicyStrict Policy = "strict"
	// PolicyLenient auto-provisions a boat on first contact with an unseen name
	// and trusts UUID tokens without an existence check (a bad reference then
	// fails at insert time with a foreign key error). Zero-touch provisioning.
	PolicyLenient Policy = "lenient"
)

var (
	// ErrMissingIdentity is returned when no identity token was supplied and the
	// deployment does not allow the single-tenant fallback.
	ErrMissingIdentity = errors.New("missing boat identity (X-Boat-Id header)")
	// ErrBoatNotFound is returned under the strict policy for unknown tokens.
	ErrBoatNotFound = errors.New("boat not found")
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// BoatDirectory is the registry lookup surface the resolver needs.
type BoatDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Boat, error)
	FindByName(ctx context.Context, name string) (*models.Boat, error)
	First(ctx context.Context) (*models.Boat, error)
	Create(ctx context.Context, boat *models.Boat) error
}

// ResolverConfig captures the deployment choices for identity resolution.
type ResolverConfig struct {
	Policy Policy
	// AllowAnonymous enables the single-tenant fallback: a request without an
	// identity token binds to the first registered boat, provisioning one if
	// the registry is empty.
	AllowAnonymous bool
	// DefaultBoatName is used when auto-provisioning without a name token.
	DefaultBoatName string
	// DefaultDeviceSecret is assigned to auto-provisioned boats.
	DefaultDeviceSecret string
}

// Resolver turns a caller-supplied identity token into a boat record. Exactly
// one resolution path runs per request.
type Resolver struct {
	boats  BoatDirectory
	cfg    ResolverConfig
	logger *zap.Logger
}

// NewResolver builds a resolver.
func NewResolver(boats BoatDirectory, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if cfg.Policy == "" {
		cfg.Policy = PolicyStrict
	}
	if cfg.DefaultBoatName == "" {
		cfg.DefaultBoatName = "My Boat"
	}
	return &Resolver{boats: boats, cfg: cfg, logger: logger}
}

// Resolved is the outcome of identity resolution. Boat is nil only on the
// lenient UUID path, where the token is trusted without a registry read.
type Resolved struct {
	BoatID string
	Boat   *models.Boat
}

// Resolve maps the identity token to a boat. The token may be a UUID, a
// free-text boat name, or empty.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Resolved, error) {
	token = strings.TrimSpace(token)

	if token == "" {
		return r.resolveAnonymous(ctx)
	}

	if uuidPattern.MatchString(strings.ToLower(token)) {
		return r.resolveUUID(ctx, strings.ToLower(token))
	}

	return r.resolveName(ctx, token)
}

func (r *Resolver) resolveAnonymous(ctx context.Context) (*Resolved, error) {
	if !r.cfg.AllowAnonymous {
		return nil, ErrMissingIdentity
	}

	boat, err := r.boats.First(ctx)
	if err == nil {
		return &Resolved{BoatID: boat.ID, Boat: boat}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("boat lookup failed: %w", err)
	}

	return r.provision(ctx, r.cfg.DefaultBoatName)
}

func (r *Resolver) resolveUUID(ctx context.Context, id string) (*Resolved, error) {
	if r.cfg.Policy == PolicyLenient {
		return &Resolved{BoatID: id}, nil
	}

	boat, err := r.boats.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no boat with id '%s'", ErrBoatNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("boat lookup failed: %w", err)
	}
	return &Resolved{BoatID: boat.ID, Boat: boat}, nil
}

func (r *Resolver) resolveName(ctx context.Context, name string) (*Resolved, error) {
	boat, err := r.boats.FindByName(ctx, name)
	if err == nil {
		return &Resolved{BoatID: boat.ID, Boat: boat}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("boat lookup failed: %w", err)
	}

	if r.cfg.Policy == PolicyStrict {
		return nil, fmt.Errorf("%w: no boat named '%s', create it from the panel first", ErrBoatNotFound, name)
	}

	return r.provision(ctx, name)
}

// provision creates a new unowned boat. Provisioning is deliberately not
// idempotent: racing first contacts with the same name create distinct boats.
func (r *Resolver) provision(ctx context.Context, name string) (*Resolved, error) {
	boat := &models.Boat{
		ID:           uuid.NewString(),
		Name:         name,
		DeviceSecret: r.cfg.DefaultDeviceSecret,
	}
	if err := r.boats.Create(ctx, boat); err != nil {
		return nil, fmt.Errorf("boat provisioning failed: %w", err)
	}

	r.logger.Info("auto-provisioned boat",
		zap.String("boat_id", boat.ID),
		zap.String("name", boat.Name),
	)
	return &Resolved{BoatID: boat.ID, Boat: boat}, nil
}
