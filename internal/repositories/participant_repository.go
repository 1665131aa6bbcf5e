package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"room-service/internal/models"
)

var (
	ErrNameTaken           = errors.New("participant name already taken")
	ErrParticipantNotFound = errors.New("participant not found")
)

// ParticipantRepository abstracts presence registry persistence.
type ParticipantRepository interface {
	Register(ctx context.Context, name string, heartbeat int64) error
	Heartbeat(ctx context.Context, name string, heartbeat int64) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]models.Participant, error)
	// RemoveIfStale deletes the participant only if its heartbeat is still at
	// or below the cutoff, so a heartbeat racing the sweep wins. Returns
	// whether a row was actually removed.
	RemoveIfStale(ctx context.Context, name string, cutoff int64) (bool, error)
}

// ParticipantRepo is a sqlx implementation of ParticipantRepository.
type ParticipantRepo struct {
	db *sqlx.DB
}

// NewParticipantRepo constructs a ParticipantRepo.
func NewParticipantRepo(db *sqlx.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Register creates the participant, failing with ErrNameTaken when an active
// participant already holds the name. Uniqueness is decided by the store, not
// by a read-then-write sequence.
func (r *ParticipantRepo) Register(ctx context.Context, name string, heartbeat int64) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO participants (name, last_heartbeat) VALUES ($1, $2)
        ON CONFLICT (name) DO NOTHING`, name, heartbeat)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNameTaken
	}
	return nil
}

// Heartbeat advances the participant's last heartbeat.
func (r *ParticipantRepo) Heartbeat(ctx context.Context, name string, heartbeat int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE participants SET last_heartbeat=$2 WHERE name=$1`, name, heartbeat)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// Exists reports whether an active participant holds the name.
func (r *ParticipantRepo) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM participants WHERE name=$1)`, name)
	return exists, err
}

// List returns a snapshot of all active participants.
func (r *ParticipantRepo) List(ctx context.Context) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.SelectContext(ctx, &participants, `SELECT name, last_heartbeat FROM participants ORDER BY name ASC`)
	return participants, err
}

// RemoveIfStale conditionally evicts a participant. The staleness re-check in
// the WHERE clause is what resolves the heartbeat/eviction race: a heartbeat
// committed after the sweep's snapshot keeps the row in place.
func (r *ParticipantRepo) RemoveIfStale(ctx context.Context, name string, cutoff int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE name=$1 AND last_heartbeat <= $2`, name, cutoff)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
