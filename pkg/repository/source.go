package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/reposter/repost/pkg/domain"
)

// SourceRepository handles source-related database operations
type SourceRepository struct {
	db *sqlx.DB
}

// sourceSQL represents a source for SQL operations
type sourceSQL struct {
	ID        string    `db:"id"`
	ChannelID string    `db:"channel_id"`
	Name      string    `db:"name"`
	Username  string    `db:"username"`
	Enabled   bool      `db:"enabled"`
	LastGUID  string    `db:"last_guid"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(database *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: database}
}

// CreateSource inserts a new source, assigning an id if not set
func (r *SourceRepository) CreateSource(ctx context.Context, src *domain.Source) error {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	src.CreatedAt = now
	src.UpdatedAt = now

	query := `
		INSERT INTO sources (id, channel_id, name, username, enabled, last_guid, created_at, updated_at)
		VALUES (:id, :channel_id, :name, :username, :enabled, :last_guid, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, &sourceSQL{
		ID: src.ID, ChannelID: src.ChannelID, Name: src.Name, Username: src.Username,
		Enabled: src.Enabled, LastGUID: src.LastGUID,
		CreatedAt: src.CreatedAt, UpdatedAt: src.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	return nil
}

// GetSource retrieves a source by id
func (r *SourceRepository) GetSource(ctx context.Context, id string) (*domain.Source, error) {
	var src sourceSQL
	err := r.db.GetContext(ctx, &src, "SELECT * FROM sources WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return toDomainSource(&src), nil
}

// GetSourceByUsername retrieves a source by its feed handle
func (r *SourceRepository) GetSourceByUsername(ctx context.Context, username string) (*domain.Source, error) {
	var src sourceSQL
	err := r.db.GetContext(ctx, &src, "SELECT * FROM sources WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get source by username: %w", err)
	}
	return toDomainSource(&src), nil
}

// GetEnabledSources retrieves all sources with the enabled flag set
func (r *SourceRepository) GetEnabledSources(ctx context.Context) ([]domain.Source, error) {
	var rows []sourceSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM sources WHERE enabled = 1 ORDER BY name"); err != nil {
		return nil, fmt.Errorf("get enabled sources: %w", err)
	}
	sources := make([]domain.Source, len(rows))
	for i, src := range rows {
		sources[i] = *toDomainSource(&src)
	}
	return sources, nil
}

// SetEnabled flips the enabled flag of a source
func (r *SourceRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sources SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set source enabled: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	return nil
}

func toDomainSource(src *sourceSQL) *domain.Source {
	return &domain.Source{
		ID:        src.ID,
		ChannelID: src.ChannelID,
		Name:      src.Name,
		Username:  src.Username,
		Enabled:   src.Enabled,
		LastGUID:  src.LastGUID,
		CreatedAt: src.CreatedAt,
		UpdatedAt: src.UpdatedAt,
	}
}
