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

// ChannelRepository handles channel-related database operations
type ChannelRepository struct {
	db *sqlx.DB
}

// channelSQL represents a channel for SQL operations
type channelSQL struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	TgChatID  string    `db:"tg_chat_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(database *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: database}
}

// CreateChannel inserts a new channel, assigning an id if not set
func (r *ChannelRepository) CreateChannel(ctx context.Context, ch *domain.Channel) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	if ch.Status == "" {
		ch.Status = domain.ChannelActive
	}
	now := time.Now().UTC()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	query := `
		INSERT INTO channels (id, name, tg_chat_id, status, created_at, updated_at)
		VALUES (:id, :name, :tg_chat_id, :status, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, &channelSQL{
		ID: ch.ID, Name: ch.Name, TgChatID: ch.TgChatID, Status: ch.Status,
		CreatedAt: ch.CreatedAt, UpdatedAt: ch.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

// GetChannel retrieves a channel by id
func (r *ChannelRepository) GetChannel(ctx context.Context, id string) (*domain.Channel, error) {
	var ch channelSQL
	err := r.db.GetContext(ctx, &ch, "SELECT * FROM channels WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("channel %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return toDomainChannel(&ch), nil
}

// GetChannelByChatID retrieves a channel by its Telegram chat id or handle
func (r *ChannelRepository) GetChannelByChatID(ctx context.Context, chatID string) (*domain.Channel, error) {
	var ch channelSQL
	err := r.db.GetContext(ctx, &ch, "SELECT * FROM channels WHERE tg_chat_id = ?", chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("channel %s: %w", chatID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get channel by chat id: %w", err)
	}
	return toDomainChannel(&ch), nil
}

// GetChannels retrieves all channels
func (r *ChannelRepository) GetChannels(ctx context.Context) ([]domain.Channel, error) {
	var rows []channelSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM channels ORDER BY name"); err != nil {
		return nil, fmt.Errorf("get channels: %w", err)
	}
	channels := make([]domain.Channel, len(rows))
	for i, ch := range rows {
		channels[i] = *toDomainChannel(&ch)
	}
	return channels, nil
}

func toDomainChannel(ch *channelSQL) *domain.Channel {
	return &domain.Channel{
		ID:        ch.ID,
		Name:      ch.Name,
		TgChatID:  ch.TgChatID,
		Status:    ch.Status,
		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	}
}
