package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/reposter/repost/pkg/domain"
)

// PostRepository handles post-related database operations
type PostRepository struct {
	db *sqlx.DB
}

// postSQL represents a post for SQL operations
type postSQL struct {
	ID           string      `db:"id"`
	SourceID     string      `db:"source_id"`
	GUID         string      `db:"guid"`
	OriginalText string      `db:"original_text"`
	SummaryText  string      `db:"summary_text"`
	MediaURL     string      `db:"media_url"`
	ExtraText    string      `db:"extra_text"`
	Hashtags     hashtagsSQL `db:"hashtags"`
	Status       string      `db:"status"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	SentAt       *time.Time  `db:"sent_at"`
}

// hashtagsSQL is a JSON array of hashtag strings for SQL operations
type hashtagsSQL []string

// Value implements driver.Valuer for database storage
func (h hashtagsSQL) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *hashtagsSQL) Scan(value interface{}) error {
	if value == nil {
		*h = hashtagsSQL{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*h = hashtagsSQL{}
		return nil
	}

	return json.Unmarshal(data, h)
}

// NewPostRepository creates a new post repository
func NewPostRepository(database *sqlx.DB) *PostRepository {
	return &PostRepository{db: database}
}

// CreatePost inserts a new post with status "new". A uniqueness violation
// on (source_id, guid) is reported as ErrDuplicatePost so callers can treat
// a concurrent or repeated ingest as a benign no-op.
func (r *PostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Status == "" {
		post.Status = domain.StatusNew
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	query := `
		INSERT INTO posts (
			id, source_id, guid, original_text, summary_text, media_url,
			extra_text, hashtags, status, created_at, updated_at
		) VALUES (
			:id, :source_id, :guid, :original_text, :summary_text, :media_url,
			:extra_text, :hashtags, :status, :created_at, :updated_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, &postSQL{
		ID: post.ID, SourceID: post.SourceID, GUID: post.GUID,
		OriginalText: post.OriginalText, SummaryText: post.SummaryText,
		MediaURL: post.MediaURL, ExtraText: post.ExtraText,
		Hashtags: hashtagsSQL(post.Hashtags), Status: string(post.Status),
		CreatedAt: post.CreatedAt, UpdatedAt: post.UpdatedAt,
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("source %s guid %s: %w", post.SourceID, post.GUID, ErrDuplicatePost)
	}
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by id
func (r *PostRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var post postSQL
	err := r.db.GetContext(ctx, &post, "SELECT * FROM posts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return toDomainPost(&post), nil
}

// GetPostsByStatus retrieves all posts in the given status, oldest first
func (r *PostRepository) GetPostsByStatus(ctx context.Context, status domain.Status) ([]domain.Post, error) {
	var rows []postSQL
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM posts WHERE status = ? ORDER BY created_at", string(status))
	if err != nil {
		return nil, fmt.Errorf("get posts by status: %w", err)
	}
	posts := make([]domain.Post, len(rows))
	for i, post := range rows {
		posts[i] = *toDomainPost(&post)
	}
	return posts, nil
}

// MarkReady stores summary and hashtags and advances the post from new to
// ready. The guarded update is the only way a post leaves the new state
// for ready, so two concurrent transform sweeps cannot both claim it.
func (r *PostRepository) MarkReady(ctx context.Context, id, summary string, hashtags []string) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE posts
			SET summary_text = ?, hashtags = ?, status = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			summary, hashtagsSQL(hashtags), string(domain.StatusReady), time.Now().UTC(),
			id, string(domain.StatusNew))
		if err != nil {
			return fmt.Errorf("mark post ready: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("post %s: %w", id, ErrWrongStatus)
		}
		return nil
	})
}

// MarkError moves a post from new or ready to error; the post stays
// discoverable for manual inspection, nothing retries it automatically
func (r *PostRepository) MarkError(ctx context.Context, id string) error {
	return withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE posts
			SET status = ?, updated_at = ?
			WHERE id = ? AND status IN (?, ?)`,
			string(domain.StatusError), time.Now().UTC(),
			id, string(domain.StatusNew), string(domain.StatusReady))
		if err != nil {
			return fmt.Errorf("mark post error: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("post %s: %w", id, ErrWrongStatus)
		}
		return nil
	})
}

// MarkSent records a successful delivery in one transaction: the post
// moves from ready to sent with its sent timestamp, and the owning
// source's last_guid advances to exactly the delivered guid. The
// watermark never moves outside this transaction.
func (r *PostRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin mark sent: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var post struct {
			SourceID string `db:"source_id"`
			GUID     string `db:"guid"`
		}
		err = tx.GetContext(ctx, &post,
			"SELECT source_id, guid FROM posts WHERE id = ? AND status = ?",
			id, string(domain.StatusReady))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post %s: %w", id, ErrWrongStatus)
		}
		if err != nil {
			return fmt.Errorf("load post for mark sent: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE posts
			SET status = ?, sent_at = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(domain.StatusSent), sentAt.UTC(), time.Now().UTC(),
			id, string(domain.StatusReady))
		if err != nil {
			return fmt.Errorf("mark post sent: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("post %s: %w", id, ErrWrongStatus)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE sources SET last_guid = ?, updated_at = ? WHERE id = ?",
			post.GUID, time.Now().UTC(), post.SourceID); err != nil {
			return fmt.Errorf("advance source watermark: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit mark sent: %w", err)
		}
		return nil
	})
}

func toDomainPost(post *postSQL) *domain.Post {
	return &domain.Post{
		ID:           post.ID,
		SourceID:     post.SourceID,
		GUID:         post.GUID,
		OriginalText: post.OriginalText,
		SummaryText:  post.SummaryText,
		MediaURL:     post.MediaURL,
		ExtraText:    post.ExtraText,
		Hashtags:     post.Hashtags,
		Status:       domain.Status(post.Status),
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
		SentAt:       post.SentAt,
	}
}
