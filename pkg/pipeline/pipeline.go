// Package pipeline implements the content pipeline state machine: ingest
// creates posts from novel feed entries, transform drives them through
// summarization to ready, publish delivers them and advances the per-source
// watermark. Coordinators share no state besides the store; each sweep is
// safe to run concurrently with the others because they act on disjoint
// status subsets and every status change is a guarded update.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/reposter/repost/pkg/domain"
	"github.com/reposter/repost/pkg/feed"
)

//go:generate moq -out mocks/feed_client.go -pkg mocks -skip-ensure -fmt goimports . FeedClient
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/deliverer.go -pkg mocks -skip-ensure -fmt goimports . Deliverer

// ErrMissingChannel indicates a ready post whose source has no resolvable channel
var ErrMissingChannel = errors.New("no channel for post")

// FeedClient fetches and parses one feed
type FeedClient interface {
	Fetch(ctx context.Context, url string) (*feed.Result, error)
}

// Summarizer condenses post text into a summary and hashtags
type Summarizer interface {
	Summarize(ctx context.Context, text, promptTemplate string) (summary string, hashtags []string, err error)
}

// Deliverer sends a rendered post to a destination chat
type Deliverer interface {
	SendText(ctx context.Context, chatID, text string) error
	SendPhoto(ctx context.Context, chatID, photoURL, caption string) error
	SendVideo(ctx context.Context, chatID, videoURL, caption string) error
}

// SourceStore is the slice of the store the coordinators need for sources
type SourceStore interface {
	GetEnabledSources(ctx context.Context) ([]domain.Source, error)
	GetSource(ctx context.Context, id string) (*domain.Source, error)
}

// ChannelStore resolves delivery destinations
type ChannelStore interface {
	GetChannel(ctx context.Context, id string) (*domain.Channel, error)
}

// PostStore is the slice of the store the coordinators need for posts
type PostStore interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPostsByStatus(ctx context.Context, status domain.Status) ([]domain.Post, error)
	MarkReady(ctx context.Context, id, summary string, hashtags []string) error
	MarkError(ctx context.Context, id string) error
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
}

// IngestStats aggregates one ingest sweep
type IngestStats struct {
	Processed int
	NewPosts  int
	Errors    int
}

// TransformStats aggregates one transform sweep
type TransformStats struct {
	Transformed int
	Errors      int
}

// PublishStats aggregates one publish sweep
type PublishStats struct {
	Published int
	Errors    int
}
