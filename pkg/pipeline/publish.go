package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/reposter/repost/pkg/domain"
	"github.com/reposter/repost/pkg/repository"
)

// media extension sets used to pick the delivery method
var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}
)

// Publish delivers every ready post to its channel and couples the
// source watermark to confirmed delivery
type Publish struct {
	posts      PostStore
	sources    SourceStore
	channels   ChannelStore
	deliverer  Deliverer
	maxWorkers int
	now        func() time.Time
}

// PublishConfig holds publish coordinator dependencies
type PublishConfig struct {
	Posts      PostStore
	Sources    SourceStore
	Channels   ChannelStore
	Deliverer  Deliverer
	MaxWorkers int
	Now        func() time.Time // defaults to time.Now, settable in tests
}

// NewPublish creates a publish coordinator
func NewPublish(cfg PublishConfig) *Publish {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Publish{
		posts:      cfg.Posts,
		sources:    cfg.Sources,
		channels:   cfg.Channels,
		deliverer:  cfg.Deliverer,
		maxWorkers: cfg.MaxWorkers,
		now:        cfg.Now,
	}
}

// PublishAll sweeps all posts in status ready. Posts are grouped by
// source and each group is delivered strictly in order, so two posts of
// one source never race on the watermark; distinct sources proceed in
// parallel.
func (p *Publish) PublishAll(ctx context.Context) (PublishStats, error) {
	posts, err := p.posts.GetPostsByStatus(ctx, domain.StatusReady)
	if err != nil {
		return PublishStats{}, fmt.Errorf("get ready posts: %w", err)
	}
	if len(posts) == 0 {
		lgr.Printf("[INFO] no ready posts to publish")
		return PublishStats{}, nil
	}

	bySource := make(map[string][]domain.Post)
	for _, post := range posts {
		bySource[post.SourceID] = append(bySource[post.SourceID], post)
	}

	var mu sync.Mutex
	stats := PublishStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)
	for _, group := range bySource {
		g.Go(func() error {
			for _, post := range group {
				err := p.PublishOne(gctx, post)
				mu.Lock()
				if err != nil {
					stats.Errors++
				} else {
					stats.Published++
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // per-item errors are counted, never returned

	lgr.Printf("[INFO] publish completed: %d posts published, %d errors",
		stats.Published, stats.Errors)
	return stats, nil
}

// PublishOne renders the caption, dispatches delivery by media kind and,
// only on success, marks the post sent and advances the watermark in the
// same store transaction. Delivery failure marks the post error and
// leaves the watermark untouched.
func (p *Publish) PublishOne(ctx context.Context, post domain.Post) error {
	channel, err := p.resolveChannel(ctx, post)
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		// a transient store failure leaves the post ready for the next
		// sweep; only a genuinely missing source or channel is terminal
		if errors.Is(err, ErrMissingChannel) {
			p.markError(ctx, post.ID)
		}
		return err
	}

	caption := post.Caption()

	if err := p.deliver(ctx, channel.TgChatID, post.MediaURL, caption); err != nil {
		lgr.Printf("[ERROR] failed to deliver post %s: %v", post.ID, err)
		p.markError(ctx, post.ID)
		return err
	}

	if err := p.posts.MarkSent(ctx, post.ID, p.now()); err != nil {
		// delivered but not recorded; surface loudly, the constraint on
		// (source_id, guid) prevents re-ingest, but the watermark is stale
		lgr.Printf("[ERROR] delivered post %s but failed to mark sent: %v", post.ID, err)
		return err
	}

	lgr.Printf("[INFO] published post %s to %s", post.ID, channel.Name)
	return nil
}

// resolveChannel walks post -> source -> channel. A record that doesn't
// exist is ErrMissingChannel; any other store error passes through as-is.
func (p *Publish) resolveChannel(ctx context.Context, post domain.Post) (*domain.Channel, error) {
	src, err := p.sources.GetSource(ctx, post.SourceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: post %s: %w", ErrMissingChannel, post.ID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve source for post %s: %w", post.ID, err)
	}
	channel, err := p.channels.GetChannel(ctx, src.ChannelID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: post %s: %w", ErrMissingChannel, post.ID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve channel for post %s: %w", post.ID, err)
	}
	return channel, nil
}

// deliver dispatches by media kind: photo, video, or text with the raw
// media URL appended when the media can't be classified
func (p *Publish) deliver(ctx context.Context, chatID, mediaURL, caption string) error {
	if mediaURL == "" {
		return p.deliverer.SendText(ctx, chatID, caption)
	}
	switch classifyMedia(mediaURL) {
	case mediaPhoto:
		return p.deliverer.SendPhoto(ctx, chatID, mediaURL, caption)
	case mediaVideo:
		return p.deliverer.SendVideo(ctx, chatID, mediaURL, caption)
	default:
		return p.deliverer.SendText(ctx, chatID, caption+"\n\n"+mediaURL)
	}
}

func (p *Publish) markError(ctx context.Context, postID string) {
	if err := p.posts.MarkError(ctx, postID); err != nil {
		lgr.Printf("[WARN] failed to mark post %s as error: %v", postID, err)
	}
}

type mediaKind int

const (
	mediaUnknown mediaKind = iota
	mediaPhoto
	mediaVideo
)

// classifyMedia matches known extensions anywhere in the lowercased URL,
// so URLs with query strings still classify
func classifyMedia(url string) mediaKind {
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return mediaPhoto
		}
	}
	for _, ext := range videoExtensions {
		if strings.Contains(lower, ext) {
			return mediaVideo
		}
	}
	return mediaUnknown
}
