package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/reposter/repost/pkg/domain"
	"github.com/reposter/repost/pkg/feed"
	"github.com/reposter/repost/pkg/repository"
)

// Ingest pulls the newest entry of every enabled source and creates a
// post for entries not yet covered by the source watermark
type Ingest struct {
	sources    SourceStore
	posts      PostStore
	client     FeedClient
	feedBase   string
	maxWorkers int
}

// IngestConfig holds ingest coordinator dependencies
type IngestConfig struct {
	Sources    SourceStore
	Posts      PostStore
	Client     FeedClient
	FeedBase   string
	MaxWorkers int
}

// NewIngest creates an ingest coordinator
func NewIngest(cfg IngestConfig) *Ingest {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	return &Ingest{
		sources:    cfg.Sources,
		posts:      cfg.Posts,
		client:     cfg.Client,
		feedBase:   cfg.FeedBase,
		maxWorkers: cfg.MaxWorkers,
	}
}

// IngestAll sweeps every enabled source independently; one source's
// failure never aborts the others. Store-level failure to list sources
// propagates to the caller.
func (ing *Ingest) IngestAll(ctx context.Context) (IngestStats, error) {
	sources, err := ing.sources.GetEnabledSources(ctx)
	if err != nil {
		return IngestStats{}, fmt.Errorf("get enabled sources: %w", err)
	}
	if len(sources) == 0 {
		lgr.Printf("[INFO] no enabled sources found")
		return IngestStats{}, nil
	}

	var mu sync.Mutex
	stats := IngestStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.maxWorkers)
	for _, src := range sources {
		g.Go(func() error {
			created, err := ing.IngestOne(gctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lgr.Printf("[ERROR] failed to ingest source %s: %v", src.Name, err)
				stats.Errors++
				return nil
			}
			stats.Processed++
			if created {
				stats.NewPosts++
			}
			return nil
		})
	}
	_ = g.Wait() // per-source errors are counted, never returned

	lgr.Printf("[INFO] ingest completed: %d sources processed, %d new posts, %d errors",
		stats.Processed, stats.NewPosts, stats.Errors)
	return stats, nil
}

// IngestOne polls one source and creates at most one post. Only the
// newest entry is inspected per poll; older unseen entries are skipped
// on purpose, the polling cadence is assumed to outpace the source.
// Safe to call repeatedly and concurrently for the same source: the
// store's (source_id, guid) constraint is the duplicate safety net, the
// watermark comparison is only the fast path.
func (ing *Ingest) IngestOne(ctx context.Context, src domain.Source) (created bool, err error) {
	feedURL := fmt.Sprintf("%s/channel/%s?showContent", ing.feedBase, src.Username)
	lgr.Printf("[DEBUG] fetching feed for source %s: %s", src.Name, feedURL)

	result, err := ing.client.Fetch(ctx, feedURL)
	if err != nil {
		// absence of content is not a failure, the next sweep retries
		lgr.Printf("[WARN] fetch failed for source %s: %v", src.Name, err)
		return false, nil
	}
	if result.Warning != "" {
		lgr.Printf("[WARN] feed warning for source %s: %s", src.Name, result.Warning)
	}
	if len(result.Entries) == 0 {
		lgr.Printf("[INFO] no entries found for source %s", src.Name)
		return false, nil
	}

	// only the top (most recent) entry is ever considered
	entry := result.Entries[0]
	guid := feed.ExtractGUID(entry)

	if src.LastGUID == guid {
		lgr.Printf("[DEBUG] no new content for source %s", src.Name)
		return false, nil
	}

	text := feed.ExtractText(entry)
	if text == "" {
		lgr.Printf("[WARN] no text content for source %s, entry %s", src.Name, guid)
		return false, nil
	}

	post := &domain.Post{
		SourceID:     src.ID,
		GUID:         guid,
		OriginalText: text,
		MediaURL:     feed.ExtractMediaURL(entry),
		Status:       domain.StatusNew,
	}
	if err := ing.posts.CreatePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicatePost) {
			lgr.Printf("[INFO] post already exists for source %s: %s", src.Name, guid)
			return false, nil
		}
		return false, fmt.Errorf("create post: %w", err)
	}

	lgr.Printf("[INFO] created new post for source %s: %s", src.Name, guid)
	return true, nil
}
