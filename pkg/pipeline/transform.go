package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/reposter/repost/pkg/domain"
)

// Transform drives every post in status new through the summarizer and
// advances it to ready or error. This is the only place a post moves
// from new to ready.
type Transform struct {
	posts          PostStore
	summarizer     Summarizer
	promptTemplate string
	maxWorkers     int
}

// TransformConfig holds transform coordinator dependencies
type TransformConfig struct {
	Posts          PostStore
	Summarizer     Summarizer
	PromptTemplate string
	MaxWorkers     int
}

// NewTransform creates a transform coordinator
func NewTransform(cfg TransformConfig) *Transform {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	return &Transform{
		posts:          cfg.Posts,
		summarizer:     cfg.Summarizer,
		promptTemplate: cfg.PromptTemplate,
		maxWorkers:     cfg.MaxWorkers,
	}
}

// TransformAll sweeps all posts in status new; item failures are
// recorded as error status and never block the remaining items
func (t *Transform) TransformAll(ctx context.Context) (TransformStats, error) {
	posts, err := t.posts.GetPostsByStatus(ctx, domain.StatusNew)
	if err != nil {
		return TransformStats{}, fmt.Errorf("get new posts: %w", err)
	}
	if len(posts) == 0 {
		lgr.Printf("[INFO] no new posts to transform")
		return TransformStats{}, nil
	}

	var mu sync.Mutex
	stats := TransformStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.maxWorkers)
	for _, post := range posts {
		g.Go(func() error {
			err := t.transformOne(gctx, post)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Errors++
				return nil
			}
			stats.Transformed++
			return nil
		})
	}
	_ = g.Wait() // per-item errors are counted, never returned

	lgr.Printf("[INFO] transform completed: %d posts transformed, %d errors",
		stats.Transformed, stats.Errors)
	return stats, nil
}

// transformOne summarizes a single post and advances its status
func (t *Transform) transformOne(ctx context.Context, post domain.Post) error {
	if post.OriginalText == "" {
		lgr.Printf("[WARN] post %s has no original text", post.ID)
		t.markError(ctx, post.ID)
		return fmt.Errorf("post %s has no original text", post.ID)
	}

	summary, hashtags, err := t.summarizer.Summarize(ctx, post.OriginalText, t.promptTemplate)
	if err != nil {
		lgr.Printf("[ERROR] failed to summarize post %s: %v", post.ID, err)
		t.markError(ctx, post.ID)
		return err
	}

	if err := t.posts.MarkReady(ctx, post.ID, summary, hashtags); err != nil {
		lgr.Printf("[ERROR] failed to mark post %s ready: %v", post.ID, err)
		return err
	}

	lgr.Printf("[INFO] transformed post %s: %s", post.ID, truncate(summary, 50))
	return nil
}

func (t *Transform) markError(ctx context.Context, postID string) {
	if err := t.posts.MarkError(ctx, postID); err != nil {
		lgr.Printf("[WARN] failed to mark post %s as error: %v", postID, err)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
