package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposter/repost/pkg/domain"
	"github.com/reposter/repost/pkg/pipeline/mocks"
	"github.com/reposter/repost/pkg/repository"
)

func makeReadyPost(t *testing.T, repos *repository.Repositories, sourceID, guid string, mutate func(*domain.Post)) *domain.Post {
	t.Helper()
	ctx := context.Background()
	post := &domain.Post{SourceID: sourceID, GUID: guid, OriginalText: "original " + guid, Status: domain.StatusNew}
	if mutate != nil {
		mutate(post)
	}
	require.NoError(t, repos.Post.CreatePost(ctx, post))
	require.NoError(t, repos.Post.MarkReady(ctx, post.ID, "summary "+guid, []string{"#новости"}))
	got, err := repos.Post.GetPost(ctx, post.ID)
	require.NoError(t, err)
	return got
}

func okDeliverer() *mocks.DelivererMock {
	return &mocks.DelivererMock{
		SendTextFunc:  func(ctx context.Context, chatID, text string) error { return nil },
		SendPhotoFunc: func(ctx context.Context, chatID, photoURL, caption string) error { return nil },
		SendVideoFunc: func(ctx context.Context, chatID, videoURL, caption string) error { return nil },
	}
}

func newPublish(repos *repository.Repositories, deliverer Deliverer, now func() time.Time) *Publish {
	return NewPublish(PublishConfig{
		Posts:     repos.Post,
		Sources:   repos.Source,
		Channels:  repos.Channel,
		Deliverer: deliverer,
		Now:       now,
	})
}

func TestPublish_PublishOne(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	src := makeSource(t, repos, "somefeed")
	post := makeReadyPost(t, repos, src.ID, "guid-1", nil)

	sentAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	deliverer := okDeliverer()
	pub := newPublish(repos, deliverer, func() time.Time { return sentAt })

	require.NoError(t, pub.PublishOne(ctx, *post))

	require.Len(t, deliverer.SendTextCalls(), 1)
	assert.Equal(t, "@somefeed", deliverer.SendTextCalls()[0].ChatID)
	assert.Equal(t, "summary guid-1\n\n#новости", deliverer.SendTextCalls()[0].Text)

	got, err := repos.Post.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, got.Status)
	require.NotNil(t, got.SentAt)
	assert.True(t, sentAt.Equal(*got.SentAt), "sent_at should record the delivery time")

	fresh, err := repos.Source.GetSource(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "guid-1", fresh.LastGUID, "watermark advances with confirmed delivery")
}

func TestPublish_PublishOne_DeliveryFailure(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	src := makeSource(t, repos, "somefeed")
	post := makeReadyPost(t, repos, src.ID, "guid-1", nil)

	deliverer := &mocks.DelivererMock{
		SendTextFunc: func(ctx context.Context, chatID, text string) error {
			return errors.New("telegram: 400 chat not found")
		},
	}
	pub := newPublish(repos, deliverer, nil)

	require.Error(t, pub.PublishOne(ctx, *post))

	got, err := repos.Post.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)
	assert.Nil(t, got.SentAt)

	fresh, err := repos.Source.GetSource(ctx, src.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.LastGUID, "watermark must not move on failed delivery")
}

func TestPublish_PublishOne_MissingChannel(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	src := makeSource(t, repos, "somefeed")
	post := makeReadyPost(t, repos, src.ID, "guid-1", nil)

	deliverer := okDeliverer()
	pub := newPublish(repos, deliverer, nil)

	// a post referencing a source that no longer resolves
	orphan := *post
	orphan.SourceID = "no-such-source"
	err := pub.PublishOne(ctx, orphan)
	require.ErrorIs(t, err, ErrMissingChannel)
	assert.Empty(t, deliverer.SendTextCalls())

	got, err := repos.Post.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)
}

// failingSourceStore simulates a store that errors on source lookup
type failingSourceStore struct {
	SourceStore
}

func (f *failingSourceStore) GetSource(context.Context, string) (*domain.Source, error) {
	return nil, errors.New("database is locked")
}

func TestPublish_PublishOne_TransientStoreFailure(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	src := makeSource(t, repos, "somefeed")
	post := makeReadyPost(t, repos, src.ID, "guid-1", nil)

	deliverer := okDeliverer()
	pub := NewPublish(PublishConfig{
		Posts:     repos.Post,
		Sources:   &failingSourceStore{SourceStore: repos.Source},
		Channels:  repos.Channel,
		Deliverer: deliverer,
	})

	err := pub.PublishOne(ctx, *post)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingChannel)
	assert.Empty(t, deliverer.SendTextCalls())

	// the post survives a transient store failure for the next sweep
	got, err := repos.Post.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)
}

func TestPublish_MediaDispatch(t *testing.T) {
	tbl := []struct {
		name     string
		mediaURL string
		photo    int
		video    int
		text     int
		wantText string
	}{
		{"photo by extension", "https://cdn.example.com/pic.jpg", 1, 0, 0, ""},
		{"photo with query string", "https://cdn.example.com/pic.PNG?size=large", 1, 0, 0, ""},
		{"video by extension", "https://cdn.example.com/clip.mp4", 0, 1, 0, ""},
		{"unknown media appended to text", "https://cdn.example.com/file.bin", 0, 0, 1,
			"summary guid-1\n\n#новости\n\nhttps://cdn.example.com/file.bin"},
		{"no media", "", 0, 0, 1, "summary guid-1\n\n#новости"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			repos := setupTestRepos(t)
			ctx := context.Background()
			src := makeSource(t, repos, "somefeed")
			post := makeReadyPost(t, repos, src.ID, "guid-1", func(p *domain.Post) { p.MediaURL = tt.mediaURL })

			deliverer := okDeliverer()
			pub := newPublish(repos, deliverer, nil)
			require.NoError(t, pub.PublishOne(ctx, *post))

			assert.Len(t, deliverer.SendPhotoCalls(), tt.photo)
			assert.Len(t, deliverer.SendVideoCalls(), tt.video)
			assert.Len(t, deliverer.SendTextCalls(), tt.text)
			if tt.photo == 1 {
				assert.Equal(t, tt.mediaURL, deliverer.SendPhotoCalls()[0].PhotoURL)
				assert.Equal(t, "summary guid-1\n\n#новости", deliverer.SendPhotoCalls()[0].Caption)
			}
			if tt.video == 1 {
				assert.Equal(t, tt.mediaURL, deliverer.SendVideoCalls()[0].VideoURL)
			}
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, deliverer.SendTextCalls()[0].Text)
			}
		})
	}
}

func TestPublish_PublishAll(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	src := makeSource(t, repos, "somefeed")
	other := makeSource(t, repos, "otherfeed")

	makeReadyPost(t, repos, src.ID, "guid-a", nil)
	makeReadyPost(t, repos, src.ID, "guid-b", nil)
	makeReadyPost(t, repos, other.ID, "guid-c", nil)

	deliverer := okDeliverer()
	pub := newPublish(repos, deliverer, nil)

	stats, err := pub.PublishAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, PublishStats{Published: 3}, stats)
	assert.Len(t, deliverer.SendTextCalls(), 3)

	sent, err := repos.Post.GetPostsByStatus(ctx, domain.StatusSent)
	require.NoError(t, err)
	assert.Len(t, sent, 3)

	// both posts delivered, the watermark ends on one of the two guids
	fresh, err := repos.Source.GetSource(ctx, src.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{"guid-a", "guid-b"}, fresh.LastGUID)
}

func TestPublish_PublishAll_PartialFailure(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	src := makeSource(t, repos, "somefeed")
	other := makeSource(t, repos, "otherfeed")
	failing := makeReadyPost(t, repos, src.ID, "guid-fail", nil)
	healthy := makeReadyPost(t, repos, other.ID, "guid-ok", nil)

	deliverer := &mocks.DelivererMock{
		SendTextFunc: func(ctx context.Context, chatID, text string) error {
			if chatID == "@somefeed" {
				return errors.New("boom")
			}
			return nil
		},
	}
	pub := newPublish(repos, deliverer, nil)

	stats, err := pub.PublishAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, PublishStats{Published: 1, Errors: 1}, stats)

	got, err := repos.Post.GetPost(ctx, failing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)

	got, err = repos.Post.GetPost(ctx, healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, got.Status)
}
