package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposter/repost/pkg/repository"
)

func setupTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImporter_ImportFile(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	path := writeImportFile(t, `
channels:
  - name: Tech News
    tg_chat_id: "@technews"
    sources:
      - name: Some Feed
        username: somefeed
      - name: Disabled Feed
        username: quietfeed
        enabled: false
  - name: World News
    tg_chat_id: "@worldnews"
    sources:
      - name: World Feed
        username: worldfeed
`)

	imp := New(repos.Channel, repos.Source)
	stats, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Stats{ChannelsCreated: 2, SourcesCreated: 3}, stats)

	ch, err := repos.Channel.GetChannelByChatID(ctx, "@technews")
	require.NoError(t, err)
	assert.Equal(t, "Tech News", ch.Name)

	src, err := repos.Source.GetSourceByUsername(ctx, "somefeed")
	require.NoError(t, err)
	assert.Equal(t, ch.ID, src.ChannelID)
	assert.True(t, src.Enabled)

	quiet, err := repos.Source.GetSourceByUsername(ctx, "quietfeed")
	require.NoError(t, err)
	assert.False(t, quiet.Enabled)

	enabled, err := repos.Source.GetEnabledSources(ctx)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)
}

func TestImporter_ImportFile_SkipsExisting(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	path := writeImportFile(t, `
channels:
  - name: Tech News
    tg_chat_id: "@technews"
    sources:
      - name: Some Feed
        username: somefeed
      - name: New Feed
        username: newfeed
`)

	imp := New(repos.Channel, repos.Source)

	// first run seeds, second run only picks up the record count as skips
	stats, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Stats{ChannelsCreated: 1, SourcesCreated: 2}, stats)

	stats, err = imp.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 3}, stats)
}

func TestImporter_ImportFile_Errors(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	imp := New(repos.Channel, repos.Source)

	t.Run("missing file", func(t *testing.T) {
		_, err := imp.ImportFile(ctx, filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read import file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeImportFile(t, "channels: [unclosed")
		_, err := imp.ImportFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse import file")
	})

	t.Run("channel without chat id", func(t *testing.T) {
		path := writeImportFile(t, "channels:\n  - name: Nameless\n")
		_, err := imp.ImportFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no tg_chat_id")
	})

	t.Run("source without username", func(t *testing.T) {
		path := writeImportFile(t, `
channels:
  - name: Tech
    tg_chat_id: "@tech"
    sources:
      - name: Broken
`)
		_, err := imp.ImportFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no username")
	})
}
