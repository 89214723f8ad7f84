package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssContent = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>Test Channel</title>
	<link>http://example.com</link>
	<item>
		<title>First Post</title>
		<link>http://example.com/post1</link>
		<description>Post 1 summary</description>
		<content:encoded><![CDATA[<p>Full content of post 1</p>]]></content:encoded>
		<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
		<guid>http://example.com/post1</guid>
	</item>
	<item>
		<title>Second Post</title>
		<link>http://example.com/post2</link>
		<description>Post 2 summary</description>
		<pubDate>Sun, 01 Jan 2006 15:04:05 -0700</pubDate>
	</item>
</channel>
</rss>`

func TestClient_Fetch(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssContent))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "repost-test/1.0")
	result, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "repost-test/1.0", gotUserAgent)
	assert.Equal(t, "Test Channel", result.Title)
	assert.Empty(t, result.Warning)
	require.Len(t, result.Entries, 2)

	first := result.Entries[0]
	assert.Equal(t, "http://example.com/post1", first.GUID)
	assert.Equal(t, "First Post", first.Title)
	assert.Equal(t, "http://example.com/post1", first.Link)
	assert.Equal(t, "<p>Full content of post 1</p>", first.Content)
	assert.Equal(t, "Post 1 summary", first.Summary)
	assert.NotEmpty(t, first.Published)

	second := result.Entries[1]
	assert.Empty(t, second.GUID) // no native guid in the feed
	assert.Equal(t, "http://example.com/post2", second.Link)
}

func TestClient_Fetch_ContentTypeWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(rssContent))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "repost-test/1.0")
	result, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "text/html")
	assert.Len(t, result.Entries, 2)
}

func TestClient_Fetch_Errors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "repost-test/1.0")
		_, err := client.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("unreachable server", func(t *testing.T) {
		client := NewClient(time.Second, "repost-test/1.0")
		_, err := client.Fetch(context.Background(), "http://127.0.0.1:1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
	})

	t.Run("unparsable payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("this is not a feed at all"))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, "repost-test/1.0")
		_, err := client.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(50*time.Millisecond, "repost-test/1.0")
		_, err := client.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetch)
	})
}
