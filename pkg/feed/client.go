package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// fetch/parse failure kinds, checked by callers with errors.Is
var (
	ErrFetch = errors.New("feed fetch failed")
	ErrParse = errors.New("feed parse failed")
)

// Entry is one candidate feed entry as delivered by the remote feed
type Entry struct {
	GUID      string // native identifier, may be empty
	Title     string
	Link      string
	Published string // raw published value as it appeared in the feed
	Content   string // first content block, HTML
	Summary   string // summary/description block, HTML
}

// Result holds parsed entries plus a non-fatal warning for payloads
// that parsed despite not looking like a feed
type Result struct {
	Title   string
	Entries []Entry
	Warning string
}

// Client fetches and parses RSS/Atom feeds
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates a feed client with the given timeout and user-agent
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch retrieves and parses a feed from the given URL. Network and
// non-2xx failures are ErrFetch, unparsable payloads ErrParse; neither
// is retried here, the next scheduled sweep is the retry.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrFetch, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	result := &Result{Title: parsed.Title, Entries: make([]Entry, 0, len(parsed.Items))}
	for _, item := range parsed.Items {
		result.Entries = append(result.Entries, Entry{
			GUID:      item.GUID,
			Title:     item.Title,
			Link:      item.Link,
			Published: item.Published,
			Content:   item.Content,
			Summary:   item.Description,
		})
	}

	// payload parsed but the server didn't declare a feed content type,
	// report it so the caller can log
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isFeedContentType(ct) {
		result.Warning = fmt.Sprintf("unexpected content type %q", ct)
	}

	return result, nil
}

func isFeedContentType(ct string) bool {
	ct = strings.ToLower(ct)
	for _, t := range []string{"xml", "rss", "atom", "json"} {
		if strings.Contains(ct, t) {
			return true
		}
	}
	return false
}
