package feed

import (
	"crypto/md5" //nolint:gosec // not used for security, stable entry fingerprint
	"encoding/hex"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// ExtractGUID resolves the identifier of an entry: native id, else link,
// else an md5 hex over title+published. The order defines what "the same
// entry" means across polls and must stay stable.
func ExtractGUID(e Entry) string {
	if e.GUID != "" {
		return e.GUID
	}
	if e.Link != "" {
		return e.Link
	}
	sum := md5.Sum([]byte(e.Title + e.Published)) //nolint:gosec // fingerprint, not crypto
	return hex.EncodeToString(sum[:])
}

// ExtractText resolves the plain text body of an entry: content block with
// markup stripped, else summary stripped, else title, else empty. The
// fallback is on field absence only; a present block that strips to
// nothing yields an empty result and the entry is skipped upstream.
func ExtractText(e Entry) string {
	if e.Content != "" {
		return stripHTML(e.Content)
	}
	if e.Summary != "" {
		return stripHTML(e.Summary)
	}
	return e.Title
}

// ExtractMediaURL scans the content block for an embedded image, then a
// video, then falls back to an image in the summary. Returns the first
// source URL found or empty string.
func ExtractMediaURL(e Entry) string {
	if e.Content != "" {
		if src := findMediaSrc(e.Content, "img", "video"); src != "" {
			return src
		}
	}
	if e.Summary != "" {
		if src := findMediaSrc(e.Summary, "img"); src != "" {
			return src
		}
	}
	return ""
}

// stripHTML removes tags and attributes keeping text content only
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// findMediaSrc returns the src of the first matching tag, in tag order
func findMediaSrc(htmlBlock string, tags ...string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBlock))
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if src, ok := doc.Find(tag).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}
