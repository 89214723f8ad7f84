package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPost_Caption(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want string
	}{
		{
			name: "summary with extra text and hashtags",
			post: Post{SummaryText: "A", ExtraText: "B", Hashtags: []string{"#x", "#y"}},
			want: "A\n\nB\n\n#x #y",
		},
		{
			name: "summary only",
			post: Post{SummaryText: "short summary"},
			want: "short summary",
		},
		{
			name: "falls back to original text",
			post: Post{OriginalText: "original"},
			want: "original",
		},
		{
			name: "summary preferred over original",
			post: Post{SummaryText: "summary", OriginalText: "original"},
			want: "summary",
		},
		{
			name: "hashtags without extra text",
			post: Post{SummaryText: "news", Hashtags: []string{"#новости", "#события"}},
			want: "news\n\n#новости #события",
		},
		{
			name: "empty post",
			post: Post{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.post.Caption())
		})
	}
}
