package publisher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botCall struct {
	path string
	form map[string]string
}

// fakeBotAPI records every bot API call and replies with the given status
func fakeBotAPI(t *testing.T, status int, body string, calls *[]botCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		form := make(map[string]string)
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		*calls = append(*calls, botCall{path: r.URL.Path, form: form})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newTestClient(t *testing.T, apiBase string) *Telegram {
	t.Helper()
	tg, err := NewTelegram(TelegramConfig{
		BotToken:       "test-token",
		ParseMode:      "HTML",
		DisablePreview: true,
		APIBase:        apiBase,
	})
	require.NoError(t, err)
	return tg
}

func TestTelegram_SendText(t *testing.T) {
	var calls []botCall
	server := fakeBotAPI(t, http.StatusOK, `{"ok": true}`, &calls)
	defer server.Close()

	tg := newTestClient(t, server.URL)
	require.NoError(t, tg.SendText(context.Background(), "@mychannel", "hello world"))

	require.Len(t, calls, 1)
	assert.Equal(t, "/bottest-token/sendMessage", calls[0].path)
	assert.Equal(t, "@mychannel", calls[0].form["chat_id"])
	assert.Equal(t, "hello world", calls[0].form["text"])
	assert.Equal(t, "HTML", calls[0].form["parse_mode"])
	assert.Equal(t, "true", calls[0].form["disable_web_page_preview"])
}

func TestTelegram_SendPhoto(t *testing.T) {
	var calls []botCall
	server := fakeBotAPI(t, http.StatusOK, `{"ok": true}`, &calls)
	defer server.Close()

	tg := newTestClient(t, server.URL)
	require.NoError(t, tg.SendPhoto(context.Background(), "@mychannel", "https://cdn.example.com/pic.jpg", "caption"))

	require.Len(t, calls, 1)
	assert.Equal(t, "/bottest-token/sendPhoto", calls[0].path)
	assert.Equal(t, "https://cdn.example.com/pic.jpg", calls[0].form["photo"])
	assert.Equal(t, "caption", calls[0].form["caption"])
}

func TestTelegram_SendVideo(t *testing.T) {
	var calls []botCall
	server := fakeBotAPI(t, http.StatusOK, `{"ok": true}`, &calls)
	defer server.Close()

	tg := newTestClient(t, server.URL)
	require.NoError(t, tg.SendVideo(context.Background(), "@mychannel", "https://cdn.example.com/clip.mp4", "caption"))

	require.Len(t, calls, 1)
	assert.Equal(t, "/bottest-token/sendVideo", calls[0].path)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", calls[0].form["video"])
}

func TestTelegram_APIError(t *testing.T) {
	var calls []botCall
	server := fakeBotAPI(t, http.StatusBadRequest, `{"ok": false, "description": "Bad Request: chat not found"}`, &calls)
	defer server.Close()

	tg := newTestClient(t, server.URL)
	err := tg.SendText(context.Background(), "@nochannel", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegram_Unreachable(t *testing.T) {
	tg := newTestClient(t, "http://127.0.0.1:1")
	err := tg.SendText(context.Background(), "@mychannel", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelivery)
}

func TestNewTelegram_RequiresToken(t *testing.T) {
	_, err := NewTelegram(TelegramConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot token")
}
