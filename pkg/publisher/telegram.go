// Package publisher delivers rendered posts to Telegram channels via the
// bot API. Only the three send methods the pipeline dispatches on are
// implemented; everything else the API offers is out of scope here.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrDelivery indicates the Telegram API rejected or failed a send
var ErrDelivery = errors.New("telegram delivery failed")

const defaultAPIBase = "https://api.telegram.org"

// Telegram sends messages through the Telegram bot API
type Telegram struct {
	botToken       string
	parseMode      string
	disablePreview bool
	apiBase        string
	client         *http.Client
}

// TelegramConfig holds Telegram client settings
type TelegramConfig struct {
	BotToken       string
	ParseMode      string
	DisablePreview bool
	Timeout        time.Duration
	APIBase        string // overridable for tests
}

// NewTelegram creates a Telegram delivery client
func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	return &Telegram{
		botToken:       cfg.BotToken,
		parseMode:      cfg.ParseMode,
		disablePreview: cfg.DisablePreview,
		apiBase:        cfg.APIBase,
		client:         &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// SendText posts a text message to the chat
func (t *Telegram) SendText(ctx context.Context, chatID, text string) error {
	form := url.Values{}
	form.Set("text", text)
	return t.call(ctx, "sendMessage", chatID, form)
}

// SendPhoto posts a photo by URL with a caption
func (t *Telegram) SendPhoto(ctx context.Context, chatID, photoURL, caption string) error {
	form := url.Values{}
	form.Set("photo", photoURL)
	form.Set("caption", caption)
	return t.call(ctx, "sendPhoto", chatID, form)
}

// SendVideo posts a video by URL with a caption
func (t *Telegram) SendVideo(ctx context.Context, chatID, videoURL, caption string) error {
	form := url.Values{}
	form.Set("video", videoURL)
	form.Set("caption", caption)
	return t.call(ctx, "sendVideo", chatID, form)
}

// call posts one form-encoded bot API method
func (t *Telegram) call(ctx context.Context, method, chatID string, form url.Values) error {
	form.Set("chat_id", chatID)
	if t.parseMode != "" {
		form.Set("parse_mode", t.parseMode)
	}
	form.Set("disable_web_page_preview", strconv.FormatBool(t.disablePreview))

	endpoint := fmt.Sprintf("%s/bot%s/%s", t.apiBase, t.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: %s", ErrDelivery, method, apiError(resp.Body, resp.Status))
	}
	return nil
}

// apiError extracts the API description from an error response body
func apiError(body io.Reader, status string) string {
	var apiResp struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(body).Decode(&apiResp); err == nil && apiResp.Description != "" {
		return apiResp.Description
	}
	return status
}
