package domain

import "time"

// Channel represents a Telegram channel that receives published posts
type Channel struct {
	ID        string
	Name      string
	TgChatID  string // "@mychannel" or numeric chat id
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// channel lifecycle statuses
const (
	ChannelActive   = "active"
	ChannelDisabled = "disabled"
)
