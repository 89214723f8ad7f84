package domain

import "time"

// Source represents one feed to poll, bound to exactly one channel.
// LastGUID is the guid of the most recently successfully published entry;
// it advances only inside the transaction that marks a post sent.
type Source struct {
	ID        string
	ChannelID string
	Name      string
	Username  string // feed handle without "@"
	Enabled   bool
	LastGUID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
