// Package importer loads channels and their feed sources from a YAML
// document into the store, skipping records that already exist.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/reposter/repost/pkg/domain"
	"github.com/reposter/repost/pkg/repository"
)

// ChannelStore is the channel slice of the store the importer writes to
type ChannelStore interface {
	CreateChannel(ctx context.Context, ch *domain.Channel) error
	GetChannelByChatID(ctx context.Context, chatID string) (*domain.Channel, error)
}

// SourceStore is the source slice of the store the importer writes to
type SourceStore interface {
	CreateSource(ctx context.Context, src *domain.Source) error
	GetSourceByUsername(ctx context.Context, username string) (*domain.Source, error)
}

// Importer creates channels and sources from a YAML description
type Importer struct {
	channels ChannelStore
	sources  SourceStore
}

// document is the YAML shape of an import file
type document struct {
	Channels []struct {
		Name     string `yaml:"name"`
		TgChatID string `yaml:"tg_chat_id"`
		Sources  []struct {
			Name     string `yaml:"name"`
			Username string `yaml:"username"`
			Enabled  *bool  `yaml:"enabled"`
		} `yaml:"sources"`
	} `yaml:"channels"`
}

// Stats aggregates one import run
type Stats struct {
	ChannelsCreated int
	SourcesCreated  int
	Skipped         int
}

// New creates an importer
func New(channels ChannelStore, sources SourceStore) *Importer {
	return &Importer{channels: channels, sources: sources}
}

// ImportFile reads the YAML file and creates missing channels and
// sources. Existing records, matched by chat id and feed username, are
// left untouched.
func (imp *Importer) ImportFile(ctx context.Context, path string) (Stats, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return Stats{}, fmt.Errorf("read import file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Stats{}, fmt.Errorf("parse import file: %w", err)
	}

	stats := Stats{}
	for _, chDef := range doc.Channels {
		if chDef.TgChatID == "" {
			return stats, fmt.Errorf("channel %q has no tg_chat_id", chDef.Name)
		}

		channel, err := imp.channels.GetChannelByChatID(ctx, chDef.TgChatID)
		switch {
		case err == nil:
			stats.Skipped++
		case errors.Is(err, repository.ErrNotFound):
			channel = &domain.Channel{Name: chDef.Name, TgChatID: chDef.TgChatID}
			if err := imp.channels.CreateChannel(ctx, channel); err != nil {
				return stats, fmt.Errorf("create channel %q: %w", chDef.Name, err)
			}
			stats.ChannelsCreated++
			lgr.Printf("[INFO] created channel %s (%s)", channel.Name, channel.TgChatID)
		default:
			return stats, fmt.Errorf("lookup channel %q: %w", chDef.Name, err)
		}

		for _, srcDef := range chDef.Sources {
			if srcDef.Username == "" {
				return stats, fmt.Errorf("source %q in channel %q has no username", srcDef.Name, chDef.Name)
			}

			_, err := imp.sources.GetSourceByUsername(ctx, srcDef.Username)
			if err == nil {
				stats.Skipped++
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return stats, fmt.Errorf("lookup source %q: %w", srcDef.Username, err)
			}

			enabled := true
			if srcDef.Enabled != nil {
				enabled = *srcDef.Enabled
			}
			src := &domain.Source{
				ChannelID: channel.ID,
				Name:      srcDef.Name,
				Username:  srcDef.Username,
				Enabled:   enabled,
			}
			if err := imp.sources.CreateSource(ctx, src); err != nil {
				return stats, fmt.Errorf("create source %q: %w", srcDef.Username, err)
			}
			stats.SourcesCreated++
			lgr.Printf("[INFO] created source %s for channel %s", src.Username, channel.Name)
		}
	}

	lgr.Printf("[INFO] import completed: %d channels, %d sources created, %d skipped",
		stats.ChannelsCreated, stats.SourcesCreated, stats.Skipped)
	return stats, nil
}
