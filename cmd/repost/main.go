package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/reposter/repost/pkg/config"
	"github.com/reposter/repost/pkg/feed"
	"github.com/reposter/repost/pkg/importer"
	"github.com/reposter/repost/pkg/llm"
	"github.com/reposter/repost/pkg/pipeline"
	"github.com/reposter/repost/pkg/publisher"
	"github.com/reposter/repost/pkg/repository"
	"github.com/reposter/repost/pkg/scheduler"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Import string `long:"import" description:"import channels and sources from YAML file and exit"`

	Ingest    bool `long:"ingest" description:"run one ingest sweep and exit"`
	Transform bool `long:"transform" description:"run one transform sweep and exit"`
	Publish   bool `long:"publish" description:"run one publish sweep and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] failed to load config: %v", err)
		os.Exit(1)
	}

	setupLog(opts.Debug, opts.NoColor, cfg.LLM.APIKey, cfg.Telegram.BotToken)

	log.Printf("[INFO] starting repost version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, opts Opts) error {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init repositories: %w", err)
	}
	defer func() {
		if closeErr := repos.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close database: %v", closeErr)
		}
	}()

	if opts.Import != "" {
		imp := importer.New(repos.Channel, repos.Source)
		stats, err := imp.ImportFile(ctx, opts.Import)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		log.Printf("[INFO] imported %d channels, %d sources (%d skipped)",
			stats.ChannelsCreated, stats.SourcesCreated, stats.Skipped)
		return nil
	}

	ingest := pipeline.NewIngest(pipeline.IngestConfig{
		Sources:    repos.Source,
		Posts:      repos.Post,
		Client:     feed.NewClient(cfg.Feed.Timeout, cfg.Feed.UserAgent),
		FeedBase:   cfg.Feed.Base,
		MaxWorkers: cfg.Schedule.MaxWorkers,
	})

	transform := pipeline.NewTransform(pipeline.TransformConfig{
		Posts:          repos.Post,
		Summarizer:     llm.NewOpenAIProvider(cfg.LLM),
		PromptTemplate: cfg.LLM.PromptTemplate,
		MaxWorkers:     cfg.Schedule.MaxWorkers,
	})

	telegram, err := publisher.NewTelegram(publisher.TelegramConfig{
		BotToken:       cfg.Telegram.BotToken,
		ParseMode:      cfg.Telegram.ParseMode,
		DisablePreview: cfg.Telegram.DisableWebPagePreview,
	})
	if err != nil {
		return fmt.Errorf("init telegram: %w", err)
	}

	publish := pipeline.NewPublish(pipeline.PublishConfig{
		Posts:      repos.Post,
		Sources:    repos.Source,
		Channels:   repos.Channel,
		Deliverer:  telegram,
		MaxWorkers: cfg.Schedule.MaxWorkers,
	})

	// one-shot sweeps requested from the command line
	if opts.Ingest || opts.Transform || opts.Publish {
		return runOnce(ctx, opts, ingest, transform, publish)
	}

	sched := scheduler.NewScheduler(scheduler.Config{
		Ingester:          ingest,
		Transformer:       transform,
		Publisher:         publish,
		IngestInterval:    cfg.Schedule.IngestInterval,
		TransformInterval: cfg.Schedule.TransformInterval,
		PublishInterval:   cfg.Schedule.PublishInterval,
	})
	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	return nil
}

// runOnce executes the requested sweeps in pipeline order and exits
func runOnce(ctx context.Context, opts Opts, ingest *pipeline.Ingest, transform *pipeline.Transform, publish *pipeline.Publish) error {
	if opts.Ingest {
		if _, err := ingest.IngestAll(ctx); err != nil {
			return fmt.Errorf("ingest sweep: %w", err)
		}
	}
	if opts.Transform {
		if _, err := transform.TransformAll(ctx); err != nil {
			return fmt.Errorf("transform sweep: %w", err)
		}
	}
	if opts.Publish {
		if _, err := publish.PublishAll(ctx); err != nil {
			return fmt.Errorf("publish sweep: %w", err)
		}
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
