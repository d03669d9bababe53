// Copyright 2025 Campusloop
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/campusloop/unibot"
	"github.com/campusloop/unibot/config"
	"github.com/campusloop/unibot/ingestion"
	"github.com/campusloop/unibot/reembed"
	"github.com/campusloop/unibot/router"
)

func main() {
	app := &cli.App{
		Name:  "unibot",
		Usage: "University question answering over official web sources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "language",
						Usage: "Answer language (bn, en, auto)",
						Value: "auto",
					},
					&cli.BoolFlag{
						Name:  "sources",
						Usage: "Print the source URLs backing the answer",
					},
				},
			},
			{
				Name:      "seed",
				Usage:     "Pre-populate the index from official URLs",
				ArgsUsage: "<url> [<url> ...]",
				Action:    seedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent workers",
						Value: 2,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Rebuild all document vectors with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show document index statistics",
				Action: statsCommand,
			},
			{
				Name:   "clear",
				Usage:  "Wipe the document index",
				Action: clearCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	language := router.Language(c.String("language"))
	switch language {
	case router.LanguageBengali, router.LanguageEnglish, router.LanguageAuto:
	default:
		return fmt.Errorf("invalid language %q: must be one of bn, en, auto", c.String("language"))
	}

	assistant, err := newAssistant()
	if err != nil {
		return err
	}
	defer assistant.Close()

	result := assistant.Answer(context.Background(), question, language)
	fmt.Println(result.Answer)

	if c.Bool("sources") && len(result.Matches) > 0 {
		fmt.Println()
		for i, match := range result.Matches {
			fmt.Printf("[%d] %s (%.2f)\n", i+1, match.URL, match.Score)
		}
	}

	slog.Debug("query finished",
		"topic", result.Topic, "source", result.Source,
		"outcome", result.Outcome, "elapsed_ms", result.ElapsedMS)
	return nil
}

func seedCommand(c *cli.Context) error {
	urls := c.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("at least one URL is required")
	}

	assistant, err := newAssistant()
	if err != nil {
		return err
	}
	defer assistant.Close()

	pipeline, err := assistant.NewSeedPipeline(ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create seed pipeline: %w", err)
	}
	defer pipeline.Release()

	stats, err := pipeline.Seed(context.Background(), urls)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Printf("Requested: %d, scraped: %d, indexed: %d\n",
		stats.Requested, stats.Scraped, stats.Indexed)
	return nil
}

func reembedCommand(c *cli.Context) error {
	assistant, err := newAssistant()
	if err != nil {
		return err
	}
	defer assistant.Close()

	cfg := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	return assistant.NewReembedder(cfg, os.Stderr).Run(context.Background())
}

func statsCommand(c *cli.Context) error {
	assistant, err := newAssistant()
	if err != nil {
		return err
	}
	defer assistant.Close()

	ctx := context.Background()
	count, err := assistant.Repository().CountDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	dimension, err := assistant.Repository().Dimension(ctx)
	if err != nil {
		return fmt.Errorf("failed to read index dimension: %w", err)
	}

	fmt.Printf("Documents: %d\n", count)
	fmt.Printf("Vector dimension: %d\n", dimension)
	return nil
}

func clearCommand(c *cli.Context) error {
	assistant, err := newAssistant()
	if err != nil {
		return err
	}
	defer assistant.Close()

	if err := assistant.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	fmt.Println("Document index cleared.")
	return nil
}

func newAssistant() (*unibot.Assistant, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	assistant, err := unibot.NewAssistant(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant: %w", err)
	}
	return assistant, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
