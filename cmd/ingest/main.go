// Command ingest fetches comments for one video and stores them, then exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/chorus/internal/api"
	"github.com/JaimeStill/chorus/internal/config"
	"github.com/JaimeStill/chorus/internal/infrastructure"
)

func main() {
	video := flag.String("video", "", "Video id to ingest (default from config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *video); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, video string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if video == "" {
		video = cfg.YouTube.VideoID
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	if err := infra.Start(); err != nil {
		return err
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}

	domain := api.NewDomain(api.NewRuntime(cfg, infra))

	result, err := domain.Ingestion.Ingest(ctx, video)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", video, err)
	}

	infra.Logger.Info("ingestion complete",
		"video_id", result.VideoID,
		"pages", result.Pages,
		"inserted", result.Inserted,
		"archived", result.Archived,
	)
	return nil
}
