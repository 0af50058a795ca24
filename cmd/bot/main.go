package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"partsbay/internal/infrastructure/cloudinary"
	"partsbay/internal/infrastructure/telegram"
	"partsbay/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required for the bot process")
	}

	cloudinaryClient, err := cloudinary.NewClient(
		cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	bot, err := telegram.NewBot(cfg.TelegramBotToken, cloudinaryClient, cfg.APIBaseURL, cfg.BotServiceToken)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot.Run(ctx)
}
