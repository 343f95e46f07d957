package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mamba-store/internal/catalog"
	"mamba-store/internal/client"
	"mamba-store/internal/config"
	"mamba-store/internal/discordbot"
	"mamba-store/internal/handler"
	"mamba-store/internal/logger"
	"mamba-store/internal/mailer"
	"mamba-store/internal/repository"
	"mamba-store/internal/seed"
	"mamba-store/internal/server"
	"mamba-store/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, falling back to in-memory database; state will not survive restarts")
	}
	db, err := client.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	links, err := catalog.Load(cfg.PaymentLinksJSON)
	if err != nil {
		log.Fatal().Err(err).Msg("payment link catalog invalid")
	}

	orderRepo := repository.NewOrderRepository(db)
	accessCodeRepo := repository.NewAccessCodeRepository(db)
	discordRepo := repository.NewDiscordAccessRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	codes, err := seed.LoadCodes(cfg.Codes.File)
	if err != nil {
		log.Fatal().Err(err).Msg("load access code pool failed")
	}
	if err := accessCodeRepo.Seed(context.Background(), codes, cfg.Codes.ObywatelCount); err != nil {
		log.Fatal().Err(err).Msg("seed access codes failed")
	}

	mail := mailer.New(cfg.Email, log)
	verifier := client.NewStripeVerifier(cfg.Stripe.WebhookSecret)
	discordClient, err := client.NewDiscordClient(cfg.Discord, log)
	if err != nil {
		log.Fatal().Err(err).Msg("discord client init failed")
	}

	fulfillmentService := service.NewFulfillmentService(
		db, verifier, links, mail, cfg.GeneratorLink,
		orderRepo,
		accessCodeRepo,
		discordRepo,
		webhookEventRepo,
		log,
	)
	orderService := service.NewOrderService(orderRepo)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret)
	accessService := service.NewAccessService(db, orderRepo, discordRepo, accessCodeRepo, discordClient, log)

	bot := discordbot.New(discordClient, cfg.Discord, accessService, log)
	if err := bot.Start(); err != nil {
		// the storefront keeps running without the bot
		log.Warn().Err(err).Msg("discord bot not started")
	}

	srv := server.NewServer(
		handler.NewOrderHandler(orderService),
		handler.NewWebhookHandler(fulfillmentService, cfg.Environment.IsDevelopment(), log),
		handler.NewAuthHandler(authService),
		handler.NewAccessHandler(accessService),
		authService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := bot.Close(); err != nil {
		log.Error().Err(err).Msg("discord bot shutdown error")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}
