package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"lotto/bot"
	"lotto/config"
	"lotto/database"
	"lotto/events"
	"lotto/repository"
	"lotto/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting lotto bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	entropy := service.NewSystemEntropy(cfg.DrawSeed)
	accountService := service.NewAccountService(uowFactory, cfg.StartingBalance)
	lotteryService := service.NewLotteryService(uowFactory, entropy, cfg.OwnerDiscordID, cfg.TicketPrice)

	// Create the round state row on first startup; the configured ticket
	// price only applies here, later price changes go through the owner.
	if err := lotteryService.EnsureRound(ctx); err != nil {
		return fmt.Errorf("failed to initialize lottery round: %w", err)
	}

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.DiscordGuildID,
		AnnounceChannelID: cfg.AnnounceChannelID,
	}
	discordBot, err := bot.New(botConfig, lotteryService, accountService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
