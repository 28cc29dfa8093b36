package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken      string
	DiscordGuildID    string
	AnnounceChannelID string

	// Database configuration
	DatabaseURL string

	// Lottery configuration
	OwnerDiscordID  int64 // the only identity allowed to draw winners or change the price
	TicketPrice     int64 // initial ticket price, applied once when the round state is created
	DrawSeed        string
	StartingBalance int64

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:    os.Getenv("DISCORD_GUILD_ID"),
		AnnounceChannelID: os.Getenv("ANNOUNCE_CHANNEL_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Lottery settings with defaults
		TicketPrice:     100,
		StartingBalance: 10000,
		DrawSeed:        os.Getenv("DRAW_SEED"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if owner := os.Getenv("OWNER_DISCORD_ID"); owner != "" {
		parsed, err := strconv.ParseInt(owner, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OWNER_DISCORD_ID: %w", err)
		}
		config.OwnerDiscordID = parsed
	}

	// Override defaults if environment variables are set
	if price := os.Getenv("TICKET_PRICE"); price != "" {
		if parsedPrice, err := strconv.ParseInt(price, 10, 64); err == nil {
			config.TicketPrice = parsedPrice
		}
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.OwnerDiscordID == 0 {
			return nil, fmt.Errorf("OWNER_DISCORD_ID is required")
		}
		if config.TicketPrice <= 0 {
			return nil, fmt.Errorf("TICKET_PRICE must be positive")
		}
	}

	return config, nil
}
