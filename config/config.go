package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Server layout
	ModRoleID         int64           // role allowed to run admin commands
	AnnounceChannelID int64           // channel for game announcements
	GameCategoryID    int64           // category for provisioned game channels
	TierRoles         map[int]int64   // tier number -> role ID

	// Economy bot API (balances live there, not here)
	EconomyBaseURL string
	EconomyToken   string

	// ELO bot API (optional; enables external game tracking)
	EloBaseURL      string
	EloUsername     string
	EloPassword     string
	EloPollInterval time.Duration

	// Environment: "development", "production" or "test"
	Environment string
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

// load loads configuration from the environment, with .env as a fallback
// for local development.
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		EconomyBaseURL: os.Getenv("ECONOMY_BASE_URL"),
		EconomyToken:   os.Getenv("ECONOMY_TOKEN"),

		EloBaseURL:      os.Getenv("ELO_BASE_URL"),
		EloUsername:     os.Getenv("ELO_USERNAME"),
		EloPassword:     os.Getenv("ELO_PASSWORD"),
		EloPollInterval: time.Minute,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	config.ModRoleID = parseID(os.Getenv("MOD_ROLE_ID"))
	config.AnnounceChannelID = parseID(os.Getenv("ANNOUNCE_CHANNEL_ID"))
	config.GameCategoryID = parseID(os.Getenv("GAME_CATEGORY_ID"))
	config.TierRoles = parseTierRoles(os.Getenv("TIER_ROLES"))

	if interval := os.Getenv("ELO_POLL_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.EloPollInterval = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func parseID(raw string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id
}

// parseTierRoles parses "1:123456,2:234567" into a tier -> role map.
func parseTierRoles(raw string) map[int]int64 {
	roles := make(map[int]int64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		tier, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		roleID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		roles[tier] = roleID
	}
	return roles
}
