package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Artemis21/polybots/database"
	"github.com/Artemis21/polybots/models"
)

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

// GetByDiscordID retrieves a player by their Discord ID
func (r *PlayerRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Player, error) {
	query := `
		SELECT discord_id, display_name, friend_code, timezone_minutes,
		       points, tier, created_at, updated_at
		FROM players
		WHERE discord_id = $1
	`

	var player models.Player
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&player.DiscordID,
		&player.DisplayName,
		&player.FriendCode,
		&player.TimezoneOffset,
		&player.Points,
		&player.Tier,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by discord ID %d: %w", discordID, err)
	}

	return &player, nil
}

// Create registers a player with default profile values
func (r *PlayerRepository) Create(ctx context.Context, discordID int64, displayName string) (*models.Player, error) {
	query := `
		INSERT INTO players (discord_id, display_name)
		VALUES ($1, $2)
		RETURNING discord_id, display_name, friend_code, timezone_minutes,
		          points, tier, created_at, updated_at
	`

	var player models.Player
	err := r.q.QueryRow(ctx, query, discordID, displayName).Scan(
		&player.DiscordID,
		&player.DisplayName,
		&player.FriendCode,
		&player.TimezoneOffset,
		&player.Points,
		&player.Tier,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player with discord ID %d: %w", discordID, err)
	}

	return &player, nil
}

// Update persists profile fields, points and tier
func (r *PlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET display_name = $2, friend_code = $3, timezone_minutes = $4,
		    points = $5, tier = $6, updated_at = NOW()
		WHERE discord_id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		player.DiscordID,
		player.DisplayName,
		player.FriendCode,
		player.TimezoneOffset,
		player.Points,
		player.Tier,
	).Scan(&player.UpdatedAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("player %d not found", player.DiscordID)
	}
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.DiscordID, err)
	}
	return nil
}

// Leaderboard returns the top players by points
func (r *PlayerRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT discord_id, display_name, points, tier,
		       RANK() OVER (ORDER BY points DESC) AS rank
		FROM players
		ORDER BY points DESC, discord_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(&entry.DiscordID, &entry.DisplayName, &entry.Points, &entry.Tier, &entry.Rank)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}

// GetStats derives win/loss/in-progress counts by scanning the player's
// game memberships
func (r *PlayerRepository) GetStats(ctx context.Context, discordID int64) (*models.PlayerStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE gp.won),
			COUNT(*) FILTER (WHERE gp.lost),
			COUNT(*) FILTER (WHERE g.status = 'in_progress')
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.discord_id = $1
	`

	var stats models.PlayerStats
	err := r.q.QueryRow(ctx, query, discordID).Scan(&stats.Wins, &stats.Losses, &stats.InProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for player %d: %w", discordID, err)
	}
	return &stats, nil
}
