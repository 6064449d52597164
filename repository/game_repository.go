package repository

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5"

	"github.com/Artemis21/polybots/database"
	"github.com/Artemis21/polybots/models"
)

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

const gameColumns = `
	id, guild_id, mode, status, role_lock_id, channel_id, modifiers,
	winner_team, betting_open, elo_game_id, created_at, started_at, ended_at
`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID,
		&game.GuildID,
		&game.ModeName,
		&game.Status,
		&game.RoleLockID,
		&game.ChannelID,
		&game.Modifiers,
		&game.WinnerTeam,
		&game.BettingOpen,
		&game.EloGameID,
		&game.CreatedAt,
		&game.StartedAt,
		&game.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Create inserts a new game with an empty roster
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, guild_id, mode, status, role_lock_id, betting_open)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		game.ID,
		game.GuildID,
		game.ModeName,
		game.Status,
		game.RoleLockID,
		game.BettingOpen,
	).Scan(&game.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", game.ID, err)
	}

	if game.Modifiers == nil {
		game.Modifiers = []string{}
	}
	game.Roster = []*models.GamePlayer{}
	return nil
}

// GetByID retrieves a game with its roster
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	if err := r.loadRoster(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetByChannelID retrieves the game bound to a provisioned channel
func (r *GameRepository) GetByChannelID(ctx context.Context, channelID int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE channel_id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, channelID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by channel %d: %w", channelID, err)
	}

	if err := r.loadRoster(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetActiveByGuild returns all open and in-progress games in a guild,
// oldest first
func (r *GameRepository) GetActiveByGuild(ctx context.Context, guildID int64) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE guild_id = $1 AND status IN ('open', 'in_progress')
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	return r.collectGames(ctx, rows)
}

// GetActiveGameForPlayer returns the open or in-progress game a user
// occupies in a guild, or nil
func (r *GameRepository) GetActiveGameForPlayer(ctx context.Context, guildID, discordID int64) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		WHERE g.guild_id = $1
		  AND g.status IN ('open', 'in_progress')
		  AND EXISTS (
			SELECT 1 FROM game_players gp
			WHERE gp.game_id = g.id AND gp.discord_id = $2
		  )
		LIMIT 1
	`

	game, err := scanGame(r.q.QueryRow(ctx, query, guildID, discordID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active game for player %d: %w", discordID, err)
	}

	if err := r.loadRoster(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// LockMembership takes an advisory lock on the (guild, user) pair for the
// duration of the current transaction. The one-active-game check is
// check-then-insert with no constraint spanning games, so concurrent joins
// by the same user must serialize on this lock to keep it sound.
func (r *GameRepository) LockMembership(ctx context.Context, guildID, discordID int64) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, membershipLockKey(guildID, discordID))
	if err != nil {
		return fmt.Errorf("failed to lock membership for player %d: %w", discordID, err)
	}
	return nil
}

// membershipLockKey folds a (guild, user) pair into the single bigint key
// space advisory locks use.
func membershipLockKey(guildID, discordID int64) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", guildID, discordID)
	return int64(h.Sum64())
}

// GetTrackedEloGames returns in-progress games with an ELO game ID
func (r *GameRepository) GetTrackedEloGames(ctx context.Context) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE status = 'in_progress' AND elo_game_id IS NOT NULL
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked games: %w", err)
	}
	defer rows.Close()

	return r.collectGames(ctx, rows)
}

// Update persists the game's mutable fields
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET status = $2, channel_id = $3, modifiers = $4, winner_team = $5,
		    betting_open = $6, elo_game_id = $7, started_at = $8, ended_at = $9
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		game.ID,
		game.Status,
		game.ChannelID,
		game.Modifiers,
		game.WinnerTeam,
		game.BettingOpen,
		game.EloGameID,
		game.StartedAt,
		game.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", game.ID)
	}
	return nil
}

// Delete removes the game; roster, claims and bets cascade
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", id)
	}
	return nil
}

// AddPlayer appends a roster member
func (r *GameRepository) AddPlayer(ctx context.Context, member *models.GamePlayer) error {
	query := `
		INSERT INTO game_players (game_id, discord_id, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, member.GameID, member.DiscordID, member.Position).
		Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add player %d to game %s: %w", member.DiscordID, member.GameID, err)
	}
	return nil
}

// RemovePlayer removes a roster member
func (r *GameRepository) RemovePlayer(ctx context.Context, gameID string, discordID int64) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM game_players WHERE game_id = $1 AND discord_id = $2`,
		gameID, discordID)
	if err != nil {
		return fmt.Errorf("failed to remove player %d from game %s: %w", discordID, gameID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d not in game %s", discordID, gameID)
	}
	return nil
}

// SetResults marks the given players won and the rest of the roster lost
func (r *GameRepository) SetResults(ctx context.Context, gameID string, winnerIDs []int64) error {
	query := `
		UPDATE game_players
		SET won = (discord_id = ANY($2)),
		    lost = NOT (discord_id = ANY($2))
		WHERE game_id = $1
	`

	_, err := r.q.Exec(ctx, query, gameID, winnerIDs)
	if err != nil {
		return fmt.Errorf("failed to set results for game %s: %w", gameID, err)
	}
	return nil
}

// SaveClaim records or replaces a participant's win claim
func (r *GameRepository) SaveClaim(ctx context.Context, claim *models.WinClaim) error {
	query := `
		INSERT INTO win_claims (game_id, discord_id, team)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id, discord_id) DO UPDATE SET team = EXCLUDED.team
	`

	_, err := r.q.Exec(ctx, query, claim.GameID, claim.DiscordID, claim.Team)
	if err != nil {
		return fmt.Errorf("failed to save claim for game %s: %w", claim.GameID, err)
	}
	return nil
}

// GetClaims returns all claims for a game
func (r *GameRepository) GetClaims(ctx context.Context, gameID string) ([]*models.WinClaim, error) {
	query := `SELECT game_id, discord_id, team FROM win_claims WHERE game_id = $1`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var claims []*models.WinClaim
	for rows.Next() {
		var claim models.WinClaim
		if err := rows.Scan(&claim.GameID, &claim.DiscordID, &claim.Team); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, &claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}
	return claims, nil
}

// loadRoster populates the game's roster, ordered by position
func (r *GameRepository) loadRoster(ctx context.Context, game *models.Game) error {
	query := `
		SELECT id, game_id, discord_id, position, won, lost, created_at
		FROM game_players
		WHERE game_id = $1
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load roster for game %s: %w", game.ID, err)
	}
	defer rows.Close()

	game.Roster = []*models.GamePlayer{}
	for rows.Next() {
		var member models.GamePlayer
		err := rows.Scan(
			&member.ID,
			&member.GameID,
			&member.DiscordID,
			&member.Position,
			&member.Won,
			&member.Lost,
			&member.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan roster member: %w", err)
		}
		game.Roster = append(game.Roster, &member)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate roster: %w", err)
	}
	return nil
}

func (r *GameRepository) collectGames(ctx context.Context, rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	for _, game := range games {
		if err := r.loadRoster(ctx, game); err != nil {
			return nil, err
		}
	}
	return games, nil
}
