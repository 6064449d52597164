package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Artemis21/polybots/database"
	"github.com/Artemis21/polybots/models"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create inserts a new bet in the placed state
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (game_id, discord_id, team, amount, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, bet.GameID, bet.DiscordID, bet.Team, bet.Amount, bet.State).
		Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet on game %s: %w", bet.GameID, err)
	}
	return nil
}

// GetByGame returns all bets on a game, oldest first
func (r *BetRepository) GetByGame(ctx context.Context, gameID string) ([]*models.Bet, error) {
	query := `
		SELECT id, game_id, discord_id, team, amount, state, created_at, settled_at
		FROM bets
		WHERE game_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for game %s: %w", gameID, err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// GetByGameAndUser returns a user's bets on a game
func (r *BetRepository) GetByGameAndUser(ctx context.Context, gameID string, discordID int64) ([]*models.Bet, error) {
	query := `
		SELECT id, game_id, discord_id, team, amount, state, created_at, settled_at
		FROM bets
		WHERE game_id = $1 AND discord_id = $2
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, gameID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for game %s and user %d: %w", gameID, discordID, err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// UpdateState transitions a bet to a settled state
func (r *BetRepository) UpdateState(ctx context.Context, betID int64, state models.BetState, settledAt time.Time) error {
	query := `UPDATE bets SET state = $2, settled_at = $3 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, betID, state, settledAt)
	if err != nil {
		return fmt.Errorf("failed to update bet %d: %w", betID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bet %d not found", betID)
	}
	return nil
}

func collectBets(rows pgx.Rows) ([]*models.Bet, error) {
	var bets []*models.Bet
	for rows.Next() {
		var bet models.Bet
		err := rows.Scan(
			&bet.ID,
			&bet.GameID,
			&bet.DiscordID,
			&bet.Team,
			&bet.Amount,
			&bet.State,
			&bet.CreatedAt,
			&bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}
	return bets, nil
}
