package service

import (
	"context"
	"time"

	"github.com/Artemis21/polybots/elo"
	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/models"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Create inserts a new game with an empty roster
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game with its roster, or nil if not found
	GetByID(ctx context.Context, id string) (*models.Game, error)

	// GetByChannelID retrieves the game bound to a provisioned channel
	GetByChannelID(ctx context.Context, channelID int64) (*models.Game, error)

	// GetActiveByGuild returns all open and in-progress games in a guild
	GetActiveByGuild(ctx context.Context, guildID int64) ([]*models.Game, error)

	// GetActiveGameForPlayer returns the open or in-progress game a user
	// occupies in a guild, or nil
	GetActiveGameForPlayer(ctx context.Context, guildID, discordID int64) (*models.Game, error)

	// LockMembership takes a transaction-scoped lock on the (guild, user)
	// pair so concurrent joins by the same user serialize. Held until the
	// transaction ends.
	LockMembership(ctx context.Context, guildID, discordID int64) error

	// GetTrackedEloGames returns in-progress games with an ELO game ID
	GetTrackedEloGames(ctx context.Context) ([]*models.Game, error)

	// Update persists the game's mutable fields (status, winner, channel,
	// modifiers, betting flag, timestamps)
	Update(ctx context.Context, game *models.Game) error

	// Delete removes the game; roster, claims and bets cascade
	Delete(ctx context.Context, id string) error

	// AddPlayer appends a roster member
	AddPlayer(ctx context.Context, member *models.GamePlayer) error

	// RemovePlayer removes a roster member
	RemovePlayer(ctx context.Context, gameID string, discordID int64) error

	// SetResults marks the given players won and the rest of the roster lost
	SetResults(ctx context.Context, gameID string, winnerIDs []int64) error

	// SaveClaim records or replaces a participant's win claim
	SaveClaim(ctx context.Context, claim *models.WinClaim) error

	// GetClaims returns all claims for a game
	GetClaims(ctx context.Context, gameID string) ([]*models.WinClaim, error)
}

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByDiscordID retrieves a player, or nil if not registered
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Player, error)

	// Create registers a player with default profile values
	Create(ctx context.Context, discordID int64, displayName string) (*models.Player, error)

	// Update persists profile fields, points and tier
	Update(ctx context.Context, player *models.Player) error

	// Leaderboard returns the top players by points
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// GetStats derives win/loss/in-progress counts by scanning the
	// player's game memberships
	GetStats(ctx context.Context, discordID int64) (*models.PlayerStats, error)
}

// ModifierRepository defines the interface for modifier data access
type ModifierRepository interface {
	Create(ctx context.Context, modifier *models.Modifier) error
	GetByID(ctx context.Context, id int64) (*models.Modifier, error)
	GetAll(ctx context.Context) ([]*models.Modifier, error)
	Update(ctx context.Context, modifier *models.Modifier) error
	Delete(ctx context.Context, id int64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetAll(ctx context.Context) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id int64) error
	IncrementUses(ctx context.Context, id int64) error
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByGame(ctx context.Context, gameID string) ([]*models.Bet, error)
	GetByGameAndUser(ctx context.Context, gameID string, discordID int64) ([]*models.Bet, error)
	UpdateState(ctx context.Context, betID int64, state models.BetState, settledAt time.Time) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	GameRepository() GameRepository
	PlayerRepository() PlayerRepository
	ModifierRepository() ModifierRepository
	TagRepository() TagRepository
	BetRepository() BetRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// EconomyClient is the currency bot API surface used by betting.
type EconomyClient interface {
	// Balance fetches a user's cash balance
	Balance(ctx context.Context, guildID, userID int64) (int64, error)

	// Adjust applies a signed delta to a user's cash balance
	Adjust(ctx context.Context, guildID, userID, delta int64, reason string) error
}

// EloClient is the ELO bot API surface used for external game tracking.
type EloClient interface {
	Game(ctx context.Context, id int64) (*elo.Game, error)
	User(ctx context.Context, discordID int64) (*elo.User, error)
	NewGame(ctx context.Context, game elo.NewGame) (int64, error)
}

// GameService defines the interface for game lifecycle operations
type GameService interface {
	// Create opens a new game for joining
	Create(ctx context.Context, guildID int64, modeName string, roleLockID *int64) (*models.Game, error)

	// Join adds a user to an open game, auto-starting it at capacity.
	// memberRoleIDs are the caller's guild roles, for role locks.
	Join(ctx context.Context, gameID string, userID int64, memberRoleIDs []int64) (*models.Game, error)

	// Leave removes a user from a still-open game
	Leave(ctx context.Context, gameID string, userID int64) (*models.Game, error)

	// ClaimWin records a participant's claim; resolves the game once a
	// majority of the roster agrees
	ClaimWin(ctx context.Context, gameID string, userID int64, team int) (*models.Game, error)

	// ForceEnd resolves the game immediately (admin path)
	ForceEnd(ctx context.Context, gameID string, team int) (*models.Game, error)

	// Delete removes a game and detaches its players (admin path)
	Delete(ctx context.Context, gameID string) error

	// Reroll re-picks round modifiers for a scramble game
	Reroll(ctx context.Context, gameID string) (*models.Game, error)

	// SetChannel records the provisioned channel after the bot creates it
	SetChannel(ctx context.Context, gameID string, channelID int64) error

	// GetByID fetches a game with its roster
	GetByID(ctx context.Context, gameID string) (*models.Game, error)

	// ListActive lists open and in-progress games in a guild
	ListActive(ctx context.Context, guildID int64) ([]*models.Game, error)

	// SyncFromElo resolves tracked games whose winner the ELO bot has
	// confirmed; a no-op when no ELO client is configured
	SyncFromElo(ctx context.Context) error
}

// PlayerService defines the interface for profile operations
type PlayerService interface {
	// GetOrCreate registers a player lazily on first interaction
	GetOrCreate(ctx context.Context, discordID int64, displayName string) (*models.Player, error)

	// SetFriendCode updates the player's friend code
	SetFriendCode(ctx context.Context, discordID int64, code string) error

	// SetTimezone parses and stores a UTC offset
	SetTimezone(ctx context.Context, discordID int64, raw string) (*models.Timezone, error)

	// SetName updates the player's display name
	SetName(ctx context.Context, discordID int64, name string) error

	// Profile returns the player with derived aggregate stats
	Profile(ctx context.Context, discordID int64) (*models.Player, *models.PlayerStats, error)

	// Leaderboard returns the top players by points
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// GivePoints applies a signed point adjustment (admin path)
	GivePoints(ctx context.Context, guildID, discordID int64, delta int) (*models.Player, error)
}

// BettingService defines the interface for betting operations
type BettingService interface {
	// PlaceBet stakes amount on a team of an in-progress game, debiting
	// the bettor's economy balance immediately
	PlaceBet(ctx context.Context, gameID string, userID int64, team int, amount int64) (*models.Bet, error)

	// LockBets closes betting on a game (admin path, one-way)
	LockBets(ctx context.Context, gameID string) error

	// ListBets returns all bets on a game
	ListBets(ctx context.Context, gameID string) ([]*models.Bet, error)
}

// ModifierService defines the interface for modifier management
type ModifierService interface {
	Add(ctx context.Context, name, description string, turns int) (*models.Modifier, error)
	Edit(ctx context.Context, id int64, name, description string, turns int) error
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Modifier, error)
	Roll(ctx context.Context) (string, error)
}

// TagService defines the interface for tag management
type TagService interface {
	Create(ctx context.Context, names []string, content string) (*models.Tag, error)
	Show(ctx context.Context, name string) (*models.Tag, error)
	Edit(ctx context.Context, name string, content string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*models.Tag, error)
}
