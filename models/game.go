package models

import (
	"strings"
	"time"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusOpen       GameStatus = "open"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusEnded      GameStatus = "ended"
)

const base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewGameID allocates a game identifier by base-36 encoding the creation
// time. IDs allocated in the same second collide; the caller retries with
// the next second on a unique violation.
func NewGameID(at time.Time) string {
	n := at.Unix()
	if n <= 0 {
		return "0"
	}
	var b [16]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = base36Digits[n%36]
		n /= 36
	}
	return string(b[i:])
}

// GamePlayer is a member of a game's roster.
type GamePlayer struct {
	ID        int64     `db:"id"`
	GameID    string    `db:"game_id"`
	DiscordID int64     `db:"discord_id"`
	Position  int       `db:"position"`
	Won       bool      `db:"won"`
	Lost      bool      `db:"lost"`
	CreatedAt time.Time `db:"created_at"`
}

// WinClaim records one participant's claim that a team won.
type WinClaim struct {
	GameID    string `db:"game_id"`
	DiscordID int64  `db:"discord_id"`
	Team      int    `db:"team"`
}

// Game represents one arena game.
type Game struct {
	ID          string     `db:"id"`
	GuildID     int64      `db:"guild_id"`
	ModeName    string     `db:"mode"`
	Status      GameStatus `db:"status"`
	RoleLockID  *int64     `db:"role_lock_id"`
	ChannelID   *int64     `db:"channel_id"`
	Modifiers   []string   `db:"modifiers"`
	WinnerTeam  int        `db:"winner_team"` // 0 until resolved
	BettingOpen bool       `db:"betting_open"`
	EloGameID   *int64     `db:"elo_game_id"`
	CreatedAt   time.Time  `db:"created_at"`
	StartedAt   *time.Time `db:"started_at"`
	EndedAt     *time.Time `db:"ended_at"`

	// Roster is loaded alongside the game, ordered by position.
	Roster []*GamePlayer `db:"-"`
}

// Mode resolves the game's mode from the built-in table.
func (g *Game) Mode() *Mode {
	return ParseMode(g.ModeName)
}

// Capacity returns the full roster size for the game's mode.
func (g *Game) Capacity() int {
	return g.Mode().Players()
}

// IsFull reports whether the roster has reached capacity.
func (g *Game) IsFull() bool {
	return len(g.Roster) >= g.Capacity()
}

// HasPlayer reports whether a user occupies a roster slot.
func (g *Game) HasPlayer(discordID int64) bool {
	for _, p := range g.Roster {
		if p.DiscordID == discordID {
			return true
		}
	}
	return false
}

// Teams splits the roster into teams by join order: the first TeamSize
// members form team 1, and so on. Trailing teams may be short while the
// game is still filling.
func (g *Game) Teams() [][]*GamePlayer {
	mode := g.Mode()
	teams := make([][]*GamePlayer, mode.Teams)
	for i := range teams {
		teams[i] = []*GamePlayer{}
	}
	for i, p := range g.Roster {
		t := i / mode.TeamSize
		if t >= len(teams) {
			break
		}
		teams[t] = append(teams[t], p)
	}
	return teams
}

// TeamOf returns the 1-based team number a user plays on, or 0 if they are
// not in the game.
func (g *Game) TeamOf(discordID int64) int {
	for n, team := range g.Teams() {
		for _, p := range team {
			if p.DiscordID == discordID {
				return n + 1
			}
		}
	}
	return 0
}

// ClaimThreshold is the number of matching win claims needed to resolve
// the game: a strict majority of the roster.
func (g *Game) ClaimThreshold() int {
	return len(g.Roster)/2 + 1
}

// IsActive reports whether the game still counts towards the one-game-per-
// player rule.
func (g *Game) IsActive() bool {
	return g.Status == GameStatusOpen || g.Status == GameStatusInProgress
}

// ChannelName is the name used for the game's provisioned text channel.
func (g *Game) ChannelName() string {
	return strings.ToLower(g.ModeName) + "-" + g.ID
}

func (g *Game) String() string {
	return g.ModeName + "-" + g.ID
}
