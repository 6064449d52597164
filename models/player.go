package models

import (
	"time"
)

// Player represents a registered tournament player.
type Player struct {
	DiscordID      int64     `db:"discord_id"`
	DisplayName    string    `db:"display_name"`
	FriendCode     *string   `db:"friend_code"`
	TimezoneOffset *int      `db:"timezone_minutes"`
	Points         int       `db:"points"`
	Tier           int       `db:"tier"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Timezone returns the player's timezone, or nil if not set.
func (p *Player) Timezone() *Timezone {
	if p.TimezoneOffset == nil {
		return nil
	}
	return &Timezone{OffsetMinutes: *p.TimezoneOffset}
}

// TierThresholds maps a tier to the points needed to advance out of it.
// Tiers without an entry are terminal.
var TierThresholds = map[int]int{
	1: 25,
	2: 30,
}

// TierForPoints computes the tier reached by accumulating points from tier
// 1, consuming each tier's threshold along the way. The returned points are
// the remainder within the final tier.
func TierForPoints(points int) (tier, remaining int) {
	tier = 1
	remaining = points
	if remaining < 0 {
		remaining = 0
	}
	for {
		threshold, ok := TierThresholds[tier]
		if !ok || remaining < threshold {
			return tier, remaining
		}
		remaining -= threshold
		tier++
	}
}

// PlayerStats are aggregate figures derived by scanning the player's game
// memberships, never stored.
type PlayerStats struct {
	Wins       int
	Losses     int
	InProgress int
}

// Total returns the number of games counted in the stats.
func (s *PlayerStats) Total() int {
	return s.Wins + s.Losses + s.InProgress
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	DiscordID   int64  `db:"discord_id"`
	DisplayName string `db:"display_name"`
	Points      int    `db:"points"`
	Tier        int    `db:"tier"`
	Rank        int64  `db:"rank"`
}
