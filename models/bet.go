package models

import (
	"time"
)

// BetState represents the settlement state of a bet
type BetState string

const (
	BetStatePlaced BetState = "placed"
	BetStateWon    BetState = "won"
	BetStateLost   BetState = "lost"
	// BetStatePayoutFailed marks a winning bet whose credit call to the
	// economy bot failed. The stake was already debited; there is no
	// compensation path, only this marker and a log line.
	BetStatePayoutFailed BetState = "payout_failed"
)

// Bet is a stake placed on one team of an in-progress game. Balances live
// in the external economy bot; the stake is debited when the bet is placed
// and winning bets are credited at 2x on resolution.
type Bet struct {
	ID        int64      `db:"id"`
	GameID    string     `db:"game_id"`
	DiscordID int64      `db:"discord_id"`
	Team      int        `db:"team"`
	Amount    int64      `db:"amount"`
	State     BetState   `db:"state"`
	CreatedAt time.Time  `db:"created_at"`
	SettledAt *time.Time `db:"settled_at"`
}

// Payout returns the amount credited if the bet wins.
func (b *Bet) Payout() int64 {
	return b.Amount * 2
}
