package models

import (
	"fmt"
	"math/rand"
	"time"
)

// Modifier is a named game rule tweak rolled when a game starts.
type Modifier struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Turns       int       `db:"turns"` // 0 means the whole game
	CreatedAt   time.Time `db:"created_at"`
}

// Display formats the modifier for announcement embeds.
func (m *Modifier) Display() string {
	turns := "∞"
	if m.Turns > 0 {
		turns = fmt.Sprintf("%d", m.Turns)
	}
	return fmt.Sprintf("**%s**: %s *(lasts %s turns in scramble games)*", m.Name, m.Description, turns)
}

// PickModifiers chooses count modifiers at random, avoiding any in the
// avoid list where possible. Returns fewer than count if the pool is too
// small to avoid repeats.
func PickModifiers(pool []*Modifier, count int, avoid []string) []string {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	avoided := make(map[string]bool, len(avoid))
	for _, name := range avoid {
		avoided[name] = true
	}
	var candidates []*Modifier
	for _, m := range pool {
		if !avoided[m.Display()] {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}
	picked := make([]string, 0, count)
	seen := make(map[string]bool)
	perm := rand.Perm(len(candidates))
	for _, idx := range perm {
		display := candidates[idx].Display()
		if seen[display] {
			continue
		}
		seen[display] = true
		picked = append(picked, display)
		if len(picked) == count {
			break
		}
	}
	return picked
}
