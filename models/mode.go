package models

import (
	"fmt"
	"strings"
)

// Mode describes a game mode: how many teams play, how big they are, how
// many modifiers are rolled, and what a result is worth in points.
type Mode struct {
	Name           string
	Teams          int
	TeamSize       int
	ModifierCount  int
	RoundModifiers bool // scramble modes re-roll modifiers each round
	WinPoints      int
	LossPoints     int
}

// Modes is the built-in mode table. Names are unique and lowercase.
var Modes = []Mode{
	{Name: "regular", Teams: 2, TeamSize: 1, ModifierCount: 1, WinPoints: 5, LossPoints: 4},
	{Name: "double", Teams: 2, TeamSize: 1, ModifierCount: 2, WinPoints: 6, LossPoints: 4},
	{Name: "skirmish3", Teams: 2, TeamSize: 3, ModifierCount: 1, WinPoints: 8, LossPoints: 5},
	{Name: "skirmish5", Teams: 2, TeamSize: 5, ModifierCount: 1, WinPoints: 8, LossPoints: 5},
	{Name: "rumble4", Teams: 4, TeamSize: 1, ModifierCount: 1, WinPoints: 10, LossPoints: 2},
	{Name: "rumble8", Teams: 8, TeamSize: 1, ModifierCount: 1, WinPoints: 10, LossPoints: 2},
	{Name: "scramble3", Teams: 3, TeamSize: 1, ModifierCount: 1, RoundModifiers: true, WinPoints: 9, LossPoints: 2},
	{Name: "scramble4", Teams: 4, TeamSize: 1, ModifierCount: 1, RoundModifiers: true, WinPoints: 9, LossPoints: 2},
	{Name: "scramble6", Teams: 6, TeamSize: 1, ModifierCount: 1, RoundModifiers: true, WinPoints: 9, LossPoints: 2},
}

// ParseMode looks up a mode by name, case-insensitively. Returns nil if the
// name does not match any known mode.
func ParseMode(name string) *Mode {
	name = strings.ToLower(name)
	for i := range Modes {
		if Modes[i].Name == name {
			return &Modes[i]
		}
	}
	return nil
}

// Players returns the total roster capacity of the mode.
func (m *Mode) Players() int {
	return m.Teams * m.TeamSize
}

var numberWords = []string{
	"zero", "one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "ten",
}

func numberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return fmt.Sprintf("%d", n)
}

// Describe returns a short human-readable summary of the mode, e.g.
// "One modifier per game, two teams of three. Win: eight points; loss: five points."
func (m *Mode) Describe() string {
	var teamsPart string
	switch {
	case m.TeamSize > 1:
		teamsPart = fmt.Sprintf("%s teams of %s", numberWord(m.Teams), numberWord(m.TeamSize))
	case m.Teams > 4:
		teamsPart = fmt.Sprintf("%s player FFA", numberWord(m.Teams))
	default:
		teamsPart = strings.TrimSuffix(strings.Repeat("1v", m.Teams), "v")
	}
	plural := ""
	if m.ModifierCount != 1 {
		plural = "s"
	}
	per := "game"
	if m.RoundModifiers {
		per = "round"
	}
	mods := numberWord(m.ModifierCount)
	mods = strings.ToUpper(mods[:1]) + mods[1:]
	return fmt.Sprintf(
		"%s modifier%s per %s, %s. Win: %s points; loss: %s points.",
		mods, plural, per, teamsPart,
		numberWord(m.WinPoints), numberWord(m.LossPoints),
	)
}

func (m *Mode) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Describe())
}
