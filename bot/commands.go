package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/models"
)

// registerCommands registers all slash commands with Discord. Commands are
// registered per-guild when a guild ID is configured, which makes them
// available immediately instead of after Discord's global propagation delay.
func (b *Bot) registerCommands() error {
	gameIDOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: "Game ID",
		Required:    true,
	}
	teamOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "team",
		Description: "Team number (1 is the first team to fill)",
		Required:    true,
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "game",
			Description: "Create, join and resolve arena games",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "new",
					Description: "Open a new game for players to join",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Game mode",
							Required:    true,
							Choices:     modeChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Restrict joining to members with this role",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join an open game",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave a game that hasn't started yet",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "win",
					Description: "Report which team won your game",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption, teamOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show a game's roster and modifiers",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List games that are open or in progress",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reroll",
					Description: "Re-roll round modifiers for a scramble game",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "Force a result without win claims (mods only)",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption, teamOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a game entirely (mods only)",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
			},
		},
		{
			Name:        "modes",
			Description: "List the available game modes",
		},
		{
			Name:        "about",
			Description: "About this bot",
		},
		{
			Name:        "profile",
			Description: "View and edit player profiles",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "View a player's profile",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Player to view (defaults to you)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "name",
					Description: "Set your in-game name",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Your in-game name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "friendcode",
					Description: "Set your friend code",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "code",
							Description: "Your 16 character friend code",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "timezone",
					Description: "Set your timezone as a UTC offset",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "offset",
							Description: "UTC offset, e.g. UTC+5, -4 or 5:30",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the points leaderboard",
		},
		{
			Name:        "points",
			Description: "Manage player points",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "give",
					Description: "Give or take points (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Player to adjust",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Points to add (negative to take away)",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "bet",
			Description: "Bet on in-progress games",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "place",
					Description: "Stake currency on a team; winners are paid double",
					Options: []*discordgo.ApplicationCommandOption{
						gameIDOption,
						teamOption,
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount to stake",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the bets on a game",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "lock",
					Description: "Close betting on a game (mods only)",
					Options:     []*discordgo.ApplicationCommandOption{gameIDOption},
				},
			},
		},
		{
			Name:        "modifier",
			Description: "Manage the game modifier pool",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a modifier to the pool (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Modifier name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "What the modifier does",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "turns",
							Description: "Turns the modifier lasts in scramble games (0 = whole game)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit a modifier (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Modifier ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "New name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "New description",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "turns",
							Description: "New turn count (0 = whole game)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a modifier from the pool (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Modifier ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all modifiers",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "roll",
					Description: "Roll a random modifier",
				},
			},
		},
		{
			Name:        "tag",
			Description: "Reusable text snippets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show a tag",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Tag name or alias",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a tag (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "names",
							Description: "Comma-separated names; the first is canonical",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "content",
							Description: "Tag content",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit a tag's content (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Tag name or alias",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "content",
							Description: "New content",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a tag (mods only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Tag name or alias",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all tags",
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.DiscordGuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func modeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(models.Modes))
	for i := range models.Modes {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{
			Name:  models.Modes[i].Name,
			Value: models.Modes[i].Name,
		}
	}
	return choices
}
