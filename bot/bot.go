package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/bot/features/betting"
	"github.com/Artemis21/polybots/bot/features/games"
	"github.com/Artemis21/polybots/bot/features/modifiers"
	"github.com/Artemis21/polybots/bot/features/players"
	"github.com/Artemis21/polybots/bot/features/tags"
	"github.com/Artemis21/polybots/config"
	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/service"
)

const paginatorTTL = 15 * time.Minute

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  *config.Config
	session *discordgo.Session

	gameService service.GameService
	eventBus    *events.Bus
	paginator   *common.Paginator

	// Feature modules
	games     *games.Feature
	players   *players.Feature
	betting   *betting.Feature
	modifiers *modifiers.Feature
	tags      *tags.Feature
}

// New creates a new bot instance with all features, connects to Discord and
// registers slash commands
func New(
	cfg *config.Config,
	eventBus *events.Bus,
	gameService service.GameService,
	playerService service.PlayerService,
	bettingService service.BettingService,
	modifierService service.ModifierService,
	tagService service.TagService,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:      cfg,
		session:     dg,
		gameService: gameService,
		eventBus:    eventBus,
		paginator:   common.NewPaginator(paginatorTTL),
	}

	bot.games = games.NewFeature(gameService, playerService, bot.paginator, cfg.ModRoleID)
	bot.players = players.NewFeature(playerService, bot.paginator, cfg.ModRoleID)
	bot.betting = betting.NewFeature(bettingService, cfg.ModRoleID)
	bot.modifiers = modifiers.NewFeature(modifierService, cfg.ModRoleID)
	bot.tags = tags.NewFeature(tagService, cfg.ModRoleID)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	bot.registerSubscriptions()

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Paginator exposes the shared paginator so its sweep loop can be run by the
// caller alongside the other background workers.
func (b *Bot) Paginator() *common.Paginator {
	return b.paginator
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	b.paginator.Stop()
	return b.session.Close()
}

// handleCommands routes slash commands to the appropriate feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "game":
		b.games.HandleCommand(s, i)
	case "modes":
		b.games.HandleModesCommand(s, i)
	case "profile":
		b.players.HandleCommand(s, i)
	case "leaderboard":
		b.players.HandleLeaderboardCommand(s, i)
	case "points":
		b.players.HandlePointsCommand(s, i)
	case "bet":
		b.betting.HandleCommand(s, i)
	case "modifier":
		b.modifiers.HandleCommand(s, i)
	case "tag":
		b.tags.HandleCommand(s, i)
	case "about":
		b.handleAboutCommand(s, i)
	}
}

// handleInteractions routes component interactions
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	b.paginator.HandleInteraction(s, i)
}
