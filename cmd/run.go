package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Artemis21/polybots/bot"
	"github.com/Artemis21/polybots/config"
	"github.com/Artemis21/polybots/database"
	"github.com/Artemis21/polybots/economy"
	"github.com/Artemis21/polybots/elo"
	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/repository"
	"github.com/Artemis21/polybots/service"
)

const paginatorSweepInterval = time.Minute

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting polybots...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	economyClient := economy.NewClient(cfg.EconomyBaseURL, cfg.EconomyToken)

	// The ELO bot integration is optional; without it games resolve only
	// through win claims.
	var eloClient service.EloClient
	if cfg.EloBaseURL != "" {
		eloClient = elo.NewClient(cfg.EloBaseURL, cfg.EloUsername, cfg.EloPassword)
		log.Info("ELO game tracking enabled")
	}

	gameService := service.NewGameService(uowFactory, economyClient, eloClient)
	playerService := service.NewPlayerService(uowFactory)
	bettingService := service.NewBettingService(uowFactory, economyClient)
	modifierService := service.NewModifierService(uowFactory)
	tagService := service.NewTagService(uowFactory)

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(cfg, eventBus, gameService, playerService, bettingService, modifierService, tagService)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		discordBot.Paginator().StartSweep(paginatorSweepInterval)
		return nil
	})

	if eloClient != nil {
		group.Go(func() error {
			runEloPoller(groupCtx, gameService, cfg.EloPollInterval)
			return nil
		})
	}

	log.Infof("Bot is running in %s mode", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	if err := group.Wait(); err != nil {
		log.WithError(err).Error("Background worker error")
	}

	log.Info("Shutdown completed")
	return nil
}

// runEloPoller periodically asks the ELO bot for confirmed results of
// tracked games until the context is cancelled.
func runEloPoller(ctx context.Context, gameService service.GameService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := gameService.SyncFromElo(ctx); err != nil {
				log.WithError(err).Error("ELO sync failed")
			}
		}
	}
}
