package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Artemis21/polybots/elo"
	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/models"
)

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByChannelID(ctx context.Context, channelID int64) (*models.Game, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetActiveByGuild(ctx context.Context, guildID int64) ([]*models.Game, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetActiveGameForPlayer(ctx context.Context, guildID, discordID int64) (*models.Game, error) {
	args := m.Called(ctx, guildID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) LockMembership(ctx context.Context, guildID, discordID int64) error {
	args := m.Called(ctx, guildID, discordID)
	return args.Error(0)
}

func (m *MockGameRepository) GetTrackedEloGames(ctx context.Context) ([]*models.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) Update(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGameRepository) AddPlayer(ctx context.Context, member *models.GamePlayer) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockGameRepository) RemovePlayer(ctx context.Context, gameID string, discordID int64) error {
	args := m.Called(ctx, gameID, discordID)
	return args.Error(0)
}

func (m *MockGameRepository) SetResults(ctx context.Context, gameID string, winnerIDs []int64) error {
	args := m.Called(ctx, gameID, winnerIDs)
	return args.Error(0)
}

func (m *MockGameRepository) SaveClaim(ctx context.Context, claim *models.WinClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockGameRepository) GetClaims(ctx context.Context, gameID string) ([]*models.WinClaim, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinClaim), args.Error(1)
}

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Player, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, discordID int64, displayName string) (*models.Player, error) {
	args := m.Called(ctx, discordID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockPlayerRepository) GetStats(ctx context.Context, discordID int64) (*models.PlayerStats, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

// MockModifierRepository is a mock implementation of ModifierRepository
type MockModifierRepository struct {
	mock.Mock
}

func (m *MockModifierRepository) Create(ctx context.Context, modifier *models.Modifier) error {
	args := m.Called(ctx, modifier)
	return args.Error(0)
}

func (m *MockModifierRepository) GetByID(ctx context.Context, id int64) (*models.Modifier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Modifier), args.Error(1)
}

func (m *MockModifierRepository) GetAll(ctx context.Context) ([]*models.Modifier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Modifier), args.Error(1)
}

func (m *MockModifierRepository) Update(ctx context.Context, modifier *models.Modifier) error {
	args := m.Called(ctx, modifier)
	return args.Error(0)
}

func (m *MockModifierRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetAll(ctx context.Context) ([]*models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tag), args.Error(1)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTagRepository) IncrementUses(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByGame(ctx context.Context, gameID string) ([]*models.Bet, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByGameAndUser(ctx context.Context, gameID string, discordID int64) ([]*models.Bet, error) {
	args := m.Called(ctx, gameID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) UpdateState(ctx context.Context, betID int64, state models.BetState, settledAt time.Time) error {
	args := m.Called(ctx, betID, state, settledAt)
	return args.Error(0)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// EventsOfType filters the recorded events
func (m *MockEventPublisher) EventsOfType(t events.EventType) []events.Event {
	var matched []events.Event
	for _, e := range m.Events {
		if e.Type() == t {
			matched = append(matched, e)
		}
	}
	return matched
}

// MockEconomyClient is a mock implementation of EconomyClient
type MockEconomyClient struct {
	mock.Mock
}

func (m *MockEconomyClient) Balance(ctx context.Context, guildID, userID int64) (int64, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEconomyClient) Adjust(ctx context.Context, guildID, userID, delta int64, reason string) error {
	args := m.Called(ctx, guildID, userID, delta, reason)
	return args.Error(0)
}

// MockEloClient is a mock implementation of EloClient
type MockEloClient struct {
	mock.Mock
}

func (m *MockEloClient) Game(ctx context.Context, id int64) (*elo.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*elo.Game), args.Error(1)
}

func (m *MockEloClient) User(ctx context.Context, discordID int64) (*elo.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*elo.User), args.Error(1)
}

func (m *MockEloClient) NewGame(ctx context.Context, game elo.NewGame) (int64, error) {
	args := m.Called(ctx, game)
	return args.Get(0).(int64), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository
// getters return the repositories set via SetRepositories rather than
// going through the mock framework.
type MockUnitOfWork struct {
	mock.Mock
	gameRepo     GameRepository
	playerRepo   PlayerRepository
	modifierRepo ModifierRepository
	tagRepo      TagRepository
	betRepo      BetRepository
	eventBus     *MockEventPublisher
}

// SetRepositories wires the mock repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	gameRepo GameRepository,
	playerRepo PlayerRepository,
	modifierRepo ModifierRepository,
	tagRepo TagRepository,
	betRepo BetRepository,
) {
	m.gameRepo = gameRepo
	m.playerRepo = playerRepo
	m.modifierRepo = modifierRepo
	m.tagRepo = tagRepo
	m.betRepo = betRepo
	m.eventBus = &MockEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GameRepository() GameRepository         { return m.gameRepo }
func (m *MockUnitOfWork) PlayerRepository() PlayerRepository     { return m.playerRepo }
func (m *MockUnitOfWork) ModifierRepository() ModifierRepository { return m.modifierRepo }
func (m *MockUnitOfWork) TagRepository() TagRepository           { return m.tagRepo }
func (m *MockUnitOfWork) BetRepository() BetRepository           { return m.betRepo }
func (m *MockUnitOfWork) EventBus() EventPublisher               { return m.eventBus }

// PublishedEvents exposes the events recorded during the unit of work
func (m *MockUnitOfWork) PublishedEvents() *MockEventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
