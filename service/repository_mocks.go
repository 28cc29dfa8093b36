package service

import (
	"context"

	"lotto/events"
	"lotto/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.Account, error) {
	args := m.Called(ctx, discordID, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) EnsureState(ctx context.Context, initialTicketPrice int64) error {
	args := m.Called(ctx, initialTicketPrice)
	return args.Error(0)
}

func (m *MockRoundRepository) GetState(ctx context.Context) (*models.RoundState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoundState), args.Error(1)
}

func (m *MockRoundRepository) GetStateForUpdate(ctx context.Context) (*models.RoundState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoundState), args.Error(1)
}

func (m *MockRoundRepository) AddEntrant(ctx context.Context, entrant *models.Entrant) error {
	args := m.Called(ctx, entrant)
	return args.Error(0)
}

func (m *MockRoundRepository) GetEntrants(ctx context.Context, roundID int64) ([]*models.Entrant, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Entrant), args.Error(1)
}

func (m *MockRoundRepository) CountEntrants(ctx context.Context, roundID int64) (int, error) {
	args := m.Called(ctx, roundID)
	return args.Int(0), args.Error(1)
}

func (m *MockRoundRepository) ClearEntrants(ctx context.Context, roundID int64) error {
	args := m.Called(ctx, roundID)
	return args.Error(0)
}

func (m *MockRoundRepository) AdvanceRound(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRoundRepository) SetTicketPrice(ctx context.Context, newPrice int64) error {
	args := m.Called(ctx, newPrice)
	return args.Error(0)
}

func (m *MockRoundRepository) RecordWinner(ctx context.Context, record *models.WinnerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRoundRepository) GetWinner(ctx context.Context, roundID int64) (*models.WinnerRecord, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WinnerRecord), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// capturingPublisher collects published events for assertions
type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(e events.Event) {
	p.published = append(p.published, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields so tests wire concrete mocks with SetRepositories.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo        AccountRepository
	roundRepo          RoundRepository
	balanceHistoryRepo BalanceHistoryRepository
	publisher          capturingPublisher
}

// SetRepositories wires the repository mocks used by this unit of work
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, roundRepo RoundRepository, balanceHistoryRepo BalanceHistoryRepository) {
	m.accountRepo = accountRepo
	m.roundRepo = roundRepo
	m.balanceHistoryRepo = balanceHistoryRepo
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.publisher.published
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

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) RoundRepository() RoundRepository {
	return m.roundRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return &m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// FixedEntropy is an entropy source returning constant values, making winner
// selection fully reproducible in tests
type FixedEntropy struct {
	Entropy models.Entropy
}

func (f *FixedEntropy) Draw() models.Entropy {
	return f.Entropy
}
