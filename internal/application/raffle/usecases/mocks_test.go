package usecases

import (
	"context"
	"time"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type mockRaffleRepository struct {
	raffle    *raffle.Raffle
	CreateErr error
	UpdateErr error
	updates   int
	// updatedInTx has one entry per Update call.
	updatedInTx []bool
}

func (m *mockRaffleRepository) Create(ctx context.Context, r *raffle.Raffle) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	r.SetID(1)
	m.raffle = r
	return nil
}

func (m *mockRaffleRepository) Update(ctx context.Context, r *raffle.Raffle) error {
	m.updatedInTx = append(m.updatedInTx, inTransaction(ctx))
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.updates++
	m.raffle = r
	return nil
}

func (m *mockRaffleRepository) GetByID(ctx context.Context, id uint) (*raffle.Raffle, error) {
	if m.raffle == nil || m.raffle.ID() != id {
		return nil, errors.NewNotFoundError("raffle not found")
	}
	return m.raffle, nil
}

func (m *mockRaffleRepository) GetBySID(ctx context.Context, sid string) (*raffle.Raffle, error) {
	if m.raffle == nil || m.raffle.SID() != sid {
		return nil, errors.NewNotFoundError("raffle not found")
	}
	return m.raffle, nil
}

func (m *mockRaffleRepository) GetActive(ctx context.Context) (*raffle.Raffle, error) {
	if m.raffle == nil || !m.raffle.IsActive() {
		return nil, errors.NewNotFoundError("no active raffle")
	}
	return m.raffle, nil
}

type mockLedger struct {
	CreateBatchFunc    func(ctx context.Context, raffleID uint, numbers []string) error
	QueryByStatusFunc  func(ctx context.Context, raffleID uint, status *quota.Status, page quota.Page) ([]*quota.Quota, int64, error)
	QueryByNumbersFunc func(ctx context.Context, raffleID uint, numbers []string) ([]*quota.Quota, error)
	PickRandomFunc     func(ctx context.Context, raffleID uint, quantity int) ([]string, error)
	CountByStatusFunc  func(ctx context.Context, raffleID uint) (quota.Counts, error)

	countCalls int
	// committedInTx has one entry per CountCommitted call.
	committedInTx []bool
}

func (m *mockLedger) CreateBatch(ctx context.Context, raffleID uint, numbers []string) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, raffleID, numbers)
	}
	return nil
}

func (m *mockLedger) QueryByStatus(ctx context.Context, raffleID uint, status *quota.Status, page quota.Page) ([]*quota.Quota, int64, error) {
	if m.QueryByStatusFunc != nil {
		return m.QueryByStatusFunc(ctx, raffleID, status, page)
	}
	return nil, 0, nil
}

func (m *mockLedger) QueryByNumbers(ctx context.Context, raffleID uint, numbers []string) ([]*quota.Quota, error) {
	if m.QueryByNumbersFunc != nil {
		return m.QueryByNumbersFunc(ctx, raffleID, numbers)
	}
	return nil, nil
}

func (m *mockLedger) Reserve(ctx context.Context, raffleID uint, numbers []string, hold quota.Hold) error {
	return nil
}

func (m *mockLedger) Settle(ctx context.Context, sid string, at time.Time) (int64, error) {
	return 0, nil
}

func (m *mockLedger) Release(ctx context.Context, sid string) (int64, error) {
	return 0, nil
}

func (m *mockLedger) PickRandom(ctx context.Context, raffleID uint, quantity int) ([]string, error) {
	if m.PickRandomFunc != nil {
		return m.PickRandomFunc(ctx, raffleID, quantity)
	}
	return nil, nil
}

func (m *mockLedger) CountByStatus(ctx context.Context, raffleID uint) (quota.Counts, error) {
	m.countCalls++
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, raffleID)
	}
	return quota.Counts{}, nil
}

// CountCommitted derives from CountByStatusFunc and records whether it ran inside a transaction.
func (m *mockLedger) CountCommitted(ctx context.Context, raffleID uint) (int64, error) {
	m.committedInTx = append(m.committedInTx, inTransaction(ctx))
	if m.CountByStatusFunc == nil {
		return 0, nil
	}
	counts, err := m.CountByStatusFunc(ctx, raffleID)
	return counts.Pending + counts.Sold, err
}

func (m *mockLedger) ListSoldByBuyer(ctx context.Context, raffleID, buyerID uint) ([]string, error) {
	return nil, nil
}

type memoryStatsCache struct {
	entries     map[uint]*dto.StatsDTO
	invalidated []uint
	GetErr      error
}

func newMemoryStatsCache() *memoryStatsCache {
	return &memoryStatsCache{entries: map[uint]*dto.StatsDTO{}}
}

func (c *memoryStatsCache) Get(ctx context.Context, raffleID uint) (*dto.StatsDTO, bool, error) {
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	s, ok := c.entries[raffleID]
	return s, ok, nil
}

func (c *memoryStatsCache) Set(ctx context.Context, raffleID uint, stats *dto.StatsDTO) error {
	c.entries[raffleID] = stats
	return nil
}

func (c *memoryStatsCache) Invalidate(ctx context.Context, raffleID uint) error {
	delete(c.entries, raffleID)
	c.invalidated = append(c.invalidated, raffleID)
	return nil
}

type txMarker struct{}

func inTransaction(ctx context.Context) bool {
	return ctx.Value(txMarker{}) != nil
}

// directRunner runs fn inline and marks its context so fakes can tell they ran inside it.
type directRunner struct{}

func (directRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarker{}, true))
}

type stubRenderer struct {
	err error
}

func (s stubRenderer) Render(md string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<p>" + md + "</p>", nil
}

func activeRaffle(total int, price string) *raffle.Raffle {
	p, err := vo.ParseMoney(price, "BRL")
	if err != nil {
		panic(err)
	}
	r, err := raffle.NewRaffle(raffle.NewParams{
		Name:           "Moto 0km",
		Prize:          "Honda CG 160",
		Description:    "**Sorteio** pela loteria federal",
		TotalQuotas:    total,
		MinNumberWidth: quota.MinNumberWidth,
		Price:          p,
	})
	if err != nil {
		panic(err)
	}
	r.SetID(1)
	return r
}

func nopLogger() logger.Interface {
	return logger.NewNopLogger()
}
