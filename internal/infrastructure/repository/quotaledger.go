package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/mappers"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/db"
)

const quotaBatchSize = 1000

// QuotaLedger keeps quota status in the quotas table. Every status change is a
// conditional UPDATE guarded by the expected current status.
type QuotaLedger struct {
	db *gorm.DB
}

func NewQuotaLedger(db *gorm.DB) *QuotaLedger {
	return &QuotaLedger{db: db}
}

func (l *QuotaLedger) CreateBatch(ctx context.Context, raffleID uint, numbers []string) error {
	rows := mappers.NewAvailableQuotaModels(raffleID, numbers)
	if len(rows) == 0 {
		return nil
	}
	if err := db.GetTxFromContext(ctx, l.db).CreateInBatches(rows, quotaBatchSize).Error; err != nil {
		return fmt.Errorf("failed to create quotas: %w", err)
	}
	return nil
}

func (l *QuotaLedger) QueryByStatus(ctx context.Context, raffleID uint, status *quota.Status, page quota.Page) ([]*quota.Quota, int64, error) {
	query := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Where("raffle_id = ?", raffleID)
	if status != nil {
		query = query.Where("status = ?", status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quotas: %w", err)
	}

	// Numbers are zero-padded to one width per raffle, so string order is numeric order.
	query = query.Order("number ASC")
	if page.Limit > 0 {
		query = query.Offset(page.Offset).Limit(page.Limit)
	}

	var rows []models.QuotaModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list quotas: %w", err)
	}

	quotas, err := mappers.QuotasToDomain(rows)
	if err != nil {
		return nil, 0, err
	}
	return quotas, total, nil
}

func (l *QuotaLedger) QueryByNumbers(ctx context.Context, raffleID uint, numbers []string) ([]*quota.Quota, error) {
	if len(numbers) == 0 {
		return []*quota.Quota{}, nil
	}

	var rows []models.QuotaModel
	if err := db.GetTxFromContext(ctx, l.db).
		Where("raffle_id = ? AND number IN ?", raffleID, numbers).
		Order("number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query quotas: %w", err)
	}

	if len(rows) != len(numbers) {
		found := make(map[string]struct{}, len(rows))
		for _, r := range rows {
			found[r.Number] = struct{}{}
		}
		var missing []string
		for _, n := range numbers {
			if _, ok := found[n]; !ok {
				missing = append(missing, n)
			}
		}
		return nil, &quota.MissingError{Numbers: missing}
	}

	return mappers.QuotasToDomain(rows)
}

// Reserve flips the requested quotas from available to pending with one conditional
// UPDATE inside a savepoint. If fewer rows than requested match, the savepoint is
// rolled back and the unavailable subset is reported.
func (l *QuotaLedger) Reserve(ctx context.Context, raffleID uint, numbers []string, hold quota.Hold) error {
	if len(numbers) == 0 {
		return nil
	}

	tx := db.GetTxFromContext(ctx, l.db)

	err := tx.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.QuotaModel{}).
			Where("raffle_id = ? AND number IN ? AND status = ?", raffleID, numbers, quota.StatusAvailable.String()).
			Updates(map[string]interface{}{
				"status":          quota.StatusPending.String(),
				"buyer_id":        hold.BuyerID,
				"transaction_sid": hold.TransactionSID,
				"updated_at":      biztime.NowUTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to reserve quotas: %w", result.Error)
		}
		if result.RowsAffected != int64(len(numbers)) {
			return &quota.UnavailableError{}
		}
		return nil
	})
	var short *quota.UnavailableError
	if !stderrors.As(err, &short) {
		return err
	}

	if unavailable, lookupErr := l.unavailableSubset(tx, raffleID, numbers); lookupErr == nil {
		short.Numbers = unavailable
	}
	return short
}

// unavailableSubset lists requested numbers that are not available, including unknown ones.
func (l *QuotaLedger) unavailableSubset(tx *gorm.DB, raffleID uint, numbers []string) ([]string, error) {
	var available []string
	if err := tx.Model(&models.QuotaModel{}).
		Where("raffle_id = ? AND number IN ? AND status = ?", raffleID, numbers, quota.StatusAvailable.String()).
		Pluck("number", &available).Error; err != nil {
		return nil, err
	}

	free := make(map[string]struct{}, len(available))
	for _, n := range available {
		free[n] = struct{}{}
	}
	out := make([]string, 0, len(numbers)-len(available))
	for _, n := range numbers {
		if _, ok := free[n]; !ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (l *QuotaLedger) Settle(ctx context.Context, transactionSID string, purchasedAt time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Where("transaction_sid = ? AND status = ?", transactionSID, quota.StatusPending.String()).
		Updates(map[string]interface{}{
			"status":       quota.StatusSold.String(),
			"purchased_at": purchasedAt,
			"updated_at":   biztime.NowUTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to settle quotas: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (l *QuotaLedger) Release(ctx context.Context, transactionSID string) (int64, error) {
	result := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Where("transaction_sid = ? AND status = ?", transactionSID, quota.StatusPending.String()).
		Updates(map[string]interface{}{
			"status":          quota.StatusAvailable.String(),
			"buyer_id":        nil,
			"transaction_sid": nil,
			"updated_at":      biztime.NowUTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to release quotas: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// PickRandom samples in process so the draw is uniform on every dialect.
func (l *QuotaLedger) PickRandom(ctx context.Context, raffleID uint, quantity int) ([]string, error) {
	if quantity <= 0 {
		return []string{}, nil
	}

	var pool []string
	if err := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Where("raffle_id = ? AND status = ?", raffleID, quota.StatusAvailable.String()).
		Pluck("number", &pool).Error; err != nil {
		return nil, fmt.Errorf("failed to load available quotas: %w", err)
	}

	return quota.SampleUniform(pool, quantity, nil), nil
}

func (l *QuotaLedger) CountByStatus(ctx context.Context, raffleID uint) (quota.Counts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Select("status, COUNT(*) AS count").
		Where("raffle_id = ?", raffleID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return quota.Counts{}, fmt.Errorf("failed to count quotas: %w", err)
	}

	var counts quota.Counts
	for _, r := range rows {
		switch quota.Status(r.Status) {
		case quota.StatusAvailable:
			counts.Available = r.Count
		case quota.StatusPending:
			counts.Pending = r.Count
		case quota.StatusSold:
			counts.Sold = r.Count
		}
		counts.Total += r.Count
	}
	return counts, nil
}

func (l *QuotaLedger) CountCommitted(ctx context.Context, raffleID uint) (int64, error) {
	// Filtering on status would leave available rows unlocked; lock them all and count in SQL.
	var committed int64
	if err := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Select("COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0)", string(quota.StatusAvailable)).
		Where("raffle_id = ?", raffleID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scan(&committed).Error; err != nil {
		return 0, fmt.Errorf("failed to count committed quotas: %w", err)
	}
	return committed, nil
}

func (l *QuotaLedger) ListSoldByBuyer(ctx context.Context, raffleID, buyerID uint) ([]string, error) {
	var numbers []string
	if err := db.GetTxFromContext(ctx, l.db).
		Model(&models.QuotaModel{}).
		Where("raffle_id = ? AND buyer_id = ? AND status = ?", raffleID, buyerID, quota.StatusSold.String()).
		Order("number ASC").
		Pluck("number", &numbers).Error; err != nil {
		return nil, fmt.Errorf("failed to list sold quotas: %w", err)
	}
	return numbers, nil
}
