package repository

import (
	"context"

	"gorm.io/gorm"

	"giftledger/internal/model"
)

// AuditRepository defines the append-only audit log persistence. There are
// no update or delete operations: corrections happen by appending new
// entries, so the trail stays reconstructable independent of the card row.
type AuditRepository interface {
	AppendUsage(ctx context.Context, record *model.UsageRecord) error
	AppendUsageBatch(ctx context.Context, records []model.UsageRecord) error
	AppendStatusLog(ctx context.Context, log *model.StatusChangeLog) error
	AppendRecharge(ctx context.Context, record *model.RechargeRecord) error
	ListUsage(ctx context.Context, gifticonID string, limit, offset int) ([]model.UsageRecord, error)
	ListStatusLogs(ctx context.Context, gifticonID string, limit, offset int) ([]model.StatusChangeLog, error)
	ListRecharges(ctx context.Context, gifticonID string, limit, offset int) ([]model.RechargeRecord, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// AppendUsage appends a single usage record.
func (r *auditRepository) AppendUsage(ctx context.Context, record *model.UsageRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// AppendUsageBatch appends multiple usage records in a single statement.
func (r *auditRepository) AppendUsageBatch(ctx context.Context, records []model.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, 100).Error
}

// AppendStatusLog appends a block/unblock/recharge status change entry.
func (r *auditRepository) AppendStatusLog(ctx context.Context, log *model.StatusChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// AppendRecharge appends a recharge history entry.
func (r *auditRepository) AppendRecharge(ctx context.Context, record *model.RechargeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListUsage returns usage records for a gifticon, most recent first.
func (r *auditRepository) ListUsage(ctx context.Context, gifticonID string, limit, offset int) ([]model.UsageRecord, error) {
	var records []model.UsageRecord
	err := r.db.WithContext(ctx).
		Where("gifticon_id = ?", gifticonID).
		Order("used_at DESC").
		Limit(pageLimit(limit)).Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListStatusLogs returns status change entries for a gifticon, most recent first.
func (r *auditRepository) ListStatusLogs(ctx context.Context, gifticonID string, limit, offset int) ([]model.StatusChangeLog, error) {
	var logs []model.StatusChangeLog
	err := r.db.WithContext(ctx).
		Where("gifticon_id = ?", gifticonID).
		Order("performed_at DESC").
		Limit(pageLimit(limit)).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// ListRecharges returns recharge history for a gifticon, most recent first.
func (r *auditRepository) ListRecharges(ctx context.Context, gifticonID string, limit, offset int) ([]model.RechargeRecord, error) {
	var records []model.RechargeRecord
	err := r.db.WithContext(ctx).
		Where("gifticon_id = ?", gifticonID).
		Order("recharged_at DESC").
		Limit(pageLimit(limit)).Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
