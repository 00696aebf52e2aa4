package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"giftledger/internal/model"
)

// ErrVersionConflict is returned by ApplyMutation when the row no longer
// carries the expected version, i.e. another register committed first.
var ErrVersionConflict = errors.New("gifticon version conflict")

// ErrDuplicateID is returned by Create when the generated identifier is
// already taken. The existing record is left untouched.
var ErrDuplicateID = errors.New("gifticon id already exists")

// ListQuery filters and pages the administrative gifticon listing.
type ListQuery struct {
	Status    model.Status
	CreatedBy string
	Limit     int
	Offset    int
}

// GifticonRepository defines gifticon persistence operations. All balance
// mutations go through ApplyMutation so the version check cannot be skipped.
type GifticonRepository interface {
	Create(ctx context.Context, gifticon *model.Gifticon) error
	FindByID(ctx context.Context, id string) (*model.Gifticon, error)
	List(ctx context.Context, q ListQuery) ([]model.Gifticon, error)
	// ApplyMutation performs a conditional update: the row is written only if
	// it still carries the given version, and the version is incremented in
	// the same statement. Returns ErrVersionConflict when no row matched.
	ApplyMutation(ctx context.Context, id string, version int64, changes map[string]interface{}) error
}

type gifticonRepository struct {
	db *gorm.DB
}

// NewGifticonRepository creates a new gifticon repository.
func NewGifticonRepository(db *gorm.DB) GifticonRepository {
	return &gifticonRepository{db: db}
}

// Create persists a new gifticon. A primary key collision is surfaced as
// ErrDuplicateID; the insert is create-if-absent, never an upsert.
func (r *gifticonRepository) Create(ctx context.Context, gifticon *model.Gifticon) error {
	if err := r.db.WithContext(ctx).Create(gifticon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// FindByID finds a gifticon by ID.
func (r *gifticonRepository) FindByID(ctx context.Context, id string) (*model.Gifticon, error) {
	var gifticon model.Gifticon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&gifticon).Error; err != nil {
		return nil, err
	}
	return &gifticon, nil
}

// List returns gifticons filtered by persisted status and creator, most
// recent first.
func (r *gifticonRepository) List(ctx context.Context, q ListQuery) ([]model.Gifticon, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	query := r.db.WithContext(ctx).Model(&model.Gifticon{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.CreatedBy != "" {
		query = query.Where("created_by = ?", q.CreatedBy)
	}

	var gifticons []model.Gifticon
	if err := query.Order("created_at DESC").Limit(limit).Offset(q.Offset).Find(&gifticons).Error; err != nil {
		return nil, err
	}
	return gifticons, nil
}

// ApplyMutation writes the given column changes iff the stored version still
// matches. RowsAffected == 0 means another mutation won the race.
func (r *gifticonRepository) ApplyMutation(ctx context.Context, id string, version int64, changes map[string]interface{}) error {
	changes["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).Model(&model.Gifticon{}).
		Where("id = ? AND version = ?", id, version).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
