package service

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"giftledger/internal/cache"
	"giftledger/internal/errors"
	"giftledger/internal/idgen"
	"giftledger/internal/metrics"
	"giftledger/internal/model"
	"giftledger/internal/repository"
)

const (
	minAmount = 1
	maxAmount = 1_000_000

	maxNotesLength = 200

	gifticonCacheTTL = 5 * time.Minute

	// Bounded retry budget for conditional updates that lose the version
	// race against another register station.
	maxMutationAttempts = 3
	conflictBackoff     = 25 * time.Millisecond
)

// Korean mobile numbers, with or without hyphens.
var phonePattern = regexp.MustCompile(`^01[016789]-?\d{3,4}-?\d{4}$`)

// CreateInput carries the fields for issuing a new gifticon.
type CreateInput struct {
	Amount         int64
	PurchaserName  string
	PurchaserPhone string
	Notes          string
	CreatedBy      string
}

// RedeemInput carries the fields for a redemption.
type RedeemInput struct {
	Amount        int64
	UsedBy        string
	Memo          string
	PaymentMethod string
	Location      string
}

// RechargeInput carries the fields for a recharge.
type RechargeInput struct {
	Amount        int64
	RechargedBy   string
	PaymentMethod string
}

// RedeemResult is the balance view returned after a redemption.
type RedeemResult struct {
	RemainingBalance int64 `json:"remaining_balance"`
	UsedAmount       int64 `json:"used_amount"`
	IsFullyUsed      bool  `json:"is_fully_used"`
}

// RechargeResult is the balance view returned after a recharge.
type RechargeResult struct {
	NewAmount           int64 `json:"new_amount"`
	NewRemainingBalance int64 `json:"new_remaining_balance"`
	WasExpired          bool  `json:"was_expired"`
}

// GifticonView is the public read model: persisted fields plus the derived
// status and the lookup URL the QR collaborator encodes.
type GifticonView struct {
	ID               string       `json:"id"`
	Status           model.Status `json:"status"`
	FaceValue        int64        `json:"face_value"`
	RemainingBalance int64        `json:"remaining_balance"`
	TotalRedeemed    int64        `json:"total_redeemed"`
	TotalRecharged   int64        `json:"total_recharged"`
	RedemptionCount  int          `json:"redemption_count"`
	RechargeCount    int          `json:"recharge_count"`
	IsBlocked        bool         `json:"is_blocked"`
	BlockReason      string       `json:"block_reason,omitempty"`
	PurchaserName    string       `json:"purchaser_name"`
	PurchaserPhone   string       `json:"purchaser_phone"`
	Notes            string       `json:"notes,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	ExpiresAt        time.Time    `json:"expires_at"`
	LookupURL        string       `json:"lookup_url"`
}

// GifticonService owns the gift-card ledger: issuance, redemption, recharge,
// suspension and the audit trail around them.
type GifticonService interface {
	Create(ctx context.Context, in CreateInput) (*GifticonView, error)
	Get(ctx context.Context, id string) (*GifticonView, error)
	List(ctx context.Context, q repository.ListQuery) ([]GifticonView, error)
	Redeem(ctx context.Context, id string, in RedeemInput) (*RedeemResult, error)
	Recharge(ctx context.Context, id string, in RechargeInput) (*RechargeResult, error)
	Block(ctx context.Context, id, reason, actor string) error
	Unblock(ctx context.Context, id, reason, actor string) error
	StatusLogs(ctx context.Context, id string, limit, offset int) ([]model.StatusChangeLog, error)
	UsageHistory(ctx context.Context, id string, limit, offset int) ([]model.UsageRecord, error)
	RechargeHistory(ctx context.Context, id string, limit, offset int) ([]model.RechargeRecord, error)
}

type gifticonService struct {
	repo      repository.GifticonRepository
	auditRepo repository.AuditRepository
	audit     *AuditWriter
	cache     *cache.Client
	logger    *zerolog.Logger
	origin    string
}

// NewGifticonService creates a new gifticon service. origin is the public
// base URL used to build customer lookup links.
func NewGifticonService(
	repo repository.GifticonRepository,
	auditRepo repository.AuditRepository,
	audit *AuditWriter,
	cacheClient *cache.Client,
	logger *zerolog.Logger,
	origin string,
) GifticonService {
	return &gifticonService{
		repo:      repo,
		auditRepo: auditRepo,
		audit:     audit,
		cache:     cacheClient,
		logger:    logger,
		origin:    strings.TrimRight(origin, "/"),
	}
}

func (s *gifticonService) cacheKey(id string) string {
	return fmt.Sprintf("gifticon:%s", id)
}

// Create validates input, generates the identifier and integrity stamp, and
// persists a new active gifticon valid for one year.
func (s *gifticonService) Create(ctx context.Context, in CreateInput) (*GifticonView, error) {
	if in.Amount < minAmount || in.Amount > maxAmount {
		return nil, errors.ErrInvalidAmount
	}
	if strings.TrimSpace(in.PurchaserName) == "" {
		return nil, errors.ErrInvalidPurchaser
	}
	if !phonePattern.MatchString(strings.TrimSpace(in.PurchaserPhone)) {
		return nil, errors.ErrInvalidPhone
	}
	if len([]rune(in.Notes)) > maxNotesLength {
		return nil, errors.ErrNotesTooLong
	}

	now := time.Now()
	id, err := idgen.GenerateID(now)
	if err != nil {
		return nil, fmt.Errorf("%w: generate id: %v", errors.ErrPersistence, err)
	}

	hash, degraded := idgen.SecurityHash(id, in.Amount, now)
	if degraded {
		metrics.SecurityHashFallbacks.Inc()
		s.logger.Warn().Str("gifticon_id", id).
			Msg("security hash degraded to checksum fallback")
	}

	gifticon := &model.Gifticon{
		ID:               id,
		FaceValue:        in.Amount,
		RemainingBalance: in.Amount,
		Status:           model.StatusActive,
		PurchaserName:    strings.TrimSpace(in.PurchaserName),
		PurchaserPhone:   strings.TrimSpace(in.PurchaserPhone),
		Notes:            in.Notes,
		SecurityHash:     hash,
		CreatedBy:        in.CreatedBy,
		CreatedAt:        now,
		ExpiresAt:        now.AddDate(1, 0, 0),
	}

	if err := s.repo.Create(ctx, gifticon); err != nil {
		if goerrors.Is(err, repository.ErrDuplicateID) {
			s.logger.Error().Str("gifticon_id", id).Msg("identifier collision on create")
			return nil, errors.ErrIDCollision
		}
		return nil, fmt.Errorf("%w: create gifticon: %v", errors.ErrPersistence, err)
	}

	s.logger.Info().Str("gifticon_id", id).Int64("amount", in.Amount).Msg("gifticon created")
	return s.view(gifticon, now), nil
}

// Get returns the public view of a gifticon, cached in redis.
func (s *gifticonService) Get(ctx context.Context, id string) (*GifticonView, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached GifticonView
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	gifticon, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	view := s.view(gifticon, time.Now())
	if payload, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, gifticonCacheTTL)
	}
	return view, nil
}

// List returns views for the administration listing.
func (s *gifticonService) List(ctx context.Context, q repository.ListQuery) ([]GifticonView, error) {
	gifticons, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list gifticons: %v", errors.ErrPersistence, err)
	}

	now := time.Now()
	views := make([]GifticonView, 0, len(gifticons))
	for i := range gifticons {
		views = append(views, *s.view(&gifticons[i], now))
	}
	return views, nil
}

// Redeem spends part or all of the remaining balance. Preconditions are
// checked against freshly read state on every attempt; the write is a
// version-checked conditional update retried up to the budget.
func (s *gifticonService) Redeem(ctx context.Context, id string, in RedeemInput) (*RedeemResult, error) {
	if in.Amount < minAmount {
		return nil, errors.ErrInvalidAmount
	}

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		gifticon, err := s.fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		switch model.ResolveStatus(gifticon.Status, gifticon.RemainingBalance, gifticon.ExpiresAt, gifticon.IsBlocked, now) {
		case model.StatusSuspended:
			return nil, &errors.BlockedError{Reason: gifticon.BlockReason}
		case model.StatusExpired:
			return nil, errors.ErrGifticonExpired
		}
		if in.Amount > gifticon.RemainingBalance {
			return nil, errors.ErrInsufficientBalance
		}

		newRemaining := gifticon.RemainingBalance - in.Amount
		newStatus := model.StatusActive
		if newRemaining == 0 {
			newStatus = model.StatusUsed
		}

		err = s.repo.ApplyMutation(ctx, gifticon.ID, gifticon.Version, map[string]interface{}{
			"remaining_balance": newRemaining,
			"total_redeemed":    gifticon.TotalRedeemed + in.Amount,
			"redemption_count":  gifticon.RedemptionCount + 1,
			"status":            newStatus,
			"updated_at":        now,
		})
		if goerrors.Is(err, repository.ErrVersionConflict) {
			metrics.MutationConflicts.WithLabelValues("redeem").Inc()
			time.Sleep(conflictBackoff * time.Duration(attempt+1))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: redeem gifticon: %v", errors.ErrPersistence, err)
		}

		s.audit.RecordUsage(ctx, model.UsageRecord{
			GifticonID:     gifticon.ID,
			UsedAmount:     in.Amount,
			RemainingAfter: newRemaining,
			UsedAt:         now,
			UsedBy:         in.UsedBy,
			Memo:           in.Memo,
			PaymentMethod:  in.PaymentMethod,
			Location:       in.Location,
		})
		_ = s.cache.Delete(ctx, s.cacheKey(id))

		s.logger.Info().Str("gifticon_id", id).Int64("amount", in.Amount).
			Int64("remaining", newRemaining).Msg("gifticon redeemed")

		return &RedeemResult{
			RemainingBalance: newRemaining,
			UsedAmount:       in.Amount,
			IsFullyUsed:      newRemaining == 0,
		}, nil
	}

	return nil, errors.ErrConflict
}

// Recharge adds value to a gifticon. Expiry does not block a recharge: the
// balance is real value owed to the holder, so recharging an expired card
// reactivates it and extends its validity by a year.
func (s *gifticonService) Recharge(ctx context.Context, id string, in RechargeInput) (*RechargeResult, error) {
	if in.Amount < minAmount || in.Amount > maxAmount {
		return nil, errors.ErrInvalidAmount
	}

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		gifticon, err := s.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if gifticon.IsBlocked {
			return nil, &errors.BlockedError{Reason: gifticon.BlockReason}
		}

		now := time.Now()
		wasExpired := gifticon.ExpiresAt.Before(now)
		previousStatus := model.ResolveStatus(gifticon.Status, gifticon.RemainingBalance, gifticon.ExpiresAt, gifticon.IsBlocked, now)

		newFaceValue := gifticon.FaceValue + in.Amount
		newRemaining := gifticon.RemainingBalance + in.Amount

		changes := map[string]interface{}{
			"face_value":        newFaceValue,
			"remaining_balance": newRemaining,
			"total_recharged":   gifticon.TotalRecharged + in.Amount,
			"recharge_count":    gifticon.RechargeCount + 1,
			"status":            model.StatusActive,
			"updated_at":        now,
		}
		if wasExpired {
			changes["expires_at"] = now.AddDate(1, 0, 0)
		}

		err = s.repo.ApplyMutation(ctx, gifticon.ID, gifticon.Version, changes)
		if goerrors.Is(err, repository.ErrVersionConflict) {
			metrics.MutationConflicts.WithLabelValues("recharge").Inc()
			time.Sleep(conflictBackoff * time.Duration(attempt+1))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: recharge gifticon: %v", errors.ErrPersistence, err)
		}

		s.audit.RecordRecharge(ctx, model.RechargeRecord{
			GifticonID:      gifticon.ID,
			Amount:          in.Amount,
			RechargedBy:     in.RechargedBy,
			PaymentMethod:   in.PaymentMethod,
			BeforeAmount:    gifticon.FaceValue,
			AfterAmount:     newFaceValue,
			BeforeRemaining: gifticon.RemainingBalance,
			AfterRemaining:  newRemaining,
			RechargedAt:     now,
		})
		s.audit.RecordStatusChange(ctx, model.StatusChangeLog{
			GifticonID:     gifticon.ID,
			Action:         model.ActionRecharge,
			Reason:         fmt.Sprintf("recharged %d", in.Amount),
			PerformedBy:    in.RechargedBy,
			PerformedAt:    now,
			PreviousStatus: previousStatus,
			NewStatus:      model.StatusActive,
		})
		_ = s.cache.Delete(ctx, s.cacheKey(id))

		s.logger.Info().Str("gifticon_id", id).Int64("amount", in.Amount).
			Bool("was_expired", wasExpired).Msg("gifticon recharged")

		return &RechargeResult{
			NewAmount:           newFaceValue,
			NewRemainingBalance: newRemaining,
			WasExpired:          wasExpired,
		}, nil
	}

	return nil, errors.ErrConflict
}

// Block places an administrative hold. Balance and persisted status are left
// untouched; redemption and recharge eligibility check the flag directly.
func (s *gifticonService) Block(ctx context.Context, id, reason, actor string) error {
	if strings.TrimSpace(reason) == "" {
		return errors.ErrBlockReasonRequired
	}

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		gifticon, err := s.fetch(ctx, id)
		if err != nil {
			return err
		}
		if gifticon.IsBlocked {
			return errors.ErrAlreadyBlocked
		}

		now := time.Now()
		previousStatus := model.ResolveStatus(gifticon.Status, gifticon.RemainingBalance, gifticon.ExpiresAt, false, now)

		err = s.repo.ApplyMutation(ctx, gifticon.ID, gifticon.Version, map[string]interface{}{
			"is_blocked":   true,
			"block_reason": reason,
			"blocked_by":   actor,
			"blocked_at":   now,
			"updated_at":   now,
		})
		if goerrors.Is(err, repository.ErrVersionConflict) {
			metrics.MutationConflicts.WithLabelValues("block").Inc()
			time.Sleep(conflictBackoff * time.Duration(attempt+1))
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: block gifticon: %v", errors.ErrPersistence, err)
		}

		s.audit.RecordStatusChange(ctx, model.StatusChangeLog{
			GifticonID:     gifticon.ID,
			Action:         model.ActionBlock,
			Reason:         reason,
			PerformedBy:    actor,
			PerformedAt:    now,
			PreviousStatus: previousStatus,
			NewStatus:      model.StatusSuspended,
		})
		_ = s.cache.Delete(ctx, s.cacheKey(id))

		s.logger.Info().Str("gifticon_id", id).Str("actor", actor).Msg("gifticon blocked")
		return nil
	}

	return errors.ErrConflict
}

// Unblock lifts an administrative hold. Requires a reason for the audit trail.
func (s *gifticonService) Unblock(ctx context.Context, id, reason, actor string) error {
	if strings.TrimSpace(reason) == "" {
		return errors.ErrBlockReasonRequired
	}

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		gifticon, err := s.fetch(ctx, id)
		if err != nil {
			return err
		}
		if !gifticon.IsBlocked {
			return errors.ErrNotBlocked
		}

		now := time.Now()
		newStatus := model.ResolveStatus(gifticon.Status, gifticon.RemainingBalance, gifticon.ExpiresAt, false, now)

		err = s.repo.ApplyMutation(ctx, gifticon.ID, gifticon.Version, map[string]interface{}{
			"is_blocked":   false,
			"block_reason": "",
			"blocked_by":   "",
			"blocked_at":   nil,
			"updated_at":   now,
		})
		if goerrors.Is(err, repository.ErrVersionConflict) {
			metrics.MutationConflicts.WithLabelValues("unblock").Inc()
			time.Sleep(conflictBackoff * time.Duration(attempt+1))
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: unblock gifticon: %v", errors.ErrPersistence, err)
		}

		s.audit.RecordStatusChange(ctx, model.StatusChangeLog{
			GifticonID:     gifticon.ID,
			Action:         model.ActionUnblock,
			Reason:         reason,
			PerformedBy:    actor,
			PerformedAt:    now,
			PreviousStatus: model.StatusSuspended,
			NewStatus:      newStatus,
		})
		_ = s.cache.Delete(ctx, s.cacheKey(id))

		s.logger.Info().Str("gifticon_id", id).Str("actor", actor).Msg("gifticon unblocked")
		return nil
	}

	return errors.ErrConflict
}

// StatusLogs returns block/unblock/recharge entries, most recent first.
func (s *gifticonService) StatusLogs(ctx context.Context, id string, limit, offset int) ([]model.StatusChangeLog, error) {
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.auditRepo.ListStatusLogs(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list status logs: %v", errors.ErrPersistence, err)
	}
	return logs, nil
}

// UsageHistory returns redemption records, most recent first.
func (s *gifticonService) UsageHistory(ctx context.Context, id string, limit, offset int) ([]model.UsageRecord, error) {
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.auditRepo.ListUsage(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list usage records: %v", errors.ErrPersistence, err)
	}
	return records, nil
}

// RechargeHistory returns recharge records, most recent first.
func (s *gifticonService) RechargeHistory(ctx context.Context, id string, limit, offset int) ([]model.RechargeRecord, error) {
	if _, err := s.fetch(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.auditRepo.ListRecharges(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list recharge records: %v", errors.ErrPersistence, err)
	}
	return records, nil
}

// fetch reads server-authoritative state, translating store errors.
func (s *gifticonService) fetch(ctx context.Context, id string) (*model.Gifticon, error) {
	gifticon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrGifticonNotFound
		}
		return nil, fmt.Errorf("%w: find gifticon: %v", errors.ErrPersistence, err)
	}
	return gifticon, nil
}

func (s *gifticonService) view(g *model.Gifticon, now time.Time) *GifticonView {
	return &GifticonView{
		ID:               g.ID,
		Status:           model.ResolveStatus(g.Status, g.RemainingBalance, g.ExpiresAt, g.IsBlocked, now),
		FaceValue:        g.FaceValue,
		RemainingBalance: g.RemainingBalance,
		TotalRedeemed:    g.TotalRedeemed,
		TotalRecharged:   g.TotalRecharged,
		RedemptionCount:  g.RedemptionCount,
		RechargeCount:    g.RechargeCount,
		IsBlocked:        g.IsBlocked,
		BlockReason:      g.BlockReason,
		PurchaserName:    g.PurchaserName,
		PurchaserPhone:   g.PurchaserPhone,
		Notes:            g.Notes,
		CreatedAt:        g.CreatedAt,
		ExpiresAt:        g.ExpiresAt,
		LookupURL:        fmt.Sprintf("%s/check/%s", s.origin, g.ID),
	}
}
