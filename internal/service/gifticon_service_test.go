package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	errs "giftledger/internal/errors"
	"giftledger/internal/model"
	"giftledger/internal/repository"
)

// fakeGifticonRepo is an in-memory repository with real conditional-update
// semantics: ApplyMutation only writes when the stored version matches, so
// concurrent mutations race exactly as they would against the database.
type fakeGifticonRepo struct {
	mu              sync.Mutex
	cards           map[string]*model.Gifticon
	forcedConflicts int
	applyCalls      int
	createErr       error
}

func newFakeGifticonRepo() *fakeGifticonRepo {
	return &fakeGifticonRepo{cards: make(map[string]*model.Gifticon)}
}

func (f *fakeGifticonRepo) put(g *model.Gifticon) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *g
	f.cards[g.ID] = &copied
}

func (f *fakeGifticonRepo) Create(ctx context.Context, g *model.Gifticon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.cards[g.ID]; exists {
		return repository.ErrDuplicateID
	}
	copied := *g
	f.cards[g.ID] = &copied
	return nil
}

func (f *fakeGifticonRepo) FindByID(ctx context.Context, id string) (*model.Gifticon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGifticonRepo) List(ctx context.Context, q repository.ListQuery) ([]model.Gifticon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Gifticon
	for _, g := range f.cards {
		if q.Status != "" && g.Status != q.Status {
			continue
		}
		if q.CreatedBy != "" && g.CreatedBy != q.CreatedBy {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeGifticonRepo) ApplyMutation(ctx context.Context, id string, version int64, changes map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		return repository.ErrVersionConflict
	}
	g, ok := f.cards[id]
	if !ok || g.Version != version {
		return repository.ErrVersionConflict
	}
	for k, v := range changes {
		switch k {
		case "face_value":
			g.FaceValue = v.(int64)
		case "remaining_balance":
			g.RemainingBalance = v.(int64)
		case "total_redeemed":
			g.TotalRedeemed = v.(int64)
		case "total_recharged":
			g.TotalRecharged = v.(int64)
		case "redemption_count":
			g.RedemptionCount = v.(int)
		case "recharge_count":
			g.RechargeCount = v.(int)
		case "status":
			g.Status = v.(model.Status)
		case "is_blocked":
			g.IsBlocked = v.(bool)
		case "block_reason":
			g.BlockReason = v.(string)
		case "blocked_by":
			g.BlockedBy = v.(string)
		case "blocked_at":
			if v == nil {
				g.BlockedAt = nil
			} else {
				t := v.(time.Time)
				g.BlockedAt = &t
			}
		case "expires_at":
			g.ExpiresAt = v.(time.Time)
		case "updated_at":
			g.UpdatedAt = v.(time.Time)
		}
	}
	g.Version++
	return nil
}

func (f *fakeGifticonRepo) get(id string) model.Gifticon {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.cards[id]
}

// fakeAuditRepo collects appended records so tests can assert the trail
// after the writer has flushed.
type fakeAuditRepo struct {
	mu          sync.Mutex
	usages      []model.UsageRecord
	statusLogs  []model.StatusChangeLog
	recharges   []model.RechargeRecord
	failAppends bool
}

func (f *fakeAuditRepo) AppendUsage(ctx context.Context, r *model.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppends {
		return errors.New("audit store down")
	}
	f.usages = append(f.usages, *r)
	return nil
}

func (f *fakeAuditRepo) AppendUsageBatch(ctx context.Context, rs []model.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppends {
		return errors.New("audit store down")
	}
	f.usages = append(f.usages, rs...)
	return nil
}

func (f *fakeAuditRepo) AppendStatusLog(ctx context.Context, l *model.StatusChangeLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppends {
		return errors.New("audit store down")
	}
	f.statusLogs = append(f.statusLogs, *l)
	return nil
}

func (f *fakeAuditRepo) AppendRecharge(ctx context.Context, r *model.RechargeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppends {
		return errors.New("audit store down")
	}
	f.recharges = append(f.recharges, *r)
	return nil
}

func (f *fakeAuditRepo) ListUsage(ctx context.Context, id string, limit, offset int) ([]model.UsageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.UsageRecord, 0, len(f.usages))
	for i := len(f.usages) - 1; i >= 0; i-- {
		if f.usages[i].GifticonID == id {
			out = append(out, f.usages[i])
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ListStatusLogs(ctx context.Context, id string, limit, offset int) ([]model.StatusChangeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.StatusChangeLog, 0, len(f.statusLogs))
	for i := len(f.statusLogs) - 1; i >= 0; i-- {
		if f.statusLogs[i].GifticonID == id {
			out = append(out, f.statusLogs[i])
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ListRecharges(ctx context.Context, id string, limit, offset int) ([]model.RechargeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.RechargeRecord, 0, len(f.recharges))
	for i := len(f.recharges) - 1; i >= 0; i-- {
		if f.recharges[i].GifticonID == id {
			out = append(out, f.recharges[i])
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo repository.GifticonRepository, auditRepo repository.AuditRepository) (GifticonService, *AuditWriter) {
	t.Helper()
	logger := zerolog.Nop()
	writer := NewAuditWriter(auditRepo, &logger)
	svc := NewGifticonService(repo, auditRepo, writer, nil, &logger, "https://gift.example.com")
	return svc, writer
}

func mustCreate(t *testing.T, svc GifticonService, amount int64) *GifticonView {
	t.Helper()
	view, err := svc.Create(context.Background(), CreateInput{
		Amount:         amount,
		PurchaserName:  "김민수",
		PurchaserPhone: "010-1234-5678",
		CreatedBy:      "admin",
	})
	require.NoError(t, err)
	return view
}

func TestCreate(t *testing.T) {
	repo := newFakeGifticonRepo()
	audit := &fakeAuditRepo{}
	svc, writer := newTestService(t, repo, audit)
	defer writer.Close()

	view := mustCreate(t, svc, 30000)

	assert.Regexp(t, regexp.MustCompile(`^GIFT-\d{8}-[A-Z0-9]{5}$`), view.ID)
	assert.Equal(t, model.StatusActive, view.Status)
	assert.Equal(t, int64(30000), view.FaceValue)
	assert.Equal(t, int64(30000), view.RemainingBalance)
	assert.Equal(t, int64(0), view.TotalRedeemed)
	assert.Equal(t, 0, view.RedemptionCount)
	assert.Equal(t, "https://gift.example.com/check/"+view.ID, view.LookupURL)
	assert.WithinDuration(t, time.Now().AddDate(1, 0, 0), view.ExpiresAt, time.Minute)

	stored := repo.get(view.ID)
	assert.NotEmpty(t, stored.SecurityHash)
	assert.Len(t, stored.SecurityHash, 64)
}

func TestCreate_Validation(t *testing.T) {
	repo := newFakeGifticonRepo()
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	tests := []struct {
		name     string
		input    CreateInput
		expected error
	}{
		{
			name:     "zero amount",
			input:    CreateInput{Amount: 0, PurchaserName: "김민수", PurchaserPhone: "010-1234-5678"},
			expected: errs.ErrInvalidAmount,
		},
		{
			name:     "amount above cap",
			input:    CreateInput{Amount: 1_000_001, PurchaserName: "김민수", PurchaserPhone: "010-1234-5678"},
			expected: errs.ErrInvalidAmount,
		},
		{
			name:     "blank purchaser",
			input:    CreateInput{Amount: 1000, PurchaserName: "   ", PurchaserPhone: "010-1234-5678"},
			expected: errs.ErrInvalidPurchaser,
		},
		{
			name:     "landline phone",
			input:    CreateInput{Amount: 1000, PurchaserName: "김민수", PurchaserPhone: "02-1234-5678"},
			expected: errs.ErrInvalidPhone,
		},
		{
			name:     "garbage phone",
			input:    CreateInput{Amount: 1000, PurchaserName: "김민수", PurchaserPhone: "not-a-phone"},
			expected: errs.ErrInvalidPhone,
		},
		{
			name: "notes too long",
			input: CreateInput{
				Amount: 1000, PurchaserName: "김민수", PurchaserPhone: "010-1234-5678",
				Notes: strings.Repeat("감", 201),
			},
			expected: errs.ErrNotesTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
	assert.Empty(t, repo.cards, "no card should be stored on validation failure")
}

func TestCreate_IDCollision(t *testing.T) {
	repo := newFakeGifticonRepo()
	repo.createErr = repository.ErrDuplicateID
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	_, err := svc.Create(context.Background(), CreateInput{
		Amount: 1000, PurchaserName: "김민수", PurchaserPhone: "010-1234-5678",
	})
	assert.ErrorIs(t, err, errs.ErrIDCollision)
}

func TestRedeemRechargeRoundTrip(t *testing.T) {
	repo := newFakeGifticonRepo()
	audit := &fakeAuditRepo{}
	svc, writer := newTestService(t, repo, audit)

	view := mustCreate(t, svc, 30000)
	ctx := context.Background()

	redeemed, err := svc.Redeem(ctx, view.ID, RedeemInput{Amount: 10000, UsedBy: "station-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), redeemed.RemainingBalance)
	assert.False(t, redeemed.IsFullyUsed)

	recharged, err := svc.Recharge(ctx, view.ID, RechargeInput{Amount: 5000, RechargedBy: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(35000), recharged.NewAmount)
	assert.Equal(t, int64(25000), recharged.NewRemainingBalance)
	assert.False(t, recharged.WasExpired)

	stored := repo.get(view.ID)
	assert.Equal(t, int64(25000), stored.RemainingBalance)
	assert.Equal(t, int64(10000), stored.TotalRedeemed)
	assert.Equal(t, int64(5000), stored.TotalRecharged)
	assert.Equal(t, 1, stored.RedemptionCount)
	assert.Equal(t, 1, stored.RechargeCount)
	assert.Equal(t, model.StatusActive, stored.Status)
	assert.GreaterOrEqual(t, stored.RemainingBalance, int64(0))
	assert.LessOrEqual(t, stored.RemainingBalance, stored.FaceValue)

	writer.Close()
	assert.Len(t, audit.usages, 1)
	assert.Equal(t, int64(10000), audit.usages[0].UsedAmount)
	assert.Equal(t, int64(20000), audit.usages[0].RemainingAfter)
	assert.Equal(t, "station-1", audit.usages[0].UsedBy)
	assert.Len(t, audit.recharges, 1)
	assert.Equal(t, int64(30000), audit.recharges[0].BeforeAmount)
	assert.Equal(t, int64(35000), audit.recharges[0].AfterAmount)
}

func TestRedeem_FullBalanceMarksUsed(t *testing.T) {
	repo := newFakeGifticonRepo()
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	view := mustCreate(t, svc, 10000)

	result, err := svc.Redeem(context.Background(), view.ID, RedeemInput{Amount: 10000})
	require.NoError(t, err)
	assert.True(t, result.IsFullyUsed)
	assert.Equal(t, int64(0), result.RemainingBalance)
	assert.Equal(t, model.StatusUsed, repo.get(view.ID).Status)
}

func TestRedeem_InsufficientBalance(t *testing.T) {
	repo := newFakeGifticonRepo()
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	view := mustCreate(t, svc, 10000)

	_, err := svc.Redeem(context.Background(), view.ID, RedeemInput{Amount: 10001})
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

	stored := repo.get(view.ID)
	assert.Equal(t, int64(10000), stored.RemainingBalance, "balance must be unchanged")
	assert.Equal(t, 0, stored.RedemptionCount)
}

func TestRedeem_NotFound(t *testing.T) {
	svc, writer := newTestService(t, newFakeGifticonRepo(), &fakeAuditRepo{})
	defer writer.Close()

	_, err := svc.Redeem(context.Background(), "GIFT-20260901-ZZZZZ", RedeemInput{Amount: 1})
	assert.ErrorIs(t, err, errs.ErrGifticonNotFound)
}

func TestRedeem_Blocked(t *testing.T) {
	repo := newFakeGifticonRepo()
	now := time.Now()
	blockedAt := now.Add(-time.Hour)
	repo.put(&model.Gifticon{
		ID: "GIFT-20260101-BLOCK", FaceValue: 50000, RemainingBalance: 50000,
		Status: model.StatusActive, IsBlocked: true, BlockReason: "reported stolen",
		BlockedAt: &blockedAt, ExpiresAt: now.AddDate(1, 0, 0), CreatedAt: now,
	})
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	_, err := svc.Redeem(context.Background(), "GIFT-20260101-BLOCK", RedeemInput{Amount: 1})
	assert.ErrorIs(t, err, errs.ErrGifticonBlocked)

	var blockedErr *errs.BlockedError
	require.ErrorAs(t, err, &blockedErr)
	assert.Equal(t, "reported stolen", blockedErr.Reason)

	_, err = svc.Recharge(context.Background(), "GIFT-20260101-BLOCK", RechargeInput{Amount: 1000})
	assert.ErrorIs(t, err, errs.ErrGifticonBlocked, "a block suspends recharge too")
}

func TestExpiredCard_RechargeReactivates(t *testing.T) {
	repo := newFakeGifticonRepo()
	now := time.Now()
	repo.put(&model.Gifticon{
		ID: "GIFT-20250101-EXPRD", FaceValue: 10000, RemainingBalance: 10000,
		Status: model.StatusActive, ExpiresAt: now.AddDate(0, 0, -1), CreatedAt: now.AddDate(-1, 0, 0),
	})
	audit := &fakeAuditRepo{}
	svc, writer := newTestService(t, repo, audit)
	ctx := context.Background()

	_, err := svc.Redeem(ctx, "GIFT-20250101-EXPRD", RedeemInput{Amount: 1})
	assert.ErrorIs(t, err, errs.ErrGifticonExpired)

	recharged, err := svc.Recharge(ctx, "GIFT-20250101-EXPRD", RechargeInput{Amount: 500})
	require.NoError(t, err)
	assert.True(t, recharged.WasExpired)
	assert.Equal(t, int64(10500), recharged.NewRemainingBalance)

	stored := repo.get("GIFT-20250101-EXPRD")
	assert.Equal(t, model.StatusActive, stored.Status)
	assert.True(t, stored.ExpiresAt.After(now), "validity must be extended so the card is redeemable again")

	result, err := svc.Redeem(ctx, "GIFT-20250101-EXPRD", RedeemInput{Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(10499), result.RemainingBalance)

	writer.Close()
	require.Len(t, audit.statusLogs, 1)
	assert.Equal(t, model.ActionRecharge, audit.statusLogs[0].Action)
	assert.Equal(t, model.StatusExpired, audit.statusLogs[0].PreviousStatus)
	assert.Equal(t, model.StatusActive, audit.statusLogs[0].NewStatus)
}

func TestConcurrentFullRedeem_ExactlyOneWins(t *testing.T) {
	repo := newFakeGifticonRepo()
	audit := &fakeAuditRepo{}
	svc, writer := newTestService(t, repo, audit)

	view := mustCreate(t, svc, 30000)
	ctx := context.Background()

	redeemErrs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, redeemErrs[i] = svc.Redeem(ctx, view.ID, RedeemInput{Amount: 30000})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range redeemErrs {
		if err == nil {
			successes++
		} else {
			assert.True(t,
				errors.Is(err, errs.ErrInsufficientBalance) || errors.Is(err, errs.ErrConflict),
				"loser must fail with insufficient balance or conflict, got: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one full redemption may win")

	stored := repo.get(view.ID)
	assert.Equal(t, int64(0), stored.RemainingBalance)
	assert.Equal(t, int64(30000), stored.TotalRedeemed)
	assert.Equal(t, 1, stored.RedemptionCount)

	writer.Close()
	assert.Len(t, audit.usages, 1)
}

func TestRedeem_ConflictBudgetExhausted(t *testing.T) {
	repo := newFakeGifticonRepo()
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	view := mustCreate(t, svc, 10000)
	repo.mu.Lock()
	repo.forcedConflicts = 100
	repo.applyCalls = 0
	repo.mu.Unlock()

	_, err := svc.Redeem(context.Background(), view.ID, RedeemInput{Amount: 1})
	assert.ErrorIs(t, err, errs.ErrConflict)

	repo.mu.Lock()
	calls := repo.applyCalls
	repo.mu.Unlock()
	assert.Equal(t, maxMutationAttempts, calls)
}

func TestBlockUnblock(t *testing.T) {
	repo := newFakeGifticonRepo()
	audit := &fakeAuditRepo{}
	svc, writer := newTestService(t, repo, audit)

	view := mustCreate(t, svc, 20000)
	ctx := context.Background()

	require.NoError(t, svc.Block(ctx, view.ID, "suspected fraud", "manager-kim"))

	stored := repo.get(view.ID)
	assert.True(t, stored.IsBlocked)
	assert.Equal(t, "suspected fraud", stored.BlockReason)
	assert.Equal(t, "manager-kim", stored.BlockedBy)
	assert.NotNil(t, stored.BlockedAt)
	assert.Equal(t, int64(20000), stored.RemainingBalance, "block must not touch balance")
	assert.Equal(t, model.StatusActive, stored.Status, "block must not touch persisted status")

	// Blocking twice is a precondition failure.
	assert.ErrorIs(t, svc.Block(ctx, view.ID, "again", "manager-kim"), errs.ErrAlreadyBlocked)

	require.NoError(t, svc.Unblock(ctx, view.ID, "owner verified", "manager-kim"))
	stored = repo.get(view.ID)
	assert.False(t, stored.IsBlocked)
	assert.Empty(t, stored.BlockReason)
	assert.Nil(t, stored.BlockedAt)
	assert.Equal(t, int64(20000), stored.RemainingBalance)

	writer.Close()
	require.Len(t, audit.statusLogs, 2)
	assert.Equal(t, model.ActionBlock, audit.statusLogs[0].Action)
	assert.Equal(t, model.StatusActive, audit.statusLogs[0].PreviousStatus)
	assert.Equal(t, model.StatusSuspended, audit.statusLogs[0].NewStatus)
	assert.Equal(t, model.ActionUnblock, audit.statusLogs[1].Action)
	assert.Equal(t, model.StatusSuspended, audit.statusLogs[1].PreviousStatus)
	assert.Equal(t, model.StatusActive, audit.statusLogs[1].NewStatus)
}

func TestUnblock_Preconditions(t *testing.T) {
	repo := newFakeGifticonRepo()
	svc, writer := newTestService(t, repo, &fakeAuditRepo{})
	defer writer.Close()

	view := mustCreate(t, svc, 20000)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Unblock(ctx, view.ID, "not blocked at all", "manager-kim"), errs.ErrNotBlocked)
	assert.ErrorIs(t, svc.Unblock(ctx, view.ID, "  ", "manager-kim"), errs.ErrBlockReasonRequired)

	stored := repo.get(view.ID)
	assert.False(t, stored.IsBlocked)
	assert.Equal(t, int64(20000), stored.RemainingBalance, "failed unblock must leave state untouched")
}

func TestAuditFailureDoesNotFailRedeem(t *testing.T) {
	repo := newFakeGifticonRepo()
	audit := &fakeAuditRepo{failAppends: true}
	svc, writer := newTestService(t, repo, audit)
	defer writer.Close()

	view := mustCreate(t, svc, 10000)

	result, err := svc.Redeem(context.Background(), view.ID, RedeemInput{Amount: 4000})
	require.NoError(t, err, "the money moved; an audit failure must not fail the operation")
	assert.Equal(t, int64(6000), result.RemainingBalance)
	assert.Equal(t, int64(6000), repo.get(view.ID).RemainingBalance)
}

func TestStatusLogs_MostRecentFirst(t *testing.T) {
	repo := newFakeGifticonRepo()
	audit := &fakeAuditRepo{}
	svc, writer := newTestService(t, repo, audit)

	view := mustCreate(t, svc, 20000)
	ctx := context.Background()

	require.NoError(t, svc.Block(ctx, view.ID, "lost card report", "manager-kim"))
	require.NoError(t, svc.Unblock(ctx, view.ID, "card found", "manager-kim"))
	writer.Close()

	logs, err := svc.StatusLogs(ctx, view.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ActionUnblock, logs[0].Action)
	assert.Equal(t, model.ActionBlock, logs[1].Action)

	_, err = svc.StatusLogs(ctx, "GIFT-20260901-ZZZZZ", 10, 0)
	assert.ErrorIs(t, err, errs.ErrGifticonNotFound)
}
