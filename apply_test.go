package discounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/discounts/models"
)

type stubCartStore struct {
	byID       *models.Cart
	forAccount *models.Cart

	cartsWithDiscount int
	countErr          error

	reclaimed    int64
	reclaimErr   error
	reclaimCalls int
	lastCutoff   time.Time
	lastDeadline time.Time
	hadDeadline  bool
}

func (s *stubCartStore) FindByID(context.Context, string) (*models.Cart, error) {
	return s.byID, nil
}

func (s *stubCartStore) FindForAccount(context.Context, string, string, string, string) (*models.Cart, error) {
	return s.forAccount, nil
}

func (s *stubCartStore) CountWithDiscount(context.Context, string, string) (int, error) {
	return s.cartsWithDiscount, s.countErr
}

func (s *stubCartStore) ReclaimStale(ctx context.Context, olderThan time.Time) (int64, error) {
	s.reclaimCalls++
	s.lastCutoff = olderThan
	s.lastDeadline, s.hadDeadline = ctx.Deadline()
	return s.reclaimed, s.reclaimErr
}

type appendedTransaction struct {
	discountID string
	txn        models.Transaction
}

type stubDiscountStore struct {
	discount *models.Discount

	requestedCode  string
	requestedScope []string

	mu         sync.Mutex
	appended   []appendedTransaction
	appendErrs map[string]error
}

func (s *stubDiscountStore) FindByCode(_ context.Context, code string, shopIDs []string) (*models.Discount, error) {
	s.requestedCode = code
	s.requestedScope = shopIDs
	return s.discount, nil
}

func (s *stubDiscountStore) AppendTransaction(_ context.Context, discountID string, txn models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendErrs[discountID]; err != nil {
		return err
	}
	s.appended = append(s.appended, appendedTransaction{discountID: discountID, txn: txn})
	return nil
}

type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) FindByID(context.Context, string) (*models.User, error) {
	return s.user, nil
}

type stubShopStore struct {
	primary  *models.Shop
	location *models.ShopLocationSettings
}

func (s *stubShopStore) FindPrimary(context.Context) (*models.Shop, error) {
	return s.primary, nil
}

func (s *stubShopStore) FindLocationSettings(context.Context, string) (*models.ShopLocationSettings, error) {
	return s.location, nil
}

type stubSaver struct {
	saved *models.Cart
	calls int
}

func (s *stubSaver) SaveCart(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	s.saved = cart
	s.calls++
	return cart, nil
}

type stubPermissions struct {
	err   error
	calls int
}

func (s *stubPermissions) ValidatePermissions(context.Context, string, string, string, PermissionOptions) error {
	s.calls++
	return s.err
}

type engineFixture struct {
	engine      *Engine
	carts       *stubCartStore
	discounts   *stubDiscountStore
	users       *stubUserStore
	shops       *stubShopStore
	saver       *stubSaver
	permissions *stubPermissions
}

func newFixture() *engineFixture {
	f := &engineFixture{
		carts: &stubCartStore{},
		discounts: &stubDiscountStore{
			discount: &models.Discount{
				ID:                "discount-1",
				Code:              "save10",
				ShopID:            "shop-1",
				Amount:            10,
				CalculationMethod: "discount",
				Processor:         "code",
			},
		},
		users:       &stubUserStore{user: &models.User{ID: "user-1"}},
		shops:       &stubShopStore{primary: &models.Shop{ID: "primary-shop", ShopType: models.ShopTypePrimary}},
		saver:       &stubSaver{},
		permissions: &stubPermissions{},
	}

	f.carts.forAccount = &models.Cart{
		ID:           "cart-1",
		ShopID:       "shop-1",
		AccountID:    "user-1",
		CurrencyCode: "EUR",
		Items: []models.CartItem{
			{ID: "item-1", Quantity: 2, Subtotal: models.Money{Amount: 100, CurrencyCode: "EUR"}},
		},
	}

	f.engine = NewEngine(f.carts, f.discounts, f.users, f.shops, f.saver, f.permissions, NewEvaluator(&stubResolver{}), zap.NewNop())
	return f
}

func applyInput() ApplyDiscountCodeInput {
	return ApplyDiscountCodeInput{
		CartID:       "cart-1",
		ShopID:       "shop-1",
		DiscountCode: "SAVE10",
		UserID:       "user-1",
	}
}

func TestApplyDiscountCode_AppendsOneBillingEntry(t *testing.T) {
	f := newFixture()

	cart, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())
	require.NoError(t, err)

	require.Len(t, cart.Billing, 1)
	entry := cart.Billing[0]
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.TransactionID)
	assert.NotEqual(t, entry.ID, entry.TransactionID)
	assert.Equal(t, 10.0, entry.Amount)
	assert.Equal(t, "EUR", entry.CurrencyCode)
	assert.Equal(t, "discount-1", entry.Data.DiscountID)
	assert.Equal(t, "save10", entry.Data.Code)
	assert.Equal(t, "Discount Code: save10", entry.DisplayName)
	assert.Equal(t, models.BillingModeDiscount, entry.Mode)
	assert.Equal(t, models.BillingNameDiscountCode, entry.Name)
	assert.Equal(t, models.PaymentPluginDiscountCodes, entry.PaymentPluginName)
	assert.Equal(t, "shop-1", entry.ShopID)
	assert.Equal(t, models.BillingStatusCreated, entry.Status)

	assert.Equal(t, 1, f.saver.calls)
	assert.Same(t, cart, f.saver.saved)
}

func TestApplyDiscountCode_NotIdempotent(t *testing.T) {
	f := newFixture()

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())
	require.NoError(t, err)
	cart, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())
	require.NoError(t, err)

	assert.Len(t, cart.Billing, 2)
	assert.Equal(t, 2, f.saver.calls)
}

func TestApplyDiscountCode_NormalizesCode(t *testing.T) {
	f := newFixture()

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())
	require.NoError(t, err)

	assert.Equal(t, "save10", f.discounts.requestedCode)
}

func TestApplyDiscountCode_ScopeIncludesPrimaryShop(t *testing.T) {
	f := newFixture()

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"shop-1", "primary-shop"}, f.discounts.requestedScope)
}

func TestApplyDiscountCode_CartNotFound(t *testing.T) {
	f := newFixture()
	f.carts.forAccount = nil
	f.carts.byID = nil

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Equal(t, 0, f.saver.calls)
}

func TestApplyDiscountCode_ForeignCartNeedsPermission(t *testing.T) {
	f := newFixture()
	foreign := *f.carts.forAccount
	foreign.AccountID = "someone-else"
	f.carts.forAccount = nil
	f.carts.byID = &foreign
	f.permissions.err = ErrPermissionDenied

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 1, f.permissions.calls)
	assert.Equal(t, 0, f.saver.calls)
}

func TestApplyDiscountCode_ForeignCartAllowedByPermission(t *testing.T) {
	f := newFixture()
	foreign := *f.carts.forAccount
	foreign.AccountID = "someone-else"
	f.carts.forAccount = nil
	f.carts.byID = &foreign

	cart, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	require.NoError(t, err)
	assert.Len(t, cart.Billing, 1)
	assert.Equal(t, 1, f.permissions.calls)
}

func TestApplyDiscountCode_UserNotFound(t *testing.T) {
	f := newFixture()
	f.users.user = nil

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 0, f.saver.calls)
}

func TestApplyDiscountCode_DiscountNotFound(t *testing.T) {
	f := newFixture()
	f.discounts.discount = nil

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	assert.ErrorIs(t, err, ErrDiscountNotFound)
	assert.Equal(t, 0, f.saver.calls)
}

func TestApplyDiscountCode_IneligibleNoMutation(t *testing.T) {
	f := newFixture()
	f.discounts.discount.Conditions = &models.DiscountConditions{
		Enabled: true,
		Order:   &models.OrderConditions{Min: floatPtr(500)},
	}

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	var ineligible *IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, ReasonAmountOutOfBounds, ineligible.Reason)
	require.NotNil(t, ineligible.Min)
	assert.Equal(t, 500.0, *ineligible.Min)

	assert.Equal(t, 0, f.saver.calls)
	assert.Empty(t, f.carts.forAccount.Billing)
}

func TestApplyDiscountCode_AccountLimitCountsCarts(t *testing.T) {
	f := newFixture()
	f.discounts.discount.Conditions = &models.DiscountConditions{Enabled: true, AccountLimit: 1}
	f.carts.cartsWithDiscount = 1

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	var ineligible *IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, ReasonUserLimitExceeded, ineligible.Reason)
}

func TestApplyDiscountCode_RedemptionLimitCountsAllUsers(t *testing.T) {
	f := newFixture()
	now := time.Now().UTC()
	f.discounts.discount.Conditions = &models.DiscountConditions{Enabled: true, RedemptionLimit: 2}
	f.discounts.discount.Transactions = []models.Transaction{
		{UserID: "other-1", CartID: "c1", AppliedAt: now},
		{UserID: "other-2", CartID: "c2", AppliedAt: now},
	}

	_, err := f.engine.ApplyDiscountCode(context.Background(), applyInput())

	var ineligible *IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, ReasonDiscountLimitExceeded, ineligible.Reason)
}

func TestListAppliedDiscounts_ProjectsDiscountEntries(t *testing.T) {
	f := newFixture()
	f.carts.byID = &models.Cart{
		ID:        "cart-1",
		ShopID:    "shop-1",
		AccountID: "user-1",
		Billing: []models.BillingEntry{
			{ID: "b1", PaymentPluginName: models.PaymentPluginDiscountCodes, Data: models.BillingData{DiscountID: "discount-1", Code: "save10"}},
			{ID: "b2", PaymentPluginName: "stripe", Mode: "captured"},
			{ID: "b3", PaymentPluginName: models.PaymentPluginDiscountCodes, Data: models.BillingData{DiscountID: "discount-2", Code: "welcome"}},
		},
	}

	applied, err := f.engine.ListAppliedDiscounts(context.Background(), "cart-1", "shop-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, []models.AppliedDiscount{
		{ID: "b1", Code: "save10"},
		{ID: "b3", Code: "welcome"},
	}, applied)
}

func TestListAppliedDiscounts_ShopMismatchIsNotFound(t *testing.T) {
	f := newFixture()
	f.carts.byID = &models.Cart{ID: "cart-1", ShopID: "other-shop", AccountID: "user-1"}

	_, err := f.engine.ListAppliedDiscounts(context.Background(), "cart-1", "shop-1", "user-1")

	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestListAppliedDiscounts_PermissionDenied(t *testing.T) {
	f := newFixture()
	f.carts.byID = &models.Cart{ID: "cart-1", ShopID: "shop-1", AccountID: "someone-else"}
	f.permissions.err = ErrPermissionDenied

	_, err := f.engine.ListAppliedDiscounts(context.Background(), "cart-1", "shop-1", "user-1")

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUsageCounts_CombinesSignals(t *testing.T) {
	f := newFixture()
	now := time.Now().UTC()
	f.carts.cartsWithDiscount = 3
	discount := &models.Discount{
		ID: "discount-1",
		Transactions: []models.Transaction{
			{UserID: "user-1", CartID: "c1", AppliedAt: now},
			{UserID: "other", CartID: "c2", AppliedAt: now},
		},
	}

	counts, err := f.engine.usageCounts(context.Background(), discount, "user-1")

	require.NoError(t, err)
	assert.Equal(t, UsageCounts{UserRedemptions: 1, CartRedemptions: 3, TotalRedemptions: 2}, counts)
}

func TestUsageCounts_CountErrorPropagates(t *testing.T) {
	f := newFixture()
	f.carts.countErr = errors.New("boom")

	_, err := f.engine.usageCounts(context.Background(), &models.Discount{ID: "discount-1"}, "user-1")

	assert.Error(t, err)
}
