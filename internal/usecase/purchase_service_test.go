package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
	"github.com/riskibarqy/betslip-analyzer/internal/infrastructure/repository/memory"
	purchasemock "github.com/riskibarqy/betslip-analyzer/internal/mocks/domain/purchase"
	usecasemock "github.com/riskibarqy/betslip-analyzer/internal/mocks/usecase"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

const sku25 = "futbol_analiz_25_credits"

type purchaseFixture struct {
	store    *memory.Store
	verifier *usecasemock.StoreVerifier
	bridge   *PurchaseBridge
	service  *PurchaseService
}

func newPurchaseFixture(t *testing.T, cfg PurchaseServiceConfig) *purchaseFixture {
	t.Helper()

	catalog, err := purchase.NewCatalog(purchase.DefaultPackages(), nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	f := &purchaseFixture{
		store:    memory.NewStore(),
		verifier: usecasemock.NewStoreVerifier(t),
	}
	f.bridge = NewPurchaseBridge(catalog, &sequenceIDGenerator{prefix: "ticket"}, time.Minute)
	if _, _, err := f.store.Create(context.Background(), account.Account{
		UserID:  "user-1",
		Email:   "buyer@example.com",
		Credits: 5,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	f.service = NewPurchaseService(PurchaseDependencies{
		Accounts:  f.store,
		Purchases: f.store,
		Catalog:   catalog,
		Store:     f.verifier,
		Bridge:    f.bridge,
		IDGen:     &sequenceIDGenerator{prefix: "order"},
		Logger:    logging.NewNop(),
	}, cfg)
	return f
}

func (f *purchaseFixture) balance(t *testing.T) int {
	t.Helper()
	acc, ok, err := f.store.GetByUserID(context.Background(), "user-1")
	if err != nil || !ok {
		t.Fatalf("get account: ok=%v err=%v", ok, err)
	}
	return acc.Credits
}

func TestPurchaseService_VerifyMobilePurchase_RedeemsTokenOnce(t *testing.T) {
	t.Parallel()

	f := newPurchaseFixture(t, PurchaseServiceConfig{DedupWebOrders: true})
	f.verifier.On("GetProductPurchase", mock.Anything, sku25, "token-1").
		Return(purchase.StoreReceipt{OrderID: "GPA.1234", State: purchase.ReceiptPurchased}, nil).
		Once()
	f.verifier.On("Acknowledge", mock.Anything, sku25, "token-1").Return(nil).Once()

	input := MobileVerifyInput{PurchaseToken: "token-1", ProductID: sku25, UserID: "user-1"}
	result, err := f.service.VerifyMobilePurchase(context.Background(), input)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Credits != 25 || result.Balance != 30 || !result.Acknowledged {
		t.Fatalf("unexpected result: %+v", result)
	}

	_, err = f.service.VerifyMobilePurchase(context.Background(), input)
	if !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("expected ErrAlreadyRedeemed on second verify, got %v", err)
	}
	if got := f.balance(t); got != 30 {
		t.Fatalf("expected balance 30 after second verify, got %d", got)
	}
}

func TestPurchaseService_VerifyMobilePurchase_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   MobileVerifyInput
		receipt purchase.StoreReceipt
		lookup  error
		wantErr error
		calls   bool
	}{
		{
			name:    "missing token",
			input:   MobileVerifyInput{ProductID: sku25, UserID: "user-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown product",
			input:   MobileVerifyInput{PurchaseToken: "t", ProductID: "coins_999", UserID: "user-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "principal mismatch",
			input:   MobileVerifyInput{PurchaseToken: "t", ProductID: sku25, UserID: "user-1", AuthenticatedUserID: "user-2"},
			wantErr: ErrForbidden,
		},
		{
			name:    "pending purchase",
			input:   MobileVerifyInput{PurchaseToken: "t", ProductID: sku25, UserID: "user-1"},
			receipt: purchase.StoreReceipt{State: purchase.ReceiptPending},
			wantErr: ErrPurchaseNotCompleted,
			calls:   true,
		},
		{
			name:    "unknown token",
			input:   MobileVerifyInput{PurchaseToken: "t", ProductID: sku25, UserID: "user-1"},
			lookup:  fmt.Errorf("%w: status=404", purchase.ErrReceiptNotFound),
			wantErr: ErrPurchaseNotCompleted,
			calls:   true,
		},
		{
			name:    "store unavailable",
			input:   MobileVerifyInput{PurchaseToken: "t", ProductID: sku25, UserID: "user-1"},
			lookup:  crerr.New("connection reset"),
			wantErr: ErrDependencyUnavailable,
			calls:   true,
		},
		{
			name:    "receipt bound to another user",
			input:   MobileVerifyInput{PurchaseToken: "t", ProductID: sku25, UserID: "user-1"},
			receipt: purchase.StoreReceipt{State: purchase.ReceiptPurchased, ObfuscatedAccountID: "user-9"},
			wantErr: ErrForbidden,
			calls:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newPurchaseFixture(t, PurchaseServiceConfig{DedupWebOrders: true})
			if tc.calls {
				f.verifier.On("GetProductPurchase", mock.Anything, sku25, "t").Return(tc.receipt, tc.lookup).Once()
			}

			_, err := f.service.VerifyMobilePurchase(context.Background(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if got := f.balance(t); got != 5 {
				t.Fatalf("expected balance unchanged at 5, got %d", got)
			}
		})
	}
}

func TestPurchaseService_VerifyMobilePurchase_AcknowledgeFailureKeepsCredit(t *testing.T) {
	t.Parallel()

	f := newPurchaseFixture(t, PurchaseServiceConfig{ConsumeOnGrant: true})
	f.verifier.On("GetProductPurchase", mock.Anything, sku25, "token-ack").
		Return(purchase.StoreReceipt{State: purchase.ReceiptPurchased}, nil).
		Once()
	f.verifier.On("Acknowledge", mock.Anything, sku25, "token-ack").Return(errors.New("503")).Once()
	f.verifier.On("Consume", mock.Anything, sku25, "token-ack").Return(nil).Once()

	result, err := f.service.VerifyMobilePurchase(context.Background(), MobileVerifyInput{PurchaseToken: "token-ack", ProductID: sku25, UserID: "user-1"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Acknowledged {
		t.Fatalf("expected Acknowledged=false after ack failure")
	}
	if got := f.balance(t); got != 30 {
		t.Fatalf("expected credit kept, balance=%d", got)
	}
}

func webCallback() WebCallbackInput {
	return WebCallbackInput{
		OrderID:         "SHP-1001",
		Status:          "1",
		TotalOrderValue: "300.00",
		BuyerEmail:      "Buyer@Example.com",
	}
}

func TestPurchaseService_HandleWebCallback_DedupCreditsOnce(t *testing.T) {
	t.Parallel()

	f := newPurchaseFixture(t, PurchaseServiceConfig{DedupWebOrders: true})

	first := f.service.HandleWebCallback(context.Background(), webCallback())
	if !first.Credited || first.Credits != 25 || first.Balance != 30 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second := f.service.HandleWebCallback(context.Background(), webCallback())
	if second.Credited || second.Reason != "duplicate_order" {
		t.Fatalf("expected duplicate rejection, got %+v", second)
	}
	if got := f.balance(t); got != 30 {
		t.Fatalf("expected balance 30, got %d", got)
	}
}

// Without dedup a retried callback credits again. This guards the legacy
// behaviour behind the flag.
func TestPurchaseService_HandleWebCallback_LegacyModeDoubleCredits(t *testing.T) {
	t.Parallel()

	f := newPurchaseFixture(t, PurchaseServiceConfig{DedupWebOrders: false})

	for i := 0; i < 2; i++ {
		if res := f.service.HandleWebCallback(context.Background(), webCallback()); !res.Credited {
			t.Fatalf("callback %d not credited: %+v", i, res)
		}
	}
	if got := f.balance(t); got != 55 {
		t.Fatalf("expected double credit to 55, got %d", got)
	}
}

func TestPurchaseService_HandleWebCallback_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		cfg    PurchaseServiceConfig
		mutate func(*WebCallbackInput)
		reason string
	}{
		{
			name:   "wrong secret",
			cfg:    PurchaseServiceConfig{CallbackSecret: "s3cret", DedupWebOrders: true},
			mutate: func(in *WebCallbackInput) { in.Secret = "guess" },
			reason: "bad_secret",
		},
		{
			name:   "failed payment",
			cfg:    PurchaseServiceConfig{DedupWebOrders: true},
			mutate: func(in *WebCallbackInput) { in.Status = "0" },
			reason: "status_not_success",
		},
		{
			name:   "amount not in price table",
			cfg:    PurchaseServiceConfig{DedupWebOrders: true},
			mutate: func(in *WebCallbackInput) { in.TotalOrderValue = "299.99" },
			reason: "unknown_amount",
		},
		{
			name:   "unknown buyer",
			cfg:    PurchaseServiceConfig{DedupWebOrders: true},
			mutate: func(in *WebCallbackInput) { in.BuyerEmail = "stranger@example.com" },
			reason: "account_not_found",
		},
		{
			name:   "missing order id with dedup",
			cfg:    PurchaseServiceConfig{DedupWebOrders: true},
			mutate: func(in *WebCallbackInput) { in.OrderID = "" },
			reason: "missing_order_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newPurchaseFixture(t, tc.cfg)
			input := webCallback()
			tc.mutate(&input)

			res := f.service.HandleWebCallback(context.Background(), input)
			if res.Credited || res.Reason != tc.reason {
				t.Fatalf("expected reason %q, got %+v", tc.reason, res)
			}
			if got := f.balance(t); got != 5 {
				t.Fatalf("expected balance unchanged, got %d", got)
			}
		})
	}
}

func TestPurchaseService_HandleWebCallback_AcceptsMatchingSecret(t *testing.T) {
	t.Parallel()

	f := newPurchaseFixture(t, PurchaseServiceConfig{CallbackSecret: "s3cret", DedupWebOrders: true})
	input := webCallback()
	input.Secret = "s3cret"
	input.TotalOrderValue = "1200,00"

	res := f.service.HandleWebCallback(context.Background(), input)
	if !res.Credited || res.Credits != 150 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPurchaseService_HandleWebCallback_SettleFailureIsReported(t *testing.T) {
	t.Parallel()

	f := newPurchaseFixture(t, PurchaseServiceConfig{DedupWebOrders: true})
	repo := purchasemock.NewRepository(t)
	repo.On("SettleWebOrder", mock.Anything, mock.MatchedBy(func(order purchase.WebOrder) bool {
		return order.OrderID == "SHP-1001" && order.UserID == "user-1" && order.Credits == 25
	}), true).Return(account.Account{}, errors.New("connection reset")).Once()
	f.service.purchases = repo

	res := f.service.HandleWebCallback(context.Background(), webCallback())
	if res.Credited || res.Reason != "settle_failed" {
		t.Fatalf("expected settle_failed, got %+v", res)
	}
	if got := f.balance(t); got != 5 {
		t.Fatalf("expected balance untouched, got %d", got)
	}
}
