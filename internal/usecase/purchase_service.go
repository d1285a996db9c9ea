package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
	idgen "github.com/riskibarqy/betslip-analyzer/internal/platform/id"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

const webOrderSuccessStatus = "1"

type WebCallbackInput struct {
	OrderID         string
	Status          string
	TotalOrderValue string
	BuyerEmail      string
	Secret          string
}

// WebCallbackResult describes what a callback did. Reason is set whenever
// nothing was credited.
type WebCallbackResult struct {
	Credited bool
	Credits  int
	Balance  int
	Reason   string
}

type MobileVerifyInput struct {
	PurchaseToken string
	ProductID     string
	UserID        string
	UserEmail     string
	// AuthenticatedUserID is the bearer principal when the caller sent one.
	AuthenticatedUserID string
}

type MobileVerifyResult struct {
	Credits      int
	Balance      int
	Acknowledged bool
	OrderID      string
}

type PurchaseServiceConfig struct {
	CallbackSecret string
	DedupWebOrders bool
	ConsumeOnGrant bool
}

type PurchaseDependencies struct {
	Accounts  account.Repository
	Purchases purchase.Repository
	Catalog   *purchase.Catalog
	Store     StoreVerifier
	Snapshots account.SnapshotBus
	Bridge    *PurchaseBridge
	Metrics   MetricsRecorder
	IDGen     idgen.Generator
	Logger    *logging.Logger
}

type PurchaseService struct {
	accounts  account.Repository
	purchases purchase.Repository
	catalog   *purchase.Catalog
	store     StoreVerifier
	snapshots account.SnapshotBus
	bridge    *PurchaseBridge
	metrics   MetricsRecorder
	idGen     idgen.Generator
	logger    *logging.Logger
	cfg       PurchaseServiceConfig
	now       func() time.Time
}

func NewPurchaseService(deps PurchaseDependencies, cfg PurchaseServiceConfig) *PurchaseService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var metrics MetricsRecorder = noopMetrics{}
	if deps.Metrics != nil {
		metrics = deps.Metrics
	}
	cfg.CallbackSecret = strings.TrimSpace(cfg.CallbackSecret)

	return &PurchaseService{
		accounts:  deps.Accounts,
		purchases: deps.Purchases,
		catalog:   deps.Catalog,
		store:     deps.Store,
		snapshots: deps.Snapshots,
		bridge:    deps.Bridge,
		metrics:   metrics,
		idGen:     deps.IDGen,
		logger:    logger.With("component", "purchase_service"),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *PurchaseService) Catalog() []purchase.Package {
	return s.catalog.Packages()
}

// HandleWebCallback settles a checkout notification. It never fails: every
// rejection is logged and reported through the result.
func (s *PurchaseService) HandleWebCallback(ctx context.Context, input WebCallbackInput) WebCallbackResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.PurchaseService.HandleWebCallback")
	defer span.End()

	orderID := strings.TrimSpace(input.OrderID)
	logger := s.logger.With("channel", "web", "order_id", orderID)
	reject := func(reason string, args ...any) WebCallbackResult {
		logger.WarnContext(ctx, "web callback not credited", append([]any{"reason", reason}, args...)...)
		s.metrics.Purchase("web", reason)
		return WebCallbackResult{Reason: reason}
	}

	if s.cfg.CallbackSecret != "" &&
		subtle.ConstantTimeCompare([]byte(strings.TrimSpace(input.Secret)), []byte(s.cfg.CallbackSecret)) != 1 {
		return reject("bad_secret")
	}
	if strings.TrimSpace(input.Status) != webOrderSuccessStatus {
		return reject("status_not_success", "status", input.Status)
	}

	credits, ok := s.catalog.CreditsForWebAmount(input.TotalOrderValue)
	if !ok {
		logger.ErrorContext(ctx, "web price table has no entry for amount", "amount", input.TotalOrderValue)
		return reject("unknown_amount", "amount", input.TotalOrderValue)
	}

	email := account.NormalizeEmail(input.BuyerEmail)
	if email == "" {
		return reject("missing_email")
	}
	acc, found, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return reject("account_lookup_failed", "error", err)
	}
	if !found {
		return reject("account_not_found", "email", email)
	}

	if orderID == "" {
		if s.cfg.DedupWebOrders {
			return reject("missing_order_id")
		}
		generated, err := s.idGen.NewID()
		if err != nil {
			return reject("order_id_failed", "error", err)
		}
		orderID = "web-" + generated
	}

	updated, err := s.purchases.SettleWebOrder(ctx, purchase.WebOrder{
		OrderID:     orderID,
		UserID:      acc.UserID,
		BuyerEmail:  email,
		AmountMinor: purchase.AmountToMinor(input.TotalOrderValue),
		Credits:     credits,
		SettledAt:   s.now().UTC(),
	}, s.cfg.DedupWebOrders)
	switch {
	case errors.Is(err, purchase.ErrAlreadySettled):
		return reject("duplicate_order")
	case err != nil:
		s.metrics.LedgerOp("credit", "error")
		return reject("settle_failed", "error", err)
	}

	s.metrics.LedgerOp("credit", "ok")
	s.metrics.CreditsGranted("web", credits)
	s.metrics.Purchase("web", "credited")
	logger.InfoContext(ctx, "web order credited",
		"user_id", updated.UserID,
		"credits", credits,
		"balance", updated.Credits,
	)

	s.publishSnapshot(ctx, updated)
	s.completeTicket(PurchaseCompleted{
		UserID:  updated.UserID,
		Success: true,
		Credits: credits,
		Balance: updated.Credits,
	})

	return WebCallbackResult{Credited: true, Credits: credits, Balance: updated.Credits}
}

// VerifyMobilePurchase checks a store receipt and credits its package once
// per purchase token.
func (s *PurchaseService) VerifyMobilePurchase(ctx context.Context, input MobileVerifyInput) (result MobileVerifyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PurchaseService.VerifyMobilePurchase")
	defer span.End()

	input.PurchaseToken = strings.TrimSpace(input.PurchaseToken)
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.UserID = strings.TrimSpace(input.UserID)
	if input.PurchaseToken == "" || input.ProductID == "" || input.UserID == "" {
		return MobileVerifyResult{}, fmt.Errorf("%w: purchaseToken, productId and userId are required", ErrInvalidInput)
	}
	if input.AuthenticatedUserID != "" && input.AuthenticatedUserID != input.UserID {
		return MobileVerifyResult{}, fmt.Errorf("%w: user id does not match the signed-in user", ErrForbidden)
	}
	pkg, ok := s.catalog.BySKU(input.ProductID)
	if !ok {
		return MobileVerifyResult{}, fmt.Errorf("%w: %v: %s", ErrInvalidInput, purchase.ErrUnknownProduct, input.ProductID)
	}

	logger := s.logger.With("channel", "mobile", "user_id", input.UserID, "sku", pkg.SKU)
	defer func() {
		if err == nil {
			return
		}
		s.metrics.Purchase("mobile", outcomeForPurchaseErr(err))
		if errors.Is(err, ErrAlreadyRedeemed) {
			return
		}
		s.completeTicket(PurchaseCompleted{
			UserID: input.UserID,
			SKU:    pkg.SKU,
			Error:  err.Error(),
		})
	}()

	_, redeemed, err := s.purchases.GetRedemption(ctx, input.PurchaseToken)
	if err != nil {
		return MobileVerifyResult{}, fmt.Errorf("get redemption: %w", err)
	}
	if redeemed {
		logger.InfoContext(ctx, "purchase token already redeemed")
		return MobileVerifyResult{}, ErrAlreadyRedeemed
	}

	_, found, err := s.accounts.GetByUserID(ctx, input.UserID)
	if err != nil {
		return MobileVerifyResult{}, fmt.Errorf("get account: %w", err)
	}
	if !found {
		return MobileVerifyResult{}, fmt.Errorf("%w: account %s", ErrNotFound, input.UserID)
	}

	receipt, err := s.store.GetProductPurchase(ctx, pkg.SKU, input.PurchaseToken)
	if err != nil {
		if errors.Is(err, purchase.ErrReceiptNotFound) {
			return MobileVerifyResult{}, fmt.Errorf("%w: %v", ErrPurchaseNotCompleted, err)
		}
		logger.ErrorContext(ctx, "store receipt lookup failed", "error", err)
		return MobileVerifyResult{}, fmt.Errorf("%w: store lookup: %v", ErrDependencyUnavailable, err)
	}
	if receipt.State != purchase.ReceiptPurchased {
		return MobileVerifyResult{}, fmt.Errorf("%w: receipt state %s", ErrPurchaseNotCompleted, receipt.State)
	}
	if receipt.ObfuscatedAccountID != "" && receipt.ObfuscatedAccountID != input.UserID {
		logger.WarnContext(ctx, "receipt bound to another account")
		return MobileVerifyResult{}, fmt.Errorf("%w: receipt belongs to another account", ErrForbidden)
	}

	updated, err := s.purchases.RedeemAndCredit(ctx, purchase.Redemption{
		PurchaseToken: input.PurchaseToken,
		UserID:        input.UserID,
		SKU:           pkg.SKU,
		Credits:       pkg.Credits,
		OrderID:       receipt.OrderID,
		RedeemedAt:    s.now().UTC(),
	}, pkg.PriceMinor)
	if err != nil {
		if errors.Is(err, purchase.ErrAlreadyRedeemed) {
			return MobileVerifyResult{}, ErrAlreadyRedeemed
		}
		s.metrics.LedgerOp("credit", "error")
		if errors.Is(err, account.ErrAccountNotFound) {
			return MobileVerifyResult{}, fmt.Errorf("%w: account %s", ErrNotFound, input.UserID)
		}
		return MobileVerifyResult{}, fmt.Errorf("redeem purchase: %w", err)
	}
	s.metrics.LedgerOp("credit", "ok")
	s.metrics.CreditsGranted("mobile", pkg.Credits)
	s.metrics.Purchase("mobile", "credited")

	result = MobileVerifyResult{
		Credits:      pkg.Credits,
		Balance:      updated.Credits,
		Acknowledged: receipt.Acknowledged,
		OrderID:      receipt.OrderID,
	}
	if !receipt.Acknowledged {
		if ackErr := s.store.Acknowledge(ctx, pkg.SKU, input.PurchaseToken); ackErr != nil {
			logger.ErrorContext(ctx, "acknowledge purchase failed, credit kept", "error", ackErr)
		} else {
			result.Acknowledged = true
		}
	}
	if s.cfg.ConsumeOnGrant && !receipt.Consumed {
		if consumeErr := s.store.Consume(ctx, pkg.SKU, input.PurchaseToken); consumeErr != nil {
			logger.WarnContext(ctx, "consume purchase failed", "error", consumeErr)
		}
	}

	logger.InfoContext(ctx, "mobile purchase credited",
		"credits", pkg.Credits,
		"balance", updated.Credits,
		"acknowledged", result.Acknowledged,
	)
	s.publishSnapshot(ctx, updated)
	s.completeTicket(PurchaseCompleted{
		UserID:  input.UserID,
		SKU:     pkg.SKU,
		Success: true,
		Credits: pkg.Credits,
		Balance: updated.Credits,
	})

	return result, nil
}

func (s *PurchaseService) publishSnapshot(ctx context.Context, acc account.Account) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Publish(ctx, acc); err != nil {
		s.logger.WarnContext(ctx, "publish account snapshot failed", "user_id", acc.UserID, "error", err)
	}
}

func (s *PurchaseService) completeTicket(msg PurchaseCompleted) {
	if s.bridge == nil {
		return
	}
	s.bridge.Complete(msg)
}

func outcomeForPurchaseErr(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyRedeemed):
		return "already_redeemed"
	case errors.Is(err, ErrPurchaseNotCompleted):
		return "not_purchased"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrDependencyUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrNotFound):
		return "account_not_found"
	default:
		return "error"
	}
}
