package googleplay

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

var ErrUnavailable = crerr.New("google play developer api unavailable")

type ClientConfig struct {
	PackageName string
	// Credentials is a service-account JSON document or a path to one.
	// Empty falls back to application default credentials.
	Credentials string
	Timeout     time.Duration
	Logger      *logging.Logger
	// Options are appended after the credential options.
	Options []option.ClientOption
}

// Client looks up and finalizes one-time product purchases.
type Client struct {
	service     *androidpublisher.Service
	packageName string
	timeout     time.Duration
	logger      *logging.Logger
}

func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	packageName := strings.TrimSpace(cfg.PackageName)
	if packageName == "" {
		return nil, fmt.Errorf("google play package name is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := credentialOptions(cfg.Credentials)
	opts = append(opts, option.WithScopes(androidpublisher.AndroidpublisherScope))
	opts = append(opts, cfg.Options...)

	service, err := androidpublisher.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create androidpublisher service: %w", err)
	}

	return &Client{
		service:     service,
		packageName: packageName,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

func credentialOptions(raw string) []option.ClientOption {
	creds := strings.TrimSpace(raw)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (c *Client) GetProductPurchase(ctx context.Context, sku, purchaseToken string) (purchase.StoreReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	p, err := c.service.Purchases.Products.Get(c.packageName, sku, purchaseToken).Context(ctx).Do()
	if err != nil {
		return purchase.StoreReceipt{}, c.classify(ctx, "get product purchase", err)
	}

	receipt := purchase.StoreReceipt{
		OrderID:             p.OrderId,
		State:               purchase.ReceiptState(p.PurchaseState),
		Acknowledged:        p.AcknowledgementState == 1,
		Consumed:            p.ConsumptionState == 1,
		ObfuscatedAccountID: p.ObfuscatedExternalAccountId,
	}
	if p.PurchaseTimeMillis > 0 {
		receipt.PurchasedAt = time.UnixMilli(p.PurchaseTimeMillis).UTC()
	}
	return receipt, nil
}

func (c *Client) Acknowledge(ctx context.Context, sku, purchaseToken string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.service.Purchases.Products.
		Acknowledge(c.packageName, sku, purchaseToken, &androidpublisher.ProductPurchasesAcknowledgeRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return c.classify(ctx, "acknowledge product purchase", err)
	}
	return nil
}

// Consume releases the product so the same SKU can be bought again.
func (c *Client) Consume(ctx context.Context, sku, purchaseToken string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.service.Purchases.Products.Consume(c.packageName, sku, purchaseToken).Context(ctx).Do(); err != nil {
		return c.classify(ctx, "consume product purchase", err)
	}
	return nil
}

func (c *Client) classify(ctx context.Context, op string, err error) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%w: %s: status=%d %s", purchase.ErrReceiptNotFound, op, apiErr.Code, apiErr.Message)
		}
		c.logger.WarnContext(ctx, "google play api error", "op", op, "status", apiErr.Code, "error", apiErr.Message)
		return crerr.Mark(fmt.Errorf("%s: status=%d %s", op, apiErr.Code, apiErr.Message), ErrUnavailable)
	}
	c.logger.WarnContext(ctx, "google play request failed", "op", op, "error", err)
	return crerr.Mark(fmt.Errorf("%s: %w", op, err), ErrUnavailable)
}
