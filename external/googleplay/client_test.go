package googleplay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"google.golang.org/api/option"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
)

const productPath = "/androidpublisher/v3/applications/com.futbolanaliz.app/purchases/products/futbol_analiz_25_credits/tokens/"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), ClientConfig{
		PackageName: "com.futbolanaliz.app",
		Options: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithHTTPClient(srv.Client()),
			option.WithoutAuthentication(),
		},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGetProductPurchase_MapsReceipt(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != productPath+"tok-1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"kind":"androidpublisher#productPurchase","orderId":"GPA.3312-0001","purchaseState":0,"acknowledgementState":0,"consumptionState":0,"purchaseTimeMillis":"1767225600000","obfuscatedExternalAccountId":"user-1"}`))
	}))

	got, err := client.GetProductPurchase(t.Context(), "futbol_analiz_25_credits", "tok-1")
	if err != nil {
		t.Fatalf("get product purchase: %v", err)
	}
	if got.State != purchase.ReceiptPurchased || got.OrderID != "GPA.3312-0001" || got.Acknowledged {
		t.Fatalf("unexpected receipt: %+v", got)
	}
	if got.ObfuscatedAccountID != "user-1" || got.PurchasedAt.Year() != 2026 {
		t.Fatalf("unexpected receipt metadata: %+v", got)
	}
}

func TestGetProductPurchase_ClassifiesErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/tokens/unknown") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"The purchase token was not found."}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
	}))

	_, err := client.GetProductPurchase(t.Context(), "futbol_analiz_25_credits", "unknown")
	if !errors.Is(err, purchase.ErrReceiptNotFound) {
		t.Fatalf("expected receipt not found, got %v", err)
	}

	_, err = client.GetProductPurchase(t.Context(), "futbol_analiz_25_credits", "tok-2")
	if !crerr.Is(err, ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestAcknowledgeAndConsume_PostToActionPaths(t *testing.T) {
	t.Parallel()

	var acked, consumed atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch r.URL.Path {
		case productPath + "tok-1:acknowledge":
			acked.Store(true)
		case productPath + "tok-1:consume":
			consumed.Store(true)
		default:
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.Acknowledge(t.Context(), "futbol_analiz_25_credits", "tok-1"); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if err := client.Consume(t.Context(), "futbol_analiz_25_credits", "tok-1"); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !acked.Load() || !consumed.Load() {
		t.Fatalf("expected both actions, acked=%v consumed=%v", acked.Load(), consumed.Load())
	}
}
