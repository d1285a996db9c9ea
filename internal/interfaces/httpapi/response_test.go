package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/betslip-analyzer/internal/platform/slipimage"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_UserMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: user-1 has 0", usecase.ErrInsufficientCredit))

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", rec.Code)
	}
	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error == nil {
		t.Fatalf("expected error body")
	}
	if body.Error.Message != msgInsufficientCredit {
		t.Fatalf("message=%q", body.Error.Message)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != "insufficientCredit" {
		t.Fatalf("unexpected error items: %+v", body.Error.Errors)
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		reason string
	}{
		{err: fmt.Errorf("%w: bad", usecase.ErrInvalidInput), status: http.StatusBadRequest, reason: "invalidInput"},
		{err: errMissingUpload, status: http.StatusBadRequest, reason: "missingUpload"},
		{err: fmt.Errorf("%w: gif", slipimage.ErrUnsupportedImage), status: http.StatusBadRequest, reason: "invalidImage"},
		{err: slipimage.ErrImageTooLarge, status: http.StatusBadRequest, reason: "invalidImage"},
		{err: usecase.ErrInsufficientCredit, status: http.StatusPaymentRequired, reason: "insufficientCredit"},
		{err: usecase.ErrNoMatchesFound, status: http.StatusUnprocessableEntity, reason: "noMatchesFound"},
		{err: usecase.ErrNoLiveData, status: http.StatusUnprocessableEntity, reason: "noLiveData"},
		{err: usecase.ErrAnalysisFailed, status: http.StatusBadGateway, reason: "analysisFailed"},
		{err: usecase.ErrAlreadyRedeemed, status: http.StatusConflict, reason: "alreadyRedeemed"},
		{err: usecase.ErrPurchaseNotCompleted, status: http.StatusPaymentRequired, reason: "purchaseNotCompleted"},
		{err: usecase.ErrNotFound, status: http.StatusNotFound, reason: "notFound"},
		{err: usecase.ErrUnauthorized, status: http.StatusUnauthorized, reason: "unauthorized"},
		{err: usecase.ErrForbidden, status: http.StatusForbidden, reason: "forbidden"},
		{err: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable, reason: "dependencyUnavailable"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}
	for _, tt := range tests {
		got := mapError(context.Background(), tt.err)
		if got.HTTPStatus != tt.status || got.Reason != tt.reason {
			t.Fatalf("mapError(%v) = %d/%s, want %d/%s", tt.err, got.HTTPStatus, got.Reason, tt.status, tt.reason)
		}
	}
}
