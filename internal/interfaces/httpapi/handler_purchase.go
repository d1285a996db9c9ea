package httpapi

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

const shopierSecretHeader = "X-Shopier-Secret"

func (h *Handler) StartPurchase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartPurchase")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req startPurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ticket, err := h.bridge.Start(ctx, usecase.StartPurchase{
		UserID: principal.UserID,
		SKU:    strings.TrimSpace(req.SKU),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, ticket)
}

// AwaitPurchase long-polls a ticket for up to ?wait (capped). A ticket still
// pending when the wait ends is answered with 202.
func (h *Handler) AwaitPurchase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AwaitPurchase")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ticketID := strings.TrimSpace(r.PathValue("ticketID"))
	wait := time.Duration(0)
	if raw := strings.TrimSpace(r.URL.Query().Get("wait")); raw != "" {
		wait, err = time.ParseDuration(raw)
		if err != nil || wait < 0 {
			writeError(ctx, w, fmt.Errorf("%w: wait must be a non-negative duration", usecase.ErrInvalidInput))
			return
		}
	}
	wait = min(wait, h.cfg.MaxAwait)

	awaitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	result, done, err := h.bridge.Await(awaitCtx, principal.UserID, ticketID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !done {
		writeSuccess(ctx, w, http.StatusAccepted, map[string]string{
			"ticketId": ticketID,
			"status":   "pending",
		})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// ShopierCallback always answers 200 "OK" so the provider stops retrying;
// rejections are only logged.
func (h *Handler) ShopierCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ShopierCallback")
	defer span.End()

	input, err := parseShopierCallback(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "shopier callback unreadable", "error", err)
	} else {
		result := h.purchaseService.HandleWebCallback(ctx, input)
		h.logger.InfoContext(ctx, "shopier callback handled",
			"order_id", input.OrderID,
			"credited", result.Credited,
			"reason", result.Reason,
		)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func parseShopierCallback(w http.ResponseWriter, r *http.Request) (usecase.WebCallbackInput, error) {
	input := usecase.WebCallbackInput{Secret: strings.TrimSpace(r.Header.Get(shopierSecretHeader))}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body shopierCallbackJSON
		if err := decodeJSON(w, r, &body); err != nil {
			return usecase.WebCallbackInput{}, err
		}
		input.OrderID = body.PlatformOrderID
		input.Status = body.Status
		input.TotalOrderValue = stringifyAmount(body.TotalOrderValue)
		input.BuyerEmail = body.BuyerEmail
		if input.Secret == "" {
			input.Secret = body.Secret
		}
		return input, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := r.ParseForm(); err != nil {
		return usecase.WebCallbackInput{}, fmt.Errorf("parse form: %w", err)
	}
	input.OrderID = r.PostFormValue("platform_order_id")
	input.Status = r.PostFormValue("status")
	input.TotalOrderValue = r.PostFormValue("total_order_value")
	input.BuyerEmail = r.PostFormValue("buyer_email")
	if input.Secret == "" {
		input.Secret = r.PostFormValue("secret")
	}
	return input, nil
}

func stringifyAmount(v any) string {
	switch amount := v.(type) {
	case string:
		return amount
	case float64:
		return strconv.FormatFloat(amount, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(amount)
	}
}

// VerifyGooglePlayPurchase keeps the mobile client's contract:
// {success, credits, balance, acknowledged} or {success:false, error}.
func (h *Handler) VerifyGooglePlayPurchase(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyGooglePlayPurchase")
	defer span.End()

	var req googlePlayVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, googlePlayVerifyFailure{Error: err.Error()})
		return
	}

	input := usecase.MobileVerifyInput{
		PurchaseToken: strings.TrimSpace(req.PurchaseToken),
		ProductID:     strings.TrimSpace(req.ProductID),
		UserID:        strings.TrimSpace(req.UserID),
		UserEmail:     strings.TrimSpace(req.UserEmail),
	}
	if principal, ok := principalFromContext(ctx); ok {
		input.AuthenticatedUserID = principal.UserID
	}

	result, err := h.purchaseService.VerifyMobilePurchase(ctx, input)
	if err != nil {
		status := mapError(ctx, err).HTTPStatus
		message := err.Error()
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "google play verify failed", "user_id", input.UserID, "error", err)
			status = http.StatusInternalServerError
			message = "server error"
		}
		writeJSON(ctx, w, status, googlePlayVerifyFailure{Error: message})
		return
	}

	writeJSON(ctx, w, http.StatusOK, googlePlayVerifyResponse{
		Success:      true,
		Credits:      result.Credits,
		Balance:      result.Balance,
		Acknowledged: result.Acknowledged,
	})
}
