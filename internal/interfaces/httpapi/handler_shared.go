package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/user"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

// maxJSONBodyBytes bounds every JSON request body.
const maxJSONBodyBytes = 64 << 10

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || principal.UserID == "" {
		return user.Principal{}, fmt.Errorf("%w: missing auth principal", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type startPurchaseRequest struct {
	SKU string `json:"sku" validate:"required"`
}

type googlePlayVerifyRequest struct {
	PurchaseToken string `json:"purchaseToken"`
	ProductID     string `json:"productId"`
	UserID        string `json:"userId"`
	UserEmail     string `json:"userEmail"`
}

type shopierCallbackJSON struct {
	PlatformOrderID string `json:"platform_order_id"`
	Status          string `json:"status"`
	TotalOrderValue any    `json:"total_order_value"`
	BuyerEmail      string `json:"buyer_email"`
	Secret          string `json:"secret"`
}

type accountDTO struct {
	UserID          string    `json:"userId"`
	Email           string    `json:"email"`
	Credits         int       `json:"credits"`
	TotalSpentMinor int64     `json:"totalSpentMinor"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type analysisDTO struct {
	RunID            string                   `json:"runId"`
	BetType          analysis.BetType         `json:"betType"`
	Results          []analysis.MatchAnalysis `json:"results"`
	RemainingCredits int                      `json:"remainingCredits"`
	HistoryEntryID   string                   `json:"historyEntryId,omitempty"`
	Notice           string                   `json:"notice,omitempty"`
}

type historyEntryDTO struct {
	ID        string                   `json:"id"`
	BetType   analysis.BetType         `json:"betType"`
	Results   []analysis.MatchAnalysis `json:"results"`
	CreatedAt time.Time                `json:"createdAt"`
}

type googlePlayVerifyResponse struct {
	Success      bool `json:"success"`
	Credits      int  `json:"credits"`
	Balance      int  `json:"balance"`
	Acknowledged bool `json:"acknowledged"`
}

type googlePlayVerifyFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func accountToDTO(acc account.Account) accountDTO {
	return accountDTO{
		UserID:          acc.UserID,
		Email:           acc.Email,
		Credits:         acc.Credits,
		TotalSpentMinor: acc.TotalSpentMinor,
		CreatedAt:       acc.CreatedAt,
		UpdatedAt:       acc.UpdatedAt,
	}
}

func outcomeToDTO(outcome usecase.AnalysisOutcome) analysisDTO {
	results := outcome.Results
	if results == nil {
		results = []analysis.MatchAnalysis{}
	}
	dto := analysisDTO{
		RunID:            outcome.RunID,
		BetType:          outcome.BetType,
		Results:          results,
		RemainingCredits: outcome.RemainingCredits,
		HistoryEntryID:   outcome.HistoryEntryID,
	}
	if outcome.NoAnalyzableMatches {
		dto.Notice = msgNoAnalyzable
	}
	return dto
}

func historyToDTO(entries []analysis.HistoryEntry) []historyEntryDTO {
	out := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		results := entry.Results
		if results == nil {
			results = []analysis.MatchAnalysis{}
		}
		out = append(out, historyEntryDTO{
			ID:        entry.ID,
			BetType:   entry.BetType,
			Results:   results,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}
