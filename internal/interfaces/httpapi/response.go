package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/betslip-analyzer/internal/platform/slipimage"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "betslip-analyzer"
)

// User-facing messages shown by the app as-is.
const (
	msgInsufficientCredit = "Analiz yapmak için yeterli krediniz bulunmuyor."
	msgNoMatchesFound     = "Görselden okunabilir maç bulunamadı. Lütfen daha net bir görsel deneyin."
	msgNoLiveData         = "Maçlar için canlı istatistik verileri çekilemedi. Lütfen daha sonra tekrar deneyin."
	msgNoAnalyzable       = "Analiz edilecek maç bulunamadı veya veriler yetersiz. Lütfen daha sonra tekrar deneyin."
	msgAnalysisFailed     = "Analiz sırasında bir hata oluştu. Lütfen daha sonra tekrar deneyin."
	msgMissingUpload      = "Lütfen bir görsel yükleyin ve bahis türü seçin."
	msgInvalidImage       = "Görsel okunurken bir hata oluştu."
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
	// Message replaces the raw error text in the top-level message when set.
	Message string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := mapped.Message
	if message == "" {
		message = err.Error()
	}
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, errMissingUpload):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "missingUpload",
			Status:     "INVALID_ARGUMENT",
			Message:    msgMissingUpload,
		}
	case errors.Is(err, slipimage.ErrEmptyImage),
		errors.Is(err, slipimage.ErrImageTooLarge),
		errors.Is(err, slipimage.ErrUnsupportedImage):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidImage",
			Status:     "INVALID_ARGUMENT",
			Message:    msgInvalidImage,
		}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrInsufficientCredit):
		return mappedError{
			HTTPStatus: http.StatusPaymentRequired,
			Reason:     "insufficientCredit",
			Status:     "FAILED_PRECONDITION",
			Message:    msgInsufficientCredit,
		}
	case errors.Is(err, usecase.ErrNoMatchesFound):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "noMatchesFound",
			Status:     "FAILED_PRECONDITION",
			Message:    msgNoMatchesFound,
		}
	case errors.Is(err, usecase.ErrNoLiveData):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "noLiveData",
			Status:     "FAILED_PRECONDITION",
			Message:    msgNoLiveData,
		}
	case errors.Is(err, usecase.ErrAnalysisFailed):
		return mappedError{
			HTTPStatus: http.StatusBadGateway,
			Reason:     "analysisFailed",
			Status:     "UNAVAILABLE",
			Message:    msgAnalysisFailed,
		}
	case errors.Is(err, usecase.ErrAlreadyRedeemed):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "alreadyRedeemed",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, usecase.ErrPurchaseNotCompleted):
		return mappedError{
			HTTPStatus: http.StatusPaymentRequired,
			Reason:     "purchaseNotCompleted",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{
			HTTPStatus: http.StatusForbidden,
			Reason:     "forbidden",
			Status:     "PERMISSION_DENIED",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
