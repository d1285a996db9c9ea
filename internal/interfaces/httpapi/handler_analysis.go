package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/slipimage"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

const multipartOverhead = 1 << 20

// errMissingUpload is answered with the "upload an image and pick a bet
// type" message.
var errMissingUpload = fmt.Errorf("%w: image and bet_type are required", usecase.ErrInvalidInput)

func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAnalysis")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limits := h.cfg.ImageLimits
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(limits.MaxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, fmt.Errorf("%w: request body exceeds %d bytes", slipimage.ErrImageTooLarge, tooLarge.Limit))
			return
		}
		writeError(ctx, w, errMissingUpload)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	rawBetType := strings.TrimSpace(r.FormValue("bet_type"))
	file, _, err := r.FormFile("image")
	if err != nil || rawBetType == "" {
		if file != nil {
			_ = file.Close()
		}
		writeError(ctx, w, errMissingUpload)
		return
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read image: %v", slipimage.ErrUnsupportedImage, err))
		return
	}

	betType, err := analysis.ParseBetType(rawBetType)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	image, err := slipimage.Normalize(data, limits)
	if err != nil {
		h.logger.WarnContext(ctx, "slip image rejected", "user_id", principal.UserID, "bytes", len(data), "error", err)
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.analysisService.RunAnalysis(ctx, usecase.RunAnalysisInput{
		UserID:  principal.UserID,
		Image:   image,
		BetType: betType,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(outcome))
}

func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAnalyses")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
	}

	entries, err := h.analysisService.ListHistory(ctx, principal.UserID, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, historyToDTO(entries))
}
