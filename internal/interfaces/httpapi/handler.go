package httpapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/slipimage"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

const (
	defaultMaxAwait        = 30 * time.Second
	defaultStreamHeartbeat = 15 * time.Second
)

// HandlerConfig carries request limits for the HTTP layer.
type HandlerConfig struct {
	ImageLimits     slipimage.Limits
	MaxAwait        time.Duration
	StreamHeartbeat time.Duration
}

type Handler struct {
	accountService  *usecase.AccountService
	analysisService *usecase.AnalysisService
	purchaseService *usecase.PurchaseService
	bridge          *usecase.PurchaseBridge
	logger          *logging.Logger
	validator       *validator.Validate
	cfg             HandlerConfig
}

func NewHandler(
	accountService *usecase.AccountService,
	analysisService *usecase.AnalysisService,
	purchaseService *usecase.PurchaseService,
	bridge *usecase.PurchaseBridge,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ImageLimits.MaxBytes <= 0 {
		cfg.ImageLimits = slipimage.DefaultLimits()
	}
	if cfg.MaxAwait <= 0 {
		cfg.MaxAwait = defaultMaxAwait
	}
	if cfg.StreamHeartbeat <= 0 {
		cfg.StreamHeartbeat = defaultStreamHeartbeat
	}

	return &Handler{
		accountService:  accountService,
		analysisService: analysisService,
		purchaseService: purchaseService,
		bridge:          bridge,
		logger:          logger,
		validator:       validator.New(),
		cfg:             cfg,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListBetTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBetTypes")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.analysisService.BetTypes())
}

func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPackages")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.purchaseService.Catalog())
}
