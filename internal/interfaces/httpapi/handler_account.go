package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterAccount")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	acc, err := h.accountService.Register(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "register account failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountToDTO(acc))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAccount")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	acc, err := h.accountService.Get(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountToDTO(acc))
}

// StreamAccount pushes the caller's balance as server-sent events: the
// current snapshot first, then every change, with comment heartbeats.
func (h *Handler) StreamAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamAccount")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: streaming unsupported", usecase.ErrDependencyUnavailable))
		return
	}

	snapshots, err := h.accountService.Subscribe(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(h.cfg.StreamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case acc, open := <-snapshots:
			if !open {
				return
			}
			if err := writeAccountEvent(w, acc); err != nil {
				h.logger.WarnContext(ctx, "write account event failed", "user_id", principal.UserID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeAccountEvent(w http.ResponseWriter, acc account.Account) error {
	payload, err := sonic.Marshal(accountToDTO(acc))
	if err != nil {
		return fmt.Errorf("encode account event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: account\ndata: %s\n\n", payload)
	return err
}
