package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/config"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

func TestSideServers_DisabledReturnNil(t *testing.T) {
	t.Parallel()

	cfg := config.Config{PprofEnabled: false, MetricsEnabled: false}
	if srv := StartPprofServer(cfg, logging.NewNop()); srv != nil {
		t.Fatalf("expected nil pprof server when disabled")
	}
	if srv := StartMetricsServer(cfg, http.NotFoundHandler(), logging.NewNop()); srv != nil {
		t.Fatalf("expected nil metrics server when disabled")
	}
	if err := StopServer(nil, logging.NewNop(), time.Second); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}
