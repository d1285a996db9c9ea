package usecase

import (
	"context"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
)

// MatchExtractor reads match labels from a slip image.
type MatchExtractor interface {
	ExtractMatches(ctx context.Context, image analysis.SlipImage) ([]string, error)
}

// MatchDataGateway resolves one label into statistics. ok is false when the
// label is malformed or a team cannot be found; partial data still counts.
type MatchDataGateway interface {
	ResolveMatch(ctx context.Context, label string) (matchdata.StructuredMatchData, bool)
}

type MatchAnalyzer interface {
	Analyze(ctx context.Context, matches []matchdata.StructuredMatchData, betType analysis.BetType) ([]analysis.MatchAnalysis, error)
}

// StoreVerifier talks to the mobile store's purchase API.
type StoreVerifier interface {
	GetProductPurchase(ctx context.Context, sku, purchaseToken string) (purchase.StoreReceipt, error)
	Acknowledge(ctx context.Context, sku, purchaseToken string) error
	Consume(ctx context.Context, sku, purchaseToken string) error
}

type MetricsRecorder interface {
	AnalysisRun(outcome string)
	AnalysisMatches(stage string, count int)
	LedgerOp(op, outcome string)
	CreditsGranted(channel string, credits int)
	Purchase(channel, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) AnalysisRun(string)          {}
func (noopMetrics) AnalysisMatches(string, int) {}
func (noopMetrics) LedgerOp(string, string)     {}
func (noopMetrics) CreditsGranted(string, int)  {}
func (noopMetrics) Purchase(string, string)     {}
