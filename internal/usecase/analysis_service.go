package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"
	idgen "github.com/riskibarqy/betslip-analyzer/internal/platform/id"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

const (
	defaultEnrichWorkers = 8
	defaultHistoryLimit  = 20
	maxHistoryLimit      = 100
)

type runState string

const (
	stateIdle        runState = "idle"
	stateCreditCheck runState = "credit_check"
	stateDeducting   runState = "deducting"
	stateExtracting  runState = "extracting"
	stateEnriching   runState = "enriching"
	stateAnalyzing   runState = "analyzing"
	statePersisting  runState = "persisting"
	stateDone        runState = "done"
	stateFailed      runState = "failed"
)

type RunAnalysisInput struct {
	UserID  string
	Image   analysis.SlipImage
	BetType analysis.BetType
}

type AnalysisOutcome struct {
	RunID               string
	BetType             analysis.BetType
	Results             []analysis.MatchAnalysis
	NoAnalyzableMatches bool
	RemainingCredits    int
	HistoryEntryID      string
}

type AnalysisDependencies struct {
	Accounts      account.Repository
	Ledger        account.Ledger
	History       analysis.HistoryRepository
	Extractor     MatchExtractor
	Gateway       MatchDataGateway
	Analyzer      MatchAnalyzer
	Snapshots     account.SnapshotBus
	Metrics       MetricsRecorder
	IDGen         idgen.Generator
	Logger        *logging.Logger
	EnrichWorkers int
}

// AnalysisService runs the paid slip pipeline: one credit is spent before any
// provider is contacted and is never refunded.
type AnalysisService struct {
	accounts      account.Repository
	ledger        account.Ledger
	history       analysis.HistoryRepository
	extractor     MatchExtractor
	gateway       MatchDataGateway
	analyzer      MatchAnalyzer
	snapshots     account.SnapshotBus
	metrics       MetricsRecorder
	idGen         idgen.Generator
	logger        *logging.Logger
	enrichWorkers int
	now           func() time.Time
}

func NewAnalysisService(deps AnalysisDependencies) *AnalysisService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	var metrics MetricsRecorder = noopMetrics{}
	if deps.Metrics != nil {
		metrics = deps.Metrics
	}
	workers := deps.EnrichWorkers
	if workers <= 0 {
		workers = defaultEnrichWorkers
	}

	return &AnalysisService{
		accounts:      deps.Accounts,
		ledger:        deps.Ledger,
		history:       deps.History,
		extractor:     deps.Extractor,
		gateway:       deps.Gateway,
		analyzer:      deps.Analyzer,
		snapshots:     deps.Snapshots,
		metrics:       metrics,
		idGen:         deps.IDGen,
		logger:        logger,
		enrichWorkers: workers,
		now:           time.Now,
	}
}

// analysisRun tracks one pipeline pass. Failed is absorbing.
type analysisRun struct {
	id     string
	state  runState
	logger *logging.Logger
}

func (r *analysisRun) enter(ctx context.Context, next runState) {
	if r.state == stateFailed || r.state == stateDone {
		return
	}
	r.logger.DebugContext(ctx, "analysis state transition", "from", string(r.state), "to", string(next))
	r.state = next
}

func (r *analysisRun) fail(ctx context.Context, err error) error {
	if r.state != stateFailed {
		r.logger.WarnContext(ctx, "analysis run failed", "state", string(r.state), "error", err)
		r.state = stateFailed
	}
	return err
}

func (s *AnalysisService) RunAnalysis(ctx context.Context, input RunAnalysisInput) (AnalysisOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.RunAnalysis")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return AnalysisOutcome{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(input.Image.Data) == 0 {
		return AnalysisOutcome{}, fmt.Errorf("%w: slip image is required", ErrInvalidInput)
	}
	if _, ok := input.BetType.Info(); !ok {
		return AnalysisOutcome{}, fmt.Errorf("%w: %v", ErrInvalidInput, analysis.ErrUnknownBetType)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return AnalysisOutcome{}, fmt.Errorf("generate run id: %w", err)
	}
	run := &analysisRun{
		id:     runID,
		state:  stateIdle,
		logger: s.logger.With("run_id", runID, "user_id", input.UserID, "bet_type", string(input.BetType)),
	}

	outcome, err := s.run(ctx, run, input)
	switch {
	case err == nil && outcome.NoAnalyzableMatches:
		s.metrics.AnalysisRun("empty")
	case err == nil:
		s.metrics.AnalysisRun("success")
	default:
		s.metrics.AnalysisRun(outcomeLabel(err))
	}
	return outcome, err
}

func (s *AnalysisService) run(ctx context.Context, run *analysisRun, input RunAnalysisInput) (AnalysisOutcome, error) {
	outcome := AnalysisOutcome{RunID: run.id, BetType: input.BetType}

	run.enter(ctx, stateCreditCheck)
	acc, ok, err := s.accounts.GetByUserID(ctx, input.UserID)
	if err != nil {
		return outcome, run.fail(ctx, fmt.Errorf("get account: %w", err))
	}
	if !ok {
		return outcome, run.fail(ctx, fmt.Errorf("%w: account %s", ErrNotFound, input.UserID))
	}
	if acc.Credits < 1 {
		return outcome, run.fail(ctx, ErrInsufficientCredit)
	}

	run.enter(ctx, stateDeducting)
	acc, err = s.ledger.Deduct(ctx, input.UserID)
	if err != nil {
		s.metrics.LedgerOp("deduct", "error")
		if errors.Is(err, account.ErrAccountNotFound) {
			err = fmt.Errorf("%w: account %s", ErrNotFound, input.UserID)
		}
		return outcome, run.fail(ctx, err)
	}
	s.metrics.LedgerOp("deduct", "ok")
	outcome.RemainingCredits = acc.Credits

	// The credit is spent; the caller going away must not abort the run.
	ctx = context.WithoutCancel(ctx)
	s.publishSnapshot(ctx, acc)

	run.enter(ctx, stateExtracting)
	labels, err := s.extractor.ExtractMatches(ctx, input.Image)
	if err != nil {
		return outcome, run.fail(ctx, fmt.Errorf("%w: extract matches: %v", ErrAnalysisFailed, err))
	}
	s.metrics.AnalysisMatches("extracted", len(labels))
	if len(labels) == 0 {
		return outcome, run.fail(ctx, ErrNoMatchesFound)
	}

	run.enter(ctx, stateEnriching)
	enriched, err := s.enrich(ctx, labels)
	if err != nil {
		return outcome, run.fail(ctx, fmt.Errorf("%w: %v", ErrAnalysisFailed, err))
	}
	s.metrics.AnalysisMatches("enriched", len(enriched))
	if len(enriched) == 0 {
		return outcome, run.fail(ctx, ErrNoLiveData)
	}

	run.enter(ctx, stateAnalyzing)
	results, err := s.analyzer.Analyze(ctx, enriched, input.BetType)
	if err != nil {
		return outcome, run.fail(ctx, fmt.Errorf("%w: analyze matches: %v", ErrAnalysisFailed, err))
	}

	pairing := analysis.MatchResultsToInputs(enriched, results)
	for _, res := range pairing.UnpairedResults {
		run.logger.WarnContext(ctx, "analysis result without matching input", "match", res.Match)
	}
	for _, in := range pairing.UnpairedInputs {
		run.logger.InfoContext(ctx, "input left without analysis", "match", in.Match)
	}
	outcome.Results = pairing.Results()
	s.metrics.AnalysisMatches("analyzed", len(outcome.Results))

	if len(results) == 0 {
		outcome.NoAnalyzableMatches = true
		run.enter(ctx, stateDone)
		return outcome, nil
	}

	run.enter(ctx, statePersisting)
	outcome.HistoryEntryID = s.persist(ctx, run, input, outcome.Results)

	run.enter(ctx, stateDone)
	run.logger.InfoContext(ctx, "analysis run completed",
		"matches", len(outcome.Results),
		"remaining_credits", outcome.RemainingCredits,
	)
	return outcome, nil
}

// enrich resolves every label on the worker pool and keeps the successful
// ones in extraction order.
func (s *AnalysisService) enrich(ctx context.Context, labels []string) ([]matchdata.StructuredMatchData, error) {
	workers := s.enrichWorkers
	if workers > len(labels) {
		workers = len(labels)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create enrich pool: %w", err)
	}
	defer pool.Release()

	resolved := make([]matchdata.StructuredMatchData, len(labels))
	found := make([]bool, len(labels))

	var wg sync.WaitGroup
	for i, label := range labels {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			resolved[i], found[i] = s.gateway.ResolveMatch(ctx, label)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit enrich task: %w", err)
		}
	}
	wg.Wait()

	out := make([]matchdata.StructuredMatchData, 0, len(labels))
	for i := range labels {
		if !found[i] {
			s.logger.InfoContext(ctx, "match skipped during enrichment", "label", labels[i])
			continue
		}
		out = append(out, resolved[i])
	}
	return out, nil
}

func (s *AnalysisService) persist(ctx context.Context, run *analysisRun, input RunAnalysisInput, results []analysis.MatchAnalysis) string {
	if s.history == nil {
		return ""
	}
	entryID, err := s.idGen.NewID()
	if err != nil {
		run.logger.WarnContext(ctx, "history id generation failed", "error", err)
		return ""
	}
	entry := analysis.HistoryEntry{
		ID:        entryID,
		UserID:    input.UserID,
		BetType:   input.BetType,
		Results:   results,
		CreatedAt: s.now().UTC(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		run.logger.WarnContext(ctx, "history append failed", "error", err)
		return ""
	}
	return entryID
}

func (s *AnalysisService) publishSnapshot(ctx context.Context, acc account.Account) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Publish(ctx, acc); err != nil {
		s.logger.WarnContext(ctx, "publish account snapshot failed", "user_id", acc.UserID, "error", err)
	}
}

func (s *AnalysisService) ListHistory(ctx context.Context, userID string, limit int) ([]analysis.HistoryEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.ListHistory")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	entries, err := s.history.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

func (s *AnalysisService) BetTypes() []analysis.BetTypeInfo {
	return analysis.BetTypes()
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientCredit):
		return "insufficient_credit"
	case errors.Is(err, ErrNoMatchesFound):
		return "no_matches"
	case errors.Is(err, ErrNoLiveData):
		return "no_live_data"
	case errors.Is(err, ErrAnalysisFailed):
		return "failed"
	case errors.Is(err, ErrNotFound):
		return "account_not_found"
	default:
		return "error"
	}
}
