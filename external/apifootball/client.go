package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/cache"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/resilience"
)

const (
	providerName       = "apifootball"
	defaultBaseURL     = "https://v3.football.api-sports.io"
	defaultHost        = "v3.football.api-sports.io"
	defaultCallTimeout = 10 * time.Second
	defaultTeamTTL     = 6 * time.Hour
	recentFixtureLimit = "10"
	maxResponseBytes   = 6 << 20
)

var (
	errTransient     = crerr.New("api-football transient failure")
	errProviderError = crerr.New("api-football reported errors")
	errTeamNotFound  = stderrors.New("team not found")
)

// CallObserver receives one event per outbound call.
type CallObserver interface {
	ProviderCall(provider, kind, outcome string)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Host           string
	APIKey         string
	Timeout        time.Duration
	TeamCacheTTL   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	OnBreakerState resilience.StateFunc
	Observer       CallObserver
}

// Client resolves slip labels into statistics bundles. Every fetch degrades
// to an empty list so that one failing endpoint never drops a match.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.Breaker
	observer   CallObserver
	teams      *cache.Store[Team]
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	teamTTL := cfg.TeamCacheTTL
	if teamTTL <= 0 {
		teamTTL = defaultTeamTTL
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		logger:     logger,
		breaker:    resilience.NewBreaker(providerName, cfg.CircuitBreaker, cfg.OnBreakerState),
		observer:   cfg.Observer,
		teams:      cache.NewStore[Team](teamTTL),
		now:        time.Now,
	}
}

// ResolveMatch turns "Home vs Away" into a statistics bundle. It returns
// false when the label is malformed or either team cannot be resolved.
func (c *Client) ResolveMatch(ctx context.Context, label string) (matchdata.StructuredMatchData, bool) {
	homeName, awayName, ok := matchdata.SplitLabel(label)
	if !ok {
		c.logger.WarnContext(ctx, "skip match with unparseable label", "label", label)
		return matchdata.StructuredMatchData{}, false
	}

	var (
		home, away     Team
		homeOK, awayOK bool
	)
	lookups := conc.NewWaitGroup()
	lookups.Go(func() { home, homeOK = c.lookupTeam(ctx, homeName) })
	lookups.Go(func() { away, awayOK = c.lookupTeam(ctx, awayName) })
	if recovered := lookups.WaitAndRecover(); recovered != nil {
		c.logger.ErrorContext(ctx, "team lookup panicked", "label", label, "panic", recovered.String())
		return matchdata.StructuredMatchData{}, false
	}
	if !homeOK || !awayOK {
		c.logger.WarnContext(ctx, "skip match with unresolved team", "label", label, "home_found", homeOK, "away_found", awayOK)
		return matchdata.StructuredMatchData{}, false
	}

	out := matchdata.StructuredMatchData{
		Match:       matchdata.FormatLabel(home.Name, away.Name),
		SourceLabel: label,
		HomeTeamID:  home.ID,
		AwayTeamID:  away.ID,
	}
	today := c.now().UTC().Format(time.DateOnly)

	fetches := conc.NewWaitGroup()
	fetches.Go(func() {
		out.Data.H2H = c.fetchFixtures(ctx, matchdata.KindH2H, "/fixtures/headtohead", url.Values{
			"h2h":  {fmt.Sprintf("%d-%d", home.ID, away.ID)},
			"last": {recentFixtureLimit},
		})
	})
	fetches.Go(func() {
		out.Data.HomeTeamLast10 = c.fetchFixtures(ctx, matchdata.KindHomeLast10, "/fixtures", teamQuery(home.ID, "last", recentFixtureLimit))
	})
	fetches.Go(func() {
		out.Data.AwayTeamLast10 = c.fetchFixtures(ctx, matchdata.KindAwayLast10, "/fixtures", teamQuery(away.ID, "last", recentFixtureLimit))
	})
	fetches.Go(func() {
		out.Data.Injuries.Home = c.fetchInjuries(ctx, matchdata.KindHomeInjuries, teamQuery(home.ID, "date", today))
	})
	fetches.Go(func() {
		out.Data.Injuries.Away = c.fetchInjuries(ctx, matchdata.KindAwayInjuries, teamQuery(away.ID, "date", today))
	})
	if recovered := fetches.WaitAndRecover(); recovered != nil {
		c.logger.ErrorContext(ctx, "match data fetch panicked", "label", label, "panic", recovered.String())
	}

	fillEmpty(&out.Data)
	return out, true
}

// SearchTeam returns the first provider match for name.
func (c *Client) SearchTeam(ctx context.Context, name string) (Team, error) {
	var payload teamsEnvelope
	if err := c.get(ctx, "team_search", "/teams", url.Values{"search": {name}}, &payload); err != nil {
		return Team{}, err
	}
	if len(payload.Response) == 0 {
		return Team{}, fmt.Errorf("%w: %s", errTeamNotFound, name)
	}
	return payload.Response[0].Team, nil
}

func (c *Client) lookupTeam(ctx context.Context, name string) (Team, bool) {
	key := "team:" + strings.ToLower(strings.TrimSpace(name))
	team, err := c.teams.GetOrLoad(ctx, key, func(ctx context.Context) (Team, error) {
		return c.SearchTeam(ctx, name)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "team lookup failed", "team", name, "error", err)
		return Team{}, false
	}
	return team, true
}

func (c *Client) fetchFixtures(ctx context.Context, kind matchdata.Kind, path string, query url.Values) []matchdata.Fixture {
	var payload fixturesEnvelope
	if err := c.get(ctx, string(kind), path, query, &payload); err != nil {
		c.logger.WarnContext(ctx, "match data fetch degraded to empty", "kind", kind, "error", err)
		return []matchdata.Fixture{}
	}
	return payload.Response
}

func (c *Client) fetchInjuries(ctx context.Context, kind matchdata.Kind, query url.Values) []matchdata.Injury {
	var payload injuriesEnvelope
	if err := c.get(ctx, string(kind), "/injuries", query, &payload); err != nil {
		c.logger.WarnContext(ctx, "match data fetch degraded to empty", "kind", kind, "error", err)
		return []matchdata.Injury{}
	}
	return payload.Response
}

// get performs one attempt bounded by the per-call timeout and decodes the
// envelope into target. Provider-reported errors are failures.
func (c *Client) get(ctx context.Context, kind, path string, query url.Values, target interface{ providerErrors() (any, bool) }) error {
	if err := c.breaker.Allow(); err != nil {
		c.observe(kind, "circuit_open")
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.execute(callCtx, path, query)
	if err != nil {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		c.observe(kind, outcomeFor(callCtx, err))
		return err
	}
	c.breaker.RecordSuccess()

	if err := sonic.Unmarshal(raw, target); err != nil {
		c.observe(kind, "decode_error")
		return fmt.Errorf("decode provider payload: %w", err)
	}
	if detail, failed := target.providerErrors(); failed {
		c.observe(kind, "provider_error")
		return fmt.Errorf("%w: %s", errProviderError, sanitizeSensitiveText(fmt.Sprint(detail), c.apiKey))
	}

	c.observe(kind, "ok")
	return nil
}

func (c *Client) execute(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(fmt.Errorf("send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey)), errTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Mark(fmt.Errorf("read response body: %w", err), errTransient)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("provider status=%d path=%s body=%s", resp.StatusCode, path, abbreviateBody(raw))
		if isRetryableStatus(resp.StatusCode) {
			return nil, crerr.Mark(statusErr, errTransient)
		}
		return nil, statusErr
	}

	return raw, nil
}

func (c *Client) observe(kind, outcome string) {
	if c.observer != nil {
		c.observer.ProviderCall(providerName, kind, outcome)
	}
}

func teamQuery(teamID int64, key, value string) url.Values {
	return url.Values{
		"team": {strconv.FormatInt(teamID, 10)},
		key:    {value},
	}
}

func fillEmpty(stats *matchdata.Stats) {
	if stats.H2H == nil {
		stats.H2H = []matchdata.Fixture{}
	}
	if stats.HomeTeamLast10 == nil {
		stats.HomeTeamLast10 = []matchdata.Fixture{}
	}
	if stats.AwayTeamLast10 == nil {
		stats.AwayTeamLast10 = []matchdata.Fixture{}
	}
	if stats.Injuries.Home == nil {
		stats.Injuries.Home = []matchdata.Injury{}
	}
	if stats.Injuries.Away == nil {
		stats.Injuries.Away = []matchdata.Injury{}
	}
}

func outcomeFor(ctx context.Context, err error) string {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	if isCircuitFailure(err) {
		return "transient_error"
	}
	return "error"
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if secret != "" {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
