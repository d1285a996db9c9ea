package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/resilience"
)

const (
	providerName     = "gemini"
	defaultBaseURL   = "https://generativelanguage.googleapis.com"
	defaultModel     = "gemini-flash-latest"
	defaultTimeout   = 60 * time.Second
	defaultMaxLabels = 20
	maxResponseBytes = 4 << 20
)

var errTransient = crerr.New("gemini transient failure")

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?[ \t]*\n?")
	trailingFence = regexp.MustCompile("\n?```$")
)

type CallObserver interface {
	ProviderCall(provider, kind, outcome string)
}

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxMatches     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	OnBreakerState resilience.StateFunc
	Observer       CallObserver
}

// Client drives the two generative stages: reading match labels from a slip
// image and producing one verdict per enriched match.
type Client struct {
	httpClient *fasthttp.Client
	endpoint   string
	apiKey     string
	timeout    time.Duration
	maxMatches int
	logger     *logging.Logger
	breaker    *resilience.Breaker
	observer   CallObserver
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "betslip-analyzer",
			MaxResponseBodySize: maxResponseBytes,
			ReadTimeout:         defaultTimeout,
			WriteTimeout:        defaultTimeout,
		}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxMatches := cfg.MaxMatches
	if maxMatches <= 0 {
		maxMatches = defaultMaxLabels
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   fmt.Sprintf("%s/v1beta/models/%s:generateContent", baseURL, model),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		maxMatches: maxMatches,
		logger:     logger,
		breaker:    resilience.NewBreaker(providerName, cfg.CircuitBreaker, cfg.OnBreakerState),
		observer:   cfg.Observer,
	}
}

// ExtractMatches reads "Home vs Away" labels from a slip image. An empty
// list is a valid answer.
func (c *Client) ExtractMatches(ctx context.Context, image analysis.SlipImage) ([]string, error) {
	if len(image.Data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", analysis.ErrModelCall)
	}

	text, err := c.generate(ctx, "extract", generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: image.MimeType, Data: image.Data}},
				{Text: extractionInstruction},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   extractionSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var payload extractionPayload
	if err := sonic.UnmarshalString(text, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode match list: %v", analysis.ErrResponseParse, err)
	}
	if payload.Matches == nil {
		return nil, fmt.Errorf("%w: matches field missing", analysis.ErrResponseParse)
	}

	// Repeated labels stay: a slip may list one match for several bet lines.
	labels := make([]string, 0, len(*payload.Matches))
	for _, raw := range *payload.Matches {
		if label := strings.TrimSpace(raw); label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) > c.maxMatches {
		c.logger.WarnContext(ctx, "extracted match list truncated", "extracted", len(labels), "max", c.maxMatches)
		labels = labels[:c.maxMatches]
	}

	return labels, nil
}

// Analyze asks for one verdict per match. Output order follows the model.
func (c *Client) Analyze(ctx context.Context, matches []matchdata.StructuredMatchData, betType analysis.BetType) ([]analysis.MatchAnalysis, error) {
	matchJSON, err := sonic.ConfigStd.MarshalIndent(matches, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode match data: %w", err)
	}

	text, err := c.generate(ctx, "analyze", generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: analysisPrompt(betType, matchJSON)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var items []analysisPayloadItem
	if err := sonic.UnmarshalString(text, &items); err != nil {
		return nil, fmt.Errorf("%w: decode analysis list: %v", analysis.ErrResponseParse, err)
	}

	out := make([]analysis.MatchAnalysis, 0, len(items))
	for i, item := range items {
		confidence, err := analysis.ParseConfidence(item.Confidence)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", analysis.ErrResponseParse, i, err)
		}
		result := analysis.MatchAnalysis{
			Match:      strings.TrimSpace(item.Match),
			Prediction: strings.TrimSpace(item.Prediction),
			Confidence: confidence,
			Reasoning:  strings.TrimSpace(item.Reasoning),
		}
		if err := result.Validate(); err != nil {
			c.logger.WarnContext(ctx, "skipping incomplete analysis item", "index", i, "match", result.Match, "error", err)
			continue
		}
		out = append(out, result)
	}

	return out, nil
}

// generate posts one generateContent call and returns the candidate text
// with any markdown code fence removed.
func (c *Client) generate(ctx context.Context, kind string, payload generateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrModelCall, err)
	}
	if err := c.breaker.Allow(); err != nil {
		c.observe(kind, "circuit_open")
		return "", fmt.Errorf("%w: %v", analysis.ErrModelCall, err)
	}

	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	if err := sonic.ConfigDefault.NewEncoder(body).Encode(payload); err != nil {
		c.breaker.RecordSuccess()
		return "", fmt.Errorf("encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.SetBodyRaw(body.B)

	started := time.Now()
	raw, err := c.do(ctx, req, resp)
	if err != nil {
		if crerr.Is(err, errTransient) {
			c.breaker.RecordFailure()
			c.observe(kind, "transient_error")
		} else {
			c.breaker.RecordSuccess()
			c.observe(kind, "error")
		}
		c.logger.WarnContext(ctx, "gemini call failed", "kind", kind, "duration_ms", time.Since(started).Milliseconds(), "error", err)
		return "", fmt.Errorf("%w: %v", analysis.ErrModelCall, err)
	}
	c.breaker.RecordSuccess()

	var decoded generateResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		c.observe(kind, "decode_error")
		return "", fmt.Errorf("%w: decode envelope: %v", analysis.ErrModelCall, err)
	}
	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		c.observe(kind, "blocked")
		return "", fmt.Errorf("%w: prompt blocked: %s", analysis.ErrModelCall, decoded.PromptFeedback.BlockReason)
	}
	if len(decoded.Candidates) == 0 {
		c.observe(kind, "no_candidate")
		return "", fmt.Errorf("%w: no candidates returned", analysis.ErrModelCall)
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	cleaned := StripCodeFence(text.String())
	if cleaned == "" {
		c.observe(kind, "empty")
		return "", fmt.Errorf("%w: empty response text (finish=%s)", analysis.ErrResponseParse, decoded.Candidates[0].FinishReason)
	}

	c.observe(kind, "ok")
	c.logger.DebugContext(ctx, "gemini call finished", "kind", kind, "duration_ms", time.Since(started).Milliseconds())
	return cleaned, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) ([]byte, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, crerr.Mark(fmt.Errorf("deadline exceeded before send"), errTransient)
	}

	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return nil, crerr.Mark(fmt.Errorf("send request: %s", redact(err.Error(), c.apiKey)), errTransient)
	}

	status := resp.StatusCode()
	raw := append([]byte(nil), resp.Body()...)
	if status >= 200 && status < 300 {
		return raw, nil
	}

	detail := abbreviate(string(raw))
	var apiErr errorResponse
	if sonic.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		detail = apiErr.Error.Status + ": " + apiErr.Error.Message
	}
	statusErr := fmt.Errorf("status=%d %s", status, redact(detail, c.apiKey))
	if status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError {
		return nil, crerr.Mark(statusErr, errTransient)
	}
	return nil, statusErr
}

func (c *Client) observe(kind, outcome string) {
	if c.observer != nil {
		c.observer.ProviderCall(providerName, kind, outcome)
	}
}

// StripCodeFence removes a surrounding markdown code fence, with or without
// a json language tag, from model output.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func redact(value, secret string) string {
	if secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}

func abbreviate(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
