package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrModelCall marks a failed generative-model request.
	ErrModelCall         = errors.New("model call failed")
	// ErrResponseParse marks a model response that is not the requested JSON shape.
	ErrResponseParse     = errors.New("model response parse failed")
	ErrUnknownBetType    = errors.New("unknown bet type")
	ErrUnknownConfidence = errors.New("unknown confidence")
)

type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Rank orders confidence tiers, Low < Medium < High. Unknown values rank 0.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	default:
		return 0
	}
}

func ParseConfidence(raw string) (Confidence, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return ConfidenceLow, nil
	case "medium":
		return ConfidenceMedium, nil
	case "high":
		return ConfidenceHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConfidence, raw)
	}
}

// MatchAnalysis is one model verdict. Match carries the label the model
// answered for; it is the join key back to the enriched inputs.
type MatchAnalysis struct {
	Match      string     `json:"match"`
	Prediction string     `json:"prediction"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

func (m MatchAnalysis) Validate() error {
	if strings.TrimSpace(m.Match) == "" {
		return fmt.Errorf("analysis match is required")
	}
	if strings.TrimSpace(m.Prediction) == "" {
		return fmt.Errorf("analysis prediction is required for %s", m.Match)
	}
	if m.Confidence.Rank() == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownConfidence, m.Confidence)
	}

	return nil
}

// HistoryEntry is an append-only record of one successful run.
type HistoryEntry struct {
	ID        string
	UserID    string
	BetType   BetType
	Results   []MatchAnalysis
	CreatedAt time.Time
}

// SlipImage is an uploaded betting slip after size and format bounding.
type SlipImage struct {
	Data     []byte
	MimeType string
}
