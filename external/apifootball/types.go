package apifootball

import "github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"

// envelope is the api-football v3 response wrapper. errors is an empty
// array on success and an object keyed by field on failure.
type envelope[T any] struct {
	Errors   any `json:"errors"`
	Results  int `json:"results"`
	Response T   `json:"response"`
}

func (e envelope[T]) providerErrors() (any, bool) {
	switch v := e.Errors.(type) {
	case nil:
		return nil, false
	case []any:
		return v, len(v) > 0
	case map[string]any:
		return v, len(v) > 0
	case string:
		return v, v != ""
	default:
		return v, true
	}
}

type teamItem struct {
	Team Team `json:"team"`
}

// Team is a provider team as returned by /teams.
type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type (
	fixturesEnvelope = envelope[[]matchdata.Fixture]
	injuriesEnvelope = envelope[[]matchdata.Injury]
	teamsEnvelope    = envelope[[]teamItem]
)
