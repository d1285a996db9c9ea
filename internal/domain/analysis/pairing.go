package analysis

import "github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"

// Pair joins one verdict to the statistics it was produced from.
type Pair struct {
	Input  matchdata.StructuredMatchData
	Result MatchAnalysis
}

type Pairing struct {
	Pairs           []Pair
	UnpairedResults []MatchAnalysis
	UnpairedInputs  []matchdata.StructuredMatchData
}

// MatchResultsToInputs joins results to inputs by label key. A result may
// name either the provider label or the label read from the slip. Pairs keep
// input order; each input takes at most one result.
func MatchResultsToInputs(inputs []matchdata.StructuredMatchData, results []MatchAnalysis) Pairing {
	byKey := make(map[string]int, len(inputs)*2)
	for i, in := range inputs {
		for _, label := range []string{in.Match, in.SourceLabel} {
			if label == "" {
				continue
			}
			key := matchdata.LabelKey(label)
			if _, taken := byKey[key]; !taken {
				byKey[key] = i
			}
		}
	}

	assigned := make([]*MatchAnalysis, len(inputs))
	var out Pairing
	for _, res := range results {
		idx, ok := byKey[matchdata.LabelKey(res.Match)]
		if !ok || assigned[idx] != nil {
			out.UnpairedResults = append(out.UnpairedResults, res)
			continue
		}
		res.Match = inputs[idx].Match
		assigned[idx] = &res
	}

	for i, in := range inputs {
		if assigned[i] == nil {
			out.UnpairedInputs = append(out.UnpairedInputs, in)
			continue
		}
		out.Pairs = append(out.Pairs, Pair{Input: in, Result: *assigned[i]})
	}
	return out
}

// Results returns the paired verdicts in input order, followed by the
// unpaired ones under the model's own label.
func (p Pairing) Results() []MatchAnalysis {
	out := make([]MatchAnalysis, 0, len(p.Pairs)+len(p.UnpairedResults))
	for _, pair := range p.Pairs {
		out = append(out, pair.Result)
	}
	return append(out, p.UnpairedResults...)
}
