package analysis

import (
	"testing"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/matchdata"
)

func TestMatchResultsToInputs_PairsByLabelNotIndex(t *testing.T) {
	t.Parallel()

	inputs := []matchdata.StructuredMatchData{
		{Match: "Galatasaray vs Fenerbahçe", SourceLabel: "GS vs FB"},
		{Match: "Beşiktaş vs Trabzonspor", SourceLabel: "Beşiktaş vs Trabzonspor"},
	}
	// Model answered out of order, with different casing and the slip label.
	results := []MatchAnalysis{
		{Match: "beşiktaş  VS trabzonspor", Prediction: "1", Confidence: ConfidenceMedium},
		{Match: "GS vs FB", Prediction: "X", Confidence: ConfidenceLow},
		{Match: "Ajax vs PSV", Prediction: "2", Confidence: ConfidenceHigh},
	}

	got := MatchResultsToInputs(inputs, results)
	if len(got.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(got.Pairs))
	}
	if got.Pairs[0].Result.Prediction != "X" || got.Pairs[0].Result.Match != "Galatasaray vs Fenerbahçe" {
		t.Fatalf("unexpected first pair: %+v", got.Pairs[0])
	}
	if got.Pairs[1].Result.Prediction != "1" {
		t.Fatalf("unexpected second pair: %+v", got.Pairs[1])
	}
	if len(got.UnpairedResults) != 1 || got.UnpairedResults[0].Match != "Ajax vs PSV" {
		t.Fatalf("unexpected unpaired results: %+v", got.UnpairedResults)
	}
	if len(got.UnpairedInputs) != 0 {
		t.Fatalf("unexpected unpaired inputs: %+v", got.UnpairedInputs)
	}
	r := got.Results()
	if len(r) != 3 || r[0].Prediction != "X" || r[1].Prediction != "1" {
		t.Fatalf("unexpected results order: %+v", r)
	}
	if r[2].Match != "Ajax vs PSV" {
		t.Fatalf("expected unpaired result kept last under its own label, got %+v", r[2])
	}
}

func TestMatchResultsToInputs_DuplicateResultIsUnpaired(t *testing.T) {
	t.Parallel()

	inputs := []matchdata.StructuredMatchData{{Match: "A vs B"}, {Match: "C vs D"}}
	results := []MatchAnalysis{
		{Match: "A vs B", Prediction: "1", Confidence: ConfidenceHigh},
		{Match: "a vs b", Prediction: "2", Confidence: ConfidenceLow},
	}

	got := MatchResultsToInputs(inputs, results)
	if len(got.Pairs) != 1 || got.Pairs[0].Result.Prediction != "1" {
		t.Fatalf("unexpected pairs: %+v", got.Pairs)
	}
	if len(got.UnpairedResults) != 1 {
		t.Fatalf("expected duplicate to be unpaired, got %+v", got.UnpairedResults)
	}
	if len(got.UnpairedInputs) != 1 || got.UnpairedInputs[0].Match != "C vs D" {
		t.Fatalf("unexpected unpaired inputs: %+v", got.UnpairedInputs)
	}
	if r := got.Results(); len(r) != 2 || r[1].Prediction != "2" {
		t.Fatalf("expected duplicate verdict kept, got %+v", r)
	}
}

func TestMatchResultsToInputs_RephrasedLabelIsKept(t *testing.T) {
	t.Parallel()

	inputs := []matchdata.StructuredMatchData{{Match: "Galatasaray vs Fenerbahce", SourceLabel: "GS vs FB"}}
	results := []MatchAnalysis{{Match: "Galatasaray - Fenerbahçe", Prediction: "1", Confidence: ConfidenceHigh}}

	got := MatchResultsToInputs(inputs, results)
	if len(got.Pairs) != 0 || len(got.UnpairedResults) != 1 {
		t.Fatalf("expected rephrased label to stay unpaired, got %+v", got)
	}
	r := got.Results()
	if len(r) != 1 || r[0].Match != "Galatasaray - Fenerbahçe" {
		t.Fatalf("expected verdict under the model label, got %+v", r)
	}
}
