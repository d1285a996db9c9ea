package matchdata

import "testing"

func TestSplitLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		label    string
		wantHome string
		wantAway string
		wantOK   bool
	}{
		{name: "lower separator", label: "Fenerbahçe vs Galatasaray", wantHome: "Fenerbahçe", wantAway: "Galatasaray", wantOK: true},
		{name: "upper separator", label: "Arsenal VS Chelsea", wantHome: "Arsenal", wantAway: "Chelsea", wantOK: true},
		{name: "mixed separator padded", label: "  Real Madrid   Vs  Barcelona ", wantHome: "Real Madrid", wantAway: "Barcelona", wantOK: true},
		{name: "no separator", label: "Arsenal - Chelsea", wantOK: false},
		{name: "separator without spaces", label: "ArsenalvsChelsea", wantOK: false},
		{name: "three teams", label: "A vs B vs C", wantOK: false},
		{name: "empty side", label: " vs Chelsea", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			home, away, ok := SplitLabel(tc.label)
			if ok != tc.wantOK {
				t.Fatalf("unexpected ok: got=%v want=%v", ok, tc.wantOK)
			}
			if home != tc.wantHome || away != tc.wantAway {
				t.Fatalf("unexpected split: got=%q/%q want=%q/%q", home, away, tc.wantHome, tc.wantAway)
			}
		})
	}
}

func TestLabelKeyNormalizesCaseAndSpacing(t *testing.T) {
	t.Parallel()

	if LabelKey("Arsenal  VS Chelsea") != LabelKey("arsenal vs chelsea") {
		t.Fatalf("expected equal label keys")
	}
	if LabelKey("Arsenal vs Chelsea") == LabelKey("Chelsea vs Arsenal") {
		t.Fatalf("expected home/away order to matter")
	}
}
