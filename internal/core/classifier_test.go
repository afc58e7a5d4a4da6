package core

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"chicken delivery", Food},
		{"Subway fare", Transport},
		{"지하철", Transport},
		{"아메리카노 커피", Food},
		{"online shoes", Shopping},
		{"electric bill", Living},
		{"약국", Medical},
		{"textbook", Education},
		{"movie ticket", Entertainment},
		{"", Other},
		{"stapler", Other},
		// Food and Transport both score 1; Food is declared first.
		{"coffee on the bus", Food},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.name); got != tc.want {
				t.Fatalf("Classify(%q) = %s, want %s", tc.name, got, tc.want)
			}
		})
	}
}

func TestClassifyCountsEachKeywordOnce(t *testing.T) {
	// coffee appears three times but only counts once, so the two
	// distinct Transport keywords win.
	if got := Classify("coffee coffee coffee taxi parking"); got != Transport {
		t.Fatalf("expected Transport, got %s", got)
	}
}

func TestScores(t *testing.T) {
	scores := Scores("pizza delivery")
	if len(scores) != len(Categories)-1 {
		t.Fatalf("expected a score per keyword category, got %d", len(scores))
	}
	if scores[0].Category != Food || scores[0].Score != 2 {
		t.Fatalf("expected Food=2, got %+v", scores[0])
	}
	for _, s := range scores[1:] {
		if s.Score != 0 {
			t.Fatalf("expected zero score for %s, got %d", s.Category, s.Score)
		}
	}
}

func TestKeywordsOtherIsEmpty(t *testing.T) {
	if kws := Keywords(Other); len(kws) != 0 {
		t.Fatalf("Other should have no keywords, got %v", kws)
	}
	if kws := Keywords(Food); len(kws) == 0 {
		t.Fatalf("Food should have keywords")
	}
}
