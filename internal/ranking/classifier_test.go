package ranking

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shoplore/shoplore/internal/models"
)

func hitNamed(name string, score float64) *models.SearchHit {
	return &models.SearchHit{
		ID:     name,
		Score:  score,
		Source: &models.ListingSource{Name: name},
	}
}

func TestClassify(t *testing.T) {
	cls := NewClassifier(nil)

	tests := []struct {
		name       string
		hitName    string
		score      float64
		query      string
		correction *models.Correction
		wantTier   Tier
		wantType   string
	}{
		{"perfect match", "Pencil Store", 0, "pencil store", nil, TierExact, MatchPerfect},
		{"perfect match case insensitive", "PENCIL STORE", 0, "Pencil Store", nil, TierExact, MatchPerfect},
		{"prefix match", "Pencil Store Downtown", 0, "pencil store", nil, TierExact, MatchPrefix},
		{"substring match", "The Pencil Store", 0, "pencil store", nil, TierExact, MatchSubstring},
		{"all words match", "Store of Pencil", 0, "pencil store", nil, TierExact, MatchAllWords},
		{"all words via token prefix", "Pencils and Stores", 0, "pencil store", nil, TierExact, MatchAllWords},
		{"fuzzy whole name", "Pensil", 0, "pencil", nil, TierClose, MatchFuzzy},
		{"fuzzy word in name", "The Pensil Shop", 0, "pencil", nil, TierClose, MatchFuzzyWord},
		{"similarity", "Masters", 0, "stream", nil, TierClose, MatchSimilarity},
		{"partial words", "Pensil Stoore Quixotic Zebra Workshop", 0, "pencil store", nil, TierClose, MatchPartialWords},
		{"high text score", "Zzz Qqq", 7.5, "pencil", nil, TierClose, MatchHighTextScore},
		{"no match", "Zzz Qqq", 1.0, "pencil", nil, TierOther, MatchOther},
		{"empty name", "", 0, "pencil", nil, TierOther, MatchOther},
		{
			"typo corrected perfect",
			"Pencil", 0, "pensil",
			&models.Correction{OriginalQuery: "pensil", CorrectedQuery: "pencil", Confidence: 0.8},
			TierClose, MatchTypoCorrectedPrefix + MatchPerfect,
		},
		{
			"typo corrected prefix",
			"Pencil Store", 0, "pensil",
			&models.Correction{OriginalQuery: "pensil", CorrectedQuery: "pencil", Confidence: 0.7},
			TierClose, MatchTypoCorrectedPrefix + MatchPrefix,
		},
		{
			"unchanged correction is ignored",
			"Zzz Qqq", 0, "pencil",
			&models.Correction{OriginalQuery: "pencil", CorrectedQuery: "pencil", Confidence: 1},
			TierOther, MatchOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cls.Classify(hitNamed(tt.hitName, tt.score), tt.query, tt.correction)
			if got.Tier != tt.wantTier {
				t.Errorf("tier = %v, want %v", got.Tier, tt.wantTier)
			}
			if got.MatchType != tt.wantType {
				t.Errorf("match type = %q, want %q", got.MatchType, tt.wantType)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("confidence %v out of [0,1]", got.Confidence)
			}
		})
	}
}

func TestClassifyConfidences(t *testing.T) {
	cls := NewClassifier(nil)

	// Perfect match has full confidence.
	if got := cls.Classify(hitNamed("Pencil", 0), "pencil", nil); got.Confidence != 1.0 {
		t.Errorf("perfect confidence = %v, want 1.0", got.Confidence)
	}

	// Fuzzy confidence is 1 - distance/len(query): "pensil" is one edit from
	// the six-rune query "pencil".
	got := cls.Classify(hitNamed("Pensil", 0), "pencil", nil)
	want := 1 - 1.0/6.0
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("fuzzy confidence = %v, want %v", got.Confidence, want)
	}
	if got.Details.EditDistance != 1 {
		t.Errorf("edit distance = %d, want 1", got.Details.EditDistance)
	}

	// Typo-corrected matches carry the correction's confidence.
	corr := &models.Correction{OriginalQuery: "pensil", CorrectedQuery: "pencil", Confidence: 0.8}
	got = cls.Classify(hitNamed("Pencil", 0), "pensil", corr)
	if got.Confidence != 0.8 {
		t.Errorf("typo-corrected confidence = %v, want 0.8", got.Confidence)
	}
	if !got.Details.IsTypoCorrection {
		t.Error("expected IsTypoCorrection detail")
	}

	// High-text-score confidence is min(1, score/10).
	got = cls.Classify(hitNamed("Zzz Qqq", 7.5), "pencil", nil)
	if got.Confidence != 0.75 {
		t.Errorf("high text score confidence = %v, want 0.75", got.Confidence)
	}
	got = cls.Classify(hitNamed("Zzz Qqq", 25), "pencil", nil)
	if got.Confidence != 1.0 {
		t.Errorf("high text score confidence = %v, want capped 1.0", got.Confidence)
	}
}

func TestClassifyTotality(t *testing.T) {
	cls := NewClassifier(nil)

	// Malformed hits are treated as empty names, never panic.
	cases := []*models.SearchHit{
		nil,
		{},
		{Source: &models.ListingSource{}},
	}
	for i, hit := range cases {
		got := cls.Classify(hit, "pencil", nil)
		if got.Tier != TierOther {
			t.Errorf("case %d: tier = %v, want TierOther", i, got.Tier)
		}
	}
}

func TestClassifyDeterminism(t *testing.T) {
	cls := NewClassifier(nil)
	hit := hitNamed("Pensil Store", 3.2)
	first := cls.Classify(hit, "pencil store", nil)
	for i := 0; i < 50; i++ {
		if got := cls.Classify(hit, "pencil store", nil); got != first {
			t.Fatalf("classification changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestClassifyBatchMatchesSequential(t *testing.T) {
	cfg := DefaultRankingConfig()
	cfg.ParallelThreshold = 10
	cfg.ChunkSize = 10
	cls := NewClassifier(cfg)

	names := []string{"Pencil Store", "Pensil Store", "The Pencil Store", "Bakery", "Zzz"}
	hits := make([]*models.SearchHit, 200)
	for i := range hits {
		hits[i] = &models.SearchHit{
			ID:    fmt.Sprintf("hit-%d", i),
			Score: float64(i % 12),
			Source: &models.ListingSource{
				Name:      fmt.Sprintf("%s %d", names[i%len(names)], i),
				UpdatedAt: time.Now().Add(-time.Duration(i) * 24 * time.Hour),
			},
		}
	}

	batch := cls.ClassifyBatch(hits, "pencil store", nil)
	if len(batch) != len(hits) {
		t.Fatalf("batch size = %d, want %d", len(batch), len(hits))
	}
	for i, hit := range hits {
		want := cls.Classify(hit, "pencil store", nil)
		if batch[i] != want {
			t.Errorf("hit %d: batch = %+v, sequential = %+v", i, batch[i], want)
		}
	}
}

func TestClassifyBatchSmallStaysSequential(t *testing.T) {
	cls := NewClassifier(nil)
	hits := []*models.SearchHit{
		hitNamed("Pencil", 0),
		hitNamed("Pensil", 0),
	}
	got := cls.ClassifyBatch(hits, "pencil", nil)
	if got[0].Tier != TierExact || got[1].Tier != TierClose {
		t.Errorf("unexpected tiers: %v, %v", got[0].Tier, got[1].Tier)
	}
}

func TestFuzzyBound(t *testing.T) {
	tests := []struct {
		queryLen int
		want     int
	}{
		{1, 1},
		{3, 1},
		{4, 2},
		{6, 2},
		{7, 3},
		{9, 3},
		{12, 3},
		{30, 3},
	}
	for _, tt := range tests {
		if got := fuzzyBound(tt.queryLen); got != tt.want {
			t.Errorf("fuzzyBound(%d) = %d, want %d", tt.queryLen, got, tt.want)
		}
	}
}
