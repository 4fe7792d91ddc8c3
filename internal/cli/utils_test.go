package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shoplore/shoplore/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:          "pensil store",
		CorrectedQuery: "pencil store",
		Total:          1,
		QueryTime:      4,
		Results: []*models.SearchResult{
			{
				Listing: &models.Listing{
					ID:          "l1",
					Name:        "Pencil Store",
					Description: "Pencils, erasers and sharpeners for every budget",
					Category:    "stationery",
					Rating:      4.5,
					IsVerified:  true,
				},
				Score: 12045.5,
				Rank:  1,
			},
		},
	}
}

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Found 1 results",
		"pencil store",
		"Pencil Store",
		"stationery",
		"verified",
		"rating 4.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults() error = %v", err)
	}

	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 1 || len(decoded.Results) != 1 {
		t.Errorf("decoded = %+v, want 1 result", decoded)
	}
	if decoded.Results[0].Listing.Name != "Pencil Store" {
		t.Errorf("listing name = %q", decoded.Results[0].Listing.Name)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"hello", 0, "hello"},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		s        string
		maxWords int
		want     string
	}{
		{"one two three", 5, "one two three"},
		{"one two three four", 2, "one two..."},
		{"", 2, ""},
	}
	for _, tt := range tests {
		if got := TruncateWords(tt.s, tt.maxWords); got != tt.want {
			t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
		}
	}
}
