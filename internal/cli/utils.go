// Package cli provides CLI utilities for Shoplore.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shoplore/shoplore/internal/models"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n", response.Total, response.QueryTime)
	if response.CorrectedQuery != "" {
		fmt.Fprintf(w, "Showing results for %q (searched for %q)\n", response.CorrectedQuery, response.Query)
	}
	fmt.Fprintln(w)
	for _, result := range response.Results {
		writeOneResult(w, result)
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.1f\n", result.Rank, result.Score)
	if result.Listing != nil {
		fmt.Fprintf(w, "ID: %s\n", result.Listing.ID)
		fmt.Fprintf(w, "Name: %s\n", result.Listing.Name)
		if result.Listing.Category != "" {
			fmt.Fprintf(w, "Category: %s\n", result.Listing.Category)
		}
		badges := listingBadges(result.Listing)
		if badges != "" {
			fmt.Fprintf(w, "%s\n", badges)
		}
		if result.Listing.Description != "" {
			fmt.Fprintf(w, "\n%s\n", Truncate(result.Listing.Description, 200))
		}
	}
	if result.RankDebug != nil {
		fmt.Fprintf(w, "Match: %s (%s, confidence %.2f)\n",
			result.RankDebug.MatchType, result.RankDebug.Tier, result.RankDebug.Confidence)
	}
	fmt.Fprintln(w)
}

func listingBadges(listing *models.Listing) string {
	var badges []string
	if listing.IsVerified || listing.VerifiedAt != nil {
		badges = append(badges, "verified")
	}
	if listing.IsFeatured {
		badges = append(badges, "featured")
	}
	if listing.Rating > 0 {
		badges = append(badges, fmt.Sprintf("rating %.1f", listing.Rating))
	}
	return strings.Join(badges, " | ")
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
