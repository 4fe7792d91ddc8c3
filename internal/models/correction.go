package models

// CorrectionEntry is one term-level spelling correction.
type CorrectionEntry struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Distance  int    `json:"distance"`
}

// Correction is a precomputed typo correction for a query, produced by the
// spell-check collaborator. Confidence is in [0, 1]. A nil Correction means
// "no correction available", not an error.
type Correction struct {
	OriginalQuery  string            `json:"original_query"`
	CorrectedQuery string            `json:"corrected_query"`
	Confidence     float64           `json:"confidence"`
	Corrections    []CorrectionEntry `json:"corrections,omitempty"`
}

// Changed reports whether the correction actually differs from the original query.
func (c *Correction) Changed() bool {
	return c != nil && c.CorrectedQuery != "" && c.CorrectedQuery != c.OriginalQuery
}
