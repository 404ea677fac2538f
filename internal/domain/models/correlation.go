package models

import (
	"encoding/json"
	"sort"
)

// CorrelationMatrix is a symmetric pair-by-pair Pearson coefficient map.
// Diagonal entries are 1. A matrix is rebuilt wholesale each evaluation
// cycle; callers never mutate one after the builder returns it.
type CorrelationMatrix struct {
	pairs  []string
	coeffs map[string]map[string]float64
}

// NewCorrelationMatrix allocates an identity-diagonal matrix for pairs.
func NewCorrelationMatrix(pairs []string) *CorrelationMatrix {
	sorted := make([]string, len(pairs))
	copy(sorted, pairs)
	sort.Strings(sorted)

	coeffs := make(map[string]map[string]float64, len(sorted))
	for _, p := range sorted {
		coeffs[p] = make(map[string]float64, len(sorted))
		coeffs[p][p] = 1
	}
	return &CorrelationMatrix{pairs: sorted, coeffs: coeffs}
}

// Pairs returns the pair identifiers in stable order.
func (m *CorrelationMatrix) Pairs() []string {
	out := make([]string, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Set records a coefficient for both (a,b) and (b,a).
func (m *CorrelationMatrix) Set(a, b string, coeff float64) {
	if _, ok := m.coeffs[a]; !ok {
		return
	}
	if _, ok := m.coeffs[b]; !ok {
		return
	}
	m.coeffs[a][b] = coeff
	m.coeffs[b][a] = coeff
}

// At returns the coefficient for (a,b); ok is false for unknown pairs.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	row, ok := m.coeffs[a]
	if !ok {
		return 0, false
	}
	v, ok := row[b]
	return v, ok
}

type correlationMatrixJSON struct {
	Pairs        []string                      `json:"pairs"`
	Coefficients map[string]map[string]float64 `json:"coefficients"`
}

// MarshalJSON exposes the matrix for API responses and report caching.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(correlationMatrixJSON{Pairs: m.pairs, Coefficients: m.coeffs})
}

func (m *CorrelationMatrix) UnmarshalJSON(b []byte) error {
	var raw correlationMatrixJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.pairs = raw.Pairs
	m.coeffs = raw.Coefficients
	if m.coeffs == nil {
		m.coeffs = make(map[string]map[string]float64)
	}
	return nil
}

// Row returns a copy of pair's coefficients against every other pair,
// excluding the diagonal.
func (m *CorrelationMatrix) Row(pair string) map[string]float64 {
	row, ok := m.coeffs[pair]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(row)-1)
	for p, v := range row {
		if p == pair {
			continue
		}
		out[p] = v
	}
	return out
}
