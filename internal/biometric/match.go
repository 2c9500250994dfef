package biometric

import (
	"bytes"
	"fmt"
	"math/bits"
)

// Decision is the outcome of comparing two templates. Confidence is
// reported even on a negative decision so callers can audit match quality.
type Decision struct {
	Match      bool
	Confidence float64
}

// Comparator is the swappable comparison strategy. Implementations compare
// feature codes only; quality gating happens in the Engine.
type Comparator interface {
	Compare(candidate, reference []byte) Decision
}

// ExactComparator is the baseline strategy: codes match iff byte-identical.
type ExactComparator struct{}

// Compare returns (true, 1.0) for identical codes and (false, 0.0) otherwise.
func (ExactComparator) Compare(candidate, reference []byte) Decision {
	if bytes.Equal(candidate, reference) {
		return Decision{Match: true, Confidence: 1.0}
	}
	return Decision{}
}

// HammingComparator decides by normalized bit distance against a calibrated
// threshold. A distance exactly at the threshold counts as a match.
type HammingComparator struct {
	Threshold float64
}

// Compare computes the fraction of differing bits. Confidence is
// 1 - distance regardless of the decision. Codes of unequal length never
// match.
func (h HammingComparator) Compare(candidate, reference []byte) Decision {
	if len(candidate) != len(reference) || len(candidate) == 0 {
		return Decision{}
	}

	var diff int
	for i := range candidate {
		diff += bits.OnesCount8(candidate[i] ^ reference[i])
	}

	distance := float64(diff) / float64(len(candidate)*8)
	return Decision{Match: distance <= h.Threshold, Confidence: 1 - distance}
}

// NewComparator builds the configured comparison strategy.
func NewComparator(strategy string, threshold float64) (Comparator, error) {
	switch strategy {
	case "exact":
		return ExactComparator{}, nil
	case "hamming":
		return HammingComparator{Threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("unknown match strategy %q", strategy)
	}
}

// Engine decides whether two templates represent the same identity. It
// applies the low-quality-reject policy before delegating to the
// configured strategy.
type Engine struct {
	cmp        Comparator
	minQuality float64
}

// NewEngine wires a comparator with the minimum acceptable quality score.
func NewEngine(cmp Comparator, minQuality float64) *Engine {
	return &Engine{cmp: cmp, minQuality: minQuality}
}

// Match compares candidate against reference. If either template falls
// below the minimum quality the comparison is skipped and the decision is
// a zero-confidence non-match.
func (e *Engine) Match(candidate, reference Template) Decision {
	if candidate.Quality < e.minQuality || reference.Quality < e.minQuality {
		return Decision{}
	}
	return e.cmp.Compare(candidate.Code, reference.Code)
}
