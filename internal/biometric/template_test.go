package biometric

import (
	"bytes"
	"errors"
	"testing"
)

func TestExtractDeterministic(t *testing.T) {
	ex := DigestExtractor{}
	sample := []byte("left-eye-capture-001")

	first, err := ex.Extract(sample)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	second, err := ex.Extract(sample)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if !bytes.Equal(first.Code, second.Code) {
		t.Fatalf("same sample produced different codes")
	}
	if first.Quality != second.Quality {
		t.Fatalf("same sample produced different quality scores")
	}
}

func TestExtractDistinctSamples(t *testing.T) {
	ex := DigestExtractor{}

	a, err := ex.Extract([]byte("capture-a"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	b, err := ex.Extract([]byte("capture-b"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if bytes.Equal(a.Code, b.Code) {
		t.Fatalf("distinct samples produced identical codes")
	}
}

func TestExtractEmptySample(t *testing.T) {
	ex := DigestExtractor{}
	if _, err := ex.Extract(nil); !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractQualityAndROI(t *testing.T) {
	ex := DigestExtractor{}
	tpl, err := ex.Extract([]byte("capture"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if tpl.Quality <= 0 || tpl.Quality > 1 {
		t.Fatalf("quality out of range: %f", tpl.Quality)
	}
	if tpl.ROI.Radius == 0 {
		t.Fatalf("expected a region of interest")
	}
}
