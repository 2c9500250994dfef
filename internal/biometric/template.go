package biometric

import (
	"crypto/sha256"
	"errors"
)

// ErrExtraction indicates the raw sample could not be processed as a
// biometric capture at all. A valid capture with a poor quality score is
// not an extraction error.
var ErrExtraction = errors.New("sample is not a usable biometric capture")

// RegionOfInterest locates the iris within the capture. Diagnostic only;
// it never participates in match decisions.
type RegionOfInterest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// Template is the comparable feature representation derived from one
// capture. Code is a fixed-length feature vector; Quality is in [0,1].
type Template struct {
	Code    []byte           `json:"code"`
	Quality float64          `json:"quality"`
	ROI     RegionOfInterest `json:"roi"`
}

// Extractor converts raw capture bytes into a Template. Implementations
// must be deterministic: identical input bytes yield identical templates
// for a fixed extractor version.
type Extractor interface {
	Extract(sample []byte) (Template, error)
	Version() string
}

// DigestExtractor is the baseline extractor: the feature code is the
// SHA-256 digest of the raw sample. It stands in for a real iris SDK and
// satisfies the determinism contract trivially.
type DigestExtractor struct{}

const (
	digestExtractorVersion = "digest-1.0.0"

	// Placeholder signals until a real SDK reports them.
	digestQuality   = 0.85
	digestROIX      = 100
	digestROIY      = 100
	digestROIRadius = 50
)

// Extract derives a template from the sample. An empty payload is rejected
// as unprocessable.
func (DigestExtractor) Extract(sample []byte) (Template, error) {
	if len(sample) == 0 {
		return Template{}, ErrExtraction
	}
	sum := sha256.Sum256(sample)
	return Template{
		Code:    sum[:],
		Quality: digestQuality,
		ROI:     RegionOfInterest{X: digestROIX, Y: digestROIY, Radius: digestROIRadius},
	}, nil
}

// Version identifies the extractor build that produced a template.
func (DigestExtractor) Version() string { return digestExtractorVersion }
