// Package source defines the domain models and interfaces for media discovery and retrieval.
package source

import "fmt"

// CandidateKind classifies a candidate stream URL by how it should be probed.
type CandidateKind string

const (
	// KindDirect is a known direct download URL.
	KindDirect CandidateKind = "direct"
	// KindProgressive is a declared progressive stream URL.
	KindProgressive CandidateKind = "progressive"
	// KindHLS is an HLS manifest URL from companion API data.
	KindHLS CandidateKind = "hls"
	// KindPage is the canonical page URL, scraped for embedded streams. Low confidence.
	KindPage CandidateKind = "page"
	// KindPreview is a short reduced-quality clip URL.
	KindPreview CandidateKind = "preview"
)

// Candidate pairs a probe strategy with a URL.
type Candidate struct {
	Kind CandidateKind `json:"kind"`
	URL  string        `json:"url"`
}

// ParseCandidateKind validates a raw kind string coming from a provider script.
func ParseCandidateKind(raw string) (CandidateKind, error) {
	switch CandidateKind(raw) {
	case KindDirect, KindProgressive, KindHLS, KindPage, KindPreview:
		return CandidateKind(raw), nil
	default:
		return "", fmt.Errorf("unknown candidate kind %q", raw)
	}
}
