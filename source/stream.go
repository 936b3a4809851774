// Package source defines the domain models and interfaces for media discovery and retrieval.
package source

// Protocol identifies how a stream's bytes are delivered.
type Protocol string

const (
	// ProtocolProgressive is a single HTTP response body streamed to a file.
	ProtocolProgressive Protocol = "progressive"
	// ProtocolHLS is a segmented stream described by an M3U8 manifest.
	ProtocolHLS Protocol = "hls"
)

// Stream describes one concrete, fetchable rendition of a track.
// Produced fresh per download job; never cached across jobs.
type Stream struct {
	// Delivery protocol.
	Protocol Protocol `json:"protocol"`
	// URL of the response body (progressive) or the manifest (hls).
	URL string `json:"url"`
	// Container/codec label (e.g. "mp3", "aac", "ts").
	Format string `json:"format"`
	// Quality label (e.g. "320kbps", "hq").
	Quality string `json:"quality"`
	// ReducedQuality marks preview/short-clip fallbacks.
	ReducedQuality bool `json:"reduced_quality"`
	// HTTP headers required to fetch.
	Headers map[string]string `json:"headers,omitempty"`
}

// String returns the quality or URL for display.
func (s *Stream) String() string {
	if s.Quality != "" {
		return s.Quality
	}
	return s.URL
}
