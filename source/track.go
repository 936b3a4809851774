// Package source defines the domain models and interfaces for media discovery and retrieval.
package source

import (
	"fmt"
	"time"

	"github.com/waverip-cli/waverip/util"
)

// Track represents a logical media item discovered through a platform search.
// It is an immutable snapshot from the pipeline's point of view: the download
// machinery reads candidate URLs and naming fields but never mutates them.
type Track struct {
	// Platform-scoped ID (e.g. "181233099").
	ID string `json:"id"`
	// Display title.
	Title string `json:"title"`
	// Performing artist, used for naming and tags.
	Artist string `json:"artist"`
	// Direct URL to the canonical track page.
	URL string `json:"url"`
	// Expected duration, zero when unknown.
	Duration time.Duration `json:"duration"`
	// Exclusive marks gated content that must not be fetched without an override.
	Exclusive bool `json:"exclusive"`

	// Candidate stream URLs, any of which may be empty.
	DirectURL   string `json:"direct_url,omitempty"`
	StreamURL   string `json:"stream_url,omitempty"`
	ManifestURL string `json:"manifest_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`

	// Cover artwork URL.
	Artwork string `json:"artwork,omitempty"`
	// Ordering index within search results or a playlist.
	Index uint16 `json:"index"`

	Source Source `json:"-"`
}

// String returns the canonical "Artist - Title" display form.
func (t *Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// FileStem returns a sanitized filename base for the track, without extension.
func (t *Track) FileStem() string {
	return util.SanitizeFilename(t.String())
}
