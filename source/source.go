// Package source defines the domain models and interfaces for media discovery and retrieval.
package source

// Source defines the required capabilities for a platform adapter.
//
// The download pipeline is platform-agnostic: everything platform-specific is
// funneled through this capability set, so one pipeline serves every
// integration.
type Source interface {
	// Name returns the unique identifier for the platform adapter.
	Name() string

	// ID returns the unique identifier of the source.
	ID() string

	// Search executes a query against the platform to discover matching tracks.
	Search(query string) ([]*Track, error)

	// StreamCandidates lists candidate stream URLs for a track, most preferred first.
	// May call the platform's companion API to resolve manifest locations.
	StreamCandidates(track *Track) ([]Candidate, error)

	// AuthHeaders returns opaque authentication headers (bearer tokens, client
	// identifiers) to attach to outbound requests. How these are obtained is
	// not the pipeline's concern.
	AuthHeaders() map[string]string
}
