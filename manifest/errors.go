package manifest

import "errors"

var (
	// ErrEmpty indicates a media manifest that lists no segments.
	ErrEmpty = errors.New("manifest: no segments")

	// ErrEncrypted indicates a manifest using segment encryption, which is
	// not supported.
	ErrEncrypted = errors.New("manifest: encrypted stream not supported")

	// ErrNotM3U8 indicates text that does not look like an M3U8 playlist.
	ErrNotM3U8 = errors.New("manifest: not an M3U8 playlist")

	// ErrNoVariants indicates a master manifest that lists no variant streams.
	ErrNoVariants = errors.New("manifest: master playlist has no variants")

	// ErrTooDeep indicates master manifests nested beyond the resolution limit,
	// which usually means a reference loop.
	ErrTooDeep = errors.New("manifest: master playlists nested too deep")
)
