// Package tag defines the metadata tagging contract used after a download completes.
//
// Encoding details (ID3 frames, MP4 atoms) are deliberately opaque here: the
// pipeline only knows the call contract, and the concrete writer is an external
// ffmpeg process.
package tag

// Tags carries the structured metadata to embed into a media file.
type Tags struct {
	Title   string
	Artist  string
	Album   string
	Comment string
	URL     string
}

// Tagger embeds tags (and optional cover artwork bytes) into the file at path.
// Implementations must leave the file untouched on failure.
type Tagger interface {
	Tag(path string, tags Tags, artwork []byte) error
}

// Noop is a Tagger that does nothing. Used when tagging is disabled or no
// capable backend is present.
type Noop struct{}

func (Noop) Tag(string, Tags, []byte) error { return nil }
