// Package manifest implements parsing of M3U8 playlists into typed master and media manifests.
package manifest

// Playlist is either a *Master or a *Media manifest.
type Playlist interface {
	playlist()
}

// Variant is one quality rendition listed by a master manifest.
type Variant struct {
	// Declared peak bandwidth in bits per second.
	Bandwidth int
	// Absolute manifest URL of the rendition.
	URL string
	// Optional display resolution (e.g. "1920x1080"), empty for audio.
	Resolution string
}

// Master is an M3U8 playlist listing multiple quality variants.
type Master struct {
	Variants []Variant
}

func (*Master) playlist() {}

// Best returns the highest-bandwidth variant. Ties resolve to the first listed.
func (m *Master) Best() (Variant, bool) {
	if len(m.Variants) == 0 {
		return Variant{}, false
	}

	best := m.Variants[0]
	for _, v := range m.Variants[1:] {
		if v.Bandwidth > best.Bandwidth {
			best = v
		}
	}
	return best, true
}

// Segment is one independently fetched chunk of a media manifest.
type Segment struct {
	// Absolute URL of the segment.
	URL string
	// Declared duration hint in seconds, zero when absent.
	Duration float64
	// Declared byte-range size hint, zero when absent.
	Size int64
}

// Media is an M3U8 playlist listing the ordered segments of one stream.
// Segment order matches file order and is the authoritative assembly order.
type Media struct {
	Segments []Segment
}

func (*Media) playlist() {}
