package manifest

import "fmt"

// FetchFunc retrieves raw playlist text from a URL. Injected so the package
// stays transport-agnostic and trivially testable.
type FetchFunc func(url string) (string, error)

// maxMasterDepth bounds master-playlist recursion. Anything deeper than a
// master referencing one level of nested masters is treated as a loop.
const maxMasterDepth = 2

// ResolveMedia fetches and parses the playlist at url, following master
// playlists down to a concrete media manifest. Master playlists select the
// highest-bandwidth variant.
func ResolveMedia(fetch FetchFunc, url string) (*Media, error) {
	return resolveMedia(fetch, url, 0)
}

func resolveMedia(fetch FetchFunc, url string, depth int) (*Media, error) {
	if depth > maxMasterDepth {
		return nil, ErrTooDeep
	}

	text, err := fetch(url)
	if err != nil {
		return nil, fmt.Errorf("manifest: fetch %s: %w", url, err)
	}

	playlist, err := Parse(text, url)
	if err != nil {
		return nil, err
	}

	switch p := playlist.(type) {
	case *Media:
		return p, nil
	case *Master:
		best, ok := p.Best()
		if !ok {
			return nil, ErrNoVariants
		}
		return resolveMedia(fetch, best.URL, depth+1)
	default:
		return nil, fmt.Errorf("manifest: unexpected playlist type %T", playlist)
	}
}
