package download

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/manifest"
	"github.com/waverip-cli/waverip/scrape"
	"github.com/waverip-cli/waverip/source"
)

// kindPriority fixes the probe order across all platforms. The first candidate
// that yields a usable stream wins.
var kindPriority = map[source.CandidateKind]int{
	source.KindDirect:      0,
	source.KindProgressive: 1,
	source.KindHLS:         2,
	source.KindPage:        3,
	source.KindPreview:     4,
}

// Resolve turns a track into a concrete stream descriptor. The exclusivity
// gate is checked before any network activity. Candidates declared on the
// track and supplied by its source adapter are probed in fixed priority
// order; no candidate succeeding yields a ResolutionError.
func (s *Session) Resolve(ctx context.Context, track *source.Track) (*source.Stream, error) {
	if track.Exclusive && !s.opts.AllowExclusive {
		return nil, &ExclusivityError{Track: track.String()}
	}

	candidates := collectCandidates(track)
	if len(candidates) == 0 {
		return nil, &ResolutionError{Track: track.String()}
	}

	var headers map[string]string
	if track.Source != nil {
		headers = track.Source.AuthHeaders()
	}

	probed := 0
	for _, c := range candidates {
		if c.Kind == source.KindPreview && s.opts.SkipPreview {
			continue
		}

		probed++
		stream, err := s.probe(ctx, c, headers)
		if err != nil {
			log.Debugf("candidate %s %s rejected: %v", c.Kind, c.URL, err)
			continue
		}
		return stream, nil
	}

	return nil, &ResolutionError{Track: track.String(), Probed: probed}
}

// collectCandidates merges the track's declared URLs with the adapter's
// companion API candidates, deduplicated by URL and ordered by kind priority.
func collectCandidates(track *source.Track) []source.Candidate {
	var candidates []source.Candidate

	add := func(kind source.CandidateKind, u string) {
		if u != "" {
			candidates = append(candidates, source.Candidate{Kind: kind, URL: u})
		}
	}
	add(source.KindDirect, track.DirectURL)
	add(source.KindProgressive, track.StreamURL)
	add(source.KindHLS, track.ManifestURL)
	add(source.KindPage, track.URL)
	add(source.KindPreview, track.PreviewURL)

	if track.Source != nil {
		if extra, err := track.Source.StreamCandidates(track); err != nil {
			log.Warnf("source %s candidate lookup for %s failed: %v", track.Source.Name(), track, err)
		} else {
			candidates = append(candidates, extra...)
		}
	}

	candidates = lo.UniqBy(candidates, func(c source.Candidate) string { return c.URL })
	sort.SliceStable(candidates, func(i, j int) bool {
		return kindPriority[candidates[i].Kind] < kindPriority[candidates[j].Kind]
	})
	return candidates
}

// probe verifies that a candidate actually serves bytes and builds the stream
// descriptor for it.
func (s *Session) probe(ctx context.Context, c source.Candidate, headers map[string]string) (*source.Stream, error) {
	switch c.Kind {
	case source.KindDirect, source.KindProgressive, source.KindPreview:
		if err := s.probeProgressive(ctx, c.URL, headers); err != nil {
			return nil, err
		}
		return &source.Stream{
			Protocol:       source.ProtocolProgressive,
			URL:            c.URL,
			Format:         formatFromURL(c.URL),
			ReducedQuality: c.Kind == source.KindPreview,
			Headers:        headers,
		}, nil

	case source.KindHLS:
		return s.probeManifest(ctx, c.URL, headers)

	case source.KindPage:
		return s.probePage(ctx, c.URL, headers)

	default:
		return nil, fmt.Errorf("unknown candidate kind %q", c.Kind)
	}
}

// probeProgressive issues a bounded GET and discards the body immediately;
// only the status matters here.
func (s *Session) probeProgressive(ctx context.Context, u string, headers map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	resp, err := s.get(ctx, u, headers)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// probeManifest confirms the URL parses as an M3U8 playlist.
func (s *Session) probeManifest(ctx context.Context, u string, headers map[string]string) (*source.Stream, error) {
	text, err := s.text(ctx, u, headers)
	if err != nil {
		return nil, err
	}
	if _, err := manifest.Parse(text, u); err != nil {
		return nil, err
	}

	return &source.Stream{
		Protocol: source.ProtocolHLS,
		URL:      u,
		Format:   "ts",
		Headers:  headers,
	}, nil
}

// probePage scrapes the canonical page for embedded stream URLs and probes
// each in turn. Low confidence: any hit is accepted.
func (s *Session) probePage(ctx context.Context, pageURL string, headers map[string]string) (*source.Stream, error) {
	found, err := scrape.FromPage(pageURL, headers)
	if err != nil {
		return nil, err
	}

	for _, u := range found {
		if strings.Contains(u, ".m3u8") {
			if stream, err := s.probeManifest(ctx, u, headers); err == nil {
				return stream, nil
			}
			continue
		}
		if err := s.probeProgressive(ctx, u, headers); err == nil {
			return &source.Stream{
				Protocol: source.ProtocolProgressive,
				URL:      u,
				Format:   formatFromURL(u),
				Headers:  headers,
			}, nil
		}
	}

	return nil, fmt.Errorf("no embedded streams found on %s", pageURL)
}

// formatFromURL infers a container label from the URL path extension.
func formatFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "mp3"
	}
	ext := strings.TrimPrefix(path.Ext(parsed.Path), ".")
	if ext == "" {
		return "mp3"
	}
	return ext
}
