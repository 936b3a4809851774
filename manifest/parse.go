package manifest

import (
	"bufio"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// M3U8 tag prefixes recognized by the parser. Unknown tags are skipped.
const (
	tagHeader    = "#EXTM3U"
	tagStreamInf = "#EXT-X-STREAM-INF:"
	tagInf       = "#EXTINF:"
	tagByteRange = "#EXT-X-BYTERANGE:"
	tagKey       = "#EXT-X-KEY:"
)

// Parse parses M3U8 text into a typed playlist. The presence of the
// variant-stream tag selects master parsing; anything else is treated as a
// media playlist. Relative URLs are resolved against baseURL.
func Parse(text, baseURL string) (Playlist, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("manifest: parse base url %q: %w", baseURL, err)
	}

	trimmed := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(trimmed, tagHeader) {
		return nil, ErrNotM3U8
	}

	if strings.Contains(text, tagStreamInf) {
		return parseMaster(text, base)
	}
	return parseMedia(text, base)
}

// parseMaster collects all variant streams from a master playlist.
func parseMaster(text string, base *url.URL) (*Master, error) {
	master := &Master{}
	var pending *Variant

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, tagStreamInf):
			attrs := parseAttributes(strings.TrimPrefix(line, tagStreamInf))
			v := Variant{Resolution: attrs["RESOLUTION"]}
			if bw, err := strconv.Atoi(attrs["BANDWIDTH"]); err == nil {
				v.Bandwidth = bw
			}
			pending = &v

		case strings.HasPrefix(line, "#"):
			// Unrelated tag.

		default:
			// URI line closing the preceding stream-inf tag.
			if pending == nil {
				continue
			}
			resolved, err := resolve(base, line)
			if err != nil {
				return nil, err
			}
			pending.URL = resolved
			master.Variants = append(master.Variants, *pending)
			pending = nil
		}
	}

	if len(master.Variants) == 0 {
		return nil, ErrNoVariants
	}
	return master, nil
}

// parseMedia walks a media playlist line by line. A duration tag attaches a
// hint to the next URI line, a byte-range tag a size hint; every non-comment
// line is a segment URL. Output order equals file order.
func parseMedia(text string, base *url.URL) (*Media, error) {
	media := &Media{}
	var duration float64
	var size int64

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, tagKey):
			attrs := parseAttributes(strings.TrimPrefix(line, tagKey))
			if method := attrs["METHOD"]; method != "" && method != "NONE" {
				return nil, fmt.Errorf("%w (method %s)", ErrEncrypted, method)
			}

		case strings.HasPrefix(line, tagInf):
			// "#EXTINF:10.5,Optional Title"
			spec := strings.TrimPrefix(line, tagInf)
			if idx := strings.Index(spec, ","); idx >= 0 {
				spec = spec[:idx]
			}
			if d, err := strconv.ParseFloat(strings.TrimSpace(spec), 64); err == nil {
				duration = d
			}

		case strings.HasPrefix(line, tagByteRange):
			// "#EXT-X-BYTERANGE:<n>[@<o>]"
			spec := strings.TrimPrefix(line, tagByteRange)
			if idx := strings.Index(spec, "@"); idx >= 0 {
				spec = spec[:idx]
			}
			if n, err := strconv.ParseInt(strings.TrimSpace(spec), 10, 64); err == nil {
				size = n
			}

		case strings.HasPrefix(line, "#"):
			// Unrelated tag or comment.

		default:
			resolved, err := resolve(base, line)
			if err != nil {
				return nil, err
			}
			media.Segments = append(media.Segments, Segment{
				URL:      resolved,
				Duration: duration,
				Size:     size,
			})
			duration, size = 0, 0
		}
	}

	if len(media.Segments) == 0 {
		return nil, ErrEmpty
	}
	return media, nil
}

// resolve joins a possibly-relative reference with the playlist base URL.
func resolve(base *url.URL, ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("manifest: parse url %q: %w", ref, err)
	}
	return base.ResolveReference(parsed).String(), nil
}

// parseAttributes splits an M3U8 attribute list ("KEY=VAL,KEY=\"quoted,val\"")
// into a map, honoring quoted values.
func parseAttributes(spec string) map[string]string {
	attrs := make(map[string]string)

	var key, value strings.Builder
	inKey, inQuotes := true, false
	flush := func() {
		if key.Len() > 0 {
			attrs[strings.TrimSpace(key.String())] = value.String()
		}
		key.Reset()
		value.Reset()
		inKey = true
	}

	for _, r := range spec {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inKey && r == '=':
			inKey = false
		case !inQuotes && r == ',':
			flush()
		case inKey:
			key.WriteRune(r)
		default:
			value.WriteRune(r)
		}
	}
	flush()

	return attrs
}
