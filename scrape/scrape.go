// Package scrape implements best-effort extraction of embedded stream URLs from
// a track's canonical page. It is the lowest-confidence resolution strategy and
// only runs when every declared candidate has failed.
package scrape

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/network"
	"golang.org/x/net/html"
)

// streamURLPattern matches absolute media URLs embedded in scripts or JSON blobs.
var streamURLPattern = regexp.MustCompile(`https?://[^\s"'\\]+?\.(?:m3u8|mp3|m4a|aac|ogg)(?:\?[^\s"'\\]*)?`)

// FromPage fetches the page via the browser-fingerprint TLS client and returns
// every embedded stream URL found, most reliable markup first.
func FromPage(pageURL string, headers map[string]string) ([]string, error) {
	body, status, err := network.TLSRequest(http.MethodGet, pageURL, headers, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		log.Debugf("page scrape of %s returned status %d", pageURL, status)
		return nil, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	return Extract(body, base), nil
}

// Extract walks the page markup for stream URLs: audio/source/video elements,
// stream-bearing meta properties, then a regex sweep over inline scripts.
// Results are deduplicated and resolved against base.
func Extract(page string, base *url.URL) []string {
	var found []string

	doc, err := html.Parse(strings.NewReader(page))
	if err == nil {
		walk(doc, base, &found)
	}

	// Last resort: absolute media URLs buried in scripts or JSON payloads.
	found = append(found, streamURLPattern.FindAllString(page, -1)...)

	return lo.Uniq(found)
}

// metaStreamProperties are meta tag properties whose content is a stream URL.
var metaStreamProperties = []string{
	"og:audio",
	"og:audio:secure_url",
	"og:video",
	"twitter:player:stream",
}

func walk(n *html.Node, base *url.URL, found *[]string) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "audio", "video", "source":
			if src := attr(n, "src"); src != "" {
				if resolved := resolveRef(base, src); resolved != "" {
					*found = append(*found, resolved)
				}
			}
		case "meta":
			prop := attr(n, "property")
			if prop == "" {
				prop = attr(n, "name")
			}
			if lo.Contains(metaStreamProperties, prop) {
				if content := attr(n, "content"); content != "" {
					if resolved := resolveRef(base, content); resolved != "" {
						*found = append(*found, resolved)
					}
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, base, found)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func resolveRef(base *url.URL, ref string) string {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
