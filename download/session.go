package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/spf13/viper"
	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/key"
	"github.com/waverip-cli/waverip/network"
	"github.com/waverip-cli/waverip/tag"
)

// Session owns everything shared by the jobs of one batch: the HTTP client,
// the tagging backend, the assembly strategy, and the destination registry.
// It replaces any notion of global download state and lives exactly as long
// as the batch that created it.
type Session struct {
	client    *http.Client
	opts      Options
	tagger    tag.Tagger
	assembler Assembler

	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewSession prepares a download session. The tagging backend and assembly
// strategy are chosen here by capability probe, not by global flags.
func NewSession(opts Options) *Session {
	opts = opts.withDefaults()

	// The shared client carries an overall timeout sized for API calls, which
	// would sever long media bodies. Jobs reuse its tuned transport but bound
	// individual fetches via context instead.
	client := &http.Client{Transport: network.Client.Transport}

	var tagger tag.Tagger = tag.Noop{}
	if opts.EmbedTags && tag.Available() {
		tagger = &tag.FFmpeg{}
	}

	var assembler Assembler = nativeAssembler{}
	if opts.Remux && tag.Available() {
		assembler = &remuxAssembler{}
	}

	return &Session{
		client:    client,
		opts:      opts,
		tagger:    tagger,
		assembler: assembler,
		claimed:   make(map[string]struct{}),
	}
}

// Options returns the session's normalized options.
func (s *Session) Options() Options {
	return s.opts
}

// claim registers exclusive ownership of a destination path for one job.
func (s *Session) claim(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.claimed[path]; taken {
		return false
	}
	s.claimed[path] = struct{}{}
	return true
}

// release returns a destination path to the pool.
func (s *Session) release(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, path)
}

// get performs a single bounded GET, merging the given headers over the
// default User-Agent. Non-2xx responses close the body and surface as an
// errStatus so the retry classifier can act on the code.
func (s *Session) get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &errStatus{code: resp.StatusCode, url: url}
	}
	return resp, nil
}

// text fetches a small textual resource (manifests, pages) within the
// session's fetch timeout.
func (s *Session) text(ctx context.Context, url string, headers map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	resp, err := s.get(ctx, url, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(body), nil
}

// saveHistory reports whether completed downloads should be recorded.
func (s *Session) saveHistory() bool {
	return viper.GetBool(key.HistorySaveOnDownload)
}
