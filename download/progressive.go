package download

import (
	"context"
	"io"
	"net/http"

	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/log"
)

// progressiveChunkSize is the copy buffer for single-body downloads.
const progressiveChunkSize = 256 * 1024

// Progressive streams one HTTP response body to a file in fixed chunks.
type Progressive struct {
	client  *http.Client
	headers map[string]string
}

// NewProgressive builds a progressive downloader sharing the given client.
func NewProgressive(client *http.Client, headers map[string]string) *Progressive {
	return &Progressive{client: client, headers: headers}
}

// Download writes the body at url to destination. On any failure the partial
// destination file is removed before the error is returned, so a failed
// download never leaves an artifact behind. onChunk, when non-nil, receives
// the cumulative byte count after each chunk.
func (p *Progressive) Download(ctx context.Context, url, destination string, onChunk func(written int64)) (int64, error) {
	fs := filesystem.API()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &ProgressiveDownloadError{URL: url, Err: err}
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, &ProgressiveDownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &ProgressiveDownloadError{URL: url, Err: &errStatus{code: resp.StatusCode, url: url}}
	}

	out, err := fs.Create(destination)
	if err != nil {
		return 0, &ProgressiveDownloadError{URL: url, Err: err}
	}

	var written int64
	buf := make([]byte, progressiveChunkSize)

	fail := func(cause error) (int64, error) {
		out.Close()
		if removeErr := fs.Remove(destination); removeErr != nil {
			log.Warnf("could not remove partial file %s: %v", destination, removeErr)
		}
		return 0, &ProgressiveDownloadError{URL: url, Err: cause}
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return fail(writeErr)
			}
			written += int64(n)
			if onChunk != nil {
				onChunk(written)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fail(readErr)
		}
	}

	if err := out.Close(); err != nil {
		_ = fs.Remove(destination)
		return 0, &ProgressiveDownloadError{URL: url, Err: err}
	}
	return written, nil
}
