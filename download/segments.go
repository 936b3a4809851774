package download

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/manifest"
)

// Segments fetches an ordered segment list with bounded concurrency and
// writes the bytes out in strict manifest order, whatever order the fetches
// complete in.
type Segments struct {
	client  *http.Client
	headers map[string]string

	// Workers bounds concurrent fetches.
	Workers int
	// Attempts is the per-segment try budget.
	Attempts int
	// Timeout bounds one fetch attempt.
	Timeout time.Duration
	// Backoff is the base delay between retries; it doubles per attempt with
	// added jitter to avoid synchronized retry storms.
	Backoff time.Duration
}

// NewSegments builds a segment downloader sharing the given client.
func NewSegments(client *http.Client, headers map[string]string, workers, attempts int, timeout time.Duration) *Segments {
	return &Segments{
		client:   client,
		headers:  headers,
		Workers:  workers,
		Attempts: attempts,
		Timeout:  timeout,
		Backoff:  500 * time.Millisecond,
	}
}

// segmentResult carries one fetched segment (or its terminal error) from a
// worker to the ordered writer.
type segmentResult struct {
	index int
	data  []byte
	err   error
}

// DownloadAll fetches every segment and writes them to dst in ascending index
// order. Each segment is staged in memory until all of its predecessors have
// been written. Any segment still failing after the retry budget fails the
// whole call with a SegmentDownloadError naming the indices; dst then holds an
// incomplete prefix and must be discarded by the caller.
func (d *Segments) DownloadAll(ctx context.Context, segments []manifest.Segment, dst io.Writer) (int64, error) {
	if len(segments) == 0 {
		return 0, manifest.ErrEmpty
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indices := make(chan int)
	results := make(chan segmentResult)

	workers := d.Workers
	if workers > len(segments) {
		workers = len(segments)
	}

	for w := 0; w < workers; w++ {
		go func() {
			for i := range indices {
				data, err := d.fetchWithRetry(ctx, segments[i].URL)
				select {
				case results <- segmentResult{index: i, data: data, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(indices)
		for i := range segments {
			select {
			case indices <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Ordered assembly: one result per segment, joined by index. Out-of-order
	// arrivals are staged until the write cursor reaches them.
	staged := make(map[int][]byte)
	next := 0
	var written int64
	var failed []int
	var lastErr error

	for received := 0; received < len(segments); received++ {
		var r segmentResult
		select {
		case r = <-results:
		case <-ctx.Done():
			return written, ctx.Err()
		}

		if r.err != nil {
			failed = append(failed, r.index)
			lastErr = r.err
			continue
		}

		staged[r.index] = r.data
		for data, ok := staged[next]; ok; data, ok = staged[next] {
			n, err := dst.Write(data)
			written += int64(n)
			if err != nil {
				return written, fmt.Errorf("write segment %d: %w", next, err)
			}
			delete(staged, next)
			next++
		}
	}

	if lastErr != nil {
		sort.Ints(failed)
		return written, &SegmentDownloadError{FailedIndices: failed, Last: lastErr}
	}
	return written, nil
}

// fetchWithRetry fetches one segment, retrying transient failures with
// exponential backoff and jitter. Structural failures (4xx other than 429)
// abort immediately.
func (d *Segments) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	delay := d.Backoff

	var lastErr error
	for attempt := 1; attempt <= d.Attempts; attempt++ {
		data, err := d.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !transient(err) || attempt == d.Attempts {
			break
		}

		log.Debugf("segment fetch attempt %d/%d for %s failed: %v", attempt, d.Attempts, url, err)

		jitter := time.Duration(rand.Int63n(int64(d.Backoff)))
		select {
		case <-time.After(delay + jitter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
	}

	return nil, lastErr
}

// fetchOnce performs a single bounded segment fetch.
func (d *Segments) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for segment %s: %w", url, err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errStatus{code: resp.StatusCode, url: url}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read segment body: %w", err)
	}
	return data, nil
}
