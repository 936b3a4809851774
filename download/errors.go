// Package download implements the media acquisition pipeline: resolving a track
// to a concrete stream and reliably turning that stream into a single local file.
package download

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ExclusivityError marks gated content that was requested without an override.
// Raised before any network activity.
type ExclusivityError struct {
	Track string
}

func (e *ExclusivityError) Error() string {
	return fmt.Sprintf("track %q is exclusive content and no override was supplied", e.Track)
}

// ResolutionError indicates that no candidate source yielded a usable stream.
type ResolutionError struct {
	Track  string
	Probed int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no usable stream found for %q after probing %d candidates", e.Track, e.Probed)
}

// SegmentDownloadError reports segments that stayed irrecoverable after retries.
type SegmentDownloadError struct {
	FailedIndices []int
	Last          error
}

func (e *SegmentDownloadError) Error() string {
	idx := make([]string, len(e.FailedIndices))
	for i, n := range e.FailedIndices {
		idx[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("segments [%s] failed after retries: %v", strings.Join(idx, " "), e.Last)
}

func (e *SegmentDownloadError) Unwrap() error { return e.Last }

// ProgressiveDownloadError reports a failed single-body download. The partial
// destination file is already removed by the time this surfaces.
type ProgressiveDownloadError struct {
	URL string
	Err error
}

func (e *ProgressiveDownloadError) Error() string {
	return fmt.Sprintf("progressive download of %s failed: %v", e.URL, e.Err)
}

func (e *ProgressiveDownloadError) Unwrap() error { return e.Err }

// AssemblyError reports a failure while verifying or promoting the temp artifact.
type AssemblyError struct {
	Path string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembling %s failed: %v", e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// ErrDuplicateDestination marks a batch item whose destination path is already
// owned by another in-flight job.
var ErrDuplicateDestination = errors.New("destination path already claimed by another job")

// errStatus carries a non-2xx HTTP status through the retry classifier.
type errStatus struct {
	code int
	url  string
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.code, e.url)
}

// transient reports whether an error is worth retrying: timeouts, transport
// failures, 5xx and 429. Structural errors and other 4xx fail immediately.
// Context cancellation is never transient.
func transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var status *errStatus
	if errors.As(err, &status) {
		return status.code == 429 || status.code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}
