package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/source"
)

// ProgressFunc receives batch progress after each job finishes, successful
// or not. label names the item that just finished.
type ProgressFunc func(completed, total int, label string)

// BatchResult holds one Result per submitted track, in input order.
type BatchResult struct {
	Results []Result
	// Playlist is the path of the companion .m3u file, when one was written.
	Playlist string
}

// Succeeded counts the successful items.
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed counts the failed items.
func (b *BatchResult) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// Download runs a single track through the full pipeline. The destination
// stem is claimed for the duration of the job so concurrent callers cannot
// write the same file.
func (s *Session) Download(ctx context.Context, track *source.Track, onBytes func(written int64)) Result {
	stem := track.FileStem()
	if !s.claim(stem) {
		return Result{Track: track, Err: ErrDuplicateDestination}
	}
	defer s.release(stem)

	j := &job{session: s, track: track, onBytes: onBytes}
	return j.run(ctx)
}

// Batch downloads every track under the session's global concurrency cap.
// One item failing never cancels its siblings; results come back in input
// order regardless of completion order. Cancelling ctx stops scheduling new
// jobs and waits for in-flight jobs to finish their cleanup before returning.
func (s *Session) Batch(ctx context.Context, tracks []*source.Track, onProgress ProgressFunc) *BatchResult {
	results := make([]Result, len(tracks))

	// Duplicate destinations are rejected up front so exactly one of the
	// colliding items runs. Claims are held until the batch returns.
	duplicates := make([]bool, len(tracks))
	for i, track := range tracks {
		stem := track.FileStem()
		if !s.claim(stem) {
			duplicates[i] = true
			continue
		}
		defer s.release(stem)
	}

	var (
		wg        sync.WaitGroup
		completed atomic.Int64
		semaphore = make(chan struct{}, s.opts.Concurrency)
	)

	report := func(i int) {
		if onProgress != nil {
			onProgress(int(completed.Add(1)), len(tracks), tracks[i].String())
		} else {
			completed.Add(1)
		}
	}

	for i, track := range tracks {
		if duplicates[i] {
			results[i] = Result{Track: track, Err: ErrDuplicateDestination}
			report(i)
			continue
		}

		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			results[i] = Result{Track: track, Err: ctx.Err()}
			report(i)
			continue
		}

		wg.Add(1)
		go func(i int, track *source.Track) {
			defer wg.Done()
			defer func() { <-semaphore }()

			j := &job{session: s, track: track}
			results[i] = j.run(ctx)
			report(i)
		}(i, track)
	}

	wg.Wait()

	batch := &BatchResult{Results: results}
	if s.opts.PlaylistFile {
		path, err := s.writePlaylist(results)
		if err != nil {
			log.Warnf("could not write playlist file: %v", err)
		} else {
			batch.Playlist = path
		}
	}
	return batch
}

// writePlaylist emits an .m3u referencing the successful outputs, in batch
// order. Nothing is written when every item failed.
func (s *Session) writePlaylist(results []Result) (string, error) {
	var lines []byte
	lines = append(lines, "#EXTM3U\n"...)

	entries := 0
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries++
		lines = append(lines, fmt.Sprintf("#EXTINF:-1,%s\n%s\n", r.Track, filepath.Base(r.Path))...)
	}
	if entries == 0 {
		return "", nil
	}

	path := filepath.Join(s.opts.Dir, "waverip.m3u")
	if err := filesystem.API().WriteFile(path, lines, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
