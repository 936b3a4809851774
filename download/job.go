package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/history"
	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/manifest"
	"github.com/waverip-cli/waverip/source"
	"github.com/waverip-cli/waverip/tag"
)

// State is the lifecycle phase of a download job.
type State string

const (
	StatePending     State = "pending"
	StateResolving   State = "resolving"
	StateDownloading State = "downloading"
	StateAssembling  State = "assembling"
	StateTagging     State = "tagging"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
	StateCancelled   State = "cancelled"
)

// Result is the immutable terminal value of one download job.
type Result struct {
	Track   *source.Track
	Success bool
	// Path of the completed file. Set only on success.
	Path string
	// Bytes written to the output.
	Bytes int64
	// Container label of the output.
	Format string
	// Warning carries non-fatal problems (failed tagging) on a successful result.
	Warning string
	Err     error
}

// knownExts are output extensions considered when checking whether a track
// was already downloaded under a different container.
var knownExts = []string{"mp3", "m4a", "aac", "ogg", "opus", "flac", "wav", "mp4", "ts"}

// job carries everything one download needs. A job is exclusively owned by
// the goroutine running it and is never shared.
type job struct {
	session *Session
	track   *source.Track
	state   State

	// onBytes, when non-nil, receives the cumulative byte count of the
	// running transfer.
	onBytes func(written int64)
}

func (j *job) transition(state State) {
	log.Debugf("job %s: %s -> %s", j.track, j.state, state)
	j.state = state
}

// fail runs the failure path: the temp artifact (if any) is removed and a
// terminal result is built. Cancellation is a distinct terminal state but
// shares the cleanup.
func (j *job) fail(temp string, err error) Result {
	// The progressive downloader removes its own partial file, so the temp
	// artifact may already be gone.
	if temp != "" {
		if exists, _ := filesystem.API().Exists(temp); exists {
			if removeErr := filesystem.API().Remove(temp); removeErr != nil {
				log.Warnf("could not remove temp artifact %s: %v", temp, removeErr)
			}
		}
	}

	if errors.Is(err, context.Canceled) {
		j.transition(StateCancelled)
	} else {
		j.transition(StateFailed)
	}
	return Result{Track: j.track, Err: err}
}

// run drives the job through its states. The destination stem must already be
// claimed by the caller.
func (j *job) run(ctx context.Context) Result {
	s := j.session
	fs := filesystem.API()

	j.transition(StatePending)

	stem := j.track.FileStem()

	// Idempotence: an existing destination short-circuits the whole job with
	// zero network activity unless overwrite was requested.
	if !s.opts.Overwrite {
		if existing, ok := s.existingOutput(stem); ok {
			log.Debugf("destination %s already exists, skipping download", existing)
			j.transition(StateCompleted)
			return Result{
				Track:   j.track,
				Success: true,
				Path:    existing,
				Format:  trimExt(existing),
			}
		}
	}

	j.transition(StateResolving)
	stream, err := s.Resolve(ctx, j.track)
	if err != nil {
		return j.fail("", err)
	}

	final := filepath.Join(s.opts.Dir, fmt.Sprintf("%s.%s", stem, s.outputExt(stream)))
	if !s.opts.Overwrite {
		if exists, _ := fs.Exists(final); exists {
			j.transition(StateCompleted)
			return Result{Track: j.track, Success: true, Path: final, Format: trimExt(final)}
		}
	}

	if err := fs.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return j.fail("", fmt.Errorf("create download directory: %w", err))
	}

	j.transition(StateDownloading)
	temp := fmt.Sprintf("%s.%s.part", final, uuid.NewString())

	var bytes int64
	segmented := stream.Protocol == source.ProtocolHLS
	if segmented {
		bytes, err = j.downloadSegmented(ctx, stream, temp)
	} else {
		progressive := NewProgressive(s.client, stream.Headers)
		bytes, err = progressive.Download(ctx, stream.URL, temp, j.onBytes)
	}
	if err != nil {
		return j.fail(temp, err)
	}

	j.transition(StateAssembling)
	if err := s.assembler.Assemble(temp, final, segmented); err != nil {
		return j.fail(temp, &AssemblyError{Path: final, Err: err})
	}

	result := Result{
		Track:   j.track,
		Success: true,
		Path:    final,
		Bytes:   bytes,
		Format:  trimExt(final),
	}

	j.transition(StateTagging)
	if err := j.embedTags(ctx, final); err != nil {
		log.Warnf("tagging %s failed: %v", final, err)
		result.Warning = fmt.Sprintf("metadata tagging failed: %v", err)
	}

	if s.saveHistory() {
		if err := history.Save(j.track, final, bytes, result.Format); err != nil {
			log.Warnf("could not save download history: %v", err)
		}
	}

	j.transition(StateCompleted)
	return result
}

// downloadSegmented resolves the manifest down to a media playlist and fetches
// its segments into the temp artifact in manifest order.
func (j *job) downloadSegmented(ctx context.Context, stream *source.Stream, temp string) (int64, error) {
	s := j.session

	fetch := func(url string) (string, error) {
		return s.text(ctx, url, stream.Headers)
	}
	media, err := manifest.ResolveMedia(fetch, stream.URL)
	if err != nil {
		return 0, err
	}

	out, err := filesystem.API().Create(temp)
	if err != nil {
		return 0, fmt.Errorf("create temp artifact: %w", err)
	}

	segments := NewSegments(s.client, stream.Headers, s.opts.SegmentWorkers, s.opts.Retries, s.opts.Timeout)
	bytes, err := segments.DownloadAll(ctx, media.Segments, j.countingWriter(out))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return bytes, err
}

// countingWriter forwards the cumulative byte count to the progress hook.
func (j *job) countingWriter(w io.Writer) io.Writer {
	if j.onBytes == nil {
		return w
	}
	return &progressWriter{w: w, onBytes: j.onBytes}
}

type progressWriter struct {
	w       io.Writer
	written int64
	onBytes func(written int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.onBytes(p.written)
	return n, err
}

// embedTags writes track metadata into the completed file. Artwork is fetched
// best effort and never fails the tagging call by its absence.
func (j *job) embedTags(ctx context.Context, path string) error {
	s := j.session

	tags := tag.Tags{
		Title:  j.track.Title,
		Artist: j.track.Artist,
		URL:    j.track.URL,
	}

	var artwork []byte
	if s.opts.EmbedArtwork && j.track.Artwork != "" {
		var err error
		artwork, err = j.fetchArtwork(ctx)
		if err != nil {
			log.Debugf("artwork fetch for %s failed: %v", j.track, err)
		}
	}

	return s.tagger.Tag(path, tags, artwork)
}

func (j *job) fetchArtwork(ctx context.Context) ([]byte, error) {
	s := j.session

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var headers map[string]string
	if j.track.Source != nil {
		headers = j.track.Source.AuthHeaders()
	}

	resp, err := s.get(ctx, j.track.Artwork, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// outputExt decides the extension of the final destination. Remuxed HLS
// output lands in an mp4 container regardless of segment format.
func (s *Session) outputExt(stream *source.Stream) string {
	if stream.Protocol == source.ProtocolHLS {
		if _, remuxed := s.assembler.(*remuxAssembler); remuxed {
			return "m4a"
		}
		if stream.Format != "" {
			return stream.Format
		}
		return "ts"
	}
	if stream.Format != "" {
		return stream.Format
	}
	return "mp3"
}

// existingOutput reports a previously completed download for the stem, under
// any known container extension.
func (s *Session) existingOutput(stem string) (string, bool) {
	for _, ext := range knownExts {
		path := filepath.Join(s.opts.Dir, fmt.Sprintf("%s.%s", stem, ext))
		if exists, _ := filesystem.API().Exists(path); exists {
			return path, true
		}
	}
	return "", false
}

func trimExt(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return ext[1:]
}
