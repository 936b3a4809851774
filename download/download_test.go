package download

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/manifest"
	"github.com/waverip-cli/waverip/source"
)

func init() {
	filesystem.SetMemMapFs()
}

func testSession(dir string) *Session {
	return NewSession(Options{
		Dir:            dir,
		Concurrency:    3,
		SegmentWorkers: 4,
		Retries:        3,
		Timeout:        5 * time.Second,
	})
}

func TestSegmentsOrdering(t *testing.T) {
	Convey("Given segments served with randomized delays", t, func() {
		payloads := make([]string, 20)
		for i := range payloads {
			payloads[i] = fmt.Sprintf("segment-%02d|", i)
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var i int
			fmt.Sscanf(r.URL.Path, "/seg/%d", &i)
			time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
			fmt.Fprint(w, payloads[i])
		}))
		defer server.Close()

		segments := make([]manifest.Segment, len(payloads))
		for i := range segments {
			segments[i] = manifest.Segment{URL: fmt.Sprintf("%s/seg/%d", server.URL, i)}
		}

		Convey("When downloading with a bounded worker pool", func() {
			var out strings.Builder
			d := NewSegments(server.Client(), nil, 4, 3, 5*time.Second)
			written, err := d.DownloadAll(context.Background(), segments, &out)

			Convey("Then the output is the segments joined in manifest order", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, strings.Join(payloads, ""))
				So(written, ShouldEqual, int64(len(out.String())))
			})
		})
	})
}

func TestSegmentsRetry(t *testing.T) {
	Convey("Given a segment that fails transiently before succeeding", t, func() {
		var flaky atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/flaky":
				if flaky.Add(1) <= 2 {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				fmt.Fprint(w, "recovered")
			case "/broken":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				fmt.Fprint(w, "ok")
			}
		}))
		defer server.Close()

		Convey("When the retry budget covers the failures", func() {
			var out strings.Builder
			d := NewSegments(server.Client(), nil, 2, 3, 5*time.Second)
			d.Backoff = 10 * time.Millisecond

			_, err := d.DownloadAll(context.Background(), []manifest.Segment{
				{URL: server.URL + "/ok"},
				{URL: server.URL + "/flaky"},
			}, &out)

			Convey("Then the download succeeds", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, "okrecovered")
			})
		})

		Convey("When a segment stays broken past the retry budget", func() {
			var out strings.Builder
			d := NewSegments(server.Client(), nil, 2, 2, 5*time.Second)
			d.Backoff = 10 * time.Millisecond

			_, err := d.DownloadAll(context.Background(), []manifest.Segment{
				{URL: server.URL + "/ok"},
				{URL: server.URL + "/broken"},
			}, &out)

			Convey("Then a segment error names the failing index", func() {
				var segErr *SegmentDownloadError
				So(err, ShouldNotBeNil)
				So(errors.As(err, &segErr), ShouldBeTrue)
				So(segErr.FailedIndices, ShouldResemble, []int{1})
			})
		})
	})
}

func TestExclusivityGate(t *testing.T) {
	Convey("Given an exclusive track", t, func() {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			fmt.Fprint(w, "audio")
		}))
		defer server.Close()

		track := &source.Track{
			Title:     "Gated",
			Artist:    "Artist",
			Exclusive: true,
			DirectURL: server.URL + "/gated.mp3",
		}

		Convey("When resolving without an override", func() {
			s := testSession("/downloads")
			_, err := s.Resolve(context.Background(), track)

			Convey("Then the job fails before any network activity", func() {
				var exclusive *ExclusivityError
				So(errors.As(err, &exclusive), ShouldBeTrue)
				So(requests.Load(), ShouldEqual, 0)
			})
		})

		Convey("When resolving with the override", func() {
			opts := testSession("/downloads").Options()
			opts.AllowExclusive = true
			s := NewSession(opts)

			stream, err := s.Resolve(context.Background(), track)

			Convey("Then the direct candidate resolves", func() {
				So(err, ShouldBeNil)
				So(stream.URL, ShouldEqual, track.DirectURL)
			})
		})
	})
}

func TestJobIdempotence(t *testing.T) {
	Convey("Given a destination that already exists", t, func() {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			fmt.Fprint(w, "audio")
		}))
		defer server.Close()

		dir := "/downloads/idempotence"
		fs := filesystem.API()
		So(fs.MkdirAll(dir, 0o755), ShouldBeNil)
		So(fs.WriteFile(dir+"/Artist_-_Done.mp3", []byte("previous"), 0o644), ShouldBeNil)

		track := &source.Track{
			Title:     "Done",
			Artist:    "Artist",
			DirectURL: server.URL + "/done.mp3",
		}

		Convey("When submitting the job again without overwrite", func() {
			s := testSession(dir)
			result := s.Download(context.Background(), track, nil)

			Convey("Then it completes with zero network requests", func() {
				So(result.Err, ShouldBeNil)
				So(result.Success, ShouldBeTrue)
				So(result.Path, ShouldEqual, dir+"/Artist_-_Done.mp3")
				So(requests.Load(), ShouldEqual, 0)

				Convey("And the existing file is untouched", func() {
					content, err := fs.ReadFile(result.Path)
					So(err, ShouldBeNil)
					So(string(content), ShouldEqual, "previous")
				})
			})
		})
	})
}

func TestJobProgressive(t *testing.T) {
	Convey("Given a progressive stream", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "progressive audio body")
		}))
		defer server.Close()

		track := &source.Track{
			Title:     "Single",
			Artist:    "Artist",
			DirectURL: server.URL + "/single.mp3",
		}

		Convey("When running the job", func() {
			dir := "/downloads/progressive"
			s := testSession(dir)
			result := s.Download(context.Background(), track, nil)

			Convey("Then the final file holds the full body", func() {
				So(result.Err, ShouldBeNil)
				So(result.Success, ShouldBeTrue)
				So(result.Format, ShouldEqual, "mp3")

				content, err := filesystem.API().ReadFile(result.Path)
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "progressive audio body")
				So(result.Bytes, ShouldEqual, int64(len(content)))
			})
		})
	})
}

func TestJobSegmented(t *testing.T) {
	Convey("Given a master playlist with multiple variants", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "#EXTM3U\n"+
				"#EXT-X-STREAM-INF:BANDWIDTH=96000\nlow.m3u8\n"+
				"#EXT-X-STREAM-INF:BANDWIDTH=320000\nhigh.m3u8\n")
		})
		mux.HandleFunc("/high.m3u8", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "#EXTM3U\n#EXTINF:10,\nseg0.ts\n#EXTINF:10,\nseg1.ts\n#EXT-X-ENDLIST\n")
		})
		mux.HandleFunc("/seg0.ts", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "first-") })
		mux.HandleFunc("/seg1.ts", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "second") })
		server := httptest.NewServer(mux)
		defer server.Close()

		track := &source.Track{
			Title:       "Segmented",
			Artist:      "Artist",
			ManifestURL: server.URL + "/master.m3u8",
		}

		Convey("When running the job", func() {
			dir := "/downloads/segmented"
			s := testSession(dir)
			result := s.Download(context.Background(), track, nil)

			Convey("Then the highest bandwidth variant is assembled in order", func() {
				So(result.Err, ShouldBeNil)
				So(result.Success, ShouldBeTrue)

				content, err := filesystem.API().ReadFile(result.Path)
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "first-second")
			})
		})
	})
}

func TestBatchIsolation(t *testing.T) {
	Convey("Given a batch where one item always fails", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/bad.mp3" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, "audio")
		}))
		defer server.Close()

		tracks := make([]*source.Track, 5)
		for i := range tracks {
			path := fmt.Sprintf("/track%d.mp3", i)
			if i == 2 {
				path = "/bad.mp3"
			}
			tracks[i] = &source.Track{
				Title:     fmt.Sprintf("Track %d", i),
				Artist:    "Artist",
				DirectURL: server.URL + path,
			}
		}

		Convey("When running the batch", func() {
			var progress atomic.Int64
			s := testSession("/downloads/batch")
			batch := s.Batch(context.Background(), tracks, func(_, _ int, _ string) {
				progress.Add(1)
			})

			Convey("Then failures stay isolated and order is preserved", func() {
				So(len(batch.Results), ShouldEqual, 5)
				So(progress.Load(), ShouldEqual, 5)

				for i, r := range batch.Results {
					So(r.Track, ShouldEqual, tracks[i])
					if i == 2 {
						So(r.Success, ShouldBeFalse)
						var resolution *ResolutionError
						So(errors.As(r.Err, &resolution), ShouldBeTrue)
					} else {
						So(r.Success, ShouldBeTrue)
					}
				}
			})
		})
	})
}

func TestBatchDuplicateDestinations(t *testing.T) {
	Convey("Given two tracks resolving to the same destination", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "audio")
		}))
		defer server.Close()

		tracks := []*source.Track{
			{Title: "Same", Artist: "Artist", DirectURL: server.URL + "/a.mp3"},
			{Title: "Same", Artist: "Artist", DirectURL: server.URL + "/b.mp3"},
		}

		Convey("When running the batch", func() {
			s := testSession("/downloads/duplicates")
			batch := s.Batch(context.Background(), tracks, nil)

			Convey("Then exactly one item runs and the other is rejected", func() {
				So(batch.Results[0].Success, ShouldBeTrue)
				So(batch.Results[1].Err, ShouldEqual, ErrDuplicateDestination)
			})
		})
	})
}

func TestBatchPlaylist(t *testing.T) {
	Convey("Given a batch with the playlist option", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "audio")
		}))
		defer server.Close()

		tracks := []*source.Track{
			{Title: "One", Artist: "Artist", DirectURL: server.URL + "/one.mp3"},
			{Title: "Two", Artist: "Artist", DirectURL: server.URL + "/two.mp3"},
		}

		Convey("When the batch completes", func() {
			opts := Options{
				Dir:          "/downloads/playlist",
				PlaylistFile: true,
			}
			s := NewSession(opts)
			batch := s.Batch(context.Background(), tracks, nil)

			Convey("Then the companion playlist references the outputs in order", func() {
				So(batch.Playlist, ShouldNotBeEmpty)

				content, err := filesystem.API().ReadFile(batch.Playlist)
				So(err, ShouldBeNil)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				So(lines[0], ShouldEqual, "#EXTM3U")
				So(lines[2], ShouldEqual, "Artist_-_One.mp3")
				So(lines[4], ShouldEqual, "Artist_-_Two.mp3")
			})
		})
	})
}

func TestResolverPreviewFallback(t *testing.T) {
	Convey("Given a track whose only candidate is a preview clip", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "short clip")
		}))
		defer server.Close()

		track := &source.Track{
			Title:      "Clip",
			Artist:     "Artist",
			PreviewURL: server.URL + "/clip.mp3",
		}

		Convey("When resolving with default options", func() {
			s := testSession("/downloads")
			stream, err := s.Resolve(context.Background(), track)

			Convey("Then the preview resolves flagged as reduced quality", func() {
				So(err, ShouldBeNil)
				So(stream.URL, ShouldEqual, track.PreviewURL)
				So(stream.ReducedQuality, ShouldBeTrue)
			})
		})

		Convey("When previews are disabled", func() {
			opts := testSession("/downloads").Options()
			opts.SkipPreview = true
			s := NewSession(opts)

			_, err := s.Resolve(context.Background(), track)

			Convey("Then resolution fails", func() {
				var resolution *ResolutionError
				So(errors.As(err, &resolution), ShouldBeTrue)
			})
		})
	})
}

func TestProgressiveMidStreamFailure(t *testing.T) {
	Convey("Given a body that dies mid-stream", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "4096")
			fmt.Fprint(w, strings.Repeat("x", 512))
		}))
		defer server.Close()

		Convey("When downloading progressively", func() {
			dir := "/downloads/midstream"
			destination := dir + "/track.mp3.part"
			So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)

			p := NewProgressive(server.Client(), nil)
			_, err := p.Download(context.Background(), server.URL+"/dying.mp3", destination, nil)

			Convey("Then the error surfaces and no partial file remains", func() {
				var progressive *ProgressiveDownloadError
				So(errors.As(err, &progressive), ShouldBeTrue)

				exists, existsErr := filesystem.API().Exists(destination)
				So(existsErr, ShouldBeNil)
				So(exists, ShouldBeFalse)
			})
		})
	})
}

func TestJobFailureCleanup(t *testing.T) {
	Convey("Given a job whose transfer dies mid-stream", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "8192")
			fmt.Fprint(w, strings.Repeat("x", 256))
		}))
		defer server.Close()

		track := &source.Track{
			Title:     "Dying",
			Artist:    "Artist",
			StreamURL: server.URL + "/dying.mp3",
		}

		Convey("When running the job", func() {
			dir := "/downloads/failure"
			s := testSession(dir)
			result := s.Download(context.Background(), track, nil)

			Convey("Then it fails and leaves no temp artifact behind", func() {
				So(result.Success, ShouldBeFalse)
				var progressive *ProgressiveDownloadError
				So(errors.As(result.Err, &progressive), ShouldBeTrue)

				entries, err := filesystem.API().ReadDir(dir)
				So(err, ShouldBeNil)
				for _, entry := range entries {
					So(entry.Name(), ShouldNotEndWith, ".part")
				}
			})
		})
	})
}

func TestBatchCancellationCleanup(t *testing.T) {
	Convey("Given a transfer that outlives the caller", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			for i := 0; i < 200; i++ {
				fmt.Fprint(w, "chunk-of-audio-")
				flusher.Flush()
				time.Sleep(20 * time.Millisecond)
			}
		}))
		defer server.Close()

		track := &source.Track{
			Title:     "Endless",
			Artist:    "Artist",
			DirectURL: server.URL + "/endless.mp3",
		}

		Convey("When the batch is cancelled mid-transfer", func() {
			dir := "/downloads/cancelled"
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(300 * time.Millisecond)
				cancel()
			}()

			s := testSession(dir)
			batch := s.Batch(ctx, []*source.Track{track}, nil)

			Convey("Then the job reports the cancellation and leaves no artifact", func() {
				result := batch.Results[0]
				So(result.Success, ShouldBeFalse)
				So(errors.Is(result.Err, context.Canceled), ShouldBeTrue)

				entries, err := filesystem.API().ReadDir(dir)
				So(err, ShouldBeNil)
				for _, entry := range entries {
					So(entry.Name(), ShouldNotEndWith, ".part")
				}
			})
		})
	})
}
