package manifest

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMedia(t *testing.T) {
	Convey("Media playlists", t, func() {
		Convey("Segments resolve against the base URL in file order", func() {
			text := "#EXTM3U\n#EXTINF:10,\nseg0.ts\n#EXTINF:10,\nseg1.ts\n"
			playlist, err := Parse(text, "http://h/a/master.m3u8")
			So(err, ShouldBeNil)

			media, ok := playlist.(*Media)
			So(ok, ShouldBeTrue)
			So(len(media.Segments), ShouldEqual, 2)
			So(media.Segments[0].URL, ShouldEqual, "http://h/a/seg0.ts")
			So(media.Segments[1].URL, ShouldEqual, "http://h/a/seg1.ts")
		})

		Convey("Duration and byte-range hints attach to the following segment", func() {
			text := "#EXTM3U\n" +
				"#EXTINF:9.5,Title\n" +
				"#EXT-X-BYTERANGE:1024@0\n" +
				"first.ts\n" +
				"#EXTINF:4,\n" +
				"second.ts\n"
			playlist, err := Parse(text, "http://h/p/list.m3u8")
			So(err, ShouldBeNil)

			media := playlist.(*Media)
			So(media.Segments[0].Duration, ShouldEqual, 9.5)
			So(media.Segments[0].Size, ShouldEqual, 1024)
			So(media.Segments[1].Duration, ShouldEqual, 4)
			So(media.Segments[1].Size, ShouldEqual, 0)
		})

		Convey("Absolute segment URLs pass through unchanged", func() {
			text := "#EXTM3U\n#EXTINF:10,\nhttp://cdn.example.com/s/0.ts\n"
			playlist, err := Parse(text, "http://h/a/list.m3u8")
			So(err, ShouldBeNil)
			So(playlist.(*Media).Segments[0].URL, ShouldEqual, "http://cdn.example.com/s/0.ts")
		})

		Convey("Zero segments is an error", func() {
			_, err := Parse("#EXTM3U\n#EXT-X-ENDLIST\n", "http://h/list.m3u8")
			So(errors.Is(err, ErrEmpty), ShouldBeTrue)
		})

		Convey("Encryption tag is rejected explicitly", func() {
			text := "#EXTM3U\n#EXT-X-KEY:METHOD=AES-128,URI=\"key.bin\"\n#EXTINF:10,\nseg.ts\n"
			_, err := Parse(text, "http://h/list.m3u8")
			So(errors.Is(err, ErrEncrypted), ShouldBeTrue)
		})

		Convey("METHOD=NONE key tag is not encryption", func() {
			text := "#EXTM3U\n#EXT-X-KEY:METHOD=NONE\n#EXTINF:10,\nseg.ts\n"
			playlist, err := Parse(text, "http://h/list.m3u8")
			So(err, ShouldBeNil)
			So(len(playlist.(*Media).Segments), ShouldEqual, 1)
		})

		Convey("Non-M3U8 text is rejected", func() {
			_, err := Parse("<html></html>", "http://h/list.m3u8")
			So(errors.Is(err, ErrNotM3U8), ShouldBeTrue)
		})
	})
}

func TestParseMaster(t *testing.T) {
	Convey("Master playlists", t, func() {
		text := "#EXTM3U\n" +
			"#EXT-X-STREAM-INF:BANDWIDTH=96000\nlow.m3u8\n" +
			"#EXT-X-STREAM-INF:BANDWIDTH=320000,RESOLUTION=1280x720\nhigh.m3u8\n" +
			"#EXT-X-STREAM-INF:BANDWIDTH=160000\nmid.m3u8\n"

		Convey("Collects every variant", func() {
			playlist, err := Parse(text, "http://h/a/master.m3u8")
			So(err, ShouldBeNil)

			master, ok := playlist.(*Master)
			So(ok, ShouldBeTrue)
			So(len(master.Variants), ShouldEqual, 3)
			So(master.Variants[1].Resolution, ShouldEqual, "1280x720")
			So(master.Variants[1].URL, ShouldEqual, "http://h/a/high.m3u8")
		})

		Convey("Best selects the highest bandwidth", func() {
			playlist, _ := Parse(text, "http://h/a/master.m3u8")
			best, ok := playlist.(*Master).Best()
			So(ok, ShouldBeTrue)
			So(best.Bandwidth, ShouldEqual, 320000)
		})

		Convey("Bandwidth ties resolve to the first listed", func() {
			tied := "#EXTM3U\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=128000\nfirst.m3u8\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=128000\nsecond.m3u8\n"
			playlist, err := Parse(tied, "http://h/master.m3u8")
			So(err, ShouldBeNil)

			best, _ := playlist.(*Master).Best()
			So(best.URL, ShouldEqual, "http://h/first.m3u8")
		})

		Convey("Master with no variant URIs is an error", func() {
			_, err := Parse("#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1\n", "http://h/m.m3u8")
			So(errors.Is(err, ErrNoVariants), ShouldBeTrue)
		})
	})
}

func TestParseAttributes(t *testing.T) {
	Convey("Attribute lists", t, func() {
		attrs := parseAttributes(`BANDWIDTH=320000,CODECS="mp4a.40.2,avc1",RESOLUTION=1920x1080`)
		So(attrs["BANDWIDTH"], ShouldEqual, "320000")
		So(attrs["CODECS"], ShouldEqual, "mp4a.40.2,avc1")
		So(attrs["RESOLUTION"], ShouldEqual, "1920x1080")
	})
}

func TestResolveMedia(t *testing.T) {
	Convey("ResolveMedia", t, func() {
		media := "#EXTM3U\n#EXTINF:10,\nseg0.ts\n#EXTINF:10,\nseg1.ts\n"

		Convey("A media playlist resolves directly", func() {
			fetch := func(url string) (string, error) { return media, nil }
			m, err := ResolveMedia(fetch, "http://h/a/list.m3u8")
			So(err, ShouldBeNil)
			So(len(m.Segments), ShouldEqual, 2)
		})

		Convey("A master playlist follows the best variant", func() {
			master := "#EXTM3U\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=96000\nlow.m3u8\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=320000\nhigh.m3u8\n" +
				"#EXT-X-STREAM-INF:BANDWIDTH=160000\nmid.m3u8\n"

			var fetched []string
			fetch := func(url string) (string, error) {
				fetched = append(fetched, url)
				if url == "http://h/a/master.m3u8" {
					return master, nil
				}
				return media, nil
			}

			m, err := ResolveMedia(fetch, "http://h/a/master.m3u8")
			So(err, ShouldBeNil)
			So(len(m.Segments), ShouldEqual, 2)
			So(fetched, ShouldResemble, []string{"http://h/a/master.m3u8", "http://h/a/high.m3u8"})
		})

		Convey("Masters referencing masters beyond the depth limit fail", func() {
			loop := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1\nself.m3u8\n"
			fetch := func(url string) (string, error) { return loop, nil }
			_, err := ResolveMedia(fetch, "http://h/self.m3u8")
			So(errors.Is(err, ErrTooDeep), ShouldBeTrue)
		})

		Convey("Fetch failures propagate", func() {
			fetch := func(url string) (string, error) { return "", fmt.Errorf("boom") }
			_, err := ResolveMedia(fetch, "http://h/list.m3u8")
			So(err, ShouldNotBeNil)
		})
	})
}
