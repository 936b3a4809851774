package scrape

import (
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Extract", t, func() {
		base, _ := url.Parse("https://tracks.example.com/artist/song")

		Convey("Finds audio element sources", func() {
			page := `<html><body><audio src="/streams/song.mp3"></audio></body></html>`
			found := Extract(page, base)
			So(found, ShouldContain, "https://tracks.example.com/streams/song.mp3")
		})

		Convey("Finds stream meta properties", func() {
			page := `<html><head><meta property="og:audio" content="https://cdn.example.com/a.m3u8"></head></html>`
			found := Extract(page, base)
			So(found, ShouldContain, "https://cdn.example.com/a.m3u8")
		})

		Convey("Finds media URLs inside scripts", func() {
			page := `<html><script>var s = {"stream":"https://cdn.example.com/hls/list.m3u8?tok=1"};</script></html>`
			found := Extract(page, base)
			So(found, ShouldContain, "https://cdn.example.com/hls/list.m3u8?tok=1")
		})

		Convey("Deduplicates repeated URLs", func() {
			page := `<audio src="https://c.example.com/x.mp3"></audio><script>"https://c.example.com/x.mp3"</script>`
			found := Extract(page, base)
			count := 0
			for _, u := range found {
				if u == "https://c.example.com/x.mp3" {
					count++
				}
			}
			So(count, ShouldEqual, 1)
		})

		Convey("No streams yields empty result", func() {
			found := Extract(`<html><body><p>nothing here</p></body></html>`, base)
			So(found, ShouldBeEmpty)
		})
	})
}
