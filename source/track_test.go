package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTrack(t *testing.T) {
	Convey("Track", t, func() {
		track := &Track{
			Title:  "Midnight Run",
			Artist: "Nova",
		}

		Convey("String representation", func() {
			So(track.String(), ShouldEqual, "Nova - Midnight Run")
			track.Artist = ""
			So(track.String(), ShouldEqual, "Midnight Run")
		})

		Convey("FileStem is sanitized", func() {
			track.Title = "Midnight Run?"
			So(track.FileStem(), ShouldEqual, "Nova_-_Midnight_Run")
		})
	})
}

func TestStream(t *testing.T) {
	Convey("Stream", t, func() {
		s := &Stream{
			URL:     "http://example.com/track.mp3",
			Quality: "320kbps",
		}

		So(s.String(), ShouldEqual, "320kbps")
		s.Quality = ""
		So(s.String(), ShouldEqual, "http://example.com/track.mp3")
	})
}

func TestParseCandidateKind(t *testing.T) {
	Convey("ParseCandidateKind", t, func() {
		Convey("Accepts known kinds", func() {
			for _, raw := range []string{"direct", "progressive", "hls", "page", "preview"} {
				kind, err := ParseCandidateKind(raw)
				So(err, ShouldBeNil)
				So(string(kind), ShouldEqual, raw)
			}
		})

		Convey("Rejects unknown kinds", func() {
			_, err := ParseCandidateKind("torrent")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestClosest(t *testing.T) {
	Convey("Closest", t, func() {
		tracks := []*Track{
			{Title: "Midnight Run", Artist: "Nova"},
			{Title: "Midnight Rain", Artist: "Nova"},
			{Title: "Sunrise", Artist: "Atlas"},
		}

		Convey("Picks the nearest display name", func() {
			got, ok := Closest(tracks, "nova - midnight rain")
			So(ok, ShouldBeTrue)
			So(got.Title, ShouldEqual, "Midnight Rain")
		})

		Convey("Empty input yields no result", func() {
			_, ok := Closest(nil, "anything")
			So(ok, ShouldBeFalse)
		})
	})
}
