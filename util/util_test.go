package util

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("track:name?.mp3"), ShouldEqual, "track_name_.mp3")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("track__name.mp3"), ShouldEqual, "track_name.mp3")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-track-name-"), ShouldEqual, "track-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "track", "tracks"), ShouldEqual, "1 track")
		So(Quantify(2, "track", "tracks"), ShouldEqual, "2 tracks")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<artist>\w+)\s-\s(?P<title>\w+)`)
		groups := ReGroups(re, "Artist - Title")
		So(groups["artist"], ShouldEqual, "Artist")
		So(groups["title"], ShouldEqual, "Title")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/track.mp3"), ShouldEqual, "track")
		So(FileStem("track"), ShouldEqual, "track")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}
