package tag

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetadataFields(t *testing.T) {
	Convey("Given fully populated tags", t, func() {
		tags := Tags{
			Title:   "Strobe",
			Artist:  "deadmau5",
			Album:   "For Lack of a Better Name",
			Comment: "from waverip",
			URL:     "https://example.com/deadmau5/strobe",
		}

		Convey("When mapping them onto ffmpeg metadata keys", func() {
			fields := metadataFields(tags)

			Convey("Then every field travels, including the page URL", func() {
				So(fields["title"], ShouldEqual, tags.Title)
				So(fields["artist"], ShouldEqual, tags.Artist)
				So(fields["album"], ShouldEqual, tags.Album)
				So(fields["comment"], ShouldEqual, tags.Comment)
				So(fields["purl"], ShouldEqual, tags.URL)
			})
		})
	})
}
