package history

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/source"
)

type testSource struct{}

func (testSource) Name() string {
	panic("")
}

func (testSource) ID() string {
	return "test source"
}

func (testSource) Search(_ string) ([]*source.Track, error) {
	panic("")
}

func (testSource) StreamCandidates(_ *source.Track) ([]source.Candidate, error) {
	panic("")
}

func (testSource) AuthHeaders() map[string]string {
	return nil
}

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a track", t, func() {
		track := source.Track{
			ID:     "fawfa",
			Title:  "adwad",
			Artist: "dwaofa",
			URL:    "fwa",
			Index:  42069,
			Source: testSource{},
		}

		Convey("When saving the track", func() {
			err := Save(&track, "/downloads/adwad.mp3", 1337, "mp3")
			Convey("Then the error should be nil", func() {
				So(err, ShouldBeNil)

				Convey("And the track should be saved", func() {
					tracks, err := Get()
					So(err, ShouldBeNil)
					So(len(tracks), ShouldBeGreaterThan, 0)
					saved := tracks[fmt.Sprintf("%s (%s)", track.ID, track.Source.ID())]
					So(saved.Title, ShouldEqual, track.Title)
					So(saved.Format, ShouldEqual, "mp3")
				})
			})
		})
	})
}
