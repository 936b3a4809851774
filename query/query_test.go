package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		Convey("When remembering queries", func() {
			So(Remember("daft punk", 1), ShouldBeNil)
			So(Remember("deadmau5", 10), ShouldBeNil)

			Convey("Then suggestions should be sorted by rank", func() {
				memo = make(map[string][]*queryRecord)

				s := SuggestMany("dea")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 1)
				So(s[0], ShouldEqual, "deadmau5")
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  DAFT PUNK  "), ShouldEqual, "daft punk")
			})
		})
	})
}
