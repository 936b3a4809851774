package custom

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/waverip-cli/waverip/source"
	lua "github.com/yuin/gopher-lua"
)

func TestTrackFromTable(t *testing.T) {
	Convey("Given a Lua table describing a track", t, func() {
		L := lua.NewState()
		defer L.Close()

		table := L.NewTable()
		table.RawSetString("id", lua.LString("181233099"))
		table.RawSetString("title", lua.LString("Strobe"))
		table.RawSetString("artist", lua.LString("deadmau5"))
		table.RawSetString("url", lua.LString("https://example.com/deadmau5/strobe"))
		table.RawSetString("duration", lua.LNumber(634))
		table.RawSetString("exclusive", lua.LTrue)
		table.RawSetString("manifest_url", lua.LString("https://example.com/strobe/master.m3u8"))

		Convey("When translating it", func() {
			track, err := trackFromTable(table, 3)

			Convey("Then every field carries over", func() {
				So(err, ShouldBeNil)
				So(track.ID, ShouldEqual, "181233099")
				So(track.Title, ShouldEqual, "Strobe")
				So(track.Artist, ShouldEqual, "deadmau5")
				So(track.Duration, ShouldEqual, 634*time.Second)
				So(track.Exclusive, ShouldBeTrue)
				So(track.ManifestURL, ShouldEqual, "https://example.com/strobe/master.m3u8")
				So(track.Index, ShouldEqual, uint16(3))
			})
		})

		Convey("When the id is missing", func() {
			table.RawSetString("id", lua.LNil)
			track, err := trackFromTable(table, 0)

			Convey("Then the url doubles as the id", func() {
				So(err, ShouldBeNil)
				So(track.ID, ShouldEqual, track.URL)
			})
		})

		Convey("When the title is missing", func() {
			table.RawSetString("title", lua.LNil)
			_, err := trackFromTable(table, 0)

			Convey("Then translation fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestCandidateFromTable(t *testing.T) {
	Convey("Given a Lua table describing a candidate", t, func() {
		L := lua.NewState()
		defer L.Close()

		table := L.NewTable()
		table.RawSetString("kind", lua.LString("hls"))
		table.RawSetString("url", lua.LString("https://example.com/master.m3u8"))

		Convey("When translating it", func() {
			c, err := candidateFromTable(table)

			So(err, ShouldBeNil)
			So(c.Kind, ShouldEqual, source.KindHLS)
		})

		Convey("When the kind is omitted", func() {
			table.RawSetString("kind", lua.LNil)
			c, err := candidateFromTable(table)

			Convey("Then it defaults to progressive", func() {
				So(err, ShouldBeNil)
				So(c.Kind, ShouldEqual, source.KindProgressive)
			})
		})

		Convey("When the kind is unknown", func() {
			table.RawSetString("kind", lua.LString("telepathy"))
			_, err := candidateFromTable(table)
			So(err, ShouldNotBeNil)
		})
	})
}
