package provider

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCustomProviders(t *testing.T) {
	Convey("Given a sources dir with scripts and helpers", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll(where.Sources(), 0755), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(where.Sources(), "soundpeak.lua"), []byte("-- provider"), 0644), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(where.Sources(), "common.lua"), []byte("-- shared"), 0644), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(where.Sources(), "notes.txt"), []byte("junk"), 0644), ShouldBeNil)

		Convey("When listing custom providers", func() {
			providers, err := CustomProviders()
			So(err, ShouldBeNil)

			Convey("Then only provider scripts should be listed", func() {
				So(providers, ShouldHaveLength, 1)
				So(providers[0].Name, ShouldEqual, "soundpeak")
				So(providers[0].IsCustom, ShouldBeTrue)
			})
		})

		Convey("When getting a provider by name", func() {
			p, ok := Get("soundpeak")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, "soundpeak custom")
		})

		Convey("When getting an unknown provider", func() {
			_, ok := Get("kek")
			So(ok, ShouldBeFalse)
		})
	})
}
