package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given two semantic versions", t, func() {
		Convey("It detects a newer version", func() {
			comp, err := Compare("1.2.3", "1.2.2")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, 1)
		})

		Convey("It detects an older version", func() {
			comp, err := Compare("0.9.9", "1.0.0")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, -1)
		})

		Convey("It detects equal versions ignoring the v prefix", func() {
			comp, err := Compare("v2.0.1", "2.0.1")
			So(err, ShouldBeNil)
			So(comp, ShouldEqual, 0)
		})

		Convey("It rejects malformed versions", func() {
			_, err := Compare("not-a-version", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}
