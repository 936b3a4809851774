package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/waverip-cli/waverip/key"
)

func TestGet(t *testing.T) {
	Convey("Given the icon registry", t, func() {
		Convey("Every icon renders non-empty under every variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)

				for _, i := range []Icon{Progress, Success, Fail, Warning, Download, Track, Lua, Question} {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("An unknown variant renders empty", func() {
			viper.Set(key.IconsVariant, "does-not-exist")
			So(Get(Download), ShouldBeEmpty)
		})
	})
}
