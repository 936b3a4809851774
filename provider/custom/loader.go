// Package custom provides a bridge between the Go core and Lua-based provider scripts.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/internal/scraper"
	"github.com/waverip-cli/waverip/source"
	"github.com/waverip-cli/waverip/util"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName generates a canonical provider identifier for a given Lua script basename.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadSource initializes a new source.Source instance by executing and validating a Lua provider script.
func LoadSource(path string) (source.Source, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	// Load and compile the Lua script (using cache if available).
	err := scraper.PreCompileAndLoad(state, path)
	if err != nil {
		return nil, err
	}

	name := util.FileStem(path)

	// AuthHeaders is optional; everything else must be defined.
	required := []string{
		constant.SearchTracksFn,
		constant.TrackCandidatesFn,
	}

	for _, fn := range required {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			return nil, fmt.Errorf("function %s is required but not defined in %s", fn, name)
		}
	}

	return newLuaSource(name, state)
}
