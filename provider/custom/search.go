package custom

import (
	"strconv"

	lua "github.com/yuin/gopher-lua"
	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/internal/cache"
	"github.com/waverip-cli/waverip/source"
)

func (s *luaSource) Search(query string) ([]*source.Track, error) {
	cacheKey := cache.GenerateKey(query, s.Name())
	var cachedTracks []*source.Track
	if cache.Read(cacheKey, &cachedTracks) {
		for _, t := range cachedTracks {
			t.Source = s
		}
		return cachedTracks, nil
	}

	val, err := s.call(constant.SearchTracksFn, lua.LTTable, lua.LString(query))
	if err != nil {
		return nil, err
	}

	table := val.(*lua.LTable)
	var tracks []*source.Track

	var errs []error
	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return // Skip invalid entries
		}

		idx, err := strconv.ParseUint(k.String(), 10, 16)
		if err != nil {
			errs = append(errs, err)
			return
		}

		track, err := trackFromTable(v.(*lua.LTable), uint16(idx))
		if err != nil {
			errs = append(errs, err)
			return
		}

		track.Source = s
		tracks = append(tracks, track)
	})

	if len(tracks) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	if len(tracks) > 0 {
		_ = cache.Write(cacheKey, tracks)
	}

	return tracks, nil
}
