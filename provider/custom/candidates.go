package custom

import (
	lua "github.com/yuin/gopher-lua"
	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/source"
)

func (s *luaSource) StreamCandidates(track *source.Track) ([]source.Candidate, error) {
	// No caching for candidates (stream links expire)

	val, err := s.call(constant.TrackCandidatesFn, lua.LTTable, lua.LString(track.URL))
	if err != nil {
		return nil, err
	}

	table := val.(*lua.LTable)
	var candidates []source.Candidate
	var errs []error

	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return
		}

		c, err := candidateFromTable(v.(*lua.LTable))
		if err != nil {
			errs = append(errs, err)
			return
		}

		candidates = append(candidates, c)
	})

	if len(candidates) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return candidates, nil
}
