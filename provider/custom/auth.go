package custom

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/waverip-cli/waverip/auth"
	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/log"
)

// AuthHeaders asks the script for its outbound headers. Scripts that define
// no AuthHeaders function fall back to a bearer token from the keyring, when
// one was stored for this provider.
func (s *luaSource) AuthHeaders() map[string]string {
	headers := make(map[string]string)

	if s.defines(constant.AuthHeadersFn) {
		val, err := s.call(constant.AuthHeadersFn, lua.LTTable)
		if err != nil {
			log.Warnf("provider %s auth headers call failed: %v", s.Name(), err)
			return headers
		}

		val.(*lua.LTable).ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
		return headers
	}

	if token, err := auth.GetToken(s.ID()); err == nil && token != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
	}
	return headers
}
