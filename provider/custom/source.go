package custom

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaSource adapts a loaded provider script to the source.Source interface.
// A script owns its own LState; states are not safe for concurrent use, so
// callers serialize access per source.
type luaSource struct {
	name  string
	state *lua.LState
}

func newLuaSource(name string, state *lua.LState) (*luaSource, error) {
	return &luaSource{name: name, state: state}, nil
}

// Name returns the provider name.
func (s *luaSource) Name() string {
	return s.name
}

// ID returns the provider ID.
func (s *luaSource) ID() string {
	return IDfromName(s.name)
}

// defines reports whether the script declares fn as a global function.
func (s *luaSource) defines(fn string) bool {
	return s.state.GetGlobal(fn).Type() == lua.LTFunction
}

// call invokes a global script function in protected mode and checks that the
// single return value has the expected type.
func (s *luaSource) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	if !s.defines(fn) {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := s.state.CallByParam(lua.P{
		Fn:      s.state.GetGlobal(fn),
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, err
	}

	ret := s.state.Get(-1)
	s.state.Pop(1)

	if ret.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, ret.Type(), retType)
	}

	return ret, nil
}
