// Package scraper provides high-level coordination and execution for virtualized Lua-based provider scripts.
package scraper

import (
	"bytes"
	"sync"

	"github.com/waverip-cli/waverip/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// bytecodeCache holds compiled prototypes per script path. Sources get
// reloaded for every command invocation, so skipping recompilation matters
// when several commands run in one process (tests, completions).
var bytecodeCache sync.Map

// PreCompileAndLoad executes a Lua script within the provided LState,
// compiling it at most once per process.
func PreCompileAndLoad(L *lua.LState, scriptPath string) error {
	proto, err := protoFor(scriptPath)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func protoFor(scriptPath string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(scriptPath); ok {
		return cached.(*lua.FunctionProto), nil
	}

	raw, err := filesystem.API().ReadFile(scriptPath)
	if err != nil {
		return nil, err
	}

	chunk, err := parse.Parse(bytes.NewReader(raw), scriptPath)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, scriptPath)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(scriptPath, proto)
	return proto, nil
}
