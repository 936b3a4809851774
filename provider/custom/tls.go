// Lua glue for the TLS-spoofed HTTP client.
//
// registerTLSClient injects the "http_tls" global module into the Lua state.
// When a script calls http_tls.get(), the Go engine executes the request with
// the Chrome-fingerprint client from the network package, which is required
// for platforms behind anti-bot challenges that reject standard Go clients.
//
// Lua API:
//
//	http_tls.get(url)              → returns body string
//	http_tls.get(url, headers_tbl) → returns body string with custom headers
//	http_tls.request(options_tbl)  → returns {status, body}
package custom

import (
	"github.com/waverip-cli/waverip/internal/cache"
	"github.com/waverip-cli/waverip/network"
	lua "github.com/yuin/gopher-lua"
)

func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))

	L.SetGlobal("http_tls", mod)
}

// httpTLSGet implements http_tls.get(url [, headers]) → body string
func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headersTable := L.OptTable(2, nil)

	headers := make(map[string]string)
	if headersTable != nil {
		headersTable.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	body, _, err := network.TLSRequest("GET", url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

// httpTLSRequest implements http_tls.request(options) → {status, body}
func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := getStringField(opts, "method", "GET")
	url := getStringField(opts, "url", "")
	reqBody := getStringField(opts, "body", "")

	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	shouldCache := false
	if cacheVal := opts.RawGetString("cache"); cacheVal != lua.LNil {
		shouldCache = lua.LVAsBool(cacheVal)
	}

	headers := make(map[string]string)
	headersTbl := opts.RawGetString("headers")
	if tbl, ok := headersTbl.(*lua.LTable); ok {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	type tlsCacheEntry struct {
		Status int    `json:"status"`
		Body   string `json:"body"`
	}

	var cacheKey string
	if shouldCache {
		cacheKey = cache.GenerateKey(url+reqBody, method)
		var entry tlsCacheEntry
		if cache.Read(cacheKey, &entry) {
			result := L.NewTable()
			L.SetField(result, "status", lua.LNumber(entry.Status))
			L.SetField(result, "body", lua.LString(entry.Body))
			L.Push(result)
			return 1
		}
	}

	respBody, statusCode, err := network.TLSRequest(method, url, headers, reqBody)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	if shouldCache && statusCode == 200 {
		entry := tlsCacheEntry{
			Status: statusCode,
			Body:   respBody,
		}
		_ = cache.Write(cacheKey, entry)
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(statusCode))
	L.SetField(result, "body", lua.LString(respBody))
	L.Push(result)
	return 1
}

// getStringField is a helper to get a string field from a Lua table with a default.
func getStringField(tbl *lua.LTable, key string, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}
