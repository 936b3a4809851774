package custom

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/waverip-cli/waverip/source"
)

// Helper to get string from table with default
func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

func getBool(table *lua.LTable, key string) bool {
	val := table.RawGetString(key)
	if val.Type() == lua.LTBool {
		return bool(val.(lua.LBool))
	}
	return false
}

func getNumber(table *lua.LTable, key string) float64 {
	val := table.RawGetString(key)
	if val.Type() == lua.LTNumber {
		return float64(val.(lua.LNumber))
	}
	return 0
}

func trackFromTable(table *lua.LTable, index uint16) (*source.Track, error) {
	title := getString(table, "title")
	url := getString(table, "url")

	if title == "" || url == "" {
		return nil, fmt.Errorf("track must have title and url")
	}

	id := getString(table, "id")
	if id == "" {
		// URL doubles as the ID for scripts that expose none
		id = url
	}

	track := &source.Track{
		ID:        id,
		Title:     title,
		Artist:    getString(table, "artist"),
		URL:       url,
		Duration:  time.Duration(getNumber(table, "duration") * float64(time.Second)),
		Exclusive: getBool(table, "exclusive"),
		Artwork:   getString(table, "artwork"),
		Index:     index,
	}

	track.DirectURL = getString(table, "direct_url")
	track.StreamURL = getString(table, "stream_url")
	track.ManifestURL = getString(table, "manifest_url")
	track.PreviewURL = getString(table, "preview_url")

	return track, nil
}

func candidateFromTable(table *lua.LTable) (source.Candidate, error) {
	url := getString(table, "url")
	if url == "" {
		return source.Candidate{}, fmt.Errorf("candidate must have url")
	}

	rawKind := getString(table, "kind")
	if rawKind == "" {
		rawKind = string(source.KindProgressive)
	}

	kind, err := source.ParseCandidateKind(rawKind)
	if err != nil {
		return source.Candidate{}, err
	}

	return source.Candidate{Kind: kind, URL: url}, nil
}
