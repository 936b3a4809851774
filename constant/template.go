// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Provider Function Identifiers - these constants define the required global function signatures for Lua provider modules.
const (
	SearchTracksFn    = "SearchTracks"
	TrackCandidatesFn = "TrackCandidates"
	AuthHeadersFn     = "AuthHeaders"
)

// SourceTemplate is a Go text/template for scaffolding new Lua provider files.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias track { id: string, title: string, artist: string, url: string, duration: number|nil, exclusive: boolean|nil, artwork: string|nil }
---@alias candidate { kind: string, url: string }  -- kind: direct | progressive | hls | page | preview


----- IMPORTS -----
--- END IMPORTS ---



----- VARIABLES -----
--- END VARIABLES ---



----- MAIN -----

--- Searches for tracks with given query.
-- @param query string Query to search for
-- @return track[] Table of tracks
function {{ .SearchTracksFn }}(query)
	return {}
end


--- Lists candidate stream URLs for a track, most preferred first.
-- @param trackURL string URL of the track page
-- @return candidate[] Table of candidates
function {{ .TrackCandidatesFn }}(trackURL)
	return {}
end


--- Returns headers to attach to outbound requests (tokens, client ids).
-- @return table<string, string>
function {{ .AuthHeadersFn }}()
	return {}
end

--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
