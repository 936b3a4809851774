// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Provider Source Identifiers - these keys manage the registration and selection of platform providers.
const (
	DefaultSources = "sources.default"
)

// Download Pipeline - these keys govern stream acquisition, concurrency, and output placement.
const (
	DownloadDir            = "download.dir"
	DownloadConcurrency    = "download.concurrency"
	DownloadSegmentWorkers = "download.segment_workers"
	DownloadRetries        = "download.retries"
	DownloadOverwrite      = "download.overwrite"
	DownloadAllowPreview   = "download.allow_preview"
	DownloadPlaylistFile   = "download.playlist_file"
	DownloadRemux          = "download.remux"
	DownloadTimeoutSeconds = "download.timeout_seconds"
)

// Metadata Tagging - these keys control post-download tag embedding.
const (
	MetadataEmbed        = "metadata.embed"
	MetadataEmbedArtwork = "metadata.embed_artwork"
)

// History Tracking - these keys configure the persistence of completed download records.
const (
	HistorySaveOnDownload = "history.save_on_download"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Icons Rendering - this key selects the visual variant for UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern general application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
