package download

import (
	"time"

	"github.com/spf13/viper"
	"github.com/waverip-cli/waverip/key"
	"github.com/waverip-cli/waverip/util"
	"github.com/waverip-cli/waverip/where"
)

// Options controls one batch of downloads. Zero values are normalized by
// (Options).withDefaults, so callers may set only what they care about.
type Options struct {
	// Dir is the destination directory for completed files.
	Dir string
	// Concurrency caps how many tracks download at once.
	Concurrency int
	// SegmentWorkers caps concurrent segment fetches within one track.
	SegmentWorkers int
	// Retries is the attempt budget per network fetch.
	Retries int
	// Timeout bounds a single network fetch.
	Timeout time.Duration
	// Overwrite replaces existing destination files instead of short-circuiting.
	Overwrite bool
	// AllowExclusive overrides the exclusivity gate.
	AllowExclusive bool
	// SkipPreview disables the reduced-quality preview fallback, failing
	// resolution instead when no full stream is available.
	SkipPreview bool
	// PlaylistFile writes a companion .m3u referencing successful outputs.
	PlaylistFile bool
	// Remux pipes HLS output through ffmpeg when available.
	Remux bool
	// EmbedTags writes title/artist metadata into the output file.
	EmbedTags bool
	// EmbedArtwork embeds cover art when the platform provides one.
	EmbedArtwork bool
}

// OptionsFromConfig builds Options from the global configuration.
func OptionsFromConfig() Options {
	return Options{
		Dir:            viper.GetString(key.DownloadDir),
		Concurrency:    viper.GetInt(key.DownloadConcurrency),
		SegmentWorkers: viper.GetInt(key.DownloadSegmentWorkers),
		Retries:        viper.GetInt(key.DownloadRetries),
		Timeout:        time.Duration(viper.GetInt(key.DownloadTimeoutSeconds)) * time.Second,
		Overwrite:      viper.GetBool(key.DownloadOverwrite),
		SkipPreview:    !viper.GetBool(key.DownloadAllowPreview),
		PlaylistFile:   viper.GetBool(key.DownloadPlaylistFile),
		Remux:          viper.GetBool(key.DownloadRemux),
		EmbedTags:      viper.GetBool(key.MetadataEmbed),
		EmbedArtwork:   viper.GetBool(key.MetadataEmbedArtwork),
	}
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = where.Downloads()
	}
	o.Concurrency = util.Max(o.Concurrency, 1)
	o.SegmentWorkers = util.Max(o.SegmentWorkers, 1)
	o.Retries = util.Max(o.Retries, 1)
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
