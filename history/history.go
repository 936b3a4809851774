// Package history provides the implementation for tracking and persisting completed downloads.
package history

import (
	"github.com/metafates/gache"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/source"
	"github.com/waverip-cli/waverip/where"
)

// cacher provides an abstracted, disk-backed registry for download records.
var cacher = gache.New[map[string]*SavedTrack](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of download records from the persistent store.
func Get() (map[string]*SavedTrack, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedTrack), nil
	}
	return cached, nil
}

// Save persists a completed download to the history registry.
// Re-downloads of the same track replace the previous record.
func Save(track *source.Track, path string, bytes int64, format string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedTrack(track, path, bytes, format)
	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific download record from the history registry.
func Remove(track *SavedTrack) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, track.encode())
	return cacher.Set(saved)
}
