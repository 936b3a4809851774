package history

import (
	"fmt"
	"time"

	"github.com/waverip-cli/waverip/source"
)

// SavedTrack represents a single completed download preserved in the user's history.
type SavedTrack struct {
	SourceID     string    `json:"source_id"`
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	URL          string    `json:"url"`
	Path         string    `json:"path"`
	Bytes        int64     `json:"bytes"`
	Format       string    `json:"format"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

func (s *SavedTrack) encode() string {
	return fmt.Sprintf("%s (%s)", s.ID, s.SourceID)
}

func (s *SavedTrack) String() string {
	if s.Artist == "" {
		return s.Title
	}
	return fmt.Sprintf("%s - %s", s.Artist, s.Title)
}

func newSavedTrack(track *source.Track, path string, bytes int64, format string) *SavedTrack {
	sourceID := ""
	if track.Source != nil {
		sourceID = track.Source.ID()
	}

	return &SavedTrack{
		SourceID:     sourceID,
		ID:           track.ID,
		Title:        track.Title,
		Artist:       track.Artist,
		URL:          track.URL,
		Path:         path,
		Bytes:        bytes,
		Format:       format,
		DownloadedAt: time.Now(),
	}
}
