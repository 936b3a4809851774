package tag

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/waverip-cli/waverip/log"
)

// FFmpeg writes tags by remuxing through an external ffmpeg process with
// stream copy, so the audio bytes are never re-encoded.
type FFmpeg struct {
	// Binary is the executable to invoke, normally "ffmpeg".
	Binary string
}

// Available reports whether an ffmpeg binary can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Tag embeds tags and optional artwork into the file at path, replacing it
// atomically on success.
func (f *FFmpeg) Tag(path string, tags Tags, artwork []byte) error {
	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	out := path + ".tagged" + filepath.Ext(path)
	args := []string{"-y", "-i", path}

	var artFile string
	if len(artwork) > 0 {
		tmp, err := os.CreateTemp("", "waverip-art-*.jpg")
		if err == nil {
			if _, err = tmp.Write(artwork); err == nil {
				artFile = tmp.Name()
				args = append(args, "-i", artFile, "-map", "0", "-map", "1", "-disposition:v", "attached_pic")
			}
			tmp.Close()
		}
		if artFile == "" {
			log.Warn("could not stage artwork for tagging, continuing without it")
		}
	}
	if artFile != "" {
		defer os.Remove(artFile)
	}

	args = append(args, "-c", "copy")
	for k, v := range metadataFields(tags) {
		if v != "" {
			args = append(args, "-metadata", fmt.Sprintf("%s=%s", k, v))
		}
	}
	args = append(args, out)

	cmd := exec.Command(binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(out)
		log.Errorf("ffmpeg tagging failed: %v: %s", err, output)
		return fmt.Errorf("ffmpeg tagging: %w", err)
	}

	return os.Rename(out, path)
}

// metadataFields maps Tags onto ffmpeg -metadata keys. The canonical page URL
// travels as purl, which ffmpeg writes into the matching container field.
func metadataFields(tags Tags) map[string]string {
	return map[string]string{
		"title":   tags.Title,
		"artist":  tags.Artist,
		"album":   tags.Album,
		"comment": tags.Comment,
		"purl":    tags.URL,
	}
}
