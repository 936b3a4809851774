package download

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/log"
)

// Assembler promotes a finished temp artifact to its final destination.
// Strategies are injected at session construction: the native strategy is a
// verify-and-rename, the remux strategy pipes segmented output through an
// external ffmpeg process for a clean container.
type Assembler interface {
	// Assemble moves src to dst. src is consumed on success.
	// Segmented reports whether src holds concatenated HLS segments.
	Assemble(src, dst string, segmented bool) error
}

// nativeAssembler verifies the temp artifact and renames it into place.
type nativeAssembler struct{}

func (nativeAssembler) Assemble(src, dst string, _ bool) error {
	fs := filesystem.API()

	stat, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat temp artifact: %w", err)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("temp artifact %s is empty", src)
	}

	// Atomic promotion: the destination either keeps its previous content or
	// receives the complete artifact, never a partial write.
	return fs.Rename(src, dst)
}

// remuxAssembler rewrites concatenated HLS segments into a clean container
// via ffmpeg stream copy. Progressive artifacts skip the remux.
type remuxAssembler struct {
	Binary string
}

func (r *remuxAssembler) Assemble(src, dst string, segmented bool) error {
	if !segmented {
		return nativeAssembler{}.Assemble(src, dst, false)
	}

	stat, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat temp artifact: %w", err)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("temp artifact %s is empty", src)
	}

	binary := r.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	tmp := dst + ".remux"
	cmd := exec.Command(binary, "-y", "-i", src, "-c", "copy", "-f", "mp4", tmp)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(tmp)
		log.Warnf("ffmpeg remux failed, falling back to raw concatenation: %v: %s", err, output)
		return nativeAssembler{}.Assemble(src, dst, false)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}
