package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/where"
)

const RepoRawURL = "https://raw.githubusercontent.com/waverip-cli/waverip/main/config/sources/"

// UpdateSources fetches the latest published provider scripts and swaps in any
// that changed. SHA-256 hash checks avoid redundant disk writes. Returns the
// names of the updated scripts.
func UpdateSources(names []string) []string {
	var updated []string

	// Timeout to prevent hanging on DNS failures
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := &http.Client{}

	for _, name := range names {
		if updateSingleFile(ctx, client, name) {
			updated = append(updated, name)
		}
	}

	if len(updated) > 0 {
		log.Infof("provider script updates completed: %v", updated)
	} else {
		log.Info("provider script check completed, no updates available")
	}
	return updated
}

func updateSingleFile(ctx context.Context, client *http.Client, filename string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RepoRawURL+filename, nil)
	if err != nil {
		log.Warnf("Failed to create update request for %s: %v", filename, err)
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Warnf("Update network failure for %s: %v", filename, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("Update returned non-200 for %s: %d", filename, resp.StatusCode)
		return false
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}

	remoteHashRaw := sha256.Sum256(bodyBytes)
	remoteHash := hex.EncodeToString(remoteHashRaw[:])

	localPath := filepath.Join(where.Sources(), filename)
	localBytes, err := os.ReadFile(localPath)

	if err == nil {
		localHashRaw := sha256.Sum256(localBytes)
		localHash := hex.EncodeToString(localHashRaw[:])
		if localHash == remoteHash {
			return false
		}
	}

	// Hashes differ or local file missing, perform update.
	tmpPath := localPath + ".tmp"
	err = os.WriteFile(tmpPath, bodyBytes, 0644)
	if err != nil {
		log.Warnf("Update failed to write tmp file for %s: %v", filename, err)
		return false
	}

	// Atomic swap prevents corrupt state
	err = os.Rename(tmpPath, localPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		log.Warnf("Update failed atomic swap for %s: %v", filename, err)
		return false
	}

	log.Infof("Updated provider script: %s", filename)
	return true
}
