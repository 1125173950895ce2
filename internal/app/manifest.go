package app

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
	"github.com/hyperifyio/betsbrasileiras/internal/export"
	"github.com/hyperifyio/betsbrasileiras/internal/source"
)

// ManifestFile is the machine-readable record of a run in the result dir.
const ManifestFile = "manifest.json"

// manifest captures high-level run details that aid reproducibility.
type manifest struct {
	RunID       string           `json:"run_id"`
	Version     string           `json:"version"`
	Commit      string           `json:"commit"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sources     []source.Fetched `json:"sources"`
	Added       int              `json:"added"`
	Updated     int              `json:"updated"`
	Records     int              `json:"records"`
	// SnapshotSHA256 digests the RFC 8785 canonical form of bets.json, so it
	// is stable across whitespace and key-order changes.
	SnapshotSHA256 string   `json:"snapshot_sha256"`
	Files          []string `json:"files"`
}

// snapshotDigest returns the hex SHA-256 of the canonical JSON rendering of
// bets.
func snapshotDigest(bets []bet.Bet) (string, error) {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, bets); err != nil {
		return "", err
	}
	canon, err := jcs.Transform(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("canonicalize snapshot: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func writeManifest(path string, m manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
