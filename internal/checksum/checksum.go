// Package checksum computes content fingerprints of build definition files.
//
// The digest is used to detect silent definition changes independent of the
// upstream version: same version plus a changed digest means the artifact must
// be rebuilt and the remote asset replaced.
package checksum

import (
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Ensure SHA256 is available for digest calculation.
	_ "crypto/sha256"
)

// DefaultDigestFunction is used to fingerprint build definition files.
const DefaultDigestFunction crypto.Hash = crypto.SHA256

var errHashUnavailable = errors.New("hash function unavailable")

// FileDigest returns the hex-encoded digest of the file contents
// using DefaultDigestFunction.
func FileDigest(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	if !DefaultDigestFunction.Available() {
		return "", fmt.Errorf("digest calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultDigestFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return "", fmt.Errorf("calculate digest: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
