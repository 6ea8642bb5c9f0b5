// Package hashutil provides the collision-resistant digests used to derive
// FileHash and ProjectHash values.
package hashutil

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Prefix is the number of hex characters kept from the underlying digest.
const Prefix = 16

// HashBytes returns the first Prefix hex characters of the blake2b-256
// digest of b. Deterministic and dependent only on b.
func HashBytes(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])[:Prefix]
}

// FileEntry is a single (path, hash) pair contributing to a project hash.
type FileEntry struct {
	Path string
	Hash string
}

// HashProject sorts entries by Path ascending, concatenates
// "<path>:<hash>" joined by "|", and returns the first Prefix hex
// characters of the blake2b-256 digest of the result. Reordering the input
// does not change the output.
func HashProject(entries []FileEntry) string {
	sorted := make([]FileEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = e.Path + ":" + e.Hash
	}

	return HashBytes([]byte(strings.Join(parts, "|")))
}

// HashProjectMap is a convenience wrapper over HashProject for callers
// holding a relPath -> FileHash map.
func HashProjectMap(fileHashes map[string]string) string {
	entries := make([]FileEntry, 0, len(fileHashes))
	for path, hash := range fileHashes {
		entries = append(entries, FileEntry{Path: path, Hash: hash})
	}
	return HashProject(entries)
}
