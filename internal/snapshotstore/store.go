// Package snapshotstore persists a snapshot.Snapshot to disk as TOML,
// optionally zstd-compressed, with an atomic write path and forward
// compatibility for top-level fields a newer format version might add.
package snapshotstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"

	"codesnap/internal/snapshot"
)

// knownTopLevelKeys are the short TOML keys snapshot.Snapshot declares.
// Any other top-level key found on load is preserved in Snapshot.Unknown.
var knownTopLevelKeys = map[string]bool{
	"v": true, "p": true, "t": true, "h": true, "l": true,
	"s": true, "y": true, "dp": true, "c": true, "q": true, "md": true,
}

// ZstdExtension marks a zstd-compressed snapshot file.
const ZstdExtension = ".zst"

// Save writes s to path atomically: it encodes to a temp file in the same
// directory, then renames over path so a reader never observes a partial
// write. If path ends in ".zst" the TOML body is zstd-compressed first.
func Save(path string, s *snapshot.Snapshot) error {
	body, err := Encode(s)
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, ZstdExtension) {
		body, err = compress(body)
		if err != nil {
			return fmt.Errorf("snapshotstore: compress: %w", err)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshotstore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshotstore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshotstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("snapshotstore: rename into place: %w", err)
	}
	return nil
}

// Load reads and decodes a Snapshot from path, transparently decompressing
// if the file ends in ".zst".
func Load(path string) (*snapshot.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: read %s: %w", path, err)
	}
	if strings.HasSuffix(path, ZstdExtension) {
		raw, err = decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("snapshotstore: decompress %s: %w", path, err)
		}
	}
	return Decode(raw)
}

// Encode marshals s to TOML, merging any Unknown top-level fields back in
// so round-tripped snapshots don't lose data a newer writer added.
func Encode(s *snapshot.Snapshot) ([]byte, error) {
	body, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: marshal: %w", err)
	}
	if len(s.Unknown) == 0 {
		return body, nil
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("snapshotstore: re-decode for merge: %w", err)
	}
	for k, v := range s.Unknown {
		if knownTopLevelKeys[k] {
			continue // never let Unknown shadow a recognised field
		}
		doc[k] = v
	}
	merged, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: marshal merged document: %w", err)
	}
	return merged, nil
}

// Decode parses raw TOML into a Snapshot, stashing any top-level key this
// version of the model doesn't recognise into Snapshot.Unknown.
func Decode(raw []byte) (*snapshot.Snapshot, error) {
	var s snapshot.Snapshot
	if err := toml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("snapshotstore: unmarshal: %w", err)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("snapshotstore: unmarshal for unknown-field scan: %w", err)
	}
	for k, v := range doc {
		if !knownTopLevelKeys[k] {
			if s.Unknown == nil {
				s.Unknown = make(map[string]interface{})
			}
			s.Unknown[k] = v
		}
	}

	return &s, nil
}

func compress(body []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(body, nil), nil
}

func decompress(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(body, nil)
}

// approxBytesPerToken is a rough heuristic for English-like source text
// (roughly 4 bytes/token), used only to give callers an order-of-magnitude
// estimate of how much of a model's context a snapshot would consume.
const approxBytesPerToken = 4

// EstimateTokens returns ceil(byteLength / 4) over s's serialized form, a
// rough order-of-magnitude LLM-token forecast. Falls back to summing
// compressed code body lengths if s fails to encode.
func EstimateTokens(s *snapshot.Snapshot) int {
	if body, err := Encode(s); err == nil {
		return ceilDiv(len(body), approxBytesPerToken)
	}
	total := 0
	for _, code := range s.Code {
		total += len(code.Body)
	}
	return ceilDiv(total, approxBytesPerToken)
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// Summarize renders a short human-readable description of s, suitable for
// CLI status output.
func Summarize(s *snapshot.Snapshot) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s @ %s (%s compression)\n", s.ProjectName, s.ProjectHash, s.CompressionLevel)
	fmt.Fprintf(&b, "  files: %d, lines: %d, languages: %v\n", s.Meta.TotalFiles, s.Meta.TotalLines, s.Meta.Languages)
	fmt.Fprintf(&b, "  symbols: %d files indexed, %d dependency edges\n", len(s.Symbols), len(s.Dependencies.Edges))
	fmt.Fprintf(&b, "  quality score: %.1f, ~%d estimated tokens\n", s.Quality.Score, EstimateTokens(s))
	return b.String()
}
