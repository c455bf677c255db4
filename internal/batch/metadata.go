package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// RomMetadata is one ROM's optional descriptive overrides, keyed by
// identifier in the metadata file. Every field is optional; an absent
// entry or absent field falls back to a heuristic default.
type RomMetadata struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Authors          string `json:"authors"`
	Release          string `json:"release"`
	RecommendedCPUHz int    `json:"recommended_cpu_hz"`
}

// loadMetadata reads the optional JSON metadata file, keyed by ROM
// identifier. A minimal stdlib encoding/json reader is used rather
// than a third-party format library, per SPEC_FULL.md section 6: this
// file is explicitly named an out-of-scope external collaborator, so
// the one-struct, one-call json.Unmarshal here carries no format
// surface worth a dependency.
func loadMetadata(path string) (map[string]RomMetadata, error) {
	if path == "" {
		return map[string]RomMetadata{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: reading metadata file %s: %w", path, err)
	}

	var result map[string]RomMetadata
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("batch: parsing metadata file %s: %w", path, err)
	}
	return result, nil
}
