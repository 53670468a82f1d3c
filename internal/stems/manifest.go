package stems

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest summarizes one extracted container: a 1-indexed mapping from stem
// number to output filename, and the source container's base filename.
type Manifest struct {
	Stems  map[string]string `json:"stems"`
	Source string            `json:"source"`
}

func writeManifest(path string, m Manifest) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
