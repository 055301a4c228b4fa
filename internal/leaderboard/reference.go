package leaderboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var defaultReference []byte

type referenceFile struct {
	Entries []Entry `yaml:"entries"`
}

// DefaultReference returns the bundled reference population.
func DefaultReference() []Entry {
	entries, err := DecodeReference(bytes.NewReader(defaultReference))
	if err != nil {
		panic(fmt.Sprintf("leaderboard: bundled reference: %v", err))
	}
	return entries
}

// DecodeReference reads a YAML reference set.
func DecodeReference(r io.Reader) ([]Entry, error) {
	var f referenceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode reference: %w", err)
	}
	seen := make(map[string]bool, len(f.Entries))
	for i, e := range f.Entries {
		if e.UserID == "" {
			return nil, fmt.Errorf("reference entry %d: missing id", i)
		}
		if seen[e.UserID] {
			return nil, fmt.Errorf("reference entry %d: duplicate id %q", i, e.UserID)
		}
		if e.Points < 0 || e.Streak < 0 {
			return nil, fmt.Errorf("reference entry %q: negative points or streak", e.UserID)
		}
		seen[e.UserID] = true
	}
	return f.Entries, nil
}

// LoadReference reads a reference set from path. An empty path returns
// the bundled set.
func LoadReference(path string) ([]Entry, error) {
	if path == "" {
		return DefaultReference(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeReference(f)
}
