package bank

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// File is a bank document as authored on disk.
type File struct {
	// Version is the semantic version of the bank content, e.g. "v1.4.0".
	Version   string     `yaml:"version"`
	Questions []Question `yaml:"questions"`
}

// DecodeYAML parses a bank document. Questions without an ID get a
// generated one; every question is validated.
func DecodeYAML(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode bank yaml: %w", err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a bank from path. The format is picked from the extension:
// .yaml/.yml or .xlsx.
func Load(path string) (*File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bank: %w", err)
		}
		defer fh.Close()
		return DecodeYAML(fh)
	case ".xlsx":
		return LoadXLSX(path, DefaultSheetLayout())
	default:
		return nil, fmt.Errorf("unsupported bank format %q", filepath.Ext(path))
	}
}

func (f *File) normalize() error {
	if f.Version == "" {
		f.Version = "v0.0.0"
	}
	if !strings.HasPrefix(f.Version, "v") {
		f.Version = "v" + f.Version
	}
	if !semver.IsValid(f.Version) {
		return fmt.Errorf("bank version %q is not a valid semantic version", f.Version)
	}
	seen := make(map[string]bool, len(f.Questions))
	for i := range f.Questions {
		q := &f.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CheckUpgrade rejects importing a bank older than the one already
// installed. An empty installed version accepts anything.
func CheckUpgrade(installed, incoming string) error {
	if installed == "" {
		return nil
	}
	if semver.Compare(incoming, installed) < 0 {
		return fmt.Errorf("bank %s is older than installed %s", incoming, installed)
	}
	return nil
}
