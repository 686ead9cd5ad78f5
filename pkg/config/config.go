// Package config loads the configuration file and resolves runtime
// settings. The file holds a settings block plus named job templates
// that materialize into runnable backup jobs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

// File is the parsed configuration file.
type File struct {
	Settings Settings           `yaml:"settings"`
	Jobs     map[string]JobSpec `yaml:"jobs"`
}

// JobSpec is one job template as written in the file. Extends names
// another template in the same file; everything else layers on top of
// what the parent provides.
type JobSpec struct {
	Extends     string         `yaml:"extends"`
	Tool        string         `yaml:"tool"`
	Source      *backup.Place  `yaml:"source"`
	Destination *backup.Place  `yaml:"destination"`
	Filters     []FilterSpec   `yaml:"filters"`
	Options     map[string]any `yaml:"options"`
}

// FilterSpec is one entry of the ordered filters list: a single-key map
// from filter name to its value.
type FilterSpec map[string]any

// Load reads and parses the file at path. Unknown keys are rejected.
// A missing file surfaces as an error satisfying errors.Is with
// fs.ErrNotExist so commands that can work without one may proceed.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, errclass.ErrConfigInvalid.WithMessagef("parse %s: %v", path, err)
	}
	return &f, nil
}

// JobNames returns the template names in sorted order.
func (f *File) JobNames() []string {
	names := make([]string, 0, len(f.Jobs))
	for name := range f.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
