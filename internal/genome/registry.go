package genome

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/databio/bedboss-sub000/internal/table"
)

// Registry is an ordered catalog of genome models keyed by alias.
type Registry struct {
	models []*Model
	index  map[string]int
}

// NewRegistry returns a registry holding models in the given order.
func NewRegistry(models ...*Model) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, m := range models {
		if err := r.Add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends m. Aliases must be unique.
func (r *Registry) Add(m *Model) error {
	if m == nil {
		return &RegistryError{Reason: "nil genome model"}
	}
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, ok := r.index[m.Alias()]; ok {
		return &RegistryError{Alias: m.Alias(), Reason: "duplicate alias"}
	}
	r.index[m.Alias()] = len(r.models)
	r.models = append(r.models, m)
	return nil
}

// Len returns the number of models.
func (r *Registry) Len() int {
	return len(r.models)
}

// Models returns the models in registry order.
func (r *Registry) Models() []*Model {
	out := make([]*Model, len(r.models))
	copy(out, r.models)
	return out
}

// Lookup returns the model with the given alias.
func (r *Registry) Lookup(alias string) (*Model, bool) {
	i, ok := r.index[alias]
	if !ok {
		return nil, false
	}
	return r.models[i], true
}

// Exclude returns the models whose alias is not listed in aliases. The
// registry itself is left untouched.
func (r *Registry) Exclude(aliases []string) []*Model {
	return Exclude(r.models, aliases)
}

// Exclude returns a new slice of the models whose alias is not in aliases.
func Exclude(models []*Model, aliases []string) []*Model {
	skip := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		skip[a] = true
	}
	out := make([]*Model, 0, len(models))
	for _, m := range models {
		if !skip[m.Alias()] {
			out = append(out, m)
		}
	}
	return out
}

// registryFile is the on-disk cache layout.
type registryFile struct {
	Genomes []modelFile `yaml:"genomes"`
}

type modelFile struct {
	Alias      string           `yaml:"alias"`
	Digest     string           `yaml:"digest,omitempty"`
	ChromSizes map[string]int64 `yaml:"chrom_sizes"`
}

// LoadYAML reads a registry cache file.
func LoadYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RegistryError{Path: path, Reason: "reading registry", Err: err}
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &RegistryError{Path: path, Reason: "decoding registry", Err: err}
	}

	r := &Registry{index: make(map[string]int)}
	for _, g := range file.Genomes {
		m, err := NewModel(g.Alias, g.Digest, g.ChromSizes)
		if err != nil {
			return nil, withPath(err, path)
		}
		if err := r.Add(m); err != nil {
			return nil, withPath(err, path)
		}
	}
	return r, nil
}

// SaveYAML writes the registry to path as a cache file.
func (r *Registry) SaveYAML(path string) error {
	file := registryFile{Genomes: make([]modelFile, 0, len(r.models))}
	for _, m := range r.models {
		file.Genomes = append(file.Genomes, modelFile{
			Alias:      m.Alias(),
			Digest:     m.Digest(),
			ChromSizes: m.Sizes(),
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return &RegistryError{Path: path, Reason: "encoding registry", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &RegistryError{Path: path, Reason: "writing registry", Err: err}
	}
	return nil
}

// ChromSizesSuffix is the file suffix recognized by LoadChromSizesDir.
const ChromSizesSuffix = ".chrom.sizes"

// LoadChromSizes reads a two-column chrom.sizes file into a model.
func LoadChromSizes(alias, path string) (*Model, error) {
	m, err := table.ReadFile(path, table.Options{MaxHeaderRows: 1})
	if err != nil {
		return nil, &RegistryError{Alias: alias, Path: path, Reason: "reading chrom sizes", Err: err}
	}
	if m.NumCols() < 2 {
		return nil, &RegistryError{Alias: alias, Path: path, Reason: "expected two columns"}
	}

	sizes := make(map[string]int64, m.NumRows())
	for i, row := range m.Rows {
		length, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return nil, &RegistryError{
				Alias:  alias,
				Path:   path,
				Reason: fmt.Sprintf("row %d: invalid length %q", i+1+m.Skipped, row[1]),
			}
		}
		sizes[strings.TrimSpace(row[0])] = length
	}
	return NewModel(alias, "", sizes)
}

// LoadChromSizesDir builds a registry from every "<alias>.chrom.sizes" file
// in dir, ordered by alias.
func LoadChromSizesDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &RegistryError{Path: dir, Reason: "listing directory", Err: err}
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ChromSizesSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	r := &Registry{index: make(map[string]int)}
	for _, name := range names {
		alias := strings.TrimSuffix(name, ChromSizesSuffix)
		m, err := LoadChromSizes(alias, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if err := r.Add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func withPath(err error, path string) error {
	if re, ok := err.(*RegistryError); ok && re.Path == "" {
		re.Path = path
	}
	return err
}
