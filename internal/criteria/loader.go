package criteria

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Config schema keys
const (
	KeyFeatures = "features_to_count"
	KeyName     = "name"
	KeyXPath    = "xpath"
	KeyCSS      = "css"
)

// Format identifies a criteria config encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// configFile mirrors the on-disk layout. Features is a pointer so a missing
// top-level key can be told apart from an empty list.
type configFile struct {
	Features *[]configEntry `json:"features_to_count" yaml:"features_to_count" toml:"features_to_count"`
}

type configEntry struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	XPath string `json:"xpath" yaml:"xpath" toml:"xpath"`
	CSS   string `json:"css" yaml:"css" toml:"css"`
}

// FormatFromPath picks the config format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: unsupported config extension %q", ErrConfigFormat, filepath.Ext(path))
	}
}

// LoadFile reads a criteria config file into a new store
func LoadFile(path string) (*Store, error) {
	store := NewStore()
	if err := LoadInto(store, path); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadInto appends the criteria of a config file to an existing store.
// Either every entry is added or the store is left unchanged.
func LoadInto(store *Store, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigFormat, err)
	}
	defer f.Close()

	return load(store, f, format)
}

// Load decodes criteria from r into a new store
func Load(r io.Reader, format Format) (*Store, error) {
	store := NewStore()
	if err := load(store, r, format); err != nil {
		return nil, err
	}
	return store, nil
}

func load(store *Store, r io.Reader, format Format) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read failed: %v", ErrConfigFormat, err)
	}

	var cfg configFile
	switch format {
	case FormatJSON:
		err = sonic.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		return fmt.Errorf("%w: unknown format %q", ErrConfigFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s parse error: %v", ErrConfigFormat, format, err)
	}
	if cfg.Features == nil {
		return fmt.Errorf("%w: missing %q list", ErrConfigFormat, KeyFeatures)
	}

	staged := store.clone()
	for i, entry := range *cfg.Features {
		c, err := entry.criterion()
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if err := staged.AddCriterion(c); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	*store = *staged
	return nil
}

func (e configEntry) criterion() (Criterion, error) {
	switch {
	case e.XPath != "" && e.CSS != "":
		return Criterion{}, fmt.Errorf("%w: feature %q sets both %q and %q", ErrConfigFormat, e.Name, KeyXPath, KeyCSS)
	case e.CSS != "":
		return Criterion{Name: e.Name, Query: e.CSS, Dialect: DialectCSS}, nil
	default:
		return Criterion{Name: e.Name, Query: e.XPath, Dialect: DialectXPath}, nil
	}
}

func (s *Store) clone() *Store {
	c := &Store{
		order: make([]string, len(s.order)),
		byKey: make(map[string]Criterion, len(s.byKey)),
	}
	copy(c.order, s.order)
	for k, v := range s.byKey {
		c.byKey[k] = v
	}
	return c
}
