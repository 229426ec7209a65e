package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/graph-guard/ggmap/pkg/container/hybrid"
	"github.com/graph-guard/ggmap/pkg/math"
	yaml "gopkg.in/yaml.v3"
)

const ConfigFile1 = "ggmap.yaml"
const ConfigFile2 = "ggmap.yml"

const (
	HasherXXH3  = "xxh3"
	HasherXXH64 = "xxh64"
)

// MaxSmallCapacity is the largest accepted small_capacity.
// Beyond it linear search stops paying off.
const MaxSmallCapacity = 256

type Config struct {
	Map    hybrid.Options
	Hasher string
	Seed   uint64
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Map:    hybrid.DefaultOptions(),
		Hasher: HasherXXH3,
	}
}

// StringPolicy returns the key policy for string keys
// using the configured hasher.
func StringPolicy[V any](c *Config) container.Funcs[string, V] {
	p := container.BytesPolicy[string, V]()
	switch c.Hasher {
	case HasherXXH64:
		p.HashFn = container.HasherXXH64[string]{Seed: c.Seed}.Hash
	default:
		p.HashFn = container.HasherXXH3[string]{Seed: c.Seed}.Hash
	}
	return p
}

type configFile struct {
	SmallCapacity *int       `yaml:"small_capacity"`
	Hash          hashConfig `yaml:"hash"`
	Hasher        string     `yaml:"hasher"`
	Seed          uint64     `yaml:"seed"`
}

type hashConfig struct {
	InitSize *int `yaml:"init_size"`
	MaxLoad  *int `yaml:"max_load"`
	MinLoad  *int `yaml:"min_load"`
}

// Read reads the configuration file from dirPath.
// Returns ErrorMissing if dirPath doesn't exist.
// Returns the default configuration if dirPath contains
// neither ConfigFile1 nor ConfigFile2.
func Read(filesystem fs.FS, dirPath string) (*Config, error) {
	if _, err := fs.Stat(filesystem, dirPath); errors.Is(err, fs.ErrNotExist) {
		return nil, &ErrorMissing{FilePath: dirPath}
	} else if err != nil {
		return nil, fmt.Errorf("reading config directory: %w", err)
	}

	var filePath string
	for _, n := range []string{ConfigFile1, ConfigFile2} {
		p := path.Join(dirPath, n)
		_, err := fs.Stat(filesystem, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if filePath != "" {
			return nil, &ErrorConflict{Items: []string{
				path.Join(dirPath, ConfigFile1),
				path.Join(dirPath, ConfigFile2),
			}}
		}
		filePath = p
	}
	if filePath == "" {
		return Default(), nil
	}

	f, err := filesystem.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()
	return decode(f, filePath)
}

func decode(r io.Reader, filePath string) (*Config, error) {
	var c configFile
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	conf := Default()

	if v := c.SmallCapacity; v != nil {
		if *v < 1 || *v > MaxSmallCapacity {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "small_capacity",
				Message: fmt.Sprintf(
					"must be between 1 and %d", MaxSmallCapacity,
				),
			}
		}
		conf.Map.SmallCapacity = *v
	}

	if v := c.Hash.InitSize; v != nil {
		if !math.IsPow2(*v) {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.init_size",
				Message:  "must be a power of two",
			}
		}
		conf.Map.Hash.InitSize = *v
	}

	if v := c.Hash.MaxLoad; v != nil {
		if *v < 1 {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.max_load",
				Message:  "must be positive",
			}
		}
		conf.Map.Hash.MaxLoad = *v
	}

	if v := c.Hash.MinLoad; v != nil {
		if *v < 1 {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.min_load",
				Message:  "must be positive",
			}
		}
		conf.Map.Hash.MinLoad = *v
	}
	if conf.Map.Hash.MinLoad*2 >= conf.Map.Hash.MaxLoad {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Feature:  "hash.min_load",
			Message:  "must be less than half of hash.max_load",
		}
	}

	switch c.Hasher {
	case "":
	case HasherXXH3, HasherXXH64:
		conf.Hasher = c.Hasher
	default:
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Feature:  "hasher",
			Message: fmt.Sprintf(
				"unknown hasher %q, expected %q or %q",
				c.Hasher, HasherXXH3, HasherXXH64,
			),
		}
	}
	conf.Seed = c.Seed

	return conf, nil
}

type ErrorConflict struct {
	Items []string
}

func (e ErrorConflict) Error() string {
	var b strings.Builder
	b.WriteString("conflict between: ")
	for i := range e.Items {
		b.WriteString(e.Items[i])
		if i+1 < len(e.Items) {
			b.WriteString(", ")
		}
	}
	return b.String()
}

type ErrorMissing struct {
	FilePath string
}

func (e ErrorMissing) Error() string { return "missing " + e.FilePath }

type ErrorIllegal struct {
	FilePath string
	Feature  string
	Message  string
}

func (e ErrorIllegal) Error() string {
	var b strings.Builder
	b.WriteString("illegal ")
	if e.Feature != "" {
		b.WriteString(e.Feature)
		b.WriteString(" ")
	}
	b.WriteString("in ")
	b.WriteString(e.FilePath)
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}
