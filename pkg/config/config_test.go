package config_test

import (
	"path"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/graph-guard/ggmap/pkg/config"
	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/graph-guard/ggmap/pkg/container/hamap"
	"github.com/graph-guard/ggmap/pkg/container/hybrid"
	"github.com/stretchr/testify/require"
)

type TestError struct {
	Name       string
	Filesystem fstest.MapFS
	Expect     error
}

func TestRead(t *testing.T) {
	for _, fileName := range []string{
		config.ConfigFile1,
		config.ConfigFile2,
	} {
		t.Run(fileName, func(t *testing.T) {
			fs := fstest.MapFS{
				"conf/" + fileName: file(
					`small_capacity: 8`,
					`hash:`,
					`  init_size: 64`,
					`  max_load: 90`,
					`  min_load: 20`,
					`hasher: xxh64`,
					`seed: 42`,
				),
			}
			c, err := config.Read(fs, "conf")
			require.NoError(t, err)
			require.Equal(t, &config.Config{
				Map: hybrid.Options{
					SmallCapacity: 8,
					Hash: hamap.Config{
						InitSize: 64,
						MaxLoad:  90,
						MinLoad:  20,
					},
				},
				Hasher: config.HasherXXH64,
				Seed:   42,
			}, c)
		})
	}
}

func TestReadPartial(t *testing.T) {
	fs := fstest.MapFS{
		config.ConfigFile1: file(
			`hash:`,
			`  max_load: 50`,
		),
	}
	c, err := config.Read(fs, ".")
	require.NoError(t, err)

	expect := config.Default()
	expect.Map.Hash.MaxLoad = 50
	require.Equal(t, expect, c)
}

func TestReadEmptyFile(t *testing.T) {
	fs := fstest.MapFS{
		config.ConfigFile1: file(),
	}
	c, err := config.Read(fs, ".")
	require.NoError(t, err)
	require.Equal(t, config.Default(), c)
}

func TestReadDefault(t *testing.T) {
	fs := fstest.MapFS{
		"conf/unrelated.txt": file("hello"),
	}
	c, err := config.Read(fs, "conf")
	require.NoError(t, err)
	require.Equal(t, config.Default(), c)
	require.Equal(t, hybrid.DefaultOptions(), c.Map)
	require.Equal(t, config.HasherXXH3, c.Hasher)
}

func TestReadErr(t *testing.T) {
	filePath := path.Join("conf", config.ConfigFile1)
	for _, td := range []TestError{
		{
			Name:       "missing_dir",
			Filesystem: fstest.MapFS{},
			Expect:     &config.ErrorMissing{FilePath: "conf"},
		},
		{
			Name: "conflict",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(),
				"conf/" + config.ConfigFile2: file(),
			},
			Expect: &config.ErrorConflict{Items: []string{
				path.Join("conf", config.ConfigFile1),
				path.Join("conf", config.ConfigFile2),
			}},
		},
		{
			Name: "small_capacity_zero",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(`small_capacity: 0`),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "small_capacity",
				Message:  "must be between 1 and 256",
			},
		},
		{
			Name: "small_capacity_too_big",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(`small_capacity: 257`),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "small_capacity",
				Message:  "must be between 1 and 256",
			},
		},
		{
			Name: "init_size_not_pow2",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(
					`hash:`,
					`  init_size: 12`,
				),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.init_size",
				Message:  "must be a power of two",
			},
		},
		{
			Name: "max_load_zero",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(
					`hash:`,
					`  max_load: 0`,
				),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.max_load",
				Message:  "must be positive",
			},
		},
		{
			Name: "min_load_zero",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(
					`hash:`,
					`  min_load: 0`,
				),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.min_load",
				Message:  "must be positive",
			},
		},
		{
			Name: "min_load_too_big",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(
					`hash:`,
					`  max_load: 60`,
					`  min_load: 30`,
				),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "hash.min_load",
				Message:  "must be less than half of hash.max_load",
			},
		},
		{
			Name: "unknown_hasher",
			Filesystem: fstest.MapFS{
				"conf/" + config.ConfigFile1: file(`hasher: md5`),
			},
			Expect: &config.ErrorIllegal{
				FilePath: filePath,
				Feature:  "hasher",
				Message:  `unknown hasher "md5", expected "xxh3" or "xxh64"`,
			},
		},
	} {
		t.Run(td.Name, func(t *testing.T) {
			c, err := config.Read(td.Filesystem, "conf")
			require.Equal(t, td.Expect, err)
			require.Nil(t, c)
		})
	}
}

func TestReadErrMalformed(t *testing.T) {
	for _, td := range []struct {
		Name     string
		Contents *fstest.MapFile
	}{
		{"unknown_field", file(`capacity: 4`)},
		{"unknown_nested_field", file(`hash:`, `  size: 4`)},
		{"wrong_type", file(`small_capacity: many`)},
		{"syntax", file(`hash: [`)},
	} {
		t.Run(td.Name, func(t *testing.T) {
			c, err := config.Read(fstest.MapFS{
				config.ConfigFile2: td.Contents,
			}, ".")
			require.Nil(t, c)
			require.IsType(t, &config.ErrorIllegal{}, err)
			e := err.(*config.ErrorIllegal)
			require.Equal(t, config.ConfigFile2, e.FilePath)
			require.Empty(t, e.Feature)
			require.NotEmpty(t, e.Message)
		})
	}
}

func TestStringPolicy(t *testing.T) {
	c := config.Default()
	require.Equal(t,
		container.HasherXXH3[string]{}.Hash("key"),
		config.StringPolicy[int](c).Hash("key"),
	)

	c.Hasher = config.HasherXXH64
	c.Seed = 7
	p := config.StringPolicy[int](c)
	require.Equal(t,
		container.HasherXXH64[string]{Seed: 7}.Hash("key"),
		p.Hash("key"),
	)
	require.True(t, p.Equal("key", "key"))
	require.False(t, p.Equal("key", "other"))
}

func TestErrorStrings(t *testing.T) {
	require.Equal(t,
		"conflict between: a, b",
		config.ErrorConflict{Items: []string{"a", "b"}}.Error(),
	)
	require.Equal(t,
		"missing conf",
		config.ErrorMissing{FilePath: "conf"}.Error(),
	)
	require.Equal(t,
		"illegal hasher in ggmap.yaml: unknown",
		config.ErrorIllegal{
			FilePath: "ggmap.yaml",
			Feature:  "hasher",
			Message:  "unknown",
		}.Error(),
	)
	require.Equal(t,
		"illegal in ggmap.yaml: bad",
		config.ErrorIllegal{FilePath: "ggmap.yaml", Message: "bad"}.Error(),
	)
}

func file(lines ...string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(strings.Join(lines, "\n"))}
}
