package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/graph-guard/ggmap/pkg/cli"
	"github.com/graph-guard/ggmap/pkg/config"
	"github.com/graph-guard/ggmap/pkg/container"
	"github.com/graph-guard/ggmap/pkg/container/hybrid"
	"github.com/phuslu/log"
	"golang.org/x/exp/slices"
)

// count prints the number of occurrences of every key sorted by
// count in descending order and key in ascending order.
func count(w io.Writer, stdin io.Reader, l log.Logger, c cli.CommandCount) bool {
	conf := ReadConfig(l, c.ConfigDirPath)
	if conf == nil {
		return false
	}

	m := hybrid.New[string, int](config.StringPolicy[int](conf), &conf.Map)
	defer m.Destroy()

	total, ok := forEachKey(stdin, l, c.Input, func(key string) {
		if !m.GetFn(key, func(v *int) { *v++ }) {
			m.Insert(key, 1)
		}
	})
	if !ok {
		return false
	}

	counts := make([]container.Pair[string, int], 0, m.Len())
	m.Visit(func(key string, n int) (stop bool) {
		counts = append(counts, container.Pair[string, int]{Key: key, Value: n})
		return false
	})
	slices.SortFunc(counts, func(a, b container.Pair[string, int]) bool {
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Key < b.Key
	})

	var b strings.Builder
	for _, p := range counts {
		b.WriteString(p.Key)
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(p.Value))
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		l.Error().Err(err).Msg("writing output")
		return false
	}

	s := m.Stats()
	l.Info().
		Str("keys", humanize.Comma(int64(total))).
		Str("distinct", humanize.Comma(int64(s.Len))).
		Str("backend", s.Backend.String()).
		Int("capacity", s.Capacity).
		Msg("counted")
	return true
}

// forEachKey calls fn for every key of the input and
// returns the total number of keys read.
func forEachKey(
	stdin io.Reader,
	l log.Logger,
	in cli.Input,
	fn func(key string),
) (total int, ok bool) {
	readers, err := open(stdin, in.Files)
	if err != nil {
		l.Error().Err(err).Msg("opening input")
		return 0, false
	}
	defer func() {
		for _, r := range readers {
			_ = r.Close()
		}
	}()

	for i, r := range readers {
		err := readKeys(r, in.JSONPath, func(key string) {
			total++
			fn(key)
		})
		if err != nil {
			e := l.Error().Err(err)
			if len(in.Files) > 0 {
				e = e.Str("file", in.Files[i])
			}
			e.Msg("reading keys")
			return 0, false
		}
	}
	return total, true
}
