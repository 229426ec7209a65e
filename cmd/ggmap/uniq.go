package main

import (
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/graph-guard/ggmap/pkg/cli"
	"github.com/graph-guard/ggmap/pkg/config"
	"github.com/graph-guard/ggmap/pkg/set"
	"github.com/phuslu/log"
)

// uniq prints every distinct key once in the order of first occurrence.
func uniq(w io.Writer, stdin io.Reader, l log.Logger, c cli.CommandUniq) bool {
	conf := ReadConfig(l, c.ConfigDirPath)
	if conf == nil {
		return false
	}

	s := set.New[string](config.StringPolicy[struct{}](conf), &conf.Map)
	defer s.Destroy()

	var b strings.Builder
	total, ok := forEachKey(stdin, l, c.Input, func(key string) {
		if s.Add(key) {
			b.WriteString(key)
			b.WriteByte('\n')
		}
	})
	if !ok {
		return false
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		l.Error().Err(err).Msg("writing output")
		return false
	}

	l.Info().
		Str("keys", humanize.Comma(int64(total))).
		Str("distinct", humanize.Comma(int64(s.Len()))).
		Str("backend", s.Backend().String()).
		Msg("deduplicated")
	return true
}
