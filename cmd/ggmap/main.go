package main

import (
	"fmt"
	"io"
	"os"

	"github.com/graph-guard/ggmap/pkg/cli"
	"github.com/phuslu/log"
)

func main() {
	w := os.Stdout
	l := log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.IOWriter{Writer: os.Stderr},
	}
	var ok bool
	switch c := cli.Parse(os.Stderr, os.Args).(type) {
	case cli.CommandCount:
		ok = count(w, os.Stdin, l, c)
	case cli.CommandUniq:
		ok = uniq(w, os.Stdin, l, c)
	default:
		if c != nil {
			panic(fmt.Errorf("unexpected command: %#v", c))
		}
	}
	if !ok {
		os.Exit(1)
	}
}

// open returns the readers keys are read from.
// stdin is returned if no files are given.
func open(stdin io.Reader, files []string) ([]io.ReadCloser, error) {
	if len(files) < 1 {
		return []io.ReadCloser{io.NopCloser(stdin)}, nil
	}
	r := make([]io.ReadCloser, 0, len(files))
	for _, f := range files {
		o, err := os.Open(f)
		if err != nil {
			for _, c := range r {
				_ = c.Close()
			}
			return nil, fmt.Errorf("opening input: %w", err)
		}
		r = append(r, o)
	}
	return r, nil
}
