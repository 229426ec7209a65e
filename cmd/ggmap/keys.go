package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxKeySize is the longest line accepted as a key.
const MaxKeySize = 16 * 1024 * 1024

// readKeys calls fn for every key found in r.
// Keys are read one per line, empty lines are skipped.
// If jsonPath isn't empty the input is parsed as JSON instead and
// every value selected by jsonPath is a key. A path starting
// with ".." reads JSON lines.
func readKeys(r io.Reader, jsonPath string, fn func(key string)) error {
	if jsonPath != "" {
		return readJSONKeys(r, jsonPath, fn)
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxKeySize)
	for s.Scan() {
		if l := s.Text(); l != "" {
			fn(l)
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func readJSONKeys(r io.Reader, path string, fn func(key string)) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if !strings.HasPrefix(path, "..") && !gjson.ValidBytes(b) {
		return ErrInvalidJSON
	}
	res := gjson.GetBytes(b, path)
	if !res.Exists() {
		return nil
	}
	if !res.IsArray() {
		fn(res.String())
		return nil
	}
	res.ForEach(func(_, v gjson.Result) bool {
		fn(v.String())
		return true
	})
	return nil
}

var ErrInvalidJSON = errors.New("invalid JSON input")
