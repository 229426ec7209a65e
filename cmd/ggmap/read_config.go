package main

import (
	"os"

	"github.com/graph-guard/ggmap/pkg/config"
	"github.com/phuslu/log"
)

// ReadConfig reads the configuration from dirPath.
// Returns nil and logs the error if the configuration is invalid.
func ReadConfig(l log.Logger, dirPath string) *config.Config {
	conf, err := config.Read(os.DirFS(dirPath), ".")
	if err != nil {
		l.Error().Err(err).Str("path", dirPath).Msg("reading config")
		return nil
	}
	return conf
}
