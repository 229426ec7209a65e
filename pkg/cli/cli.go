package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
)

// Command can be any of:
//
//	CommandCount
//	CommandUniq
type Command any

// Input defines where keys are read from.
type Input struct {
	// ConfigDirPath is the directory containing ggmap.yaml.
	ConfigDirPath string

	// JSONPath is a gjson path selecting keys from JSON input.
	// Input is read line by line if empty.
	JSONPath string

	// Files to read from. Standard input is read if empty.
	Files []string
}

type CommandCount struct{ Input }

type CommandUniq struct{ Input }

func Parse(w io.Writer, args []string) (cmd Command) {
	fm := fmt.Sprintf

	executableName := "ggmap"
	if len(args) > 0 {
		executableName = filepath.Base(args[0])
	}

	flags := flag.NewFlagSet("ggmap", flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		writeLines(w,
			fm("usage: %s <command> [flags] [file...]", executableName),
			"",
			"commands available:",
			" count - counts the occurrences of each key",
			" uniq - prints each distinct key once",
			" help - prints this help",
		)
	}

	if len(args) < 2 {
		flags.Usage()
		return nil
	}

	parseInput := func(command string) (in Input, ok bool) {
		flags.Usage = func() {
			writeLines(w,
				"",
				fm(
					"usage: %s %s [-config <path>] [-json <path>] [file...]",
					executableName, command,
				),
				"",
				"flags:",
				"-config <path>: defines the configuration directory path "+
					"(default: .)",
				"-json <path>: reads keys from JSON input selected by "+
					"the given gjson path",
				"",
				"standard input is read when no files are given.",
			)
		}
		flags.StringVar(&in.ConfigDirPath, "config", ".", "")
		flags.StringVar(&in.JSONPath, "json", "", "")
		if err := flags.Parse(args[2:]); err != nil {
			// flags will automatically call .Usage()
			return Input{}, false
		}
		in.Files = flags.Args()
		return in, true
	}

	switch args[1] {
	case "count":
		in, ok := parseInput("count")
		if !ok {
			return nil
		}
		cmd = CommandCount{Input: in}

	case "uniq":
		in, ok := parseInput("uniq")
		if !ok {
			return nil
		}
		cmd = CommandUniq{Input: in}

	case "help":
		flags.Usage()
		return nil

	default:
		flags.Usage()
		return nil
	}
	return cmd
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}
