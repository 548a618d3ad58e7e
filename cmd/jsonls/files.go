package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
)

var errNoJSONFiles = errors.New("no .json files found")

// stdinName labels text read from standard input.
const stdinName = "<stdin>"

// input is one document to process.
type input struct {
	name string
	text string
}

// readInputs reads the files named by args, walking directories for .json
// files. With no args it reads standard input.
func readInputs(cmd *cli.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(reader(cmd))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		return []input{{name: stdinName, text: string(data)}}, nil
	}

	files, err := collectFiles(args)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, errNoJSONFiles
	}

	inputs := make([]input, 0, len(files))

	for _, file := range files {
		data, err := os.ReadFile(file) //#nosec G304 -- paths come from user args
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, input{name: file, text: string(data)})
	}

	return inputs, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			// Walk directory for .json files
			err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if !d.IsDir() && strings.HasSuffix(path, ".json") {
					files = append(files, path)
				}

				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			files = append(files, arg)
		}
	}

	return files, nil
}

func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}

	return os.Stdin
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}
