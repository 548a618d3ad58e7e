package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/urfave/cli/v3"

	"github.com/rlch/jsonls"
)

const (
	filePermissions = 0o600
	diffContext     = 3
)

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Aliases:   []string{"format"},
		Usage:     "Format JSON files",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "write result to file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "check if files are formatted (exit 1 if not)",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "display diffs instead of rewriting files",
			},
			&cli.StringFlag{
				Name:  "indent",
				Value: jsonls.DefaultIndent,
				Usage: "indent unit",
			},
		},
		Action: runFmt,
	}
}

func runFmt(_ context.Context, cmd *cli.Command) error {
	write := cmd.Bool("write")
	check := cmd.Bool("check")
	diff := cmd.Bool("diff")
	indent := cmd.String("indent")
	args := cmd.Args().Slice()
	out := writer(cmd)

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		// Stdin is always printed.
		write, diff = false, false
	}

	var unformatted []string

	for _, in := range inputs {
		changed, err := formatInput(in, indent, write, diff, out)
		if err != nil {
			return fmt.Errorf("%s: %w", in.name, err)
		}

		if changed {
			unformatted = append(unformatted, in.name)
		}
	}

	if check && len(unformatted) > 0 {
		errOut := errWriter(cmd)
		_, _ = fmt.Fprintf(errOut, "The following files are not formatted:\n")

		for _, f := range unformatted {
			_, _ = fmt.Fprintf(errOut, "  %s\n", f)
		}

		return cli.Exit("", 1)
	}

	return nil
}

// formatInput formats one document and reports whether it changed.
func formatInput(in input, indent string, write, showDiff bool, out io.Writer) (bool, error) {
	value, err := jsonls.Parse(in.text)
	if err != nil {
		return false, err
	}

	formatted := jsonls.Format(value, indent)
	changed := in.text != formatted

	if in.name == stdinName {
		_, err = io.WriteString(out, formatted)

		return changed, err
	}

	if !changed {
		return false, nil
	}

	if write {
		writeErr := os.WriteFile(in.name, []byte(formatted), filePermissions)
		if writeErr != nil {
			return true, writeErr
		}

		_, _ = fmt.Fprintf(out, "%s\n", in.name)

		return true, nil
	}

	if showDiff {
		return true, printDiff(out, in.name, in.text, formatted)
	}

	// Default: print formatted output
	_, err = io.WriteString(out, formatted)

	return true, err
}

// printDiff writes a unified diff from original to formatted.
func printDiff(out io.Writer, path, original, formatted string) error {
	return difflib.WriteUnifiedDiff(out, difflib.UnifiedDiff{
		A:        splitLines(original),
		B:        splitLines(formatted),
		FromFile: path,
		ToFile:   path,
		Context:  diffContext,
	})
}

// splitLines splits s after each newline. A final line without a newline
// gets one so both sides of a diff compare alike.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}

	lines[len(lines)-1] += "\n"

	return lines
}
