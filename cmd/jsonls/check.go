package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/jsonls/analysis"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"lint"},
		Usage:     "Report syntax errors in JSON files (exit 1 if any)",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "color",
				Value: "auto",
				Usage: "colorize output: auto, always, never",
			},
		},
		Action: runCheck,
	}
}

func runCheck(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	inputs, err := readInputs(cmd, cmd.Args().Slice())
	if err != nil {
		return err
	}

	out := writer(cmd)
	styles := NewStyles(useColor(cmd.String("color"), out))
	analyzer := analysis.NewAnalyzerWithSource(analysis.JSONParser, logger, cfg.Source)

	problems, err := check(out, errWriter(cmd), styles, analyzer, inputs)
	if err != nil {
		return err
	}

	logger.Debug("Check finished", zap.Int("files", len(inputs)), zap.Int("problems", problems))

	if problems > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

// check prints one "name:line:col: message" line per diagnostic to out, with
// 1-based lines and columns, and a summary to errOut. It returns the number
// of diagnostics.
func check(out, errOut io.Writer, styles Styles, analyzer *analysis.Analyzer, inputs []input) (int, error) {
	total, failed := 0, 0

	for _, in := range inputs {
		result, err := analyzer.Analyze(in.text)
		if err != nil {
			return total, fmt.Errorf("%s: %w", in.name, err)
		}

		for _, d := range result.Diagnostics {
			pos := fmt.Sprintf("%d:%d", d.Range.Start.Line+1, d.Range.Start.Column+1)

			_, _ = fmt.Fprintf(out, "%s:%s: %s\n",
				styles.render(styles.Path, in.name),
				styles.render(styles.Position, pos),
				styles.render(styles.Error, d.Message))
		}

		if len(result.Diagnostics) > 0 {
			failed++
		}

		total += len(result.Diagnostics)
	}

	if total == 0 {
		_, _ = fmt.Fprintln(errOut, styles.render(styles.Pass,
			fmt.Sprintf("%d %s ok", len(inputs), plural(len(inputs), "file", "files"))))
	} else {
		_, _ = fmt.Fprintln(errOut, styles.render(styles.Summary,
			fmt.Sprintf("%d %s in %d %s", total, plural(total, "problem", "problems"), failed, plural(failed, "file", "files"))))
	}

	return total, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
