package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/centerbox/internal/config"
	"github.com/matzehuels/centerbox/pkg/box"
	"github.com/matzehuels/centerbox/pkg/errors"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

// searchFlags select the box size and ranking. Shared by the root command
// and browse.
type searchFlags struct {
	extended bool
	preset   string
	width    int
	lines    int
	best     bool
	metric   string
	noBlank  bool
	noCache  bool
	refresh  bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&f.extended, "extended", "e", false, fmt.Sprintf("use the extended preset (%dx%d)", pipeline.ExtendedWidth, pipeline.ExtendedMaxLines))
	flags.StringVar(&f.preset, "preset", "", "box size preset from the config file")
	flags.IntVar(&f.width, "width", 0, "line width in columns (overrides the preset)")
	flags.IntVar(&f.lines, "lines", 0, "maximum lines per box (overrides the preset)")
	flags.BoolVarP(&f.best, "best", "b", false, "only output the best boxes")
	flags.StringVar(&f.metric, "metric", "", "ranking metric: "+strings.Join(box.MetricNames(), ", ")+" (implies --best)")
	flags.BoolVar(&f.noBlank, "no-blank", false, "never use lines without words")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.MarkFlagsMutuallyExclusive("extended", "preset")

	_ = cmd.RegisterFlagCompletionFunc("metric", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return box.MetricNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// options resolves the flags over the config file settings.
func (f *searchFlags) options(cmd *cobra.Command, cfg config.Config) (pipeline.Options, error) {
	switch {
	case f.extended:
		cfg.Preset = pipeline.PresetExtended
	case f.preset != "":
		cfg.Preset = f.preset
	}
	opts, err := cfg.Options()
	if err != nil {
		return pipeline.Options{}, err
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		opts.Width = f.width
	}
	if changed("lines") {
		opts.MaxLines = f.lines
	}
	// Explicit sizes are checked before defaults, which would replace a zero.
	if changed("width") || changed("lines") {
		if err := errors.ValidateDimensions(opts.Width, opts.MaxLines); err != nil {
			return pipeline.Options{}, err
		}
	}
	if changed("metric") {
		opts.Metric = f.metric
		opts.Best = true
	}
	if f.best {
		opts.Best = true
	}
	if f.noBlank {
		opts.SkipBlankLines = true
	}
	opts.Refresh = f.refresh

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// boxCommand creates the command that searches boxes for text from the
// arguments or standard input.
func (c *CLI) boxCommand() *cobra.Command {
	var (
		search searchFlags
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "centerbox [text...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Centerbox arranges words into boxes of centered lines",
		Long: `Centerbox splits text into words and finds every way to lay them out,
in order, as a box of centered lines of equal width.

With arguments, the joined arguments are processed once. Without arguments,
centerbox prompts for lines of text until end of input or an interrupt.`,
		Example: `  centerbox happy birthday to you
  centerbox -b -f boxes.txt
  centerbox --width 12 --lines 4 --metric spaces go big or go home`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := search.options(cmd, cfg)
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)

			out, err := openSink(file, format, c.Out)
			if err != nil {
				return err
			}
			defer out.Close()

			runner, err := c.newRunner(ctx, cfg, search.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if len(args) > 0 {
				// An interrupt surfaces as an error wrapping context.Canceled.
				return c.process(ctx, runner, strings.Join(args, " "), opts, out)
			}
			return c.runLoop(ctx, runner, opts, out)
		},
	}

	search.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "append boxes to this file instead of printing them")
	cmd.Flags().StringVar(&format, "format", pipeline.FormatText, "output format: text, json")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{pipeline.FormatText, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// process runs the pipeline on one line of text and reports the outcome.
func (c *CLI) process(ctx context.Context, runner *pipeline.Runner, text string, opts pipeline.Options, out *sink) error {
	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, "Searching...")
	spinner.Start()
	result, err := runner.Execute(ctx, text, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	opts.Logger.Debug("run", "id", result.ID, "stats", statsLine(result.Found, len(result.Boxes), result.CacheHit))

	if result.Found == 0 {
		fmt.Fprintln(c.Out, "No valid boxes were found")
		return nil
	}
	if err := out.write(result); err != nil {
		return fmt.Errorf("write boxes: %w", err)
	}
	prog.done(fmt.Sprintf("Found %d boxes", result.Found))
	if !out.toFile() {
		return nil
	}

	fmt.Fprintf(c.Out, "Wrote %d box(es) to file '%s'\n", len(result.Boxes), out.path)
	return out.reopen()
}

// isInputError reports whether err is caused by one bad input line, after
// which the interactive loop can continue.
func isInputError(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidInput)
}
