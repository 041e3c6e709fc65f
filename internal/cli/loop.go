package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/centerbox/pkg/errors"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

// prompt is printed before every line read by the interactive loop.
const prompt = "Text for box: "

// maxLineBytes bounds one input line. Longer lines fail validation anyway.
const maxLineBytes = 4 * errors.MaxTextLength

// runLoop prompts for lines until end of input or until ctx is done.
// Both end the loop normally.
func (c *CLI) runLoop(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, out *sink) error {
	lines, errc := c.readLines(ctx)

	for {
		fmt.Fprint(c.Out, prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.Out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(c.Out)
			return <-errc
		}

		err := c.process(ctx, runner, line, opts, out)
		switch {
		case err == nil:
		case ctx.Err() != nil && stderrors.Is(err, ctx.Err()):
			fmt.Fprintln(c.Out)
			return nil
		case isInputError(err):
			printError(c.Out, "%s", errors.UserMessage(err))
		default:
			return err
		}
	}
}

// readLines reads lines from c.In on a goroutine so the loop can stop on
// an interrupt while blocked on input. The error channel receives the read
// error (nil at end of input) before lines is closed.
func (c *CLI) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.In)
		scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("read input: %w", err)
			return
		}
		errc <- nil
	}()

	return lines, errc
}
