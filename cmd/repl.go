package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zjrosen/opcalc/internal/calculator"
	"github.com/zjrosen/opcalc/internal/log"
)

// Prompt is printed once when the interactive loop starts.
const Prompt = "Enter Command:"

// runREPL prompts once, then reads one command per line and writes one reply
// per line until in is exhausted or ctx is done. A failure raised by an
// operation is reported on errOut and the loop keeps serving.
func runREPL(ctx context.Context, in io.Reader, out, errOut io.Writer, calc *calculator.Calculator) error {
	if _, err := fmt.Fprintln(out, Prompt); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		reply, err := calc.Calculate(ctx, line)
		if err != nil {
			log.ErrorErr(log.CatDispatch, "operation failed", err, "input", line)
			fmt.Fprintf(errOut, "Error: %v\n", err)
			continue
		}
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return err
		}
	}
	return scanner.Err()
}
