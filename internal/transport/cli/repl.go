// Package cli provides the interactive terminal loop.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
	"github.com/xiaot623/gogo/agentloop/internal/service"
)

// TurnRunner runs one turn against the session history.
type TurnRunner interface {
	RunTurn(ctx context.Context, history *domain.History, input string) (*service.TurnResult, error)
}

// Options configures a REPL.
type Options struct {
	Greeting string
	// ShowThinking prints a progress line before each turn.
	ShowThinking bool
}

// REPL reads user lines and prints the agent's replies until the user leaves.
type REPL struct {
	runner  TurnRunner
	in      *LineReader
	out     io.Writer
	opts    Options
	history *domain.History
}

// NewREPL creates a REPL with an empty session history.
func NewREPL(runner TurnRunner, in *LineReader, out io.Writer, opts Options) *REPL {
	return &REPL{
		runner:  runner,
		in:      in,
		out:     out,
		opts:    opts,
		history: domain.NewHistory(),
	}
}

// History returns the session history.
func (r *REPL) History() *domain.History {
	return r.history
}

// IsExitCommand reports whether input asks to end the session.
func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// Run loops until exit, quit, end of input or ctx cancellation. Turn errors are
// printed and the loop continues; only input errors are returned.
func (r *REPL) Run(ctx context.Context) error {
	if r.opts.Greeting != "" {
		fmt.Fprintln(r.out, r.opts.Greeting)
		fmt.Fprintln(r.out, "Type 'exit' or 'quit' to end the conversation.")
	}

	for {
		fmt.Fprint(r.out, "You: ")
		line, err := r.in.ReadLine(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				fmt.Fprintln(r.out, "\nExiting...")
				return nil
			case errors.Is(err, io.EOF):
				fmt.Fprintln(r.out, "\nAI: Goodbye!")
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if IsExitCommand(input) {
			fmt.Fprintln(r.out, "AI: Goodbye!")
			return nil
		}

		if r.opts.ShowThinking {
			fmt.Fprintln(r.out, "AI is thinking...")
		}
		res, err := r.runner.RunTurn(ctx, r.history, input)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(r.out, "\nExiting...")
				return nil
			}
			fmt.Fprintf(r.out, "An error occurred: %v\n", err)
			continue
		}
		r.printResult(res)
	}
}

func (r *REPL) printResult(res *service.TurnResult) {
	if res.StepLimitReached {
		if res.Final.Content != "" {
			fmt.Fprintf(r.out, "AI: %s\n", res.Final.Content)
		}
		fmt.Fprintf(r.out, "AI: I stopped after %d steps without reaching a final answer.\n", res.Steps)
		return
	}
	fmt.Fprintf(r.out, "AI: %s\n", res.Final.Content)
}
