package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xiaot623/gogo/agentloop/internal/service"
)

// Prompter asks the user to confirm tool calls on the terminal. It reads from
// the same LineReader as the REPL, which is idle while a turn runs.
type Prompter struct {
	in  *LineReader
	out io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(in *LineReader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

var _ service.Approver = (*Prompter)(nil)

// Approve asks once. Anything but y or yes is a denial.
func (p *Prompter) Approve(ctx context.Context, req service.ApprovalRequest) (bool, error) {
	target := req.Command
	if target == "" {
		b, err := json.Marshal(req.Args)
		if err != nil {
			return false, fmt.Errorf("encode args: %w", err)
		}
		target = string(b)
	}
	if req.Reason != "" {
		fmt.Fprintf(p.out, "[policy] %s\n", req.Reason)
	}
	fmt.Fprintf(p.out, "Allow %s %s? [y/N] ", req.ToolName, target)

	line, err := p.in.ReadLine(ctx)
	if err != nil {
		fmt.Fprintln(p.out)
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
