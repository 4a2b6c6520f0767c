package cli

import (
	"bufio"
	"context"
	"io"
)

const maxLineBytes = 1 << 20

// LineReader reads lines from r on its own goroutine so a blocked read can be
// abandoned when the context is cancelled.
type LineReader struct {
	lines chan string
	err   error
}

// NewLineReader starts reading r.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{lines: make(chan string)}
	go lr.run(r)
	return lr
}

func (lr *LineReader) run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lr.lines <- scanner.Text()
	}
	// Written before close, so readers observing the closed channel see it.
	lr.err = scanner.Err()
	close(lr.lines)
}

// ReadLine returns the next line without its terminator. It returns io.EOF once
// the input is exhausted and ctx.Err() when ctx is cancelled first.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			if lr.err != nil {
				return "", lr.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}
