package emu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/tripipe/insts"
)

// DefaultPrompt is the prompt format used by ReaderInput. It receives the
// register name.
const DefaultPrompt = "Enter value for %s: "

// InputSource supplies values for INPUT instructions.
type InputSource interface {
	// ReadInt returns the next integer for reg. The pipeline substitutes 0
	// for any error.
	ReadInt(reg insts.Reg) (int64, error)
}

// ReaderInput reads one integer per line from a reader, optionally writing a
// prompt before each read.
type ReaderInput struct {
	scanner *bufio.Scanner
	prompt  io.Writer
	format  string
}

// NewReaderInput creates an input source reading lines from r. When prompt is
// non-nil, format is written to it with the register name before each read.
func NewReaderInput(r io.Reader, prompt io.Writer, format string) *ReaderInput {
	return &ReaderInput{
		scanner: bufio.NewScanner(r),
		prompt:  prompt,
		format:  format,
	}
}

// ReadInt implements InputSource.
func (in *ReaderInput) ReadInt(reg insts.Reg) (int64, error) {
	if in.prompt != nil && in.format != "" {
		fmt.Fprintf(in.prompt, in.format, reg)
	}

	if !in.scanner.Scan() {
		if err := in.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, ErrNoInput
	}

	text := strings.TrimSpace(in.scanner.Text())
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", reg, err)
	}
	return value, nil
}

// QueueInput serves a fixed list of values in order, then ErrNoInput.
type QueueInput struct {
	Values []int64
}

// ReadInt implements InputSource.
func (q *QueueInput) ReadInt(insts.Reg) (int64, error) {
	if len(q.Values) == 0 {
		return 0, ErrNoInput
	}
	v := q.Values[0]
	q.Values = q.Values[1:]
	return v, nil
}
