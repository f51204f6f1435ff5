// Package loader provides loading of instruction text programs.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line is a cleaned source line ready to be fed to the pipeline.
type Line struct {
	// Number is the 1-based line number in the source file.
	Number int
	// Text is the instruction text with comments and surrounding space removed.
	Text string
}

// Program represents a loaded instruction program.
type Program struct {
	// Name identifies the source, usually the file path.
	Name string
	// Lines contains the non-empty instruction lines in program order.
	Lines []Line
}

// Texts returns the instruction text of every line in order.
func (p *Program) Texts() []string {
	texts := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		texts[i] = l.Text
	}
	return texts
}

// LineNo returns the source line number of the instruction at index, or 0
// when index is out of range.
func (p *Program) LineNo(index uint64) int {
	if index >= uint64(len(p.Lines)) {
		return 0
	}
	return p.Lines[index].Number
}

// Clean strips an inline '#' comment and surrounding whitespace. It returns
// an empty string for blank and comment-only lines.
func Clean(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// Parse reads an instruction program from r.
func Parse(name string, r io.Reader) (*Program, error) {
	prog := &Program{Name: name}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := Clean(scanner.Text())
		if text == "" {
			continue
		}
		prog.Lines = append(prog.Lines, Line{Number: lineNo, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program %s: %w", name, err)
	}

	return prog, nil
}

// Load reads an instruction program from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(path, f)
}
