// Package simxl compiles the small simxl source language into tripipe
// instruction files.
//
// Variables are assigned to R0..R6 in order of first appearance; R7 is the
// scratch register used to print string literals.
package simxl

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/sarchlab/tripipe/insts"
)

// MaxVars is the number of registers available for variables.
const MaxVars = insts.NumRegs - 1

// ScratchReg holds characters while a string literal is printed.
const ScratchReg = insts.Reg(insts.NumRegs - 1)

// Extension is the file extension of compiled instruction files.
const Extension = ".test_ins"

// Result describes a successful compilation.
type Result struct {
	// Vars lists variable names by register index.
	Vars []string
	// Instructions is the number of instruction lines emitted.
	Instructions int
}

// Reg returns the register assigned to a variable.
func (r *Result) Reg(name string) (insts.Reg, bool) {
	for i, v := range r.Vars {
		if v == name {
			return insts.Reg(i), true
		}
	}
	return 0, false
}

type blockState uint8

const (
	blockNone blockState = iota
	blockPending
)

type compiler struct {
	out    *bufio.Writer
	vars   []string
	count  int
	block  blockState
	opener int
}

// OutputPath replaces the extension of a source path with Extension.
func OutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + Extension
}

// Compile reads simxl source from r and writes instruction lines to w.
func Compile(r io.Reader, w io.Writer) (*Result, error) {
	c := &compiler{out: bufio.NewWriter(w)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if err := c.statement(lineNo, raw); err != nil {
			return nil, &SyntaxError{LineNo: lineNo, Line: strings.TrimSpace(raw), Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if c.block == blockPending {
		return nil, &SyntaxError{LineNo: c.opener, Line: "", Err: ErrBlockMissing}
	}

	if err := c.out.Flush(); err != nil {
		return nil, err
	}

	return &Result{Vars: c.vars, Instructions: c.count}, nil
}

// CompileString compiles source held in memory.
func CompileString(src string) (string, *Result, error) {
	var sb strings.Builder
	res, err := Compile(strings.NewReader(src), &sb)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), res, nil
}

func clean(line string) string {
	quoted := false
	for i, r := range line {
		if r == '"' {
			quoted = !quoted
		} else if r == '#' && !quoted {
			line = line[:i]
			break
		}
	}
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ";")
	return strings.TrimSpace(line)
}

func (c *compiler) reg(name string) (insts.Reg, error) {
	if !validName(name) {
		return 0, fmt.Errorf("%w: %q", ErrName, name)
	}
	for i, v := range c.vars {
		if v == name {
			return insts.Reg(i), nil
		}
	}
	if len(c.vars) >= MaxVars {
		return 0, ErrTooManyVars
	}
	c.vars = append(c.vars, name)
	reg := insts.Reg(len(c.vars) - 1)
	c.comment(fmt.Sprintf("var %s -> %s", name, reg))
	return reg, nil
}

func (c *compiler) comment(text string) {
	fmt.Fprintf(c.out, "# %s\n", text)
}

// statement compiles one source line. Instruction lines are collected first so
// an if/else body can be checked before anything is written.
func (c *compiler) statement(lineNo int, raw string) error {
	line := clean(raw)
	if line == "" {
		return nil
	}

	keyword, rest := line, ""
	if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
		keyword, rest = line[:idx], strings.TrimSpace(line[idx:])
	}

	var (
		lines  []string
		err    error
		opener bool
	)

	keyword = strings.ToLower(keyword)

	switch {
	case keyword == "var":
		_, err = c.reg(rest)
		return err
	case keyword == "input":
		lines, err = c.input(rest)
	case keyword == "print":
		lines, err = c.print(rest)
	case keyword == "if":
		lines, err = c.ifStatement(rest)
		opener = true
	case strings.EqualFold(line, "else"):
		lines = []string{insts.Else{}.String()}
		opener = true
	case strings.Contains(line, "="):
		lines, err = c.assign(line)
	default:
		return ErrUnknownStatement
	}
	if err != nil {
		return err
	}

	if c.block == blockPending {
		if opener || len(lines) != 1 {
			return ErrBlockSize
		}
		c.block = blockNone
	}
	if opener {
		c.block = blockPending
		c.opener = lineNo
	}

	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
	c.count += len(lines)
	return nil
}

func (c *compiler) input(name string) ([]string, error) {
	reg, err := c.reg(name)
	if err != nil {
		return nil, err
	}
	return []string{insts.Input{Reg: reg}.String()}, nil
}

func (c *compiler) print(arg string) ([]string, error) {
	if !strings.HasPrefix(arg, `"`) {
		reg, err := c.reg(arg)
		if err != nil {
			return nil, err
		}
		return []string{insts.Print{Reg: reg}.String()}, nil
	}

	end := strings.LastIndexByte(arg, '"')
	if end == 0 || strings.TrimSpace(arg[end+1:]) != "" {
		return nil, ErrUnterminated
	}

	var lines []string
	for _, r := range arg[1:end] {
		lines = append(lines,
			insts.Write{Dest: ScratchReg, Src: charSource(r)}.String(),
			insts.Print{Reg: ScratchReg}.String())
	}
	return lines, nil
}

// charSource emits characters the instruction loader would misread as plain
// integers.
func charSource(r rune) insts.ValueSource {
	switch r {
	case '#', '"', '\\':
		return insts.ImmSource(int64(r))
	}
	return insts.CharSource(r)
}

func (c *compiler) ifStatement(cond string) ([]string, error) {
	fields := strings.Fields(cond)
	if len(fields) != 3 {
		return nil, ErrIfSyntax
	}

	op, ok := insts.ParseCond(fields[1])
	if !ok {
		return nil, ErrIfSyntax
	}

	reg, err := c.reg(fields[0])
	if err != nil {
		return nil, err
	}

	rhs, err := c.operand(fields[2])
	if err != nil {
		return nil, err
	}

	return []string{insts.If{Reg: reg, Cond: op, RHS: rhs}.String()}, nil
}

func (c *compiler) operand(text string) (insts.ValueSource, error) {
	if isNumber(text) {
		v, err := parseInt(text)
		if err != nil {
			return insts.ValueSource{}, ErrParseExpression(text)
		}
		return insts.ImmSource(v), nil
	}
	reg, err := c.reg(text)
	if err != nil {
		return insts.ValueSource{}, err
	}
	return insts.RegSource(reg), nil
}

func (c *compiler) assign(line string) ([]string, error) {
	name, expr, _ := strings.Cut(line, "=")
	name = strings.TrimSpace(name)
	expr = strings.TrimSpace(expr)
	if !validName(name) || expr == "" {
		return nil, ErrAssignment
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}

	hasIdent := false
	for _, t := range tokens {
		if t.kind == tokIdent {
			hasIdent = true
		}
	}

	switch {
	case len(tokens) == 1 && tokens[0].kind != tokOp && tokens[0].kind != tokParen:
		src, err := c.operand(tokens[0].text)
		if err != nil {
			return nil, err
		}
		dest, err := c.reg(name)
		if err != nil {
			return nil, err
		}
		return []string{insts.Write{Dest: dest, Src: src}.String()}, nil

	case !hasIdent:
		value, err := foldConstant(expr, tokens)
		if err != nil {
			return nil, err
		}
		dest, err := c.reg(name)
		if err != nil {
			return nil, err
		}
		return []string{insts.Write{Dest: dest, Src: insts.ImmSource(value)}.String()}, nil

	case len(tokens) == 3 && tokens[1].kind == tokOp &&
		tokens[0].kind != tokParen && tokens[2].kind != tokParen:
		src1, err := c.operand(tokens[0].text)
		if err != nil {
			return nil, err
		}
		src2, err := c.operand(tokens[2].text)
		if err != nil {
			return nil, err
		}
		dest, err := c.reg(name)
		if err != nil {
			return nil, err
		}
		inst := insts.Arith{Kind: arithOps[tokens[1].text], Dest: dest, Src1: src1, Src2: src2}
		return []string{inst.String()}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrExpression, expr)
}

func parseInt(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}
