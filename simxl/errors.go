package simxl

import (
	"errors"
	"strconv"

	"github.com/sarchlab/tripipe/translate"
)

var f = translate.From

var (
	ErrTooManyVars      = errors.New(f("too many variables (max %v)", strconv.Itoa(MaxVars)))
	ErrName             = errors.New(f("invalid variable name"))
	ErrUnterminated     = errors.New(f("unterminated string in print"))
	ErrIfSyntax         = errors.New(f("invalid if syntax, use: if <var> <op> <value>"))
	ErrAssignment       = errors.New(f("bad assignment"))
	ErrExpression       = errors.New(f("unsupported expression"))
	ErrUnknownStatement = errors.New(f("unknown or unsupported line"))
	ErrBlockSize        = errors.New(f("if/else block must compile to exactly one instruction"))
	ErrBlockMissing     = errors.New(f("if/else without a following statement"))
)

// SyntaxError indicates the location of a compile error.
type SyntaxError struct {
	LineNo int
	Line   string
	Err    error
}

func (err *SyntaxError) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

// ErrParseExpression is returned for a constant expression that cannot be
// folded to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid constant expression", string(err))
}

func (err ErrParseExpression) Is(target error) bool {
	return target == ErrExpression
}
