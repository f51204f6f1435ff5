package insts

import (
	"errors"

	"github.com/sarchlab/tripipe/translate"
)

var f = translate.From

// Decode errors.
var (
	ErrEmptyLine       = errors.New(f("empty line"))
	ErrOperandsMissing = errors.New(f("operands missing"))
	ErrOperandCount    = errors.New(f("wrong operand count"))
	ErrRegister        = errors.New(f("register invalid"))
	ErrLiteral         = errors.New(f("value invalid"))
	ErrIfSyntax        = errors.New(f("invalid IF syntax, use: IF <reg> <op> <value>"))
)

// DecodeError reports a source line that could not be decoded.
type DecodeError struct {
	Line string
	Err  error
}

func (err *DecodeError) Error() string {
	return f("decode '%v': %v", err.Line, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// ErrParseValue is returned for an operand that is neither a register, a
// character literal nor an integer literal.
type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

func (err ErrParseValue) Is(target error) bool {
	return target == ErrLiteral
}

// ErrParseRegister is returned for an operand that must name a register but
// does not.
type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Is(target error) bool {
	return target == ErrRegister
}
