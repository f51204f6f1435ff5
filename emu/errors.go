package emu

import (
	"errors"

	"github.com/sarchlab/tripipe/translate"
)

var f = translate.From

var (
	ErrValueSource = errors.New(f("malformed value source"))
	ErrALUOp       = errors.New(f("not an arithmetic operation"))
	ErrNoInput     = errors.New(f("no input available"))
)
