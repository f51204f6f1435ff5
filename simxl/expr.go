package simxl

import (
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
)

type tokenKind uint8

const (
	tokIdent tokenKind = iota
	tokNumber
	tokOp
	tokParen
)

type token struct {
	kind tokenKind
	text string
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// validName reports whether s is a variable identifier.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}
	return true
}

// isNumber reports whether s is an optionally signed decimal integer.
func isNumber(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// tokenize splits an expression into identifiers, integers, operators and
// parentheses. A sign directly before a digit at the start of the expression,
// or after an operator or '(', belongs to the number.
func tokenize(expr string) ([]token, error) {
	var tokens []token
	rs := []rune(expr)

	unaryAllowed := func() bool {
		if len(tokens) == 0 {
			return true
		}
		last := tokens[len(tokens)-1]
		return last.kind == tokOp || last.text == "("
	}

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isIdentStart(r):
			j := i
			for j < len(rs) && isIdentPart(rs[j]) {
				j++
			}
			tokens = append(tokens, token{tokIdent, string(rs[i:j])})
			i = j
		case unicode.IsDigit(r) ||
			((r == '-' || r == '+') && unaryAllowed() && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i + 1
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			tokens = append(tokens, token{tokNumber, string(rs[i:j])})
			i = j
		case strings.ContainsRune("+-*/", r):
			tokens = append(tokens, token{tokOp, string(r)})
			i++
		case r == '(' || r == ')':
			tokens = append(tokens, token{tokParen, string(r)})
			i++
		default:
			return nil, ErrParseExpression(expr)
		}
	}

	if len(tokens) == 0 {
		return nil, ErrParseExpression(expr)
	}
	return tokens, nil
}

var arithOps = map[string]insts.Op{
	"+": insts.OpADD,
	"-": insts.OpSUB,
	"*": insts.OpMUL,
	"/": insts.OpDIV,
}

// foldConstant evaluates an expression built only from integers. A single
// binary operation goes through the ALU so DIV by zero folds to 0 exactly as
// the machine computes it; longer expressions are evaluated by starlark with
// '/' as floor division.
func foldConstant(expr string, tokens []token) (int64, error) {
	if len(tokens) == 3 && tokens[0].kind == tokNumber && tokens[1].kind == tokOp && tokens[2].kind == tokNumber {
		a, errA := parseInt(tokens[0].text)
		b, errB := parseInt(tokens[2].text)
		if errA == nil && errB == nil {
			return emu.Apply(arithOps[tokens[1].text], a, b)
		}
	}

	var sb strings.Builder
	for _, t := range tokens {
		if t.kind == tokOp && t.text == "/" {
			sb.WriteString("//")
		} else {
			sb.WriteString(t.text)
		}
		sb.WriteByte(' ')
	}

	thread := starlark.Thread{Name: "simxl"}
	opts := syntax.FileOptions{}
	prog := "rc=" + sb.String() + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, nil)
	if err != nil {
		return 0, ErrParseExpression(expr)
	}
	rc, ok := dict["rc"]
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	n, ok := rc.(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	value, ok := n.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	return value, nil
}
