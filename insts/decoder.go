package insts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Decoder decodes source lines into instructions.
type Decoder struct {
	ifPattern    *regexp.Regexp
	commaPattern *regexp.Regexp
}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		ifPattern:    regexp.MustCompile(`^(\w+)\s*(==|!=|<=|>=|<|>)\s*(.+)$`),
		commaPattern: regexp.MustCompile(`\s*,\s*`),
	}
}

// Decode decodes one trimmed, comment-free source line. Opcodes are
// case-insensitive. An unrecognized opcode decodes to Unknown.
func (d *Decoder) Decode(line string) (Instruction, error) {
	inst, err := d.decode(strings.TrimSpace(line))
	if err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}
	return inst, nil
}

func (d *Decoder) decode(text string) (Instruction, error) {
	if text == "" {
		return nil, ErrEmptyLine
	}

	opcode, rest := splitOpcode(text)
	op := strings.ToUpper(opcode)

	switch op {
	case "WRITE":
		return d.decodeWrite(rest)
	case "ADD":
		return d.decodeArith(OpADD, rest)
	case "SUB":
		return d.decodeArith(OpSUB, rest)
	case "MUL":
		return d.decodeArith(OpMUL, rest)
	case "DIV":
		return d.decodeArith(OpDIV, rest)
	case "PRINT":
		reg, err := decodeSingleReg(OpPRINT, rest)
		if err != nil {
			return nil, err
		}
		return Print{Reg: reg}, nil
	case "INPUT":
		reg, err := decodeSingleReg(OpINPUT, rest)
		if err != nil {
			return nil, err
		}
		return Input{Reg: reg}, nil
	case "IF":
		return d.decodeIf(rest)
	case "ELSE":
		return Else{}, nil
	default:
		return Unknown{Opcode: op, Operands: d.splitCommas(rest)}, nil
	}
}

// splitOpcode splits off the first whitespace-delimited token.
func splitOpcode(text string) (string, string) {
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, ""
	}
	return text[:idx], strings.TrimSpace(text[idx:])
}

func (d *Decoder) splitCommas(rest string) []string {
	var tokens []string
	for _, t := range d.commaPattern.Split(rest, -1) {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// decodeWrite splits operands on the first comma, or on the first run of
// whitespace when there is no comma.
func (d *Decoder) decodeWrite(rest string) (Instruction, error) {
	if rest == "" {
		return nil, fmt.Errorf("%w: %s", ErrOperandsMissing, f("WRITE requires operands: WRITE <reg>, <value>"))
	}

	var destTok, srcTok string
	if before, after, ok := strings.Cut(rest, ","); ok {
		destTok, srcTok = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		destTok, srcTok = splitOpcode(rest)
	}

	if srcTok == "" {
		return nil, fmt.Errorf("%w: %s", ErrOperandsMissing, f("WRITE requires operands: WRITE <reg>, <value>"))
	}

	dest, ok := ParseReg(destTok)
	if !ok {
		return nil, ErrParseRegister(destTok)
	}

	src, err := ParseValue(srcTok)
	if err != nil {
		return nil, err
	}

	return Write{Dest: dest, Src: src}, nil
}

// decodeArith accepts both "dest, src1, src2" and "dest src1 src2".
func (d *Decoder) decodeArith(op Op, rest string) (Instruction, error) {
	if rest == "" {
		return nil, fmt.Errorf("%w: %s", ErrOperandsMissing, f("%v requires operands: %v dest, src1, src2", op, op))
	}

	tokens := d.splitCommas(rest)
	if len(tokens) == 1 {
		tokens = strings.Fields(rest)
	}
	if len(tokens) != 3 {
		return nil, fmt.Errorf("%w: %s", ErrOperandCount, f("%v requires 3 operands: dest, src1, src2", op))
	}

	dest, ok := ParseReg(tokens[0])
	if !ok {
		return nil, ErrParseRegister(tokens[0])
	}

	src1, err := ParseValue(tokens[1])
	if err != nil {
		return nil, err
	}

	src2, err := ParseValue(tokens[2])
	if err != nil {
		return nil, err
	}

	return Arith{Kind: op, Dest: dest, Src1: src1, Src2: src2}, nil
}

func decodeSingleReg(op Op, rest string) (Reg, error) {
	tokens := strings.Fields(rest)
	switch {
	case len(tokens) == 0:
		return 0, fmt.Errorf("%w: %s", ErrOperandsMissing, f("%v requires an operand", op))
	case len(tokens) > 1:
		return 0, fmt.Errorf("%w: %s", ErrOperandCount, f("%v takes exactly one operand", op))
	}

	reg, ok := ParseReg(tokens[0])
	if !ok {
		return 0, ErrParseRegister(tokens[0])
	}
	return reg, nil
}

func (d *Decoder) decodeIf(rest string) (Instruction, error) {
	m := d.ifPattern.FindStringSubmatch(rest)
	if m == nil {
		return nil, ErrIfSyntax
	}

	reg, ok := ParseReg(m[1])
	if !ok {
		return nil, ErrParseRegister(m[1])
	}

	cond, ok := ParseCond(m[2])
	if !ok {
		return nil, ErrIfSyntax
	}

	rhs, err := ParseValue(m[3])
	if err != nil {
		return nil, err
	}

	return If{Reg: reg, Cond: cond, RHS: rhs}, nil
}

// ParseValue classifies an operand token. A register name is a register
// source, a token wrapped in double quotes is a character literal holding the
// code point of its first character (0 when empty), and anything else must be
// a decimal integer.
func ParseValue(token string) (ValueSource, error) {
	t := strings.TrimSpace(token)

	if reg, ok := ParseReg(t); ok {
		return RegSource(reg), nil
	}

	if strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`) {
		inner := ""
		if len(t) >= 2 {
			inner = t[1 : len(t)-1]
		}
		if inner == "" {
			return CharSource(0), nil
		}
		ch, _ := utf8.DecodeRuneInString(inner)
		return CharSource(ch), nil
	}

	value, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return ValueSource{}, ErrParseValue(token)
	}
	return ImmSource(value), nil
}
