package consair

import (
	"fmt"
	"strings"
	"unicode"
)

type reader struct {
	input []rune
	pos   int
}

// ReadString reads exactly one expression; trailing input is an error.
func ReadString(input string) (Value, error) {
	r := &reader{input: []rune(input)}
	r.skipWhitespace()
	if r.pos >= len(r.input) {
		return Value{}, fmt.Errorf("empty input")
	}
	v, err := r.readExpr()
	if err != nil {
		return Value{}, err
	}
	r.skipWhitespace()
	if r.pos < len(r.input) {
		return Value{}, fmt.Errorf("unexpected input after expression at position %d", r.pos)
	}
	return v, nil
}

// ReadAll reads every expression in input, in order.
func ReadAll(input string) ([]Value, error) {
	r := &reader{input: []rune(input)}
	var out []Value
	for {
		r.skipWhitespace()
		if r.pos >= len(r.input) {
			return out, nil
		}
		v, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Balanced reports whether input has no open list or string, so a REPL
// can tell a finished form from one awaiting continuation lines.
func Balanced(input string) bool {
	depth := 0
	inString := false
	escaped := false
	inComment := false
	for _, ch := range input {
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
			}
		case inString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == ';':
			inComment = true
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		}
	}
	return depth <= 0 && !inString
}

func (r *reader) readExpr() (Value, error) {
	if r.pos >= len(r.input) {
		return Value{}, fmt.Errorf("unexpected end of input")
	}
	ch := r.input[r.pos]
	switch {
	case ch == '\'':
		return r.readWrapped("quote")
	case ch == '`':
		return r.readWrapped("quasiquote")
	case ch == ',':
		r.pos++ // skip ','
		if r.pos < len(r.input) && r.input[r.pos] == '@' {
			r.pos++ // skip '@'
			return r.wrap("unquote-splicing")
		}
		return r.wrap("unquote")
	case ch == '(':
		return r.readList()
	case ch == '"':
		return r.readString()
	case ch == ')':
		return Value{}, fmt.Errorf("unexpected ')' at position %d", r.pos)
	default:
		return r.readAtom()
	}
}

func (r *reader) readWrapped(sym string) (Value, error) {
	r.pos++ // skip sigil
	return r.wrap(sym)
}

func (r *reader) wrap(sym string) (Value, error) {
	r.skipWhitespace()
	inner, err := r.readExpr()
	if err != nil {
		return Value{}, err
	}
	return List(SymbolVal(sym), inner), nil
}

func (r *reader) readList() (Value, error) {
	r.pos++ // skip '('
	var items []Value
	tail := Nil()
	for {
		r.skipWhitespace()
		if r.pos >= len(r.input) {
			return Value{}, fmt.Errorf("unclosed list")
		}
		if r.input[r.pos] == ')' {
			r.pos++
			break
		}
		if r.input[r.pos] == '.' && r.dotIsDelimited() {
			if len(items) == 0 {
				return Value{}, fmt.Errorf("dotted pair with no head")
			}
			r.pos++
			r.skipWhitespace()
			t, err := r.readExpr()
			if err != nil {
				return Value{}, err
			}
			tail = t
			r.skipWhitespace()
			if r.pos >= len(r.input) || r.input[r.pos] != ')' {
				return Value{}, fmt.Errorf("expected ')' after dotted tail")
			}
			r.pos++
			break
		}
		item, err := r.readExpr()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	out := tail
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out, nil
}

// dotIsDelimited distinguishes the pair dot from symbols and floats
// that merely start with '.'.
func (r *reader) dotIsDelimited() bool {
	return r.pos+1 >= len(r.input) || isDelimiter(r.input[r.pos+1])
}

func (r *reader) readString() (Value, error) {
	r.pos++ // skip opening '"'
	var buf strings.Builder
	for r.pos < len(r.input) {
		ch := r.input[r.pos]
		if ch == '\\' {
			r.pos++
			if r.pos >= len(r.input) {
				return Value{}, fmt.Errorf("unexpected end of input in string escape")
			}
			esc := r.input[r.pos]
			switch esc {
			case 'n':
				buf.WriteRune('\n')
			case 't':
				buf.WriteRune('\t')
			case '\\':
				buf.WriteRune('\\')
			case '"':
				buf.WriteRune('"')
			default:
				return Value{}, fmt.Errorf("unknown escape sequence: \\%c", esc)
			}
			r.pos++
			continue
		}
		if ch == '"' {
			r.pos++
			return StringVal(buf.String()), nil
		}
		buf.WriteRune(ch)
		r.pos++
	}
	return Value{}, fmt.Errorf("unclosed string")
}

func (r *reader) readAtom() (Value, error) {
	start := r.pos
	for r.pos < len(r.input) && !isDelimiter(r.input[r.pos]) {
		r.pos++
	}
	token := string(r.input[start:r.pos])
	if token == "" {
		return Value{}, fmt.Errorf("unexpected character: %c", r.input[start])
	}

	switch token {
	case "t":
		return BoolVal(true), nil
	case "nil":
		return Nil(), nil
	}

	if n, ok := ParseNumber(token); ok {
		return NumberVal(n), nil
	}

	return SymbolVal(token), nil
}

func (r *reader) skipWhitespace() {
	for r.pos < len(r.input) {
		ch := r.input[r.pos]
		if ch == ';' {
			for r.pos < len(r.input) && r.input[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		if !unicode.IsSpace(ch) {
			break
		}
		r.pos++
	}
}

func isDelimiter(ch rune) bool {
	return unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' ||
		ch == ';' || ch == '\'' || ch == '`' || ch == ','
}
