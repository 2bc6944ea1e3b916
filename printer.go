package consair

import "strings"

// String renders v as a canonical s-expression the reader accepts
// back, except for the opaque callable kinds.
func (v Value) String() string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindNil:
		b.WriteString("nil")
	case KindBool:
		if v.Bool {
			b.WriteString("t")
		} else {
			b.WriteString("nil")
		}
	case KindNumber:
		b.WriteString(v.Num.String())
	case KindString:
		writeQuoted(b, v.Str)
	case KindSymbol:
		b.WriteString(v.Sym.Name)
	case KindPair:
		b.WriteByte('(')
		writeValue(b, v.Pair.Head)
		tail := v.Pair.Tail
		for tail.Kind == KindPair {
			b.WriteByte(' ')
			writeValue(b, tail.Pair.Head)
			tail = tail.Pair.Tail
		}
		if tail.Kind != KindNil {
			b.WriteString(" . ")
			writeValue(b, tail)
		}
		b.WriteByte(')')
	case KindLambda:
		b.WriteString("<lambda>")
	case KindMacro:
		b.WriteString("<macro>")
	case KindNative:
		b.WriteString("<native fn>")
	default:
		b.WriteString("<unknown>")
	}
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
