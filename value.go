package consair

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindSymbol
	KindPair
	KindLambda
	KindMacro
	KindNative
)

// Symbol is an interned symbol handle. Equal spellings always yield
// the same pointer, so symbol equality is pointer equality.
type Symbol struct {
	Name string
}

var interner = struct {
	sync.RWMutex
	table map[string]*Symbol
}{table: make(map[string]*Symbol)}

// Intern returns the canonical handle for name. The table only grows.
func Intern(name string) *Symbol {
	interner.RLock()
	s, ok := interner.table[name]
	interner.RUnlock()
	if ok {
		return s
	}
	interner.Lock()
	defer interner.Unlock()
	if s, ok := interner.table[name]; ok {
		return s
	}
	s = &Symbol{Name: name}
	interner.table[name] = s
	return s
}

var gensymCounter atomic.Uint64

// Gensym returns a fresh symbol "prefix__N". The counter is
// process-wide and monotonic, so successive results are distinct.
func Gensym(prefix string) *Symbol {
	if prefix == "" {
		prefix = "g"
	}
	n := gensymCounter.Add(1) - 1
	return Intern(fmt.Sprintf("%s__%d", prefix, n))
}

// Pair is a cons cell. Cells are immutable after construction and
// shared structurally: Cons never copies its tail.
type Pair struct {
	Head Value
	Tail Value
}

// Lambda is a closure (or, under KindMacro, a macro): positional
// parameters, an optional dotted rest parameter, a single body
// expression, and the captured definition environment.
type Lambda struct {
	Params []*Symbol
	Rest   *Symbol
	Body   Value
	Env    *Env
}

// NativeFn is the signature of a registered host primitive.
type NativeFn func(args []Value) (Value, error)

// Native pairs a primitive with its registered name for errors and
// printing.
type Native struct {
	Name string
	Fn   NativeFn
}

// Value is the tagged union all evaluation traffics in. Exactly one
// payload field is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  Number
	Str  string
	Sym  *Symbol
	Pair *Pair
	Fn   *Lambda
	Nat  *Native
}

func Nil() Value               { return Value{Kind: KindNil} }
func BoolVal(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func NumberVal(n Number) Value { return Value{Kind: KindNumber, Num: n} }
func IntVal(i int64) Value     { return Value{Kind: KindNumber, Num: IntNum(i)} }
func FloatVal(f float64) Value { return Value{Kind: KindNumber, Num: FloatNum(f)} }
func StringVal(s string) Value { return Value{Kind: KindString, Str: s} }
func SymbolVal(name string) Value {
	return Value{Kind: KindSymbol, Sym: Intern(name)}
}
func SymVal(s *Symbol) Value     { return Value{Kind: KindSymbol, Sym: s} }
func LambdaVal(fn *Lambda) Value { return Value{Kind: KindLambda, Fn: fn} }
func MacroVal(fn *Lambda) Value  { return Value{Kind: KindMacro, Fn: fn} }
func NativeVal(name string, fn NativeFn) Value {
	return Value{Kind: KindNative, Nat: &Native{Name: name, Fn: fn}}
}

// Cons allocates a fresh cell sharing tail. The tail is never copied,
// so every existing reference to it stays valid.
func Cons(head, tail Value) Value {
	return Value{Kind: KindPair, Pair: &Pair{Head: head, Tail: tail}}
}

// List builds a proper list from items.
func List(items ...Value) Value {
	out := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out
}

// ListSlice collects a proper list into a slice. The second result is
// false when v is neither nil nor a nil-terminated chain of pairs.
func ListSlice(v Value) ([]Value, bool) {
	var out []Value
	for v.Kind == KindPair {
		out = append(out, v.Pair.Head)
		v = v.Pair.Tail
	}
	if v.Kind != KindNil {
		return nil, false
	}
	return out, true
}

// Truthy implements nil-as-flow: nil and the false boolean are falsy,
// everything else (zero and "" included) is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

// IsAtom reports whether v is an atom: anything that is not a pair.
// Nil counts as an atom.
func (v Value) IsAtom() bool {
	return v.Kind != KindPair
}

func (v Value) KindName() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindPair:
		return "pair"
	case KindLambda:
		return "lambda"
	case KindMacro:
		return "macro"
	case KindNative:
		return "native fn"
	default:
		return "unknown"
	}
}

// Eq is the identity predicate: content equality for atoms (numbers
// compare value-correctly across representations), pointer identity
// for pairs, lambdas and macros.
func Eq(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num.Equal(b.Num)
	case KindString:
		return a.Str == b.Str
	case KindSymbol:
		return a.Sym == b.Sym
	case KindPair:
		return a.Pair == b.Pair
	case KindLambda, KindMacro:
		return a.Fn == b.Fn
	case KindNative:
		return a.Nat == b.Nat
	}
	return false
}

// ValuesEqual is structural equality: like Eq on atoms, recursive on
// pairs. The eq primitive does not use it; tests and append do.
func ValuesEqual(a, b Value) bool {
	for a.Kind == KindPair && b.Kind == KindPair {
		if !ValuesEqual(a.Pair.Head, b.Pair.Head) {
			return false
		}
		a, b = a.Pair.Tail, b.Pair.Tail
	}
	return Eq(a, b)
}
