package consair

import "fmt"

// coreBuiltins returns the standard primitive set. The core performs
// no I/O; print-style natives belong to the embedding front end.
func coreBuiltins() map[string]NativeFn {
	return map[string]NativeFn{
		"cons":    builtinCons,
		"car":     builtinCar,
		"cdr":     builtinCdr,
		"list":    builtinList,
		"append":  builtinAppend,
		"reverse": builtinReverse,
		"length":  builtinLength,
		"nth":     builtinNth,

		"atom":    builtinAtom,
		"eq":      builtinEq,
		"not":     builtinNot,
		"nil?":    builtinNilP,
		"cons?":   builtinConsP,
		"number?": builtinNumberP,

		"+": builtinAdd,
		"-": builtinSub,
		"*": builtinMul,
		"/": builtinDiv,

		"=":  compareBuiltin("=", func(c int) bool { return c == 0 }),
		"<":  compareBuiltin("<", func(c int) bool { return c < 0 }),
		"<=": compareBuiltin("<=", func(c int) bool { return c <= 0 }),
		">":  compareBuiltin(">", func(c int) bool { return c > 0 }),
		">=": compareBuiltin(">=", func(c int) bool { return c >= 0 }),

		"gensym": builtinGensym,
	}
}

func wantArgs(name string, args []Value, n int) error {
	if len(args) != n {
		return &ArityError{Name: name, Want: n, Got: len(args)}
	}
	return nil
}

func boolResult(b bool) Value {
	if b {
		return BoolVal(true)
	}
	return Nil()
}

func builtinCons(args []Value) (Value, error) {
	if err := wantArgs("cons", args, 2); err != nil {
		return Value{}, err
	}
	return Cons(args[0], args[1]), nil
}

func builtinCar(args []Value) (Value, error) {
	if err := wantArgs("car", args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindPair {
		return Value{}, &TypeError{Op: "car", Want: "pair", Got: args[0]}
	}
	return args[0].Pair.Head, nil
}

func builtinCdr(args []Value) (Value, error) {
	if err := wantArgs("cdr", args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindPair {
		return Value{}, &TypeError{Op: "cdr", Want: "pair", Got: args[0]}
	}
	return args[0].Pair.Tail, nil
}

func builtinList(args []Value) (Value, error) {
	return List(args...), nil
}

// builtinAppend copies its first list onto the second, which is shared
// as the tail of the result, not copied.
func builtinAppend(args []Value) (Value, error) {
	if err := wantArgs("append", args, 2); err != nil {
		return Value{}, err
	}
	if args[0].Kind == KindNil {
		return args[1], nil
	}
	elems, ok := ListSlice(args[0])
	if !ok {
		return Value{}, &TypeError{Op: "append", Want: "proper list", Got: args[0]}
	}
	out := args[1]
	for i := len(elems) - 1; i >= 0; i-- {
		out = Cons(elems[i], out)
	}
	return out, nil
}

func builtinReverse(args []Value) (Value, error) {
	if err := wantArgs("reverse", args, 1); err != nil {
		return Value{}, err
	}
	out := Nil()
	cur := args[0]
	for cur.Kind == KindPair {
		out = Cons(cur.Pair.Head, out)
		cur = cur.Pair.Tail
	}
	if cur.Kind != KindNil {
		return Value{}, &TypeError{Op: "reverse", Want: "proper list", Got: args[0]}
	}
	return out, nil
}

// builtinLength counts the pair chain; atoms count as zero.
func builtinLength(args []Value) (Value, error) {
	if err := wantArgs("length", args, 1); err != nil {
		return Value{}, err
	}
	var n int64
	cur := args[0]
	for cur.Kind == KindPair {
		n++
		cur = cur.Pair.Tail
	}
	return IntVal(n), nil
}

// builtinNth is 0-indexed; past the end of the list it yields nil.
func builtinNth(args []Value) (Value, error) {
	if err := wantArgs("nth", args, 2); err != nil {
		return Value{}, err
	}
	idx := args[1]
	if idx.Kind != KindNumber || idx.Num.Kind != NumInt {
		return Value{}, &TypeError{Op: "nth", Want: "integer index", Got: idx}
	}
	n := idx.Num.I
	cur := args[0]
	for i := int64(0); cur.Kind == KindPair; i++ {
		if i == n {
			return cur.Pair.Head, nil
		}
		cur = cur.Pair.Tail
	}
	return Nil(), nil
}

func builtinAtom(args []Value) (Value, error) {
	if err := wantArgs("atom", args, 1); err != nil {
		return Value{}, err
	}
	return boolResult(args[0].IsAtom()), nil
}

func builtinEq(args []Value) (Value, error) {
	if err := wantArgs("eq", args, 2); err != nil {
		return Value{}, err
	}
	return boolResult(Eq(args[0], args[1])), nil
}

func builtinNot(args []Value) (Value, error) {
	if err := wantArgs("not", args, 1); err != nil {
		return Value{}, err
	}
	return boolResult(!args[0].Truthy()), nil
}

func builtinNilP(args []Value) (Value, error) {
	if err := wantArgs("nil?", args, 1); err != nil {
		return Value{}, err
	}
	return boolResult(args[0].Kind == KindNil), nil
}

func builtinConsP(args []Value) (Value, error) {
	if err := wantArgs("cons?", args, 1); err != nil {
		return Value{}, err
	}
	return boolResult(args[0].Kind == KindPair), nil
}

func builtinNumberP(args []Value) (Value, error) {
	if err := wantArgs("number?", args, 1); err != nil {
		return Value{}, err
	}
	return boolResult(args[0].Kind == KindNumber), nil
}

func numericArg(op string, v Value) (Number, error) {
	if v.Kind != KindNumber {
		return Number{}, &TypeError{Op: op, Want: "number", Got: v}
	}
	return v.Num, nil
}

func builtinAdd(args []Value) (Value, error) {
	acc := IntNum(0)
	for _, a := range args {
		n, err := numericArg("+", a)
		if err != nil {
			return Value{}, err
		}
		acc, err = acc.Add(n)
		if err != nil {
			return Value{}, err
		}
	}
	return NumberVal(acc), nil
}

func builtinSub(args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, &ArityError{Name: "-", Want: 1, Got: 0, Variadic: true}
	}
	acc, err := numericArg("-", args[0])
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		neg, err := acc.Neg()
		if err != nil {
			return Value{}, err
		}
		return NumberVal(neg), nil
	}
	for _, a := range args[1:] {
		n, err := numericArg("-", a)
		if err != nil {
			return Value{}, err
		}
		acc, err = acc.Sub(n)
		if err != nil {
			return Value{}, err
		}
	}
	return NumberVal(acc), nil
}

func builtinMul(args []Value) (Value, error) {
	acc := IntNum(1)
	for _, a := range args {
		n, err := numericArg("*", a)
		if err != nil {
			return Value{}, err
		}
		acc, err = acc.Mul(n)
		if err != nil {
			return Value{}, err
		}
	}
	return NumberVal(acc), nil
}

func builtinDiv(args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, &ArityError{Name: "/", Want: 1, Got: 0, Variadic: true}
	}
	acc, err := numericArg("/", args[0])
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		inv, err := IntNum(1).Div(acc)
		if err != nil {
			return Value{}, err
		}
		return NumberVal(inv), nil
	}
	for _, a := range args[1:] {
		n, err := numericArg("/", a)
		if err != nil {
			return Value{}, err
		}
		acc, err = acc.Div(n)
		if err != nil {
			return Value{}, err
		}
	}
	return NumberVal(acc), nil
}

// compareBuiltin chains: (< a b c) holds when every adjacent pair
// does. An unordered pair (NaN) is simply false.
func compareBuiltin(name string, holds func(int) bool) NativeFn {
	return func(args []Value) (Value, error) {
		if len(args) < 2 {
			return Value{}, &ArityError{Name: name, Want: 2, Got: len(args), Variadic: true}
		}
		prev, err := numericArg(name, args[0])
		if err != nil {
			return Value{}, err
		}
		for _, a := range args[1:] {
			n, err := numericArg(name, a)
			if err != nil {
				return Value{}, err
			}
			c, ok := prev.Compare(n)
			if !ok || !holds(c) {
				return Nil(), nil
			}
			prev = n
		}
		return BoolVal(true), nil
	}
}

func builtinGensym(args []Value) (Value, error) {
	prefix := ""
	switch len(args) {
	case 0:
	case 1:
		if args[0].Kind != KindString {
			return Value{}, &TypeError{Op: "gensym", Want: "string prefix", Got: args[0]}
		}
		prefix = args[0].Str
	default:
		return Value{}, fmt.Errorf("gensym: expected 0 or 1 arguments, got %d", len(args))
	}
	return SymVal(Gensym(prefix)), nil
}
