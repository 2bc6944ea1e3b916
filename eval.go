package consair

// DefaultMaxDepth bounds non-tail evaluator recursion. Tail calls
// never count against it.
const DefaultMaxDepth = 2000

var (
	symQuote           = Intern("quote")
	symCond            = Intern("cond")
	symLambda          = Intern("lambda")
	symLabel           = Intern("label")
	symDefmacro        = Intern("defmacro")
	symQuasiquote      = Intern("quasiquote")
	symUnquote         = Intern("unquote")
	symUnquoteSplicing = Intern("unquote-splicing")
	symMacroexpand1    = Intern("macroexpand-1")
	symMacroexpand     = Intern("macroexpand")
)

// Interp owns a global environment, the primitive registry and the
// recursion limit. One Interp runs one evaluation at a time; separate
// Interps are independent apart from the process-wide intern table.
type Interp struct {
	Global   *Env
	MaxDepth int

	depth int
}

// New returns an interpreter with the standard primitives installed.
func New() *Interp {
	in := NewRaw()
	for name, fn := range coreBuiltins() {
		in.Register(name, fn)
	}
	return in
}

// NewRaw returns an interpreter with an empty global frame, for hosts
// that want full control over the registered primitives.
func NewRaw() *Interp {
	return &Interp{Global: NewEnv(nil), MaxDepth: DefaultMaxDepth}
}

// Register binds a named host primitive in the global frame.
func (in *Interp) Register(name string, fn NativeFn) {
	in.Global.Define(Intern(name), NativeVal(name, fn))
}

// EvalString reads every form in src and evaluates them in order
// against the global environment, returning the last result. An error
// aborts the remaining forms but leaves the environment valid.
func (in *Interp) EvalString(src string) (Value, error) {
	forms, err := ReadAll(src)
	if err != nil {
		return Value{}, err
	}
	result := Nil()
	for _, form := range forms {
		result, err = in.Eval(form, in.Global)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

// Eval evaluates one expression. A nil env means the global frame.
func (in *Interp) Eval(expr Value, env *Env) (Value, error) {
	if env == nil {
		env = in.Global
	}
	return in.eval(expr, env)
}

func (in *Interp) limit() int {
	if in.MaxDepth > 0 {
		return in.MaxDepth
	}
	return DefaultMaxDepth
}

// evalSub is the non-tail entry: operands, cond tests and macro bodies
// come through here and are charged against the depth limit.
func (in *Interp) evalSub(expr Value, env *Env) (Value, error) {
	if in.depth >= in.limit() {
		return Value{}, &DepthError{Limit: in.limit()}
	}
	in.depth++
	v, err := in.eval(expr, env)
	in.depth--
	return v, err
}

// eval is the iterative core: tail positions rebind (expr, env) and
// continue the loop, so tail-recursive programs run in constant Go
// stack.
func (in *Interp) eval(expr Value, env *Env) (Value, error) {
	for {
		switch expr.Kind {
		case KindSymbol:
			v, ok := env.Lookup(expr.Sym)
			if !ok {
				return Value{}, &UnboundSymbolError{Name: expr.Sym.Name}
			}
			return v, nil
		case KindPair:
			// handled below
		default:
			// numbers, strings, booleans, nil and callables
			// evaluate to themselves
			return expr, nil
		}

		head := expr.Pair.Head
		if head.Kind == KindSymbol {
			switch head.Sym {
			case symQuote:
				args, err := formArgs("quote", expr.Pair.Tail, 1)
				if err != nil {
					return Value{}, err
				}
				return args[0], nil

			case symCond:
				chosen, matched, err := in.condBranch(expr.Pair.Tail, env)
				if err != nil {
					return Value{}, err
				}
				if !matched {
					return Nil(), nil
				}
				expr = chosen // tail position
				continue

			case symLambda:
				fn, err := in.makeCallable("lambda", expr.Pair.Tail, env)
				if err != nil {
					return Value{}, err
				}
				return LambdaVal(fn), nil

			case symLabel:
				args, err := formArgs("label", expr.Pair.Tail, 2)
				if err != nil {
					return Value{}, err
				}
				if args[0].Kind != KindSymbol {
					return Value{}, &TypeError{Op: "label", Want: "symbol", Got: args[0]}
				}
				v, err := in.evalSub(args[1], env)
				if err != nil {
					return Value{}, err
				}
				// defined in the frame the value's closure captured,
				// so the closure can call itself by name
				env.Define(args[0].Sym, v)
				return v, nil

			case symDefmacro:
				args, err := formArgs("defmacro", expr.Pair.Tail, 3)
				if err != nil {
					return Value{}, err
				}
				if args[0].Kind != KindSymbol {
					return Value{}, &TypeError{Op: "defmacro", Want: "symbol", Got: args[0]}
				}
				params, rest, err := parseParams("defmacro", args[1])
				if err != nil {
					return Value{}, err
				}
				m := MacroVal(&Lambda{Params: params, Rest: rest, Body: args[2], Env: env})
				env.Define(args[0].Sym, m)
				return m, nil

			case symQuasiquote:
				args, err := formArgs("quasiquote", expr.Pair.Tail, 1)
				if err != nil {
					return Value{}, err
				}
				return in.evalQuasiquote(args[0], env, 1)

			case symUnquote, symUnquoteSplicing:
				return Value{}, &MacroError{Msg: head.Sym.Name + " outside quasiquote"}

			case symMacroexpand1:
				args, err := formArgs("macroexpand-1", expr.Pair.Tail, 1)
				if err != nil {
					return Value{}, err
				}
				form, err := in.evalSub(args[0], env)
				if err != nil {
					return Value{}, err
				}
				expansion, _, err := in.ExpandOne(form, env)
				return expansion, err

			case symMacroexpand:
				args, err := formArgs("macroexpand", expr.Pair.Tail, 1)
				if err != nil {
					return Value{}, err
				}
				form, err := in.evalSub(args[0], env)
				if err != nil {
					return Value{}, err
				}
				return in.Expand(form, env)
			}
		}

		// macro-headed forms expand and re-enter the loop
		if expansion, expanded, err := in.ExpandOne(expr, env); err != nil {
			return Value{}, err
		} else if expanded {
			expr = expansion
			continue
		}

		// application
		fn, err := in.evalSub(head, env)
		if err != nil {
			return Value{}, err
		}
		args, err := in.evalArgs(expr.Pair.Tail, env)
		if err != nil {
			return Value{}, err
		}

		switch fn.Kind {
		case KindNative:
			return fn.Nat.Fn(args)
		case KindLambda:
			child, err := fn.Fn.Env.Extend(fn.Fn.Params, fn.Fn.Rest, args)
			if err != nil {
				if ae, ok := err.(*ArityError); ok && ae.Name == "" {
					ae.Name = "lambda"
				}
				return Value{}, err
			}
			expr, env = fn.Fn.Body, child // tail call
			continue
		default:
			return Value{}, &TypeError{Op: "apply", Want: "function", Got: fn}
		}
	}
}

// condBranch walks (test expr) clauses in order and returns the first
// truthy test's expression unevaluated, for the caller's tail
// position. Clauses after the match are not evaluated.
func (in *Interp) condBranch(clauses Value, env *Env) (Value, bool, error) {
	for clauses.Kind == KindPair {
		clause, ok := ListSlice(clauses.Pair.Head)
		if !ok || len(clause) != 2 {
			return Value{}, false, &TypeError{Op: "cond", Want: "(test expr) clause", Got: clauses.Pair.Head}
		}
		test, err := in.evalSub(clause[0], env)
		if err != nil {
			return Value{}, false, err
		}
		if test.Truthy() {
			return clause[1], true, nil
		}
		clauses = clauses.Pair.Tail
	}
	return Value{}, false, nil
}

func (in *Interp) makeCallable(op string, tail Value, env *Env) (*Lambda, error) {
	args, err := formArgs(op, tail, 2)
	if err != nil {
		return nil, err
	}
	params, rest, err := parseParams(op, args[0])
	if err != nil {
		return nil, err
	}
	return &Lambda{Params: params, Rest: rest, Body: args[1], Env: env}, nil
}

// parseParams accepts a proper list of symbols, a dotted tail symbol
// for variadics, or a bare symbol collecting the whole argument list.
func parseParams(op string, v Value) ([]*Symbol, *Symbol, error) {
	var params []*Symbol
	for v.Kind == KindPair {
		h := v.Pair.Head
		if h.Kind != KindSymbol {
			return nil, nil, &TypeError{Op: op, Want: "symbol parameter", Got: h}
		}
		params = append(params, h.Sym)
		v = v.Pair.Tail
	}
	switch v.Kind {
	case KindNil:
		return params, nil, nil
	case KindSymbol:
		return params, v.Sym, nil
	default:
		return nil, nil, &TypeError{Op: op, Want: "parameter list", Got: v}
	}
}

func (in *Interp) evalArgs(tail Value, env *Env) ([]Value, error) {
	forms, ok := ListSlice(tail)
	if !ok {
		return nil, &TypeError{Op: "apply", Want: "proper argument list", Got: tail}
	}
	args := make([]Value, len(forms))
	for i, f := range forms {
		v, err := in.evalSub(f, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// formArgs checks a special form's argument count.
func formArgs(name string, tail Value, want int) ([]Value, error) {
	args, ok := ListSlice(tail)
	if !ok {
		return nil, &TypeError{Op: name, Want: "proper list", Got: tail}
	}
	if len(args) != want {
		return nil, &ArityError{Name: name, Want: want, Got: len(args)}
	}
	return args, nil
}
