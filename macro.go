package consair

// Expansion is deliberately unhygienic: macro output is spliced into
// the use site as-is, so inserted symbols capture and are captured by
// whatever is in scope there. gensym is the escape hatch.

// ExpandOne performs a single head expansion: if form is a pair whose
// head symbol resolves to a macro, the unevaluated argument forms are
// bound in a child of the macro's captured environment and the body is
// evaluated once. The boolean reports whether an expansion happened.
func (in *Interp) ExpandOne(form Value, env *Env) (Value, bool, error) {
	if form.Kind != KindPair || form.Pair.Head.Kind != KindSymbol {
		return form, false, nil
	}
	m, ok := env.Lookup(form.Pair.Head.Sym)
	if !ok || m.Kind != KindMacro {
		return form, false, nil
	}
	argForms, ok := ListSlice(form.Pair.Tail)
	if !ok {
		return Value{}, false, &MacroError{Msg: form.Pair.Head.Sym.Name + ": improper argument list"}
	}
	child, err := m.Fn.Env.Extend(m.Fn.Params, m.Fn.Rest, argForms)
	if err != nil {
		if ae, ok := err.(*ArityError); ok && ae.Name == "" {
			ae.Name = form.Pair.Head.Sym.Name
		}
		return Value{}, false, err
	}
	expansion, err := in.evalSub(m.Fn.Body, child)
	if err != nil {
		return Value{}, false, err
	}
	return expansion, true, nil
}

// Expand rewrites form to its macro-free fixpoint: the head is
// expanded outermost-first until it is no longer macro-headed, then
// sub-forms are expanded recursively. Quoted and quasiquoted material
// is left alone, so running Expand on its own output is a no-op.
func (in *Interp) Expand(form Value, env *Env) (Value, error) {
	for {
		expansion, expanded, err := in.ExpandOne(form, env)
		if err != nil {
			return Value{}, err
		}
		if !expanded {
			break
		}
		form = expansion
	}
	if form.Kind != KindPair {
		return form, nil
	}
	if h := form.Pair.Head; h.Kind == KindSymbol && (h.Sym == symQuote || h.Sym == symQuasiquote) {
		return form, nil
	}

	var items []Value
	cur := form
	for cur.Kind == KindPair {
		sub, err := in.Expand(cur.Pair.Head, env)
		if err != nil {
			return Value{}, err
		}
		items = append(items, sub)
		cur = cur.Pair.Tail
	}
	tail := cur
	if cur.Kind != KindNil {
		t, err := in.Expand(cur, env)
		if err != nil {
			return Value{}, err
		}
		tail = t
	}
	out := tail
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out, nil
}

// quasiTail reports whether v is itself an unquote, unquote-splicing
// or quasiquote form. A dotted tail like `(a . ,b) reads as a chain
// ending in (unquote b), so the element walk must stop there and hand
// the rest back to the template dispatch instead of consuming the
// marker symbol as an ordinary element.
func quasiTail(v Value) bool {
	if _, ok := unaryForm(v, symUnquote); ok {
		return true
	}
	if _, ok := unaryForm(v, symUnquoteSplicing); ok {
		return true
	}
	if _, ok := unaryForm(v, symQuasiquote); ok {
		return true
	}
	return false
}

// unaryForm matches (sym x) and returns x.
func unaryForm(v Value, sym *Symbol) (Value, bool) {
	if v.Kind != KindPair || v.Pair.Head.Kind != KindSymbol || v.Pair.Head.Sym != sym {
		return Value{}, false
	}
	tail := v.Pair.Tail
	if tail.Kind != KindPair || tail.Pair.Tail.Kind != KindNil {
		return Value{}, false
	}
	return tail.Pair.Head, true
}

// evalQuasiquote walks a template carrying the nesting depth. unquote
// at depth 1 evaluates its form; deeper occurrences are rebuilt with
// the depth adjusted, and nested quasiquote increments it.
func (in *Interp) evalQuasiquote(tmpl Value, env *Env, depth int) (Value, error) {
	if tmpl.Kind != KindPair {
		return tmpl, nil
	}

	if inner, ok := unaryForm(tmpl, symUnquote); ok {
		if depth == 1 {
			return in.evalSub(inner, env)
		}
		v, err := in.evalQuasiquote(inner, env, depth-1)
		if err != nil {
			return Value{}, err
		}
		return List(SymVal(symUnquote), v), nil
	}

	if inner, ok := unaryForm(tmpl, symQuasiquote); ok {
		v, err := in.evalQuasiquote(inner, env, depth+1)
		if err != nil {
			return Value{}, err
		}
		return List(SymVal(symQuasiquote), v), nil
	}

	if inner, ok := unaryForm(tmpl, symUnquoteSplicing); ok {
		if depth == 1 {
			// splices are only meaningful as list elements
			return Value{}, &MacroError{Msg: "unquote-splicing outside list"}
		}
		v, err := in.evalQuasiquote(inner, env, depth-1)
		if err != nil {
			return Value{}, err
		}
		return List(SymVal(symUnquoteSplicing), v), nil
	}

	var items []Value
	cur := tmpl
	for cur.Kind == KindPair && !quasiTail(cur) {
		el := cur.Pair.Head
		if inner, ok := unaryForm(el, symUnquoteSplicing); ok && depth == 1 {
			v, err := in.evalSub(inner, env)
			if err != nil {
				return Value{}, err
			}
			elems, ok := ListSlice(v)
			if !ok {
				return Value{}, &MacroError{Msg: "unquote-splicing: value is not a list"}
			}
			items = append(items, elems...)
		} else {
			v, err := in.evalQuasiquote(el, env, depth)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		cur = cur.Pair.Tail
	}
	tail := cur
	if cur.Kind != KindNil {
		t, err := in.evalQuasiquote(cur, env, depth)
		if err != nil {
			return Value{}, err
		}
		tail = t
	}
	out := tail
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out, nil
}
