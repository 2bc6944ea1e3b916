package consair

import (
	"errors"
	"strings"
	"testing"
)

// --- Quasiquote ---

func TestQuasiquoteBasics(t *testing.T) {
	testEvalPrints(t, "`x", "x")
	testEvalPrints(t, "`(a b c)", "(a b c)")
	testEval(t, "`42", IntVal(42))
	testEvalPrints(t, "`(1 2 ,(+ 1 2))", "(1 2 3)")
	testEvalPrints(t, "`(a ,(car '(b c)))", "(a b)")
}

func TestQuasiquoteSplicing(t *testing.T) {
	testEvalPrints(t, "`(1 ,@(list 2 3) 4)", "(1 2 3 4)")
	testEvalPrints(t, "`(,@(list 1 2))", "(1 2)")
	testEvalPrints(t, "`(a ,@nil b)", "(a b)")
	// the spliced list is rebuilt around, elements spliced in order
	testEvalPrints(t, "(label xs '(2 3)) `(1 ,@xs ,@xs)", "(1 2 3 2 3)")
}

func TestQuasiquoteSpliceNonList(t *testing.T) {
	in := New()
	_, err := in.EvalString("`(1 ,@2)")
	var me *MacroError
	if !errors.As(err, &me) {
		t.Fatalf("expected MacroError, got %v", err)
	}
}

func TestQuasiquoteDottedUnquote(t *testing.T) {
	// an unquote in the cdr evaluates, it is not read as two elements
	testEvalPrints(t, "(label b 5) `(a . ,b)", "(a . 5)")
	testEvalPrints(t, "`(a . ,(list 1 2))", "(a 1 2)")
	testEvalPrints(t, "`(a b . ,(+ 1 2))", "(a b . 3)")
	// a plain dotted tail still passes through untouched
	testEvalPrints(t, "`(a . b)", "(a . b)")
	// one level down the tail unquote is rebuilt, not evaluated
	testEvalPrints(t, "``(a . ,b)", "(quasiquote (a unquote b))")
}

func TestQuasiquoteSpliceInTailPosition(t *testing.T) {
	in := New()
	_, err := in.EvalString("`(a . ,@(list 1))")
	var me *MacroError
	if !errors.As(err, &me) {
		t.Fatalf("expected MacroError, got %v", err)
	}
}

func TestQuasiquoteNested(t *testing.T) {
	testEvalPrints(t, "``(a ,,1)", "(quasiquote (a (unquote 1)))")
	testEvalPrints(t, "``(a ,b)", "(quasiquote (a (unquote b)))")
}

func TestUnquoteOutsideQuasiquote(t *testing.T) {
	in := New()
	_, err := in.EvalString("(unquote 1)")
	var me *MacroError
	if !errors.As(err, &me) {
		t.Fatalf("expected MacroError, got %v", err)
	}
	_, err = in.EvalString(",@(list 1)")
	if !errors.As(err, &me) {
		t.Fatalf("expected MacroError, got %v", err)
	}
}

// --- Defmacro ---

func TestDefmacro(t *testing.T) {
	testEvalPrints(t, "(defmacro when (c body) `(cond (,c ,body)))", "<macro>")
	testEval(t, "(defmacro when (c body) `(cond (,c ,body))) (when t 42)", IntVal(42))
	testEval(t, "(defmacro when (c body) `(cond (,c ,body))) (when nil 42)", Nil())
	testEval(t, `
		(defmacro unless (c body) `+"`"+`(cond ((not ,c) ,body)))
		(unless nil "ran")`, StringVal("ran"))
}

func TestMacroArgsUnevaluated(t *testing.T) {
	// (car 5) would be a type error if the macro evaluated its argument
	testEvalPrints(t, "(defmacro quote-it (x) `(quote ,x)) (quote-it (car 5))", "(car 5)")
}

func TestMacroVariadic(t *testing.T) {
	testEvalPrints(t, "(defmacro all forms `(quote ,forms)) (all 1 2 3)", "(1 2 3)")
	testEvalPrints(t, "(defmacro pairup (a . rest) `(quote (,a ,rest))) (pairup 1 2 3)", "(1 (2 3))")
}

// --- Unhygienic expansion ---

func TestMacroCapturesUseSite(t *testing.T) {
	// the x inserted by the macro resolves to the caller's binding
	testEval(t, "(defmacro grab-x () 'x) ((lambda (x) (grab-x)) 7)", IntVal(7))
}

// --- macroexpand ---

func TestMacroexpandOne(t *testing.T) {
	testEvalPrints(t, `
		(defmacro when (c body) `+"`"+`(cond (,c ,body)))
		(macroexpand-1 '(when 1 2))`, "(cond (1 2))")
	// non-macro forms pass through unchanged
	testEvalPrints(t, "(macroexpand-1 '(+ 1 2))", "(+ 1 2)")
	testEval(t, "(macroexpand-1 '5)", IntVal(5))
}

func TestMacroexpandFull(t *testing.T) {
	testEvalPrints(t, `
		(defmacro when (c body) `+"`"+`(cond (,c ,body)))
		(defmacro w2 (c body) `+"`"+`(when ,c ,body))
		(macroexpand '(w2 1 2))`, "(cond (1 2))")
}

func TestMacroexpandRecursesIntoSubforms(t *testing.T) {
	testEvalPrints(t, `
		(defmacro when (c body) `+"`"+`(cond (,c ,body)))
		(macroexpand '(list (when 1 2)))`, "(list (cond (1 2)))")
}

func TestMacroexpandLeavesQuotedForms(t *testing.T) {
	testEvalPrints(t, `
		(defmacro when (c body) `+"`"+`(cond (,c ,body)))
		(macroexpand '(quote (when 1 2)))`, "(quote (when 1 2))")
}

func TestExpandIdempotent(t *testing.T) {
	in := New()
	if _, err := in.EvalString("(defmacro when (c body) `(cond (,c ,body)))"); err != nil {
		t.Fatalf("defmacro: %v", err)
	}
	form, err := ReadString("(when 1 (when 2 3))")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	once, err := in.Expand(form, in.Global)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	twice, err := in.Expand(once, in.Global)
	if err != nil {
		t.Fatalf("expand again: %v", err)
	}
	if !ValuesEqual(once, twice) {
		t.Fatalf("expansion not idempotent: %s vs %s", once.String(), twice.String())
	}
	if once.String() != "(cond (1 (cond (2 3))))" {
		t.Fatalf("unexpected expansion: %s", once.String())
	}
}

// --- Gensym ---

func TestGensymUnique(t *testing.T) {
	a := Gensym("")
	b := Gensym("")
	if a == b {
		t.Fatalf("successive gensyms are the same symbol")
	}
	if !strings.HasPrefix(a.Name, "g__") {
		t.Fatalf("default prefix wrong: %s", a.Name)
	}
	p := Gensym("tmp")
	if !strings.HasPrefix(p.Name, "tmp__") {
		t.Fatalf("custom prefix wrong: %s", p.Name)
	}
}

func TestGensymBuiltin(t *testing.T) {
	in := New()
	val, err := in.EvalString(`(eq (gensym) (gensym))`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if val.Truthy() {
		t.Fatalf("two gensyms compare eq")
	}
	val, err = in.EvalString(`(gensym "tmp")`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if val.Kind != KindSymbol || !strings.HasPrefix(val.Sym.Name, "tmp__") {
		t.Fatalf("unexpected gensym result: %s", val.String())
	}
}

func TestGensymTooManyArgs(t *testing.T) {
	in := New()
	_, err := in.EvalString(`(gensym "a" "b")`)
	if err == nil || !strings.Contains(err.Error(), "0 or 1") {
		t.Fatalf("expected 0-or-1 arity error, got %v", err)
	}
}

func TestGensymAvoidsCapture(t *testing.T) {
	testEval(t, `
		(defmacro swap-add (a b)
		  ((lambda (tmp)
		     `+"`"+`((lambda (,tmp) (+ ,b ,tmp)) ,a))
		   (gensym)))
		((lambda (x y) (swap-add x y)) 1 2)`, IntVal(3))
}
