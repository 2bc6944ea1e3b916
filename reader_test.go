package consair

import "testing"

func testRead(t *testing.T, input string, expected Value) {
	t.Helper()
	val, err := ReadString(input)
	if err != nil {
		t.Fatalf("read %q: %v", input, err)
	}
	if !ValuesEqual(val, expected) {
		t.Fatalf("read %q: expected %s, got %s", input, expected.String(), val.String())
	}
}

func testReadPrints(t *testing.T, input, expected string) {
	t.Helper()
	val, err := ReadString(input)
	if err != nil {
		t.Fatalf("read %q: %v", input, err)
	}
	if val.String() != expected {
		t.Fatalf("read %q: expected %s, got %s", input, expected, val.String())
	}
}

func testReadError(t *testing.T, input string) {
	t.Helper()
	if _, err := ReadString(input); err == nil {
		t.Fatalf("expected read error for %q", input)
	}
}

// --- Atoms ---

func TestReadAtoms(t *testing.T) {
	testRead(t, "42", IntVal(42))
	testRead(t, "-7", IntVal(-7))
	testRead(t, "2.5", FloatVal(2.5))
	testRead(t, "t", BoolVal(true))
	testRead(t, "nil", Nil())
	testRead(t, "foo", SymbolVal("foo"))
	testRead(t, "+", SymbolVal("+"))
	testRead(t, `"hi\nthere"`, StringVal("hi\nthere"))
}

func TestReadBigLiteral(t *testing.T) {
	val, err := ReadString("123456789012345678901234567890")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if val.Kind != KindNumber || val.Num.Kind != NumBigInt {
		t.Fatalf("expected big integer, got %s", val.String())
	}
	if val.String() != "123456789012345678901234567890" {
		t.Fatalf("round trip failed: %s", val.String())
	}
}

func TestReadRatioLiteral(t *testing.T) {
	testReadPrints(t, "3/4", "3/4")
	testReadPrints(t, "6/8", "3/4")
	testRead(t, "4/2", IntVal(2))
	// not every slash is a ratio
	testRead(t, "a/b", SymbolVal("a/b"))
}

// --- Lists ---

func TestReadLists(t *testing.T) {
	testReadPrints(t, "(a b c)", "(a b c)")
	testRead(t, "()", Nil())
	testReadPrints(t, "(a (b c) d)", "(a (b c) d)")
	testReadPrints(t, "(1 . 2)", "(1 . 2)")
	testReadPrints(t, "(1 2 . 3)", "(1 2 . 3)")
	testReadPrints(t, "(1 . (2 . nil))", "(1 2)")
}

func TestReadErrors(t *testing.T) {
	testReadError(t, "(a b")
	testReadError(t, `"unclosed`)
	testReadError(t, ")")
	testReadError(t, "(. 1)")
	testReadError(t, "(1 . 2 3)")
	testReadError(t, "a b") // trailing input after one expression
	testReadError(t, "")
}

// --- Sugar ---

func TestReadSugar(t *testing.T) {
	testReadPrints(t, "'x", "(quote x)")
	testReadPrints(t, "'(a b)", "(quote (a b))")
	testReadPrints(t, "`x", "(quasiquote x)")
	testReadPrints(t, ",x", "(unquote x)")
	testReadPrints(t, ",@x", "(unquote-splicing x)")
	testReadPrints(t, "`(a ,b ,@c)", "(quasiquote (a (unquote b) (unquote-splicing c)))")
	testReadPrints(t, "''x", "(quote (quote x))")
}

// --- Comments and whitespace ---

func TestReadComments(t *testing.T) {
	testRead(t, "; leading comment\n42", IntVal(42))
	testReadPrints(t, "(a ; inline\n b)", "(a b)")
}

func TestReadAll(t *testing.T) {
	forms, err := ReadAll("1 2 (+ 1 2) ; done\n")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(forms))
	}
	if forms[2].String() != "(+ 1 2)" {
		t.Fatalf("unexpected third form: %s", forms[2].String())
	}
}

// --- Balanced ---

func TestBalanced(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"(a b)", true},
		{"(a (b", false},
		{"(a b))", true}, // surplus close surfaces at read, not here
		{`"open`, false},
		{`"done"`, true},
		{"(a ; comment with ( \n b)", true},
		{`("\"")`, true},
		{"", true},
	}
	for _, tc := range cases {
		if got := Balanced(tc.src); got != tc.want {
			t.Fatalf("Balanced(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}
}

// --- Print round trip ---

func TestReadPrintRoundTrip(t *testing.T) {
	sources := []string{
		"(a b (c 1/2 2.5) . tail)",
		`"a\tb\\c\"d"`,
		"(quote (quasiquote (unquote x)))",
		"-9223372036854775808",
	}
	for _, src := range sources {
		v1, err := ReadString(src)
		if err != nil {
			t.Fatalf("read %q: %v", src, err)
		}
		v2, err := ReadString(v1.String())
		if err != nil {
			t.Fatalf("re-read %q: %v", v1.String(), err)
		}
		if !ValuesEqual(v1, v2) {
			t.Fatalf("round trip changed %q: %s vs %s", src, v1.String(), v2.String())
		}
	}
}
