package consair

import "fmt"

// UnboundSymbolError is returned when a symbol resolves in no frame of
// the environment chain.
type UnboundSymbolError struct {
	Name string
}

func (e *UnboundSymbolError) Error() string {
	return fmt.Sprintf("unbound symbol: %s", e.Name)
}

// ArityError is returned when a call supplies the wrong number of
// arguments.
type ArityError struct {
	Name     string
	Want     int
	Got      int
	Variadic bool
}

func (e *ArityError) Error() string {
	want := fmt.Sprintf("%d", e.Want)
	if e.Variadic {
		want = fmt.Sprintf("at least %d", e.Want)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: expected %s arguments, got %d", e.Name, want, e.Got)
	}
	return fmt.Sprintf("expected %s arguments, got %d", want, e.Got)
}

// TypeError is returned when an operation receives a value of the
// wrong kind.
type TypeError struct {
	Op   string
	Want string
	Got  Value
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Want, e.Got.KindName())
}

// DivisionByZeroError is returned by the numeric tower for a zero
// divisor at any rank, floats included.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// DepthError is returned when non-tail evaluation exceeds the
// interpreter's recursion limit. Tail calls never count against it.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("recursion depth exceeded: limit %d", e.Limit)
}

// MacroError covers malformed macro definitions, splicing a non-list,
// and unquote outside quasiquote.
type MacroError struct {
	Msg string
}

func (e *MacroError) Error() string {
	return "macro error: " + e.Msg
}
