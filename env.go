package consair

import (
	"sort"
	"sync"
)

// Env is one frame of the lexical environment: a binding map plus a
// parent pointer. Frames are shared by reference — a closure and the
// frame it was defined in see each other's later definitions — so the
// map is lock-guarded.
type Env struct {
	mu     sync.RWMutex
	vars   map[*Symbol]Value
	parent *Env
}

// NewEnv returns an empty frame chained to parent. A nil parent makes
// a root frame.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[*Symbol]Value), parent: parent}
}

// Define binds or rebinds sym in this frame only. Outer bindings of
// the same symbol are shadowed, not touched.
func (e *Env) Define(sym *Symbol, val Value) {
	e.mu.Lock()
	e.vars[sym] = val
	e.mu.Unlock()
}

// Lookup walks the chain outward from this frame.
func (e *Env) Lookup(sym *Symbol) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		v, ok := env.vars[sym]
		env.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return Value{}, false
}

// Names returns the symbols bound in this frame, sorted. Parent
// frames are not included.
func (e *Env) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.vars))
	for sym := range e.vars {
		names = append(names, sym.Name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Extend builds a fresh child frame binding params positionally to
// args. With a rest symbol the surplus arguments are collected into a
// fresh list; without one the counts must match exactly.
func (e *Env) Extend(params []*Symbol, rest *Symbol, args []Value) (*Env, error) {
	if rest == nil && len(args) != len(params) {
		return nil, &ArityError{Want: len(params), Got: len(args)}
	}
	if rest != nil && len(args) < len(params) {
		return nil, &ArityError{Want: len(params), Got: len(args), Variadic: true}
	}
	child := NewEnv(e)
	for i, p := range params {
		child.vars[p] = args[i]
	}
	if rest != nil {
		child.vars[rest] = List(args[len(params):]...)
	}
	return child, nil
}
