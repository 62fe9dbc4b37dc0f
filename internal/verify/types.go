package verify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a concrete or symbolic value.
type Value interface {
	isValue()
	String() string
	Equal(other Value) bool
}

// IntValue is a Python int that fits in 64 bits.
type IntValue struct {
	Val int64
}

func (IntValue) isValue() {}
func (v IntValue) String() string {
	return strconv.FormatInt(v.Val, 10)
}

func (v IntValue) Equal(other Value) bool {
	switch o := other.(type) {
	case IntValue:
		return v.Val == o.Val
	case FloatValue:
		return float64(v.Val) == o.Val
	}
	return false
}

// FloatValue is a Python float.
type FloatValue struct {
	Val float64
}

func (FloatValue) isValue() {}
func (v FloatValue) String() string {
	return strconv.FormatFloat(v.Val, 'g', -1, 64)
}

func (v FloatValue) Equal(other Value) bool {
	switch o := other.(type) {
	case FloatValue:
		return v.Val == o.Val
	case IntValue:
		return v.Val == float64(o.Val)
	}
	return false
}

// BoolValue is a Python bool.
type BoolValue struct {
	Val bool
}

func (BoolValue) isValue() {}
func (v BoolValue) String() string {
	if v.Val {
		return "True"
	}
	return "False"
}

func (v BoolValue) Equal(other Value) bool {
	if o, ok := other.(BoolValue); ok {
		return v.Val == o.Val
	}
	return false
}

// SymbolicValue stands for anything the evaluator cannot compute.
type SymbolicValue struct {
	Name string
}

func (SymbolicValue) isValue() {}
func (v SymbolicValue) String() string {
	return fmt.Sprintf("<%s>", v.Name)
}

func (v SymbolicValue) Equal(other Value) bool {
	if o, ok := other.(SymbolicValue); ok {
		return v.Name == o.Name
	}
	return false
}

// Env maps variable names to values.
type Env struct {
	vars map[string]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Get returns nil for unbound names.
func (e *Env) Get(name string) Value {
	return e.vars[name]
}

func (e *Env) Set(name string, val Value) {
	e.vars[name] = val
}

// Clone returns a copy that can be modified independently.
func (e *Env) Clone() *Env {
	out := &Env{vars: make(map[string]Value, len(e.vars))}
	for k, v := range e.vars {
		out.vars[k] = v
	}
	return out
}

// Keys returns the bound names in sorted order.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Env) String() string {
	parts := make([]string, 0, len(e.vars))
	for _, k := range e.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%s", k, e.vars[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
