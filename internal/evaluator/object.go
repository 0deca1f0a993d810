package evaluator

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

type ObjectType string

const (
	INTEGER_OBJ         = "INTEGER"
	FLOAT_OBJ           = "FLOAT"
	STRING_OBJ          = "STRING"
	BOOLEAN_OBJ         = "BOOLEAN"
	NIL_OBJ             = "NIL"
	LIST_OBJ            = "LIST"
	DICT_OBJ            = "DICT"
	FUNCTION_OBJ        = "FUNCTION"
	BUILTIN_OBJ         = "BUILTIN"
	HOST_OBJ            = "HOST"
	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

type Object interface {
	Type() ObjectType
	Inspect() string
	Hash() uint32
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Hash() uint32     { return uint32(i.Value) }

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (f *Float) Hash() uint32     { return hashString(f.Inspect()) }

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) Hash() uint32     { return hashString(s.Value) }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

// Nil
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) Hash() uint32     { return 0 }

// List is a mutable sequence.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Hash() uint32 { return uint32(len(l.Elements)) }

// Add appends an element in place.
func (l *List) Add(obj Object) {
	l.Elements = append(l.Elements, obj)
}

// Contains reports whether the list holds a string equal to s.
func (l *List) Contains(s string) bool {
	for _, el := range l.Elements {
		if str, ok := el.(*String); ok && str.Value == s {
			return true
		}
	}
	return false
}

// Remove deletes the first string element equal to s, reporting success.
func (l *List) Remove(s string) bool {
	for i, el := range l.Elements {
		if str, ok := el.(*String); ok && str.Value == s {
			l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// Dict is a string-keyed, insertion-ordered mutable mapping. Named-argument
// bundles are dicts, so deterministic ordering keeps forwarding reproducible.
type Dict struct {
	keys    []string
	entries map[string]Object
}

func NewDict() *Dict {
	return &Dict{entries: make(map[string]Object)}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = fmt.Sprintf("%q: %s", k, d.entries[k].Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (d *Dict) Hash() uint32 { return uint32(len(d.keys)) }

func (d *Dict) Get(key string) (Object, bool) {
	obj, ok := d.entries[key]
	return obj, ok
}

func (d *Dict) Set(key string, value Object) {
	if _, exists := d.entries[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = value
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Dict) Len() int { return len(d.keys) }

// SortedKeys returns the keys sorted lexicographically.
func (d *Dict) SortedKeys() []string {
	out := d.Keys()
	sort.Strings(out)
	return out
}

// ReturnValue wraps a value travelling up from a return statement.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) Hash() uint32     { return 0 }

// BreakSignal propagates a break out of the innermost loop.
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }
func (bs *BreakSignal) Hash() uint32     { return 0 }

// ContinueSignal propagates a continue out of the current iteration.
type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }
func (cs *ContinueSignal) Hash() uint32     { return 0 }

// Error
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "ERROR: " + e.Message
}
func (e *Error) Hash() uint32 { return hashString(e.Message) }
