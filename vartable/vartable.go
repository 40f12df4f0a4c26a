// Package vartable is the flat name-to-integer variable store the
// evaluator consults for LET, bare assignment, FOR loops, and variable
// references in expressions.
//
// Grounded on original_source/variabletable.c: a linear scan over a
// small, fixed-capacity array of name/value pairs. There is no hashing
// and no growth beyond the capacity - a program that declares more
// distinct variable names than fit simply fails, matching the original's
// MAX_VARIABLES limit.
package vartable

import "github.com/kevinboone/pmbasic/basicerr"

// MaxVariables bounds the number of distinct variable names a program
// may use at once.
const MaxVariables = 32

type entry struct {
	name  string
	value int32
}

// Table is the variable store. The zero value is not usable; use New.
type Table struct {
	entries []entry
}

// New creates an empty variable table.
func New() *Table {
	return &Table{entries: make([]entry, 0, MaxVariables)}
}

// Clear removes every stored variable, used by RUN to give each
// execution a fresh variable namespace.
func (t *Table) Clear() {
	t.entries = t.entries[:0]
}

// find returns the index of name's entry, or -1 if unset. Names are
// matched case-sensitively: "A" and "a" are distinct variables.
func (t *Table) find(name string) int {
	for i := range t.entries {
		if t.entries[i].name == name {
			return i
		}
	}
	return -1
}

// GetNumber returns name's current value. An unset variable reports
// UndefinedVar, matching PRINT/expr evaluation falling through to
// "undefined variable" rather than silently defaulting to zero.
func (t *Table) GetNumber(name string) (int32, error) {
	if i := t.find(name); i >= 0 {
		return t.entries[i].value, nil
	}
	return 0, basicerr.New(basicerr.UndefinedVar)
}

// SetNumber assigns value to name, creating the variable if it was not
// already set. Fails with NoMem once MaxVariables distinct names are in
// use and name is not one of them.
func (t *Table) SetNumber(name string, value int32) error {
	if i := t.find(name); i >= 0 {
		t.entries[i].value = value
		return nil
	}
	if len(t.entries) >= MaxVariables {
		return basicerr.New(basicerr.NoMem)
	}
	t.entries = append(t.entries, entry{name: name, value: value})
	return nil
}

// Defined reports whether name currently holds a value.
func (t *Table) Defined(name string) bool {
	return t.find(name) >= 0
}
