package vartable

import (
	"testing"

	"github.com/kevinboone/pmbasic/basicerr"
)

func TestSetAndGetNumber(t *testing.T) {
	tbl := New()
	if err := tbl.SetNumber("A", 42); err != nil {
		t.Fatalf("SetNumber failed: %v", err)
	}
	v, err := tbl.GetNumber("A")
	if err != nil || v != 42 {
		t.Fatalf("GetNumber(A) = %d, %v, want 42, nil", v, err)
	}
}

func TestGetNumberUndefined(t *testing.T) {
	tbl := New()
	_, err := tbl.GetNumber("Z")
	if !basicerr.Is(err, basicerr.UndefinedVar) {
		t.Fatalf("GetNumber of unset var = %v, want UndefinedVar", err)
	}
}

func TestNamesAreCaseSensitive(t *testing.T) {
	tbl := New()
	mustSet(t, tbl, "a", 1)
	mustSet(t, tbl, "A", 2)

	if v, _ := tbl.GetNumber("a"); v != 1 {
		t.Fatalf("GetNumber(a) = %d, want 1", v)
	}
	if v, _ := tbl.GetNumber("A"); v != 2 {
		t.Fatalf("GetNumber(A) = %d, want 2", v)
	}
}

func TestSetNumberOverwrites(t *testing.T) {
	tbl := New()
	mustSet(t, tbl, "X", 1)
	mustSet(t, tbl, "X", 2)

	if v, _ := tbl.GetNumber("X"); v != 2 {
		t.Fatalf("GetNumber(X) = %d, want 2", v)
	}
}

func TestClearRemovesAllVariables(t *testing.T) {
	tbl := New()
	mustSet(t, tbl, "X", 1)
	tbl.Clear()

	if tbl.Defined("X") {
		t.Fatal("X should not be defined after Clear")
	}
}

func TestSetNumberCapacity(t *testing.T) {
	tbl := New()
	for i := 0; i < MaxVariables; i++ {
		name := string(rune('A' + i%26))
		if i >= 26 {
			name += string(rune('0' + i/26))
		}
		if err := tbl.SetNumber(name, int32(i)); err != nil {
			t.Fatalf("SetNumber #%d failed: %v", i, err)
		}
	}
	if err := tbl.SetNumber("OVERFLOW", 1); !basicerr.Is(err, basicerr.NoMem) {
		t.Fatalf("SetNumber past capacity = %v, want NoMem", err)
	}
}

func mustSet(t *testing.T, tbl *Table, name string, value int32) {
	t.Helper()
	if err := tbl.SetNumber(name, value); err != nil {
		t.Fatalf("SetNumber(%q, %d) failed: %v", name, value, err)
	}
}
