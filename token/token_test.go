package token

import "testing"

func TestIsKeyword(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"PRINT", true},
		{"print", true},
		{"Print", true},
		{"GOTO", true},
		{"goto", true},
		{"FOOBAR", false},
		{"A", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsKeyword(tt.word); got != tt.want {
			t.Errorf("IsKeyword(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestUpper(t *testing.T) {
	tests := []struct{ in, want string }{
		{"print", "PRINT"},
		{"Print", "PRINT"},
		{"a?b1", "A?B1"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Upper(tt.in); got != tt.want {
			t.Errorf("Upper(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		ty   Type
		want string
	}{
		{NUMBER, "NUMBER"},
		{WORD, "WORD"},
		{STRING, "STRING"},
		{SYMBOL, "SYMBOL"},
		{EOL, "EOL"},
		{EOP, "EOP"},
		{Type(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.ty.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.ty, got, tt.want)
		}
	}
}
