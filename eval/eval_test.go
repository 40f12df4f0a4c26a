package eval

import (
	"strings"
	"testing"

	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/program"
	"github.com/kevinboone/pmbasic/vartable"
)

// fakeHost is a minimal in-memory host.Host used to drive the evaluator
// under test without any real I/O, timing, or GPIO access.
type fakeHost struct {
	out      strings.Builder
	input    []string
	inputPos int
	interrupt bool
	millis   int64
	mem      map[int32]byte
}

func newFakeHost() *fakeHost {
	return &fakeHost{mem: map[int32]byte{}}
}

func (h *fakeHost) OutputChar(c byte)    { h.out.WriteByte(c) }
func (h *fakeHost) OutputString(s string) { h.out.WriteString(s) }
func (h *fakeHost) OutputInt(v int32) {
	h.out.WriteString(itoa(v))
}
func (h *fakeHost) OutputEOL() { h.out.WriteByte('\n') }

func (h *fakeHost) ReadLine() (string, error) {
	if h.inputPos >= len(h.input) {
		return "", basicerr.New(basicerr.Interrupted)
	}
	v := h.input[h.inputPos]
	h.inputPos++
	return v, nil
}

func (h *fakeHost) PollInterrupt() bool { return h.interrupt }
func (h *fakeHost) Millis() int64       { return h.millis }
func (h *fakeHost) Sleep(ms int32)      {}

func (h *fakeHost) Peek(addr int32) (byte, error) { return h.mem[addr], nil }
func (h *fakeHost) Poke(addr int32, value byte) error {
	h.mem[addr] = value
	return nil
}

func (h *fakeHost) PinMode(pin, mode int32) error           { return nil }
func (h *fakeHost) DigitalWrite(pin, value int32) error     { return nil }
func (h *fakeHost) DigitalRead(pin int32) (int32, error)    { return 0, nil }
func (h *fakeHost) AnalogWrite(pin, value int32) error      { return nil }
func (h *fakeHost) AnalogRead(pin int32) (int32, error)     { return 0, nil }

func (h *fakeHost) PersistSave(p []byte) error       { return nil }
func (h *fakeHost) PersistLoad() ([]byte, error)      { return nil, basicerr.New(basicerr.NoStoredProgram) }

func itoa(v int32) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func runProgram(t *testing.T, lines ...string) (*fakeHost, error) {
	t.Helper()
	prog := program.New()
	for _, l := range lines {
		if _, err := prog.InsertLine(l); err != nil {
			t.Fatalf("InsertLine(%q) failed: %v", l, err)
		}
	}
	h := newFakeHost()
	e := New(prog, vartable.New(), h)
	return h, e.Run()
}

func TestPrintLiteralAndExpr(t *testing.T) {
	h, err := runProgram(t, `10 PRINT "HELLO", 1+2`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "HELLO 3\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestPrintSemicolonSuppressesSpaceAndNewline(t *testing.T) {
	h, err := runProgram(t, `10 PRINT "A";"B"`, `20 PRINT 1;`, `30 PRINT 2`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "AB\n12\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestModulus(t *testing.T) {
	h, err := runProgram(t, "10 PRINT 10 % 3")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "1\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestModulusByZero(t *testing.T) {
	_, err := runProgram(t, "10 PRINT 1 % 0")
	if !basicerr.Is(err, basicerr.DivZero) {
		t.Fatalf("Run error = %v, want DivZero", err)
	}
}

func TestAssignmentAndPrintVariable(t *testing.T) {
	h, err := runProgram(t, "10 X = 5", "20 PRINT X*2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "10\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestForNextLoop(t *testing.T) {
	h, err := runProgram(t,
		"10 FOR I = 1 TO 3",
		"20 PRINT I",
		"30 NEXT",
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "1\n2\n3\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestGosubReturn(t *testing.T) {
	h, err := runProgram(t,
		"10 GOSUB 100",
		"20 PRINT 2",
		"30 END",
		"100 PRINT 1",
		"110 RETURN",
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "1\n2\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestIfThenElse(t *testing.T) {
	h, err := runProgram(t, `10 IF 1=2 THEN PRINT "A" ELSE PRINT "B"`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "B\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRelationalChainLeftAssociative(t *testing.T) {
	// (3<5) = 1, then 1<2 = 1: both comparisons are true.
	h, err := runProgram(t, "10 PRINT 3<5<2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "1\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := runProgram(t, "10 PRINT 1/0")
	if !basicerr.Is(err, basicerr.DivZero) {
		t.Fatalf("Run error = %v, want DivZero", err)
	}
}

func TestHexLiteral(t *testing.T) {
	h, err := runProgram(t, "10 PRINT #FF")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "255\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestStringDoubledQuoteEscape(t *testing.T) {
	h, err := runProgram(t, `10 PRINT "A""B"`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := h.out.String(), "A\"B\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestNoStoredProgram(t *testing.T) {
	prog := program.New()
	e := New(prog, vartable.New(), newFakeHost())
	if err := e.Run(); !basicerr.Is(err, basicerr.NoStoredProgram) {
		t.Fatalf("Run on empty program = %v, want NoStoredProgram", err)
	}
}

func TestRunRaisesNoLineNumForMalformedLine(t *testing.T) {
	prog := program.New()
	for _, b := range []byte("10 PRINT 1\nPRINT 2\n") {
		prog.AppendChar(b)
	}
	e := New(prog, vartable.New(), newFakeHost())
	if err := e.Run(); !basicerr.Is(err, basicerr.NoLineNum) {
		t.Fatalf("Run on buffer with an unnumbered line = %v, want NoLineNum", err)
	}
}

func TestRunLineImmediatePrint(t *testing.T) {
	h := newFakeHost()
	e := New(program.New(), vartable.New(), h)
	if err := e.RunLine("PRINT 2+2"); err != nil {
		t.Fatalf("RunLine failed: %v", err)
	}
	if got, want := h.out.String(), "4\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunLineRejectsGoto(t *testing.T) {
	e := New(program.New(), vartable.New(), newFakeHost())
	err := e.RunLine("GOTO 10")
	if !basicerr.Is(err, basicerr.UnsupImmediate) {
		t.Fatalf("RunLine(GOTO) = %v, want UnsupImmediate", err)
	}
}

func TestUndefinedVariable(t *testing.T) {
	_, err := runProgram(t, "10 PRINT A")
	if !basicerr.Is(err, basicerr.UndefinedVar) {
		t.Fatalf("Run error = %v, want UndefinedVar", err)
	}
}
