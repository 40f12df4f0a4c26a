package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/deskhost"
	"github.com/kevinboone/pmbasic/eval"
	"github.com/kevinboone/pmbasic/program"
	"github.com/kevinboone/pmbasic/vartable"
)

func newDispatcher(out *bytes.Buffer, savePath string) *Dispatcher {
	prog := program.New()
	h := deskhost.New(os.Stdin, out, savePath)
	ev := eval.New(prog, vartable.New(), h)
	return New(prog, ev, h)
}

func TestHandleInsertsNumberedLine(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	if err := d.Handle("10 PRINT 1"); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got, want := string(d.Prog.RawBytes()), "10 PRINT 1\n"; got != want {
		t.Fatalf("program = %q, want %q", got, want)
	}
}

func TestHandleRunsImmediateStatement(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	if err := d.Handle("PRINT 2+2"); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got, want := out.String(), "4\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestHandleQuestionMarkShorthand(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	if err := d.Handle("?1+1"); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got, want := out.String(), "2\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestHandleRejectsImmediateGoto(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	err := d.Handle("GOTO 10")
	if !basicerr.Is(err, basicerr.UnsupImmediate) {
		t.Fatalf("Handle(GOTO) = %v, want UnsupImmediate", err)
	}
}

func TestHandleRejectsImmediateGosub(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	err := d.Handle("GOSUB 10")
	if !basicerr.Is(err, basicerr.UnsupImmediate) {
		t.Fatalf("Handle(GOSUB) = %v, want UnsupImmediate", err)
	}
}

func TestHandleRunListNew(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	must(t, d.Handle("10 PRINT 1"))
	must(t, d.Handle("20 END"))
	must(t, d.Handle("RUN"))
	if got, want := out.String(), "1\n"; got != want {
		t.Fatalf("RUN output = %q, want %q", got, want)
	}

	out.Reset()
	must(t, d.Handle("LIST"))
	if got, want := out.String(), "10 PRINT 1\n20 END\n"; got != want {
		t.Fatalf("LIST output = %q, want %q", got, want)
	}

	must(t, d.Handle("NEW"))
	if d.Prog.Length() != 0 {
		t.Fatalf("program length after NEW = %d, want 0", d.Prog.Length())
	}
}

func TestHandleListCountZeroIsUnlimited(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	must(t, d.Handle("10 PRINT 1"))
	must(t, d.Handle("20 PRINT 2"))
	must(t, d.Handle("30 PRINT 3"))

	must(t, d.Handle("LIST 10 0"))
	if got, want := out.String(), "10 PRINT 1\n20 PRINT 2\n30 PRINT 3\n"; got != want {
		t.Fatalf("LIST 10 0 output = %q, want %q", got, want)
	}
}

func TestHandleQuit(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	if err := d.Handle("QUIT"); err != Quit {
		t.Fatalf("Handle(QUIT) = %v, want Quit", err)
	}
}

func TestHandleSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.pmb")

	var out bytes.Buffer
	d := newDispatcher(&out, path)

	must(t, d.Handle("10 PRINT 1"))
	must(t, d.Handle("SAVE"))
	must(t, d.Handle("NEW"))
	must(t, d.Handle("LOAD"))

	if got, want := string(d.Prog.RawBytes()), "10 PRINT 1\n"; got != want {
		t.Fatalf("program after LOAD = %q, want %q", got, want)
	}
}

func TestHandleBadLineNumberFallthrough(t *testing.T) {
	var out bytes.Buffer
	d := newDispatcher(&out, "")

	err := d.Handle("+5")
	if !basicerr.Is(err, basicerr.BadLineNumber) {
		t.Fatalf("Handle(\"+5\") = %v, want BadLineNumber", err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
