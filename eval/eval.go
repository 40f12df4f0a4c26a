// Package eval is the evaluator: it walks the stored program (or a
// single immediate-mode line) statement by statement, maintaining the
// variable table and the GOSUB/FOR control stacks as it goes.
//
// Grounded on original_source/parser.c, restructured around a lookup
// table of statement handlers (spec.md section 9) instead of the
// original's long if/else-if chain, and using byte offsets into the
// program buffer for every jump target rather than a raw pointer
// (spec.md section 9 again: RUN borrows the buffer for the duration of
// one execution and nothing touches it while a jump offset is live, so
// an int offset is exactly as valid as the pointer it replaces).
package eval

import (
	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/ctrlstack"
	"github.com/kevinboone/pmbasic/host"
	"github.com/kevinboone/pmbasic/program"
	"github.com/kevinboone/pmbasic/token"
	"github.com/kevinboone/pmbasic/tokenizer"
	"github.com/kevinboone/pmbasic/vartable"
)

// Evaluator runs a stored program or a single immediate-mode statement
// against a shared variable table and host.
type Evaluator struct {
	prog *program.Store
	vars *vartable.Table
	host host.Host

	gosub ctrlstack.GosubStack
	forSt ctrlstack.ForStack

	tz        *tokenizer.Tokenizer
	line      int32
	immediate bool

	offsetToLine map[int]int32
	lineToOffset map[int32]int
	sortedLines  []int32
}

// New creates an evaluator over prog and vars, driven by host h.
func New(prog *program.Store, vars *vartable.Table, h host.Host) *Evaluator {
	return &Evaluator{prog: prog, vars: vars, host: h}
}

// flowKind tells Run what to do once a statement finishes.
type flowKind int

const (
	flowNext flowKind = iota // fall through to the following stored line
	flowJump                 // continue at a specific byte offset
	flowEnd                  // END was reached, or the program ran off the bottom
)

type flowResult struct {
	kind   flowKind
	offset int
}

// Run executes the entire stored program from its first line. It
// rebuilds the line index, resets the variable table and both control
// stacks, and runs until END, a runaway program is interrupted, or an
// error is raised.
func (e *Evaluator) Run() error {
	refs := e.prog.LineRefs()
	total := e.prog.LineCount()
	if total == 0 {
		return basicerr.New(basicerr.NoStoredProgram)
	}
	if len(refs) < total {
		return basicerr.New(basicerr.NoLineNum)
	}

	e.buildIndex(refs)
	e.vars.Clear()
	e.gosub.Clear()
	e.forSt.Clear()
	e.immediate = false
	e.tz = tokenizer.New(e.prog.RawBytes())

	offset := e.lineToOffset[e.sortedLines[0]]
	for {
		if e.host.PollInterrupt() {
			return e.wrap(basicerr.New(basicerr.Interrupted))
		}

		e.line = e.offsetToLine[offset]
		e.tz.SetPos(offset)
		if e.tz.Err() != nil {
			return e.wrap(e.tz.Err())
		}
		e.tz.Next() // move past the leading line number

		result, err := e.execStatement()
		if err != nil {
			return e.wrap(err)
		}

		switch result.kind {
		case flowEnd:
			return nil
		case flowJump:
			offset = result.offset
		default:
			next, ok := e.nextLineAfter(e.line)
			if !ok {
				return nil
			}
			offset = e.lineToOffset[next]
		}
	}
}

// RunLine executes a single statement typed directly at the prompt,
// with no stored line number. It shares the variable table and program
// store with Run, but does not touch the control stacks' depth or reset
// anything: an immediate-mode PRINT or assignment should not disturb a
// program paused... in practice nothing is ever paused, since this
// interpreter has no breakpoints, but RunLine still leaves the control
// stacks alone so a stray immediate statement can't silently unbalance
// GOSUB/FOR bookkeeping a later RUN depends on.
func (e *Evaluator) RunLine(text string) error {
	buf := append([]byte(text), 0)
	e.tz = tokenizer.New(buf)
	e.line = 0
	e.immediate = true

	gosub, forSt := e.gosub, e.forSt
	defer func() { e.gosub, e.forSt = gosub, forSt }()

	_, err := e.execStatement()
	if err != nil {
		return e.wrap(err)
	}
	return nil
}

func (e *Evaluator) buildIndex(refs []program.LineRef) {
	e.offsetToLine = make(map[int]int32, len(refs))
	e.lineToOffset = make(map[int32]int, len(refs))
	e.sortedLines = make([]int32, len(refs))
	for i, r := range refs {
		e.offsetToLine[r.Begin] = r.Number
		e.lineToOffset[r.Number] = r.Begin
		e.sortedLines[i] = r.Number
	}
}

// nextLineAfter returns the smallest indexed line number greater than n.
// Refs are stored in ascending order, so a linear scan suffices; the
// stacks and the index are both far too small for this to matter.
func (e *Evaluator) nextLineAfter(n int32) (int32, bool) {
	for _, ln := range e.sortedLines {
		if ln > n {
			return ln, true
		}
	}
	return 0, false
}

// wrap decorates an undecorated basicerr.Error with the line currently
// executing and the lexeme the tokenizer was sitting on, unless it
// already carries a line (errors raised deep in expression parsing
// already carry this context themselves). Any other error is replaced
// by a Syntax error at the current line.
func (e *Evaluator) wrap(err error) error {
	if err == nil {
		return nil
	}
	if be, ok := err.(*basicerr.Error); ok {
		if be.Line == 0 && e.line != 0 {
			be.Line = e.line
			be.Near = e.nearText()
		}
		return be
	}
	return basicerr.NewAt(basicerr.Syntax, e.line, e.nearText())
}

func (e *Evaluator) nearText() string {
	cur := e.tz.Current()
	switch cur.Type {
	case token.NUMBER:
		return cur.Text
	case token.WORD, token.STRING, token.SYMBOL:
		return cur.Text
	default:
		return ""
	}
}

func (e *Evaluator) errAt(kind basicerr.Kind) error {
	return basicerr.NewAt(kind, e.line, e.nearText())
}
