// Package command implements the interactive command layer: it decides
// whether a line typed at the prompt is a program-store edit, one of
// the fixed REPL commands (LIST, RUN, NEW, SAVE, LOAD, INFO, HELP,
// CLEAR, QUIT), or an immediate-mode statement to hand to the
// evaluator.
//
// Grounded on original_source/pmbasic.c's main input loop, with the
// original's big if/else-if command chain replaced by a lookup table
// (the same redesign applied to the statement dispatcher in package
// eval).
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/eval"
	"github.com/kevinboone/pmbasic/host"
	"github.com/kevinboone/pmbasic/program"
	"github.com/kevinboone/pmbasic/token"
)

// Version is printed by INFO and by --version on the CLI.
const Version = "1.0.0"

// Prompt is printed before each line is read in interactive use.
const Prompt = "> "

// Quit is returned by Handle when the QUIT command was entered; the
// caller's input loop treats it as a clean exit, not a failure.
var Quit = errors.New("quit")

// Dispatcher owns the program store and evaluator a session operates
// on and routes each input line to the right place.
type Dispatcher struct {
	Prog *program.Store
	Eval *eval.Evaluator
	Host host.Host
}

// New creates a dispatcher over prog, evaluated with ev, talking to h
// for output and persistence.
func New(prog *program.Store, ev *eval.Evaluator, h host.Host) *Dispatcher {
	return &Dispatcher{Prog: prog, Eval: ev, Host: h}
}

var commands = map[string]func(*Dispatcher, string) error{
	"RUN":   (*Dispatcher).cmdRun,
	"LIST":  (*Dispatcher).cmdList,
	"NEW":   (*Dispatcher).cmdNew,
	"SAVE":  (*Dispatcher).cmdSave,
	"LOAD":  (*Dispatcher).cmdLoad,
	"INFO":  (*Dispatcher).cmdInfo,
	"HELP":  (*Dispatcher).cmdHelp,
	"CLEAR": (*Dispatcher).cmdClear,
	"QUIT":  (*Dispatcher).cmdQuit,
}

// immediateRejected lists the keywords that are only meaningful inside
// a stored program: both jump to a line number that immediate mode has
// no notion of resuming from.
var immediateRejected = map[string]bool{
	"GOTO":  true,
	"GOSUB": true,
}

// Handle processes one line of input exactly the way the interactive
// prompt does: a leading digit routes to the program store, a leading
// letter or '?' is checked against the command table and then against
// the evaluator, and anything else is handed to the program store too
// (where it will most likely fail with BadLineNumber) - this routing
// rule is preserved exactly as the original decided it, quirks
// included.
func (d *Dispatcher) Handle(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	first := trimmed[0]
	if !isAlpha(first) && first != '?' {
		_, err := d.Prog.InsertLine(trimmed)
		return err
	}

	word, rest := splitWord(trimmed)
	upper := token.Upper(word)

	if immediateRejected[upper] {
		return basicerr.New(basicerr.UnsupImmediate)
	}
	if cmd, ok := commands[upper]; ok {
		return cmd(d, strings.TrimSpace(rest))
	}

	if first == '?' {
		return d.Eval.RunLine("PRINT " + trimmed[1:])
	}
	return d.Eval.RunLine(trimmed)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// splitWord splits s into its leading word and the remainder. The
// remainder keeps the space or tab that separates them; callers trim it.
func splitWord(s string) (word, rest string) {
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func (d *Dispatcher) cmdRun(rest string) error {
	return d.Eval.Run()
}

func (d *Dispatcher) cmdNew(rest string) error {
	d.Prog.Clear()
	return nil
}

func (d *Dispatcher) cmdClear(rest string) error {
	d.Prog.Clear()
	return nil
}

func (d *Dispatcher) cmdQuit(rest string) error {
	return Quit
}

func (d *Dispatcher) cmdSave(rest string) error {
	return d.Host.PersistSave(d.Prog.RawBytes())
}

func (d *Dispatcher) cmdLoad(rest string) error {
	data, err := d.Host.PersistLoad()
	if err != nil {
		return err
	}
	d.Prog.Clear()
	for _, b := range data {
		d.Prog.AppendChar(b)
	}
	return nil
}

func (d *Dispatcher) cmdInfo(rest string) error {
	d.Host.OutputString(fmt.Sprintf("pmbasic %s, program length %d bytes", Version, d.Prog.Length()))
	d.Host.OutputEOL()
	return nil
}

func (d *Dispatcher) cmdHelp(rest string) error {
	lines := []string{
		"RUN              run the stored program",
		"LIST [from [count]]   list stored lines",
		"NEW              clear the stored program",
		"SAVE             save the stored program",
		"LOAD             load a previously saved program",
		"INFO             show interpreter and program info",
		"CLEAR            clear the stored program",
		"QUIT             exit",
	}
	for _, l := range lines {
		d.Host.OutputString(l)
		d.Host.OutputEOL()
	}
	return nil
}

// cmdList implements "LIST", "LIST <from>", and "LIST <from> <count>".
func (d *Dispatcher) cmdList(rest string) error {
	fields := strings.Fields(rest)

	var from int32 = -1
	count := -1

	if len(fields) >= 1 {
		v, ok := program.ParseDecimal(fields[0])
		if !ok {
			return basicerr.New(basicerr.BadLineNumber)
		}
		from = v
	}
	if len(fields) >= 2 {
		v, ok := program.ParseDecimal(fields[1])
		if !ok {
			return basicerr.New(basicerr.BadLineNumber)
		}
		// A count of zero means "no limit", the same as omitting it,
		// not "print nothing".
		if v != 0 {
			count = int(v)
		}
	}

	printed := 0
	d.Prog.IterateLines(func(lineText []byte) bool {
		n, _ := program.ParseLineNumber(string(lineText))
		if from >= 0 && n < from {
			return true
		}
		if count >= 0 && printed >= count {
			return false
		}
		d.Host.OutputString(string(lineText))
		d.Host.OutputEOL()
		printed++
		return true
	})
	return nil
}
