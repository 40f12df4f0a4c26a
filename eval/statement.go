package eval

import (
	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/ctrlstack"
	"github.com/kevinboone/pmbasic/token"
)

// statementHandlers dispatches on a statement's leading keyword. Bare
// assignment ("X = 1", no LET) has no keyword of its own and is handled
// in execStatement when the leading word is not found in this table.
// The table is filled in init because execIf reaches it again through
// execStatement, which a package-level initializer may not do.
var statementHandlers map[string]func(*Evaluator) (flowResult, error)

func init() {
	statementHandlers = map[string]func(*Evaluator) (flowResult, error){
	"PRINT":        (*Evaluator).execPrint,
	"LET":          (*Evaluator).execLet,
	"IF":           (*Evaluator).execIf,
	"GOTO":         (*Evaluator).execGoto,
	"GOSUB":        (*Evaluator).execGosub,
	"RETURN":       (*Evaluator).execReturn,
	"FOR":          (*Evaluator).execFor,
	"NEXT":         (*Evaluator).execNext,
	"END":          (*Evaluator).execEnd,
	"REM":          (*Evaluator).execRem,
	"INPUT":        (*Evaluator).execInput,
	"MILLIS":       (*Evaluator).execMillis,
	"DELAY":        (*Evaluator).execDelay,
	"PEEK":         (*Evaluator).execPeek,
	"POKE":         (*Evaluator).execPoke,
	"PINMODE":      (*Evaluator).execPinMode,
	"DIGITALWRITE": (*Evaluator).execDigitalWrite,
	"DIGITALREAD":  (*Evaluator).execDigitalRead,
	"ANALOGWRITE":  (*Evaluator).execAnalogWrite,
	"ANALOGREAD":   (*Evaluator).execAnalogRead,
	}
}

// execStatement runs the single statement starting at the tokenizer's
// current position.
func (e *Evaluator) execStatement() (flowResult, error) {
	cur := e.tz.Current()

	if cur.Type == token.EOL || cur.Type == token.EOP {
		return flowResult{kind: flowNext}, nil
	}

	if cur.Type == token.WORD {
		name := token.Upper(cur.Text)
		if handler, ok := statementHandlers[name]; ok {
			e.tz.Next()
			return handler(e)
		}
		return e.execBareAssignment()
	}

	return flowResult{}, basicerr.New(basicerr.Syntax)
}

func (e *Evaluator) expectSymbol(sym string) error {
	cur := e.tz.Current()
	if cur.Type != token.SYMBOL || cur.Text != sym {
		if sym == "," {
			return basicerr.New(basicerr.ExpectedComma)
		}
		return basicerr.New(basicerr.Syntax)
	}
	e.tz.Next()
	return nil
}

func (e *Evaluator) expectWord() (string, error) {
	cur := e.tz.Current()
	if cur.Type != token.WORD {
		return "", basicerr.New(basicerr.KwNoVar)
	}
	name := cur.Text
	e.tz.Next()
	return name, nil
}

func (e *Evaluator) execBareAssignment() (flowResult, error) {
	name := e.tz.Current().Text
	e.tz.Next()
	if err := e.expectSymbol("="); err != nil {
		return flowResult{}, basicerr.New(basicerr.VarNoEq)
	}
	v, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execLet() (flowResult, error) {
	name, err := e.expectWord()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.expectSymbol("="); err != nil {
		return flowResult{}, basicerr.New(basicerr.VarNoEq)
	}
	v, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

// execPrint prints a list of expressions and string literals separated
// by "," or ";". A "," separator inserts a space before the following
// item; a ";" runs the two items together with no space. Either
// separator, left trailing at the end of the statement, suppresses the
// newline that would otherwise end the line - the classic BASIC
// convention for keeping output on one line across several PRINT
// statements (original_source/parser.c's PRINT handling treats both the
// same way).
func (e *Evaluator) execPrint() (flowResult, error) {
	suppressEOL := false
	needSpace := false

	for {
		cur := e.tz.Current()
		if cur.Type == token.EOL || cur.Type == token.EOP {
			break
		}
		if needSpace {
			e.host.OutputChar(' ')
		}
		suppressEOL = false

		if cur.Type == token.STRING {
			e.host.OutputString(cur.Text)
			e.tz.Next()
		} else {
			v, err := e.parseExpr()
			if err != nil {
				return flowResult{}, err
			}
			e.host.OutputInt(v)
		}

		cur = e.tz.Current()
		switch {
		case cur.Type == token.SYMBOL && cur.Text == ",":
			e.tz.Next()
			suppressEOL = true
			needSpace = true
			continue
		case cur.Type == token.SYMBOL && cur.Text == ";":
			e.tz.Next()
			suppressEOL = true
			needSpace = false
			continue
		}
		break
	}

	if !suppressEOL {
		e.host.OutputEOL()
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execIf() (flowResult, error) {
	cond, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.expectKeyword("THEN"); err != nil {
		return flowResult{}, err
	}

	if cond != 0 {
		result, err := e.execStatement()
		if err != nil {
			return flowResult{}, err
		}
		e.skipElse()
		return result, nil
	}

	if e.skipToElse() {
		return e.execStatement()
	}
	return flowResult{kind: flowNext}, nil
}

// skipElse discards a trailing ELSE clause after the THEN branch has
// already run, so execution doesn't also try to run it.
func (e *Evaluator) skipElse() {
	if e.isKeyword("ELSE") {
		e.tz.SkipLine()
	}
}

// skipToElse scans forward, token by token and without evaluating
// anything, past the untaken THEN branch. It reports whether an ELSE
// keyword was found before the end of the line, leaving the cursor
// just past it if so.
func (e *Evaluator) skipToElse() bool {
	for {
		cur := e.tz.Current()
		if cur.Type == token.EOL || cur.Type == token.EOP {
			return false
		}
		if cur.Type == token.WORD && token.Upper(cur.Text) == "ELSE" {
			e.tz.Next()
			return true
		}
		e.tz.Next()
	}
}

func (e *Evaluator) isKeyword(word string) bool {
	cur := e.tz.Current()
	return cur.Type == token.WORD && token.Upper(cur.Text) == word
}

func (e *Evaluator) expectKeyword(word string) error {
	if !e.isKeyword(word) {
		switch word {
		case "THEN":
			return basicerr.New(basicerr.Syntax)
		case "TO":
			return basicerr.New(basicerr.NoForTo)
		}
		return basicerr.New(basicerr.Syntax)
	}
	e.tz.Next()
	return nil
}

func (e *Evaluator) execGoto() (flowResult, error) {
	if e.immediate {
		return flowResult{}, basicerr.New(basicerr.UnsupImmediate)
	}
	target, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	offset, ok := e.lineToOffset[target]
	if !ok {
		return flowResult{}, basicerr.New(basicerr.UnknownLine)
	}
	return flowResult{kind: flowJump, offset: offset}, nil
}

func (e *Evaluator) execGosub() (flowResult, error) {
	if e.immediate {
		return flowResult{}, basicerr.New(basicerr.UnsupImmediate)
	}
	target, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	offset, ok := e.lineToOffset[target]
	if !ok {
		return flowResult{}, basicerr.New(basicerr.UnknownLine)
	}
	returnLine, hasNext := e.nextLineAfter(e.line)
	returnOffset := -1
	if hasNext {
		returnOffset = e.lineToOffset[returnLine]
	}
	if err := e.gosub.Push(returnOffset); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowJump, offset: offset}, nil
}

func (e *Evaluator) execReturn() (flowResult, error) {
	offset, err := e.gosub.Pop()
	if err != nil {
		return flowResult{}, err
	}
	if offset < 0 {
		return flowResult{kind: flowEnd}, nil
	}
	return flowResult{kind: flowJump, offset: offset}, nil
}

func (e *Evaluator) execFor() (flowResult, error) {
	name, err := e.expectWord()
	if err != nil {
		return flowResult{}, basicerr.New(basicerr.NoForVar)
	}
	if err := e.expectSymbol("="); err != nil {
		return flowResult{}, basicerr.New(basicerr.NoForEq)
	}
	start, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.expectKeyword("TO"); err != nil {
		return flowResult{}, basicerr.New(basicerr.NoForTo)
	}
	terminal, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, start); err != nil {
		return flowResult{}, err
	}

	bodyLine, hasNext := e.nextLineAfter(e.line)
	bodyOffset := -1
	if hasNext {
		bodyOffset = e.lineToOffset[bodyLine]
	}
	if err := e.forSt.Push(ctrlstack.ForFrame{Var: name, Terminal: terminal, Cursor: bodyOffset}); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execNext() (flowResult, error) {
	frame, err := e.forSt.Top()
	if err != nil {
		return flowResult{}, err
	}
	v, err := e.vars.GetNumber(frame.Var)
	if err != nil {
		return flowResult{}, err
	}

	// Check the pre-increment value against the terminal: the loop
	// body must still run once with the variable equal to the
	// terminal, so NEXT only increments and jumps back when the
	// current value has not yet reached it.
	if v == frame.Terminal {
		if err := e.forSt.Pop(); err != nil {
			return flowResult{}, err
		}
		return flowResult{kind: flowNext}, nil
	}

	v++
	if err := e.vars.SetNumber(frame.Var, v); err != nil {
		return flowResult{}, err
	}
	if frame.Cursor < 0 {
		return flowResult{kind: flowEnd}, nil
	}
	return flowResult{kind: flowJump, offset: frame.Cursor}, nil
}

func (e *Evaluator) execEnd() (flowResult, error) {
	return flowResult{kind: flowEnd}, nil
}

func (e *Evaluator) execRem() (flowResult, error) {
	e.tz.SkipLine()
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execInput() (flowResult, error) {
	name, err := e.expectWord()
	if err != nil {
		return flowResult{}, err
	}
	line, err := e.host.ReadLine()
	if err != nil {
		return flowResult{}, err
	}
	v, ok := parseSignedDecimal(line)
	if !ok {
		return flowResult{}, basicerr.New(basicerr.MalformedNumber)
	}
	if err := e.vars.SetNumber(name, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func parseSignedDecimal(s string) (int32, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	var v int32
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		v = v*10 + int32(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return v, true
}

func (e *Evaluator) execMillis() (flowResult, error) {
	name, err := e.expectWord()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, int32(e.host.Millis())); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execDelay() (flowResult, error) {
	v, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	e.host.Sleep(v)
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execPeek() (flowResult, error) {
	name, err := e.expectWord()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.expectSymbol(","); err != nil {
		return flowResult{}, err
	}
	addr, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	v, err := e.host.Peek(addr)
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, int32(v)); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execPoke() (flowResult, error) {
	addr, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.expectSymbol(","); err != nil {
		return flowResult{}, err
	}
	v, err := e.parseExpr()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.host.Poke(addr, byte(v)); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execPinMode() (flowResult, error) {
	pin, mode, err := e.parseTwoArgs()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.host.PinMode(pin, mode); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execDigitalWrite() (flowResult, error) {
	pin, v, err := e.parseTwoArgs()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.host.DigitalWrite(pin, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execAnalogWrite() (flowResult, error) {
	pin, v, err := e.parseTwoArgs()
	if err != nil {
		return flowResult{}, err
	}
	if err := e.host.AnalogWrite(pin, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execDigitalRead() (flowResult, error) {
	name, pin, err := e.parseVarThenArg()
	if err != nil {
		return flowResult{}, err
	}
	v, err := e.host.DigitalRead(pin)
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

func (e *Evaluator) execAnalogRead() (flowResult, error) {
	name, pin, err := e.parseVarThenArg()
	if err != nil {
		return flowResult{}, err
	}
	v, err := e.host.AnalogRead(pin)
	if err != nil {
		return flowResult{}, err
	}
	if err := e.vars.SetNumber(name, v); err != nil {
		return flowResult{}, err
	}
	return flowResult{kind: flowNext}, nil
}

// parseTwoArgs reads "expr , expr", the shape shared by PINMODE,
// DIGITALWRITE, and ANALOGWRITE.
func (e *Evaluator) parseTwoArgs() (int32, int32, error) {
	a, err := e.parseExpr()
	if err != nil {
		return 0, 0, err
	}
	if err := e.expectSymbol(","); err != nil {
		return 0, 0, err
	}
	b, err := e.parseExpr()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// parseVarThenArg reads "var , expr", the shape shared by DIGITALREAD
// and ANALOGREAD.
func (e *Evaluator) parseVarThenArg() (string, int32, error) {
	name, err := e.expectWord()
	if err != nil {
		return "", 0, err
	}
	if err := e.expectSymbol(","); err != nil {
		return "", 0, err
	}
	v, err := e.parseExpr()
	if err != nil {
		return "", 0, err
	}
	return name, v, nil
}
