// Package tokenizer turns the raw bytes of a stored program into a
// stream of tokens, one call to Next at a time. It holds no token
// buffer of its own: the cursor is a byte offset into the program's
// buffer, so a GOTO or GOSUB jump is nothing more than repositioning
// that offset, and the tokenizer can be rewound and re-run over the
// same line as many times as the evaluator needs.
//
// Grounded on original_source/tokenizer.c, with the C "pointer into the
// buffer" cursor reworked as a plain int offset (spec.md section 9: a
// raw pointer can't outlive the slice it points into across Go function
// boundaries the way a C pointer can, so the offset is the portable
// analogue of "the same position in the same buffer").
package tokenizer

import (
	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/token"
)

// TokenMaxLength is the longest WORD, NUMBER, or STRING token accepted
// before the tokenizer gives up with TokenTooLong.
const TokenMaxLength = 40

// Tokenizer walks a byte buffer producing tokens on demand. The zero
// value is not usable; use New.
type Tokenizer struct {
	buf      []byte
	pos      int
	startPos int
	cur      token.Token
	err      error
}

// New creates a tokenizer positioned at the start of buf. The tokenizer
// does not copy buf; the caller must not mutate it while the tokenizer
// is in use.
func New(buf []byte) *Tokenizer {
	t := &Tokenizer{buf: buf}
	t.Next()
	return t
}

// GetPos returns the tokenizer's current byte offset into its buffer,
// captured before the current token starts. Passing it to SetPos later
// re-reads the same token. (The evaluator's GOSUB and FOR save line
// offsets from its line index instead of calling GetPos.)
func (t *Tokenizer) GetPos() int {
	return t.startPos
}

// SetPos repositions the tokenizer and re-reads the token at that
// offset. Used by GOTO, GOSUB, RETURN, and NEXT to jump within the
// program buffer.
func (t *Tokenizer) SetPos(pos int) {
	t.pos = pos
	t.err = nil
	t.Next()
}

// SkipLine discards the rest of the current line without tokenizing it,
// leaving the current token as the EOL or EOP that ended it. REM uses
// this so an arbitrary comment body never has to pass through the
// ordinary token rules (which would reject, say, an overlong word).
func (t *Tokenizer) SkipLine() {
	for t.peek() != '\n' && t.peek() != 0 {
		t.pos++
	}
	t.Next()
}

// Current returns the most recently read token.
func (t *Tokenizer) Current() token.Token {
	return t.cur
}

// Err returns the error raised by the most recent Next call, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Finished reports whether the tokenizer has produced an EOP token.
func (t *Tokenizer) Finished() bool {
	return t.cur.Type == token.EOP
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isWordStart(c byte) bool { return isAlpha(c) || c == '?' }
func isWordCont(c byte) bool  { return isAlpha(c) || isDigit(c) || c == '?' }

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.buf) {
		return 0
	}
	return t.buf[t.pos]
}

func (t *Tokenizer) peekAt(off int) byte {
	if t.pos+off >= len(t.buf) {
		return 0
	}
	return t.buf[t.pos+off]
}

// Next scans the next token from the buffer and makes it the current
// token. If scanning fails, Next sets Err and leaves Current holding the
// previously read token; callers must check Err after every call.
func (t *Tokenizer) Next() {
	t.err = nil
	t.skipSpace()
	t.startPos = t.pos

	c := t.peek()
	switch {
	case c == 0:
		t.cur = token.Token{Type: token.EOP}
	case c == '\n':
		t.pos++
		t.cur = token.Token{Type: token.EOL}
	case isDigit(c):
		t.scanNumber()
	case c == '#':
		t.scanHexOrSymbol()
	case isWordStart(c):
		t.scanWord()
	case c == '"':
		t.scanString()
	default:
		t.pos++
		t.cur = token.Token{Type: token.SYMBOL, Text: string(c)}
	}
}

func (t *Tokenizer) skipSpace() {
	for {
		c := t.peek()
		if c == ' ' || c == '\t' || c == '\r' {
			t.pos++
			continue
		}
		return
	}
}

func (t *Tokenizer) scanNumber() {
	start := t.pos
	for isDigit(t.peek()) {
		t.pos++
		if t.pos-start > TokenMaxLength {
			t.err = tokenTooLong()
			return
		}
	}
	text := string(t.buf[start:t.pos])
	var v int32
	for _, c := range []byte(text) {
		v = v*10 + int32(c-'0')
	}
	t.cur = token.Token{Type: token.NUMBER, Number: v, Text: text}
}

func (t *Tokenizer) scanHexOrSymbol() {
	// Past the '#'.
	if !isHexDigit(t.peekAt(1)) {
		t.pos++
		t.cur = token.Token{Type: token.SYMBOL, Text: "#"}
		return
	}
	t.pos++ // consume '#'
	start := t.pos
	for isHexDigit(t.peek()) {
		t.pos++
		if t.pos-start > TokenMaxLength {
			t.err = tokenTooLong()
			return
		}
	}
	text := string(t.buf[start:t.pos])
	var v int32
	for _, c := range []byte(text) {
		v = v*16 + int32(hexValue(c))
	}
	t.cur = token.Token{Type: token.NUMBER, Number: v, Text: "#" + text}
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

func (t *Tokenizer) scanWord() {
	start := t.pos
	for isWordCont(t.peek()) {
		t.pos++
		if t.pos-start > TokenMaxLength {
			t.err = tokenTooLong()
			return
		}
	}
	t.cur = token.Token{Type: token.WORD, Text: string(t.buf[start:t.pos])}
}

// scanString reads a double-quoted string literal. A doubled quote
// ("") inside the literal is an escaped quote character, not the
// terminator; the literal ends at the first unpaired quote, or at a
// newline or the end of the buffer, whichever comes first (an
// unterminated string is accepted rather than rejected, matching the
// original tokenizer's leniency here).
func (t *Tokenizer) scanString() {
	t.pos++ // consume opening quote
	var out []byte
	for {
		c := t.peek()
		if c == 0 || c == '\n' {
			break
		}
		if c == '"' {
			if t.peekAt(1) == '"' {
				out = append(out, '"')
				t.pos += 2
				if len(out) > TokenMaxLength {
					t.err = tokenTooLong()
					return
				}
				continue
			}
			t.pos++ // consume closing quote
			break
		}
		out = append(out, c)
		t.pos++
		if len(out) > TokenMaxLength {
			t.err = tokenTooLong()
			return
		}
	}
	t.cur = token.Token{Type: token.STRING, Text: string(out)}
}

func tokenTooLong() error {
	return basicerr.New(basicerr.TokenTooLong)
}
