// Package program holds the stored BASIC program text: a single
// newline-separated buffer indexed by line number, mutated by
// insert/replace/delete operations driven from immediate-mode editing.
//
// Grounded on original_source/basicprogram.c: the buffer is a flat
// string, line lookups are done by scanning for "\n"-delimited records,
// and there is no persistent line index - one is rebuilt on demand by
// whoever needs it (see LineRefs below), matching spec.md section 3's
// "Line index... rebuilt when a program is handed to the evaluator".
package program

import (
	"strconv"
	"strings"

	"github.com/kevinboone/pmbasic/basicerr"
)

// MaxLine is the nominal longest program line, including the line
// number, whitespace, and body, but not the trailing newline. InsertLine
// does not check it; a longer line is stored as given.
const MaxLine = 81

// MaxNumber is the longest decimal line number the store will parse.
const MaxNumber = 10

// Result reports what an Insert call actually did, mirroring
// BasicProgramResult in original_source/basicprogram.h.
type Result int

const (
	Unchanged Result = iota
	LineDeleted
	LineReplaced
	LineAppended
	LineInserted
)

// Store holds the program text and supports incremental line edits.
// The zero value is not usable; use New.
type Store struct {
	buf []byte
}

// New creates an empty program store.
func New() *Store {
	return &Store{buf: []byte{}}
}

// RawBytes returns the program's raw, newline-terminated text. Callers
// must not mutate the returned slice.
func (s *Store) RawBytes() []byte {
	return s.buf
}

// Length returns the number of bytes currently stored.
func (s *Store) Length() int {
	return len(s.buf)
}

// Clear empties the program buffer.
func (s *Store) Clear() {
	s.buf = s.buf[:0]
}

// AppendChar appends a single byte to the buffer, used by LOAD to
// stream a persisted program in without an intermediate buffer.
func (s *Store) AppendChar(c byte) {
	s.buf = append(s.buf, c)
}

// lineNumber parses the decimal line number at the start of line,
// mirroring basicprogram_get_line_number: it stops at the first
// non-digit, and rejects numbers longer than MaxNumber digits.
func lineNumber(line []byte) (int32, bool) {
	var total int32
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' && i <= MaxNumber {
		total = total*10 + int32(line[i]-'0')
		i++
	}
	if i == 0 || i > MaxNumber {
		return 0, false
	}
	return total, true
}

// textOffset returns the byte offset within line at which the line's
// body starts (the first space or tab after the number), or -1 if the
// line contains only a number (basicprogram_get_text_offset_of_line).
func textOffset(line []byte) int {
	for i, c := range line {
		if c == ' ' || c == '\t' {
			return i
		}
	}
	return -1
}

// splitLines returns the stored lines (without their trailing newline)
// in stored order.
func (s *Store) splitLines() [][]byte {
	if len(s.buf) == 0 {
		return nil
	}
	raw := strings.Split(string(s.buf), "\n")
	// A well-formed buffer ends in \n, so the last split element is "".
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	out := make([][]byte, len(raw))
	for i, l := range raw {
		out[i] = []byte(l)
	}
	return out
}

// LineRef locates one stored line within RawBytes(): Begin is the byte
// offset of the line's first character (the start of its line number),
// End is the offset of its trailing newline.
type LineRef struct {
	Number int32
	Begin  int
	End    int
}

// LineCount returns the number of stored lines, including any that are
// malformed (lacking a leading line number). The evaluator compares this
// against len(LineRefs()) to tell an empty buffer apart from one holding
// a line that failed to parse its number - the latter can only arise
// from LOAD, since InsertLine itself refuses anything without a number.
func (s *Store) LineCount() int {
	return len(s.splitLines())
}

// LineRefs returns every stored line's location, in ascending line-
// number order (the order they are physically stored in, since
// InsertLine keeps the buffer sorted). The evaluator uses this once per
// RUN to build its line index; offsets stay valid for the lifetime of
// that RUN because the buffer is not mutated while a program executes.
func (s *Store) LineRefs() []LineRef {
	var refs []LineRef
	off := 0
	for _, l := range s.splitLines() {
		lineLen := len(l)
		if n, ok := lineNumber(l); ok {
			refs = append(refs, LineRef{Number: n, Begin: off, End: off + lineLen})
		}
		off += lineLen + 1
	}
	return refs
}

// IterateLines visits each stored line in order. The visitor receives
// the whole line, line number included, without its trailing newline;
// returning false halts
// iteration early. A malformed (unnumbered) line is skipped rather than
// aborting iteration, per spec.md section 4.1's edge-case note.
func (s *Store) IterateLines(visitor func(line []byte) bool) {
	for _, l := range s.splitLines() {
		if _, ok := lineNumber(l); !ok {
			continue
		}
		if !visitor(l) {
			return
		}
	}
}

// LineOffsets returns the [begin,end) byte range of the stored line with
// number n within RawBytes(), where end is the offset of the line's
// trailing newline. Returns ok=false if no such line exists.
func (s *Store) LineOffsets(n int32) (begin, end int, ok bool) {
	off := 0
	for _, l := range s.splitLines() {
		lineLen := len(l)
		if ln, good := lineNumber(l); good && ln == n {
			return off, off + lineLen, true
		}
		off += lineLen + 1
	}
	return 0, 0, false
}

// DeleteLine removes the stored line with number n. Returns
// BadLineNumber if no such line exists.
func (s *Store) DeleteLine(n int32) (Result, error) {
	begin, end, ok := s.LineOffsets(n)
	if !ok {
		return Unchanged, basicerr.New(basicerr.BadLineNumber)
	}
	s.deleteRange(begin, end-begin)
	return LineDeleted, nil
}

// deleteRange removes n bytes starting at offset b, plus the newline
// immediately following them. If the requested range runs past the end
// of the buffer, everything from b to the end of the buffer is removed
// instead - this is the frozen, non-recursive resolution of the
// original's miscomputed recursive clamp (spec.md section 9, "the
// intended behavior is delete from offset b to end of buffer").
func (s *Store) deleteRange(b, n int) {
	total := len(s.buf)
	if b+n >= total {
		s.buf = s.buf[:b]
		return
	}
	s.buf = append(s.buf[:b], s.buf[b+n+1:]...)
}

// insertAt splices text into the buffer at byte offset pos.
func (s *Store) insertAt(pos int, text string) {
	if pos > len(s.buf) {
		pos = len(s.buf)
	}
	if pos < 0 {
		pos = 0
	}
	out := make([]byte, 0, len(s.buf)+len(text))
	out = append(out, s.buf[:pos]...)
	out = append(out, text...)
	out = append(out, s.buf[pos:]...)
	s.buf = out
}

// nextLineUp returns the smallest stored line number greater than n.
func (s *Store) nextLineUp(n int32) (int32, bool) {
	found := false
	var best int32
	for _, l := range s.splitLines() {
		ln, ok := lineNumber(l)
		if !ok {
			continue
		}
		if ln > n && (!found || ln < best) {
			best = ln
			found = true
		}
	}
	return best, found
}

// InsertLine applies one immediate-mode edit line to the store. text
// must not contain a trailing newline; one is added by the store. See
// spec.md section 4.1 for the full case table this implements.
func (s *Store) InsertLine(text string) (Result, error) {
	line := []byte(text)
	n, ok := lineNumber(line)
	if !ok {
		return Unchanged, basicerr.New(basicerr.BadLineNumber)
	}

	to := textOffset(line)
	if to < 0 {
		// Number only, no body: delete if present, else no-op.
		if _, _, found := s.LineOffsets(n); found {
			return s.DeleteLine(n)
		}
		return Unchanged, nil
	}

	if begin, end, found := s.LineOffsets(n); found {
		s.deleteRange(begin, end-begin)
		if _, err := s.insertSorted(n, text); err != nil {
			return Unchanged, err
		}
		return LineReplaced, nil
	}

	return s.insertSorted(n, text)
}

// insertSorted splices a brand-new (number n not already present) line
// into its sorted position.
func (s *Store) insertSorted(n int32, text string) (Result, error) {
	if n2, ok := s.nextLineUp(n); ok {
		begin, _, found := s.LineOffsets(n2)
		if !found {
			return Unchanged, basicerr.New(basicerr.TokenizerInternal)
		}
		s.insertAt(begin, text+"\n")
		return LineInserted, nil
	}
	s.insertAt(len(s.buf), text+"\n")
	return LineAppended, nil
}

// ParseLineNumber exposes the decimal-number parsing InsertLine uses
// internally, for callers (the command layer's LIST, which reads the
// number off each stored line it visits) that need the same "digits
// only, bounded by MaxNumber" behavior.
func ParseLineNumber(s string) (int32, bool) {
	return lineNumber([]byte(s))
}

// ParseDecimal is a convenience wrapper around strconv for contexts that
// accept a full decimal integer rather than a line-number prefix (e.g.
// LIST's optional arguments, which are whole tokens, not line-prefixed
// text).
func ParseDecimal(s string) (int32, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}
