// Package ctrlstack holds the two bounded control-flow stacks the
// evaluator needs while a program runs: the GOSUB return-address stack
// and the FOR-loop frame stack.
//
// Both stacks are fixed-capacity and fail hard on overflow rather than
// growing, matching the original interpreter's statically sized arrays
// (original_source/parser.c's gosub_stack and for_stack). There is no
// locking: the evaluator runs on a single goroutine and nothing else
// touches these stacks, so a mutex here would only hide the single-
// threaded assumption the rest of the evaluator already depends on
// (spec.md section 5).
package ctrlstack

import "github.com/kevinboone/pmbasic/basicerr"

// GosubDepth is the maximum number of nested, unreturned GOSUB calls.
const GosubDepth = 10

// ForDepth is the maximum number of simultaneously open FOR loops.
const ForDepth = 4

// GosubStack holds the tokenizer offsets GOSUB must RETURN to.
type GosubStack struct {
	offsets [GosubDepth]int
	depth   int
}

// Push records a return offset. Fails with GosubDepth once the stack is
// full.
func (g *GosubStack) Push(offset int) error {
	if g.depth >= GosubDepth {
		return basicerr.New(basicerr.GosubDepth)
	}
	g.offsets[g.depth] = offset
	g.depth++
	return nil
}

// Pop removes and returns the most recently pushed offset. Fails with
// ReturnWithoutGosub if the stack is empty.
func (g *GosubStack) Pop() (int, error) {
	if g.depth == 0 {
		return 0, basicerr.New(basicerr.ReturnWithoutGosub)
	}
	g.depth--
	return g.offsets[g.depth], nil
}

// Clear empties the stack, used when RUN starts a fresh execution.
func (g *GosubStack) Clear() {
	g.depth = 0
}

// Depth reports how many GOSUB frames are currently open.
func (g *GosubStack) Depth() int {
	return g.depth
}

// ForFrame is one open FOR loop: the loop variable's name, the value it
// must reach to terminate, and the tokenizer offset NEXT jumps back to.
//
// Var is a plain string rather than a pointer into the program buffer:
// the original's heap-allocated frame name needed an explicit free on
// unwind, which a bounded inline string sidesteps entirely (spec.md
// section 9).
type ForFrame struct {
	Var      string
	Terminal int32
	Cursor   int
}

// ForStack holds the currently open FOR loops, innermost last.
type ForStack struct {
	frames [ForDepth]ForFrame
	depth  int
}

// Push opens a new FOR frame. Fails with ForDepth once the stack is
// full.
func (f *ForStack) Push(frame ForFrame) error {
	if f.depth >= ForDepth {
		return basicerr.New(basicerr.ForDepth)
	}
	f.frames[f.depth] = frame
	f.depth++
	return nil
}

// Top returns the innermost open FOR frame. Fails with NextWithoutFor if
// no FOR loop is open.
func (f *ForStack) Top() (*ForFrame, error) {
	if f.depth == 0 {
		return nil, basicerr.New(basicerr.NextWithoutFor)
	}
	return &f.frames[f.depth-1], nil
}

// Pop discards the innermost open FOR frame, used when its terminal
// value has been reached.
func (f *ForStack) Pop() error {
	if f.depth == 0 {
		return basicerr.New(basicerr.NextWithoutFor)
	}
	f.depth--
	return nil
}

// Clear empties the stack, used when RUN starts a fresh execution.
func (f *ForStack) Clear() {
	f.depth = 0
}

// Depth reports how many FOR loops are currently open.
func (f *ForStack) Depth() int {
	return f.depth
}
