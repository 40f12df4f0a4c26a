package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinboone/pmbasic/program"
	"github.com/kevinboone/pmbasic/vartable"
)

// TestScenarioEditOrdering exercises line insertion, replacement, and
// deletion through the program store exactly as immediate-mode editing
// would drive it, then confirms RUN sees the edited, sorted result.
func TestScenarioEditOrdering(t *testing.T) {
	prog := program.New()
	require.NoError(t, insertAll(prog,
		"30 PRINT 3",
		"10 PRINT 1",
		"20 PRINT 2",
	))

	_, err := prog.InsertLine("20 PRINT 99")
	require.NoError(t, err)
	_, err = prog.InsertLine("30")
	require.NoError(t, err)

	h := newFakeHost()
	e := New(prog, vartable.New(), h)
	require.NoError(t, e.Run())

	assert.Equal(t, "1\n99\n", h.out.String())
}

// TestScenarioNestedGosub exercises two levels of GOSUB/RETURN nesting.
func TestScenarioNestedGosub(t *testing.T) {
	prog := program.New()
	require.NoError(t, insertAll(prog,
		"10 GOSUB 100",
		"20 END",
		"100 PRINT 1",
		"110 GOSUB 200",
		"120 PRINT 2",
		"130 RETURN",
		"200 PRINT 3",
		"210 RETURN",
	))

	h := newFakeHost()
	e := New(prog, vartable.New(), h)
	require.NoError(t, e.Run())

	assert.Equal(t, "1\n3\n2\n", h.out.String())
}

// TestScenarioForDepthExceeded confirms a fifth nested FOR fails hard
// rather than growing the stack.
func TestScenarioForDepthExceeded(t *testing.T) {
	prog := program.New()
	require.NoError(t, insertAll(prog,
		"10 FOR A = 1 TO 2",
		"20 FOR B = 1 TO 2",
		"30 FOR C = 1 TO 2",
		"40 FOR D = 1 TO 2",
		"50 FOR F = 1 TO 2",
		"60 NEXT",
		"70 NEXT",
		"80 NEXT",
		"90 NEXT",
		"100 NEXT",
	))

	h := newFakeHost()
	e := New(prog, vartable.New(), h)
	err := e.Run()
	require.Error(t, err)
}

func insertAll(prog *program.Store, lines ...string) error {
	for _, l := range lines {
		if _, err := prog.InsertLine(l); err != nil {
			return err
		}
	}
	return nil
}
