package eval

import (
	"github.com/kevinboone/pmbasic/basicerr"
	"github.com/kevinboone/pmbasic/token"
)

// parseExpr parses the full expression grammar:
//
//	expr   := ["not"] term (("+"|"-"|"<"|">"|"="|"&"|"|") term)*
//	term   := factor (("*"|"/"|"%") factor)*
//	factor := NUMBER | "(" expr ")" | "-" factor | WORD
//
// Relational operators sit at the same precedence level as "+" and
// "-" and chain left-to-right like them - "A<B<C" evaluates as
// "(A<B)<C", not as a three-way chained comparison. Each comparison
// yields 1 for true and 0 for false, the same representation booleans
// have everywhere else in the language. A leading "not" negates the
// truth of the entire expression once it has been fully evaluated.
func (e *Evaluator) parseExpr() (int32, error) {
	negate := false
	if e.isKeyword("NOT") {
		e.tz.Next()
		negate = true
	}

	left, err := e.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		cur := e.tz.Current()
		if cur.Type != token.SYMBOL {
			break
		}
		op := cur.Text
		if op != "+" && op != "-" && op != "<" && op != ">" && op != "=" && op != "&" && op != "|" {
			break
		}
		e.tz.Next()
		right, err := e.parseTerm()
		if err != nil {
			return 0, err
		}
		left = applyBinary(op, left, right)
	}

	if negate {
		if left == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return left, nil
}

func applyBinary(op string, a, b int32) int32 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "&":
		return a & b
	case "|":
		return a | b
	case "<":
		return boolToInt(a < b)
	case ">":
		return boolToInt(a > b)
	case "=":
		return boolToInt(a == b)
	}
	return 0
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (e *Evaluator) parseTerm() (int32, error) {
	left, err := e.parseFactor()
	if err != nil {
		return 0, err
	}

	for {
		cur := e.tz.Current()
		if cur.Type != token.SYMBOL || (cur.Text != "*" && cur.Text != "/" && cur.Text != "%") {
			break
		}
		op := cur.Text
		e.tz.Next()
		right, err := e.parseFactor()
		if err != nil {
			return 0, err
		}
		switch op {
		case "*":
			left = left * right
		case "/":
			if right == 0 {
				return 0, e.errAt(basicerr.DivZero)
			}
			left = left / right
		case "%":
			if right == 0 {
				return 0, e.errAt(basicerr.DivZero)
			}
			left = left % right
		}
	}
	return left, nil
}

func (e *Evaluator) parseFactor() (int32, error) {
	cur := e.tz.Current()

	switch {
	case cur.Type == token.NUMBER:
		e.tz.Next()
		return cur.Number, nil

	case cur.Type == token.SYMBOL && cur.Text == "-":
		e.tz.Next()
		v, err := e.parseFactor()
		if err != nil {
			return 0, err
		}
		return -v, nil

	case cur.Type == token.SYMBOL && cur.Text == "(":
		e.tz.Next()
		v, err := e.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := e.expectSymbol(")"); err != nil {
			return 0, err
		}
		return v, nil

	case cur.Type == token.WORD:
		// Any WORD here, keyword-shaped or not, is looked up as a
		// variable: the parser does not special-case keywords that
		// show up where an expression is expected.
		name := cur.Text
		e.tz.Next()
		return e.vars.GetNumber(name)

	default:
		return 0, e.errAt(basicerr.UnexpectedToken)
	}
}
