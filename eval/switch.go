package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/value"
)

// evalSwitch implements spec §4.5's switch/case: each case's value
// expression is evaluated here, in order, every time the switch runs (a
// literal evaluates to itself); values are not precomputed or cached
// between runs. Bare value cases compare via hard-equality; relational
// cases apply the case's operator through applyBinary; regex cases match
// via the compiled pattern.
func evalSwitch(n *ast.Switch, ctx *Context) (value.Value, error) {
	subject, err := Eval(n.Subject, ctx)
	if err != nil {
		return value.Nothing(), err
	}

	for _, c := range n.Cases {
		matched, err := matchCase(c, subject, ctx)
		if err != nil {
			return value.Nothing(), err
		}
		if matched {
			return Eval(c.Body, ctx)
		}
	}
	if n.Default != nil {
		return Eval(n.Default, ctx)
	}
	return value.Nothing(), nil
}

func matchCase(c ast.Case, subject value.Value, ctx *Context) (bool, error) {
	switch c.Kind {
	case ast.CaseRegex:
		cv, err := Eval(c.ValueExp, ctx)
		if err != nil {
			return false, err
		}
		if cv.Kind() != value.KindRegex {
			return false, nil
		}
		return cv.RegexCompiled() != nil && matchRegexValue(cv, subject.AsString()), nil
	case ast.CaseRelational:
		cv, err := Eval(c.ValueExp, ctx)
		if err != nil {
			return false, err
		}
		result, err := applyBinary(c.Op, subject, cv, ctx)
		if err != nil {
			return false, err
		}
		return result.AsBool(), nil
	default:
		cv, err := Eval(c.ValueExp, ctx)
		if err != nil {
			return false, err
		}
		return value.HardEqual(subject, cv), nil
	}
}

// matchRegexValue recovers regexutil.Pattern's Match method through a
// local structural interface, since value.Compiled only exposes
// Source()/Options() (kept minimal so value never imports regexutil).
func matchRegexValue(cv value.Value, target string) bool {
	type matcher interface {
		Match(string) bool
	}
	if m, ok := cv.RegexCompiled().(matcher); ok {
		return m.Match(target)
	}
	return false
}
