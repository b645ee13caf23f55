package main

import (
	"encoding/json"
	"fmt"

	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/value"
)

// fixtureNode is the small JSON AST format this CLI (and its tests)
// accept in place of a real parser (SPEC_FULL.md §6: qcore consumes an
// AST, it does not lex/parse source text, so something has to stand in
// for a parser at the CLI boundary). Each node is a {"type": ..., ...}
// object; decodeNode dispatches on "type" to the matching ast.Node
// constructor.
type fixtureNode struct {
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Op        string          `json:"op"`
	Value     json.RawMessage `json:"value"`
	Left      json.RawMessage `json:"left"`
	Right     json.RawMessage `json:"right"`
	Operand   json.RawMessage `json:"operand"`
	Postfix   bool            `json:"postfix"`
	Target    json.RawMessage `json:"target"`
	Args      []json.RawMessage `json:"args"`
	Receiver  json.RawMessage `json:"receiver"`
	Method    string          `json:"method"`
	Index     json.RawMessage `json:"index"`
	Member    string          `json:"member"`
	Elements  []json.RawMessage `json:"elements"`
	Keys      []json.RawMessage `json:"keys"`
	Values    []json.RawMessage `json:"values"`
	Cond      json.RawMessage `json:"cond"`
	Then      json.RawMessage `json:"then"`
	Else      json.RawMessage `json:"else"`
	Var       string          `json:"var"`
	Source    json.RawMessage `json:"source"`
	Body      json.RawMessage `json:"body"`
	Statements []json.RawMessage `json:"statements"`
	Err       json.RawMessage `json:"err"`
	Desc      json.RawMessage `json:"desc"`
	Arg       json.RawMessage `json:"arg"`
	CatchVar  string          `json:"catchVar"`
	CatchBody json.RawMessage `json:"catchBody"`
	Predicate json.RawMessage `json:"predicate"`
	KeyBody   json.RawMessage `json:"keybody"`
	Slot      string          `json:"slot"`
	Parts     []string        `json:"parts"`
}

type fixtureValue struct {
	Kind string  `json:"kind"`
	S    string  `json:"s"`
	I    int64   `json:"i"`
	F    float64 `json:"f"`
	B    bool    `json:"b"`
}

func decodeValue(raw json.RawMessage) (value.Value, error) {
	var fv fixtureValue
	if err := json.Unmarshal(raw, &fv); err != nil {
		return value.Nothing(), err
	}
	switch fv.Kind {
	case "nothing", "":
		return value.Nothing(), nil
	case "bool":
		return value.Bool(fv.B), nil
	case "int":
		return value.Int(fv.I), nil
	case "float":
		return value.Float(fv.F), nil
	case "string":
		return value.String(fv.S, value.EncodingUTF8), nil
	default:
		return value.Nothing(), fmt.Errorf("fixture: unknown value kind %q", fv.Kind)
	}
}

func decodeNode(raw json.RawMessage) (ast.Node, error) {
	if raw == nil {
		return nil, nil
	}
	var fn fixtureNode
	if err := json.Unmarshal(raw, &fn); err != nil {
		return nil, err
	}

	child := func(r json.RawMessage) (ast.Node, error) { return decodeNode(r) }
	children := func(rs []json.RawMessage) ([]ast.Node, error) {
		out := make([]ast.Node, len(rs))
		for i, r := range rs {
			n, err := decodeNode(r)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	switch fn.Type {
	case "literal":
		v, err := decodeValue(fn.Value)
		if err != nil {
			return nil, err
		}
		return ast.NewLiteral(v, ast.SourceLocation{}), nil
	case "var":
		return &ast.VariableRef{Name: fn.Name}, nil
	case "scoped":
		return &ast.ScopedRef{Parts: fn.Parts}, nil
	case "self":
		return &ast.SelfRef{}, nil
	case "implicit":
		slot := ast.ImplicitElement
		switch fn.Slot {
		case "second":
			slot = ast.ImplicitSecond
		case "index":
			slot = ast.ImplicitIndex
		}
		return &ast.ImplicitRef{Slot: slot}, nil
	case "binop":
		l, err := child(fn.Left)
		if err != nil {
			return nil, err
		}
		r, err := child(fn.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Op: fn.Op, Left: l, Right: r}, nil
	case "unop":
		o, err := child(fn.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: fn.Op, Operand: o, Postfix: fn.Postfix}, nil
	case "assign":
		t, err := child(fn.Target)
		if err != nil {
			return nil, err
		}
		v, err := child(fn.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: t, Value: v}, nil
	case "compound":
		t, err := child(fn.Target)
		if err != nil {
			return nil, err
		}
		v, err := child(fn.Value)
		if err != nil {
			return nil, err
		}
		return &ast.CompoundAssignment{Op: fn.Op, Target: t, Value: v}, nil
	case "call":
		args, err := children(fn.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Name: fn.Name, Args: args}, nil
	case "methodcall":
		recv, err := child(fn.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := children(fn.Args)
		if err != nil {
			return nil, err
		}
		return &ast.MethodCall{Receiver: recv, Method: fn.Method, Args: args}, nil
	case "index":
		t, err := child(fn.Target)
		if err != nil {
			return nil, err
		}
		i, err := child(fn.Index)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Target: t, Index: i}, nil
	case "member":
		t, err := child(fn.Target)
		if err != nil {
			return nil, err
		}
		return &ast.MemberAccess{Target: t, Member: fn.Member}, nil
	case "list":
		els, err := children(fn.Elements)
		if err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Elements: els}, nil
	case "hash":
		keys, err := children(fn.Keys)
		if err != nil {
			return nil, err
		}
		vals, err := children(fn.Values)
		if err != nil {
			return nil, err
		}
		return &ast.HashLiteral{Keys: keys, Values: vals}, nil
	case "ternary":
		c, err := child(fn.Cond)
		if err != nil {
			return nil, err
		}
		th, err := child(fn.Then)
		if err != nil {
			return nil, err
		}
		el, err := child(fn.Else)
		if err != nil {
			return nil, err
		}
		return &ast.Ternary{Cond: c, Then: th, Else: el}, nil
	case "and":
		l, err := child(fn.Left)
		if err != nil {
			return nil, err
		}
		r, err := child(fn.Right)
		if err != nil {
			return nil, err
		}
		return &ast.LogicalAnd{Left: l, Right: r}, nil
	case "or":
		l, err := child(fn.Left)
		if err != nil {
			return nil, err
		}
		r, err := child(fn.Right)
		if err != nil {
			return nil, err
		}
		return &ast.LogicalOr{Left: l, Right: r}, nil
	case "foreach":
		src, err := child(fn.Source)
		if err != nil {
			return nil, err
		}
		b, err := child(fn.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForEach{VarName: fn.Var, Source: src, Body: b}, nil
	case "background":
		b, err := child(fn.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Background{Body: b}, nil
	case "functional":
		src, err := child(fn.Source)
		if err != nil {
			return nil, err
		}
		b, err := child(fn.Body)
		if err != nil {
			return nil, err
		}
		pred, err := child(fn.Predicate)
		if err != nil {
			return nil, err
		}
		kb, err := child(fn.KeyBody)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionalOp{Op: fn.Op, Source: src, Body: b, Predicate: pred, KeyBody: kb}, nil
	case "block":
		stmts, err := children(fn.Statements)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts}, nil
	case "return":
		v, err := child(fn.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: v}, nil
	case "throw":
		e, err := child(fn.Err)
		if err != nil {
			return nil, err
		}
		d, err := child(fn.Desc)
		if err != nil {
			return nil, err
		}
		a, err := child(fn.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.Throw{ErrValue: e, Desc: d, Arg: a}, nil
	case "try":
		b, err := child(fn.Body)
		if err != nil {
			return nil, err
		}
		cb, err := child(fn.CatchBody)
		if err != nil {
			return nil, err
		}
		return &ast.Try{Body: b, CatchVar: fn.CatchVar, CatchBody: cb}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown node type %q", fn.Type)
	}
}

// LoadFixture decodes a qored JSON AST fixture file's contents into a
// root ast.Node.
func LoadFixture(data []byte) (ast.Node, error) {
	return decodeNode(json.RawMessage(data))
}
