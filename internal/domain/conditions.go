package domain

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"gopkg.in/yaml.v3"
)

// Literal constrains one atom to a value.
type Literal struct {
	Atom  string
	Value bool
}

// Conditions is a conjunction of literals, in declaration order.
//
// In a domain file it is written either as a mapping of atom to boolean:
//
//	goal:
//	  enemyalive: false
//	  alive: true
//
// or as an expression over atoms, limited to a conjunction of possibly
// negated atoms:
//
//	goal: "!enemyalive && alive"
//
// A list of such expressions is also accepted, and is joined with &&.
type Conditions []Literal

// ParseConditions parses a conjunction such as "a && !b && c == false".
// Accepted forms are a bare atom, "!atom", "not atom", "atom == bool",
// "atom != bool", and "true"; joined with "&&" or "and". The empty string
// yields no conditions.
func ParseConditions(input string) (Conditions, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	tree, err := parser.Parse(input)
	if err != nil {
		return nil, errors.Wrapf(err, "parse conditions %q", input)
	}
	var out Conditions
	if err := collect(tree.Node, &out); err != nil {
		return nil, errors.Wrapf(err, "conditions %q", input)
	}
	return out, out.check()
}

func collect(n ast.Node, out *Conditions) error {
	switch n := n.(type) {
	case *ast.BinaryNode:
		switch n.Operator {
		case "&&", "and":
			if err := collect(n.Left, out); err != nil {
				return err
			}
			return collect(n.Right, out)
		case "==", "!=":
			atom, value, ok := comparison(n.Left, n.Right)
			if !ok {
				atom, value, ok = comparison(n.Right, n.Left)
			}
			if !ok {
				return errors.Newf("%s must compare an atom with true or false", n.Operator)
			}
			if n.Operator == "!=" {
				value = !value
			}
			*out = append(*out, Literal{Atom: atom, Value: value})
			return nil
		}
		return errors.Newf("unsupported operator %q", n.Operator)

	case *ast.UnaryNode:
		if n.Operator != "!" && n.Operator != "not" {
			return errors.Newf("unsupported operator %q", n.Operator)
		}
		id, ok := n.Node.(*ast.IdentifierNode)
		if !ok {
			return errors.New("only atoms may be negated")
		}
		*out = append(*out, Literal{Atom: id.Value, Value: false})
		return nil

	case *ast.IdentifierNode:
		*out = append(*out, Literal{Atom: n.Value, Value: true})
		return nil

	case *ast.BoolNode:
		if !n.Value {
			return errors.New("false can never be satisfied")
		}
		return nil
	}
	return errors.Newf("unsupported expression %T", n)
}

func comparison(lhs, rhs ast.Node) (string, bool, bool) {
	id, ok := lhs.(*ast.IdentifierNode)
	if !ok {
		return "", false, false
	}
	b, ok := rhs.(*ast.BoolNode)
	if !ok {
		return "", false, false
	}
	return id.Value, b.Value, true
}

// check rejects contradictions such as "a && !a". Repeats are allowed.
func (c Conditions) check() error {
	seen := make(map[string]bool, len(c))
	for _, l := range c {
		if l.Atom == "" {
			return errors.New("empty atom name")
		}
		if v, ok := seen[l.Atom]; ok && v != l.Value {
			return errors.Newf("atom %q is required to be both true and false", l.Atom)
		}
		seen[l.Atom] = l.Value
	}
	return nil
}

// String renders the conditions in the expression syntax.
func (c Conditions) String() string {
	parts := make([]string, len(c))
	for i, l := range c {
		if l.Value {
			parts[i] = l.Atom
		} else {
			parts[i] = "!" + l.Atom
		}
	}
	return strings.Join(parts, " && ")
}

// UnmarshalYAML accepts a mapping, an expression, or a list of expressions.
// Mappings keep their order from the document.
func (c *Conditions) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseConditions(node.Value)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = parsed
		return nil

	case yaml.SequenceNode:
		var exprs []string
		if err := node.Decode(&exprs); err != nil {
			return err
		}
		parsed, err := ParseConditions(joinExprs(exprs))
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = parsed
		return nil

	case yaml.MappingNode:
		out := make(Conditions, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			var v bool
			if err := val.Decode(&v); err != nil {
				return errors.Wrapf(err, "line %d: atom %q", val.Line, key.Value)
			}
			out = append(out, Literal{Atom: key.Value, Value: v})
		}
		if err := out.check(); err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = out
		return nil
	}
	return errors.Newf("line %d: conditions must be a mapping, an expression or a list of expressions", node.Line)
}

// UnmarshalTOML accepts a table, an expression, or an array of expressions.
// Table keys are taken in sorted order, since TOML tables are unordered.
func (c *Conditions) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		parsed, err := ParseConditions(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil

	case []any:
		exprs := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return errors.Newf("condition %d: expected a string, got %T", i, e)
			}
			exprs[i] = s
		}
		parsed, err := ParseConditions(joinExprs(exprs))
		if err != nil {
			return err
		}
		*c = parsed
		return nil

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Conditions, 0, len(keys))
		for _, k := range keys {
			b, ok := v[k].(bool)
			if !ok {
				return errors.Newf("atom %q: expected a boolean, got %T", k, v[k])
			}
			out = append(out, Literal{Atom: k, Value: b})
		}
		*c = out
		return nil
	}
	return errors.Newf("conditions must be a table, an expression or an array of expressions, got %T", data)
}

func joinExprs(exprs []string) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, "("+e+")")
		}
	}
	return strings.Join(parts, " && ")
}
