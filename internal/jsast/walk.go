package jsast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind classifies a Value
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindNumber
	KindBool
	KindNull
	KindObject
	KindArray
	KindFunction
)

// Value is a statically known view of an expression. Anything that is not a
// literal (identifiers, calls, template strings with substitutions) is
// KindOther
type Value struct {
	Kind Kind
	// Text is the decoded string for KindString and the source text for
	// KindNumber
	Text  string
	Bool  bool
	Props []Property
	Elems []Value
}

// Property is one key/value pair of an object literal, in source order
type Property struct {
	Key   string
	Value Value
}

// Prop returns the last property named key, matching JavaScript semantics
// for duplicate keys
func (v Value) Prop(key string) (Value, bool) {
	for i := len(v.Props) - 1; i >= 0; i-- {
		if v.Props[i].Key == key {
			return v.Props[i].Value, true
		}
	}
	return Value{}, false
}

// Call is a call expression found while walking a tree
type Call struct {
	// Callee is the identifier being called. Member calls such as kit.arg()
	// and computed callees leave it empty
	Callee string
	Args   []Value
	Line   int
	Column int
}

// Visitor receives every call expression in pre-order, outer calls before
// the calls nested in their arguments
type Visitor interface {
	VisitCall(c Call)
}

// VisitorFunc adapts a function to Visitor
type VisitorFunc func(c Call)

// VisitCall calls f(c)
func (f VisitorFunc) VisitCall(c Call) {
	f(c)
}

// Walk visits every call expression in the tree. It descends into all
// children, so calls inside callbacks, arrow functions and nested
// expressions are found too
func (t *Tree) Walk(v Visitor) {
	if t == nil || t.tree == nil {
		return
	}
	t.walk(t.tree.RootNode(), v)
}

func (t *Tree) walk(n *sitter.Node, v Visitor) {
	if n == nil {
		return
	}
	if n.Type() == "call_expression" {
		v.VisitCall(t.call(n))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		t.walk(n.Child(i), v)
	}
}

func (t *Tree) call(n *sitter.Node) Call {
	pos := n.StartPoint()
	c := Call{
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
	if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
		c.Callee = fn.Content(t.src)
	}
	// Tagged templates put a template_string in the arguments field
	if args := n.ChildByFieldName("arguments"); args != nil && args.Type() == "arguments" {
		for _, a := range namedChildren(args) {
			c.Args = append(c.Args, t.value(a))
		}
	}
	return c
}

// ExportedConst returns the object literal bound by a top-level
// `export const <name> = {...}` declaration. TypeScript type annotations
// and `as`/`satisfies` wrappers are ignored
func (t *Tree) ExportedConst(name string) (Value, bool) {
	if t == nil || t.tree == nil {
		return Value{}, false
	}
	for _, stmt := range namedChildren(t.tree.RootNode()) {
		if stmt.Type() != "export_statement" {
			continue
		}
		decl := stmt.ChildByFieldName("declaration")
		if decl == nil {
			continue
		}
		if decl.Type() != "lexical_declaration" && decl.Type() != "variable_declaration" {
			continue
		}
		for _, d := range namedChildren(decl) {
			if d.Type() != "variable_declarator" {
				continue
			}
			id := d.ChildByFieldName("name")
			if id == nil || id.Content(t.src) != name {
				continue
			}
			val := t.value(d.ChildByFieldName("value"))
			if val.Kind == KindObject {
				return val, true
			}
		}
	}
	return Value{}, false
}

func (t *Tree) value(n *sitter.Node) Value {
	if n == nil {
		return Value{}
	}
	switch n.Type() {
	case "string":
		return Value{Kind: KindString, Text: unquote(n.Content(t.src))}
	case "template_string":
		for _, c := range namedChildren(n) {
			if c.Type() == "template_substitution" {
				return Value{}
			}
		}
		return Value{Kind: KindString, Text: unquote(n.Content(t.src))}
	case "number":
		return Value{Kind: KindNumber, Text: n.Content(t.src)}
	case "unary_expression":
		// -1 and +1 are a sign applied to a number literal
		op, arg := n.ChildByFieldName("operator"), n.ChildByFieldName("argument")
		if op == nil || arg == nil || arg.Type() != "number" {
			return Value{}
		}
		switch op.Type() {
		case "-":
			return Value{Kind: KindNumber, Text: "-" + arg.Content(t.src)}
		case "+":
			return Value{Kind: KindNumber, Text: arg.Content(t.src)}
		}
	case "true":
		return Value{Kind: KindBool, Bool: true}
	case "false":
		return Value{Kind: KindBool}
	case "null":
		return Value{Kind: KindNull}
	case "object":
		return t.object(n)
	case "array":
		val := Value{Kind: KindArray}
		for _, c := range namedChildren(n) {
			val.Elems = append(val.Elems, t.value(c))
		}
		return val
	case "arrow_function", "function", "function_expression", "generator_function":
		return Value{Kind: KindFunction}
	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
		if inner := namedChildren(n); len(inner) > 0 {
			return t.value(inner[0])
		}
	}
	return Value{}
}

func (t *Tree) object(n *sitter.Node) Value {
	val := Value{Kind: KindObject}
	for _, c := range namedChildren(n) {
		if c.Type() != "pair" {
			continue
		}
		key, ok := t.key(c.ChildByFieldName("key"))
		if !ok {
			continue
		}
		val.Props = append(val.Props, Property{
			Key:   key,
			Value: t.value(c.ChildByFieldName("value")),
		})
	}
	return val
}

func (t *Tree) key(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier", "number":
		return n.Content(t.src), true
	case "string":
		return unquote(n.Content(t.src)), true
	}
	return "", false
}

// namedChildren returns named children, skipping comments
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}
