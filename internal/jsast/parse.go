// Package jsast parses JavaScript and TypeScript source with tree-sitter and
// exposes a small, parser-neutral view of call sites and literal values.
//
// Callers never see tree-sitter node types: everything past this package
// works on Call and Value
package jsast

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrSyntax is wrapped by every SyntaxError
var ErrSyntax = errors.New("syntax error")

// Language selects the tree-sitter grammar
type Language int

const (
	// TypeScript accepts plain ECMAScript modules as well as type syntax,
	// which makes it the default for script sources
	TypeScript Language = iota
	JavaScript
	TSX
)

func (l Language) String() string {
	switch l {
	case JavaScript:
		return "javascript"
	case TSX:
		return "tsx"
	default:
		return "typescript"
	}
}

// LanguageForPath picks a grammar from a file extension
func LanguageForPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return TSX
	case ".js", ".mjs", ".cjs":
		return JavaScript
	default:
		return TypeScript
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case JavaScript:
		return javascript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}

// SyntaxError reports the first ERROR or MISSING node in a parse tree.
// Line and Column are 1-based
type SyntaxError struct {
	Language Language
	Line     int
	Column   int
	Near     string
	Missing  bool
}

func (e *SyntaxError) Error() string {
	what := "unexpected"
	if e.Missing {
		what = "missing"
	}
	return fmt.Sprintf("%s: %s %q at %d:%d (%s)", ErrSyntax, what, e.Near, e.Line, e.Column, e.Language)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Tree is a parsed source file
type Tree struct {
	tree *sitter.Tree
	src  []byte
	lang Language
}

// Parse parses code with the given grammar. A new tree-sitter parser is
// created per call, so Parse is safe for concurrent use.
//
// When the source contains syntax errors Parse still returns the partial tree
// together with a *SyntaxError, the same way go/parser does. Callers that only
// want best-effort data may ignore the error when the tree is non-nil
func Parse(ctx context.Context, code []byte, lang Language) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	t := &Tree{tree: tree, src: code, lang: lang}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, errors.New("tree-sitter returned nil root node")
	}

	if bad := firstError(root); bad != nil {
		return t, t.syntaxError(bad)
	}
	return t, nil
}

// Close releases the underlying tree-sitter tree
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Language returns the grammar the tree was parsed with
func (t *Tree) Language() Language {
	return t.lang
}

func (t *Tree) syntaxError(n *sitter.Node) *SyntaxError {
	pos := n.StartPoint()
	near := n.Content(t.src)
	if len(near) > 40 {
		near = near[:40]
	}
	if i := strings.IndexByte(near, '\n'); i >= 0 {
		near = near[:i]
	}
	return &SyntaxError{
		Language: t.lang,
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
		Near:     near,
		Missing:  n.IsMissing(),
	}
}

// firstError returns the first ERROR or MISSING node in source order
func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
