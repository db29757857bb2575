package jsast

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func collectCalls(t *testing.T, code string, lang Language) []Call {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(code), lang)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer tree.Close()

	var calls []Call
	tree.Walk(VisitorFunc(func(c Call) {
		calls = append(calls, c)
	}))
	return calls
}

func callees(calls []Call) []string {
	var names []string
	for _, c := range calls {
		names = append(names, c.Callee)
	}
	return names
}

func TestWalk_FindsNestedCalls(t *testing.T) {
	code := `
const name = await arg("Name")
await onTab("First", async () => {
  const inner = await select({ placeholder: "Pick" }, ["a", "b"])
  items.map(function (item) { return div(item) })
})
`
	for _, lang := range []Language{JavaScript, TypeScript} {
		t.Run(lang.String(), func(t *testing.T) {
			got := callees(collectCalls(t, code, lang))
			want := []string{"arg", "onTab", "select", "", "div"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("callees = %v, want %v", got, want)
			}
		})
	}
}

func TestWalk_ArgumentValues(t *testing.T) {
	calls := collectCalls(t, `f("a\tb", 'c', 42, true, null, [1, "x"], { placeholder: "p", "quoted": 'q', nested: { n: 1 } }, () => 1, ident)`, JavaScript)
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	args := calls[0].Args
	if len(args) != 9 {
		t.Fatalf("got %d args, want 9", len(args))
	}

	wantKinds := []Kind{KindString, KindString, KindNumber, KindBool, KindNull, KindArray, KindObject, KindFunction, KindOther}
	for i, want := range wantKinds {
		if args[i].Kind != want {
			t.Errorf("args[%d].Kind = %v, want %v", i, args[i].Kind, want)
		}
	}

	if args[0].Text != "a\tb" {
		t.Errorf("args[0].Text = %q, want %q", args[0].Text, "a\tb")
	}
	if args[2].Text != "42" {
		t.Errorf("args[2].Text = %q, want 42", args[2].Text)
	}
	if !args[3].Bool {
		t.Error("args[3].Bool = false, want true")
	}
	if len(args[5].Elems) != 2 || args[5].Elems[1].Text != "x" {
		t.Errorf("array elems = %+v", args[5].Elems)
	}

	obj := args[6]
	if p, ok := obj.Prop("placeholder"); !ok || p.Text != "p" {
		t.Errorf("placeholder = %+v, %v", p, ok)
	}
	if p, ok := obj.Prop("quoted"); !ok || p.Text != "q" {
		t.Errorf("quoted = %+v, %v", p, ok)
	}
	if p, ok := obj.Prop("nested"); !ok || p.Kind != KindObject {
		t.Errorf("nested = %+v, %v", p, ok)
	}
}

func TestWalk_TemplateStrings(t *testing.T) {
	calls := collectCalls(t, "f(`plain`, `with ${x}`)", JavaScript)
	if len(calls) != 1 || len(calls[0].Args) != 2 {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	if got := calls[0].Args[0]; got.Kind != KindString || got.Text != "plain" {
		t.Errorf("plain template = %+v", got)
	}
	if got := calls[0].Args[1]; got.Kind != KindOther {
		t.Errorf("substituted template = %+v, want KindOther", got)
	}
}

func TestWalk_MemberCallsHaveNoCallee(t *testing.T) {
	calls := collectCalls(t, `kit.arg("x")`, JavaScript)
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if calls[0].Callee != "" {
		t.Errorf("Callee = %q, want empty", calls[0].Callee)
	}
}

func TestWalk_TypeScriptWrappersAreTransparent(t *testing.T) {
	code := `const v = await arg({ placeholder: "typed" } as PromptConfig)`
	calls := collectCalls(t, code, TypeScript)
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	obj := calls[0].Args[0]
	if obj.Kind != KindObject {
		t.Fatalf("Kind = %v, want object", obj.Kind)
	}
	if p, _ := obj.Prop("placeholder"); p.Text != "typed" {
		t.Errorf("placeholder = %q, want typed", p.Text)
	}
}

func TestExportedConst(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		lang   Language
		wantOK bool
		want   []Property
	}{
		{
			name:   "javascript object",
			code:   `export const metadata = { name: "Hello", index: 2, background: true }`,
			lang:   JavaScript,
			wantOK: true,
			want: []Property{
				{Key: "name", Value: Value{Kind: KindString, Text: "Hello"}},
				{Key: "index", Value: Value{Kind: KindNumber, Text: "2"}},
				{Key: "background", Value: Value{Kind: KindBool, Bool: true}},
			},
		},
		{
			name:   "typescript annotation",
			code:   "export const metadata: Metadata = {\n  emoji: \"🎉\",\n}\n",
			lang:   TypeScript,
			wantOK: true,
			want: []Property{
				{Key: "emoji", Value: Value{Kind: KindString, Text: "🎉"}},
			},
		},
		{
			name:   "signed numbers",
			code:   `export const metadata = { index: -1, offset: +3, flip: !true, neg: -x }`,
			lang:   TypeScript,
			wantOK: true,
			want: []Property{
				{Key: "index", Value: Value{Kind: KindNumber, Text: "-1"}},
				{Key: "offset", Value: Value{Kind: KindNumber, Text: "3"}},
				{Key: "flip", Value: Value{}},
				{Key: "neg", Value: Value{}},
			},
		},
		{
			name:   "not exported",
			code:   `const metadata = { name: "Hidden" }`,
			lang:   JavaScript,
			wantOK: false,
		},
		{
			name:   "different name",
			code:   `export const config = { name: "Other" }`,
			lang:   JavaScript,
			wantOK: false,
		},
		{
			name:   "nested is ignored",
			code:   `function f() { const metadata = { name: "Inner" } }`,
			lang:   JavaScript,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(context.Background(), []byte(tt.code), tt.lang)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			defer tree.Close()

			got, ok := tree.ExportedConst("metadata")
			if ok != tt.wantOK {
				t.Fatalf("ExportedConst() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got.Props, tt.want) {
				t.Errorf("ExportedConst() props = %+v, want %+v", got.Props, tt.want)
			}
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	tree, err := Parse(context.Background(), []byte("const x = (;\n"), JavaScript)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("errors.Is(err, ErrSyntax) = false for %v", err)
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
	if se.Line != 1 {
		t.Errorf("Line = %d, want 1", se.Line)
	}
	if tree == nil {
		t.Error("expected partial tree alongside syntax error")
	}
	tree.Close()
}

func TestParse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Parse(ctx, []byte("arg()"), JavaScript); !errors.Is(err, context.Canceled) {
		t.Errorf("Parse() error = %v, want context.Canceled", err)
	}
}

func TestLanguageForPath(t *testing.T) {
	tests := map[string]Language{
		"script.ts":  TypeScript,
		"script.mts": TypeScript,
		"script.js":  JavaScript,
		"script.mjs": JavaScript,
		"view.tsx":   TSX,
		"view.jsx":   TSX,
	}
	for path, want := range tests {
		if got := LanguageForPath(path); got != want {
			t.Errorf("LanguageForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{"`tick`", "tick"},
		{`"a\nb"`, "a\nb"},
		{`"quote \" inside"`, `quote " inside`},
		{`"\x41B\u{43}"`, "ABC"},
		{`"😀"`, "😀"},
		{`"\q"`, "q"},
	}
	for _, tt := range tests {
		if got := unquote(tt.raw); got != tt.want {
			t.Errorf("unquote(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
