// Package prompts finds the prompt calls a script makes (arg, select, env
// and friends) so that a tool signature can be derived from its source
package prompts

import (
	"context"
	"fmt"

	"github.com/eddmann/kitmeta/internal/jsast"
)

// PromptFunctions are the global functions that show a prompt
var PromptFunctions = []string{
	"arg", "select", "grid", "editor", "textarea", "div", "form", "path",
	"env", "micro", "mini", "drop", "fields", "hotkey", "webcam", "mic",
}

var promptFunctions = func() map[string]bool {
	m := make(map[string]bool, len(PromptFunctions))
	for _, f := range PromptFunctions {
		m[f] = true
	}
	return m
}()

// ArgPlaceholder is one arg() call. Name is "arg1", "arg2", ... in source
// order; Placeholder is nil when no literal placeholder is available
type ArgPlaceholder struct {
	Name        string  `json:"name" yaml:"name"`
	Placeholder *string `json:"placeholder" yaml:"placeholder"`
}

// PromptCall is one call to a function in PromptFunctions. ArgIndex counts
// all prompt calls together, starting at 1
type PromptCall struct {
	Type      string  `json:"type" yaml:"type"`
	Prompt    *string `json:"prompt" yaml:"prompt"`
	HasConfig bool    `json:"hasConfig" yaml:"hasConfig"`
	ArgIndex  int     `json:"argIndex" yaml:"argIndex"`
}

type options struct {
	ctx  context.Context
	lang jsast.Language
}

// Option configures extraction
type Option func(*options)

// WithLanguage selects the grammar. The default TypeScript grammar also
// accepts plain JavaScript
func WithLanguage(lang jsast.Language) Option {
	return func(o *options) {
		o.lang = lang
	}
}

// WithContext bounds the parse
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func parse(code string, opts []Option) (*jsast.Tree, error) {
	o := options{ctx: context.Background(), lang: jsast.TypeScript}
	for _, opt := range opts {
		opt(&o)
	}
	tree, err := jsast.Parse(o.ctx, []byte(code), o.lang)
	if err != nil {
		if tree != nil {
			tree.Close()
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return tree, nil
}

// ExtractArgPlaceholders lists every arg() call. The placeholder comes from
// a `placeholder` string property of an object literal in the first
// argument, or in the second when the first is not an object. Choice arrays
// and dynamic values give a nil placeholder. Syntax errors are returned
func ExtractArgPlaceholders(code string, opts ...Option) ([]ArgPlaceholder, error) {
	tree, err := parse(code, opts)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	placeholders := []ArgPlaceholder{}
	tree.Walk(jsast.VisitorFunc(func(c jsast.Call) {
		if c.Callee != "arg" {
			return
		}
		ph := ArgPlaceholder{Name: fmt.Sprintf("arg%d", len(placeholders)+1)}
		if p, ok := objectPlaceholder(c.Args, 0); ok {
			ph.Placeholder = &p
		} else if !isObject(c.Args, 0) {
			if p, ok := objectPlaceholder(c.Args, 1); ok {
				ph.Placeholder = &p
			}
		}
		placeholders = append(placeholders, ph)
	}))
	return placeholders, nil
}

// ExtractPromptCalls lists every call to a function in PromptFunctions.
// The prompt text is read from the first argument, except for env whose
// first argument is the variable name. A string literal is the prompt; an
// object literal sets HasConfig and contributes its `placeholder`. Syntax
// errors are returned
func ExtractPromptCalls(code string, opts ...Option) ([]PromptCall, error) {
	tree, err := parse(code, opts)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	calls := []PromptCall{}
	tree.Walk(jsast.VisitorFunc(func(c jsast.Call) {
		if !promptFunctions[c.Callee] {
			return
		}
		pc := PromptCall{Type: c.Callee, ArgIndex: len(calls) + 1}

		at := 0
		if c.Callee == "env" {
			at = 1
		}
		if at < len(c.Args) {
			switch v := c.Args[at]; v.Kind {
			case jsast.KindString:
				text := v.Text
				pc.Prompt = &text
			case jsast.KindObject:
				pc.HasConfig = true
				if p, ok := v.Prop("placeholder"); ok && p.Kind == jsast.KindString {
					text := p.Text
					pc.Prompt = &text
				}
			}
		}
		calls = append(calls, pc)
	}))
	return calls, nil
}

func isObject(args []jsast.Value, i int) bool {
	return i < len(args) && args[i].Kind == jsast.KindObject
}

func objectPlaceholder(args []jsast.Value, i int) (string, bool) {
	if !isObject(args, i) {
		return "", false
	}
	p, ok := args[i].Prop("placeholder")
	if !ok || p.Kind != jsast.KindString {
		return "", false
	}
	return p.Text, true
}
