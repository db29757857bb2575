// Package mcptool derives an MCP tool definition from a script's metadata
// and the prompts it makes
package mcptool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/eddmann/kitmeta/internal/metadata"
	"github.com/eddmann/kitmeta/internal/prompts"
)

// Tool is an MCP tool definition
type Tool struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema" yaml:"inputSchema"`
}

// InputSchema is the JSON schema of a tool's arguments
type InputSchema struct {
	Type                 string              `json:"type" yaml:"type"`
	Properties           map[string]Property `json:"properties" yaml:"properties"`
	Required             []string            `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties" yaml:"additionalProperties"`
}

// Property describes one argument
type Property struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ToolName prefers the script's Mcp metadata, then a slug of its name, then
// a slug of fallback (usually the file name)
func ToolName(md metadata.Metadata, fallback string) string {
	if md.MCP != "" && md.MCP != "true" {
		return slug.Make(md.MCP)
	}
	if md.Name != "" {
		return slug.Make(md.Name)
	}
	if s := slug.Make(fallback); s != "" {
		return s
	}
	return "script"
}

func newTool(md metadata.Metadata, fallback string) Tool {
	desc := md.Description
	if desc == "" {
		desc = md.Name
	}
	return Tool{
		Name:        ToolName(md, fallback),
		Description: desc,
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	}
}

func (t *Tool) add(name string, description *string) {
	p := Property{Type: "string"}
	if description != nil {
		p.Description = *description
	}
	t.InputSchema.Properties[name] = p
	t.InputSchema.Required = append(t.InputSchema.Required, name)
}

// FromPromptCalls maps every prompt call to a required string argument
// named "arg<ArgIndex>"
func FromPromptCalls(md metadata.Metadata, fallback string, calls []prompts.PromptCall) Tool {
	t := newTool(md, fallback)
	for _, c := range calls {
		t.add("arg"+strconv.Itoa(c.ArgIndex), c.Prompt)
	}
	return t
}

// FromArgPlaceholders maps every arg() call to a required string argument
func FromArgPlaceholders(md metadata.Metadata, fallback string, placeholders []prompts.ArgPlaceholder) Tool {
	t := newTool(md, fallback)
	for _, p := range placeholders {
		t.add(p.Name, p.Placeholder)
	}
	return t
}

// Validator checks tool arguments against a compiled input schema
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles the tool's input schema
func (t Tool) Compile() (*Validator, error) {
	data, err := json.Marshal(t.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("marshaling input schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling input schema: %w", err)
	}

	const url = "inputSchema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{name: t.Name, schema: schema}, nil
}

// Validate checks args, which must be JSON-encodable
func (v *Validator) Validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("converting arguments to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("preparing arguments for validation: %w", err)
	}
	if err := v.schema.Validate(inst); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", v.name, err)
	}
	return nil
}
