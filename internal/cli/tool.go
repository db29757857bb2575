package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/index"
	"github.com/eddmann/kitmeta/internal/jsast"
	"github.com/eddmann/kitmeta/internal/mcptool"
	"github.com/eddmann/kitmeta/internal/metadata"
	"github.com/eddmann/kitmeta/internal/prompts"
)

var (
	toolFromArgs bool
	validateArg  string
)

var toolCmd = &cobra.Command{
	Use:   "tool <script.ts>",
	Short: "Print the MCP tool schema of a script",
	Long: `Derive an MCP tool definition from a script: the name comes from the mcp or
name metadata, and every prompt call becomes a required string argument.

Example:
  kitmeta tool script.ts
  kitmeta tool script.ts --validate '{"arg1": "hello"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(formatJSON, false)
		if err != nil {
			return err
		}

		path := args[0]
		data, lang, err := readSource(path)
		if err != nil {
			return err
		}

		var (
			md       metadata.Metadata
			fallback string
		)
		if path == "-" {
			md = metadata.Parse(string(data), cfg.MetadataOptions(), metadata.Comments, metadata.Exported{Language: lang})
		} else {
			if md, err = metadata.ParseFile(path, cfg.MetadataOptions()); err != nil {
				return err
			}
			fallback = index.Command(path)
		}

		t, err := buildTool(cmd, string(data), lang, md, fallback)
		if err != nil {
			return err
		}

		if validateArg == "" {
			return render(cmd.OutOrStdout(), t, format)
		}

		var toolArgs map[string]any
		if err := json.Unmarshal([]byte(validateArg), &toolArgs); err != nil {
			return fmt.Errorf("--validate must be a JSON object: %w", err)
		}
		v, err := t.Compile()
		if err != nil {
			return err
		}
		if err := v.Validate(toolArgs); err != nil {
			return err
		}
		logger.Info("arguments are valid", "tool", t.Name)
		return nil
	},
}

func buildTool(cmd *cobra.Command, code string, lang jsast.Language, md metadata.Metadata, fallback string) (mcptool.Tool, error) {
	opts := []prompts.Option{prompts.WithLanguage(lang), prompts.WithContext(cmd.Context())}
	if toolFromArgs {
		placeholders, err := prompts.ExtractArgPlaceholders(code, opts...)
		if err != nil {
			return mcptool.Tool{}, err
		}
		return mcptool.FromArgPlaceholders(md, fallback, placeholders), nil
	}

	calls, err := prompts.ExtractPromptCalls(code, opts...)
	if err != nil {
		return mcptool.Tool{}, err
	}
	return mcptool.FromPromptCalls(md, fallback, calls), nil
}

func init() {
	toolCmd.Flags().BoolVar(&toolFromArgs, "args-only", false, "only turn arg() calls into tool arguments")
	toolCmd.Flags().StringVar(&validateArg, "validate", "", "validate a JSON object of tool arguments instead of printing the schema")
	rootCmd.AddCommand(toolCmd)
}
