package cli

import (
	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/prompts"
)

var placeholdersOnly bool

var promptsCmd = &cobra.Command{
	Use:   "prompts <script.ts>",
	Short: "List the prompt calls a script makes",
	Long: `List the prompt function calls of a script in source order, with the text
shown to the user and the 1-based argument position of each call.

Example:
  kitmeta prompts script.ts
  kitmeta prompts script.ts --placeholders`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(formatJSON, false)
		if err != nil {
			return err
		}
		data, lang, err := readSource(args[0])
		if err != nil {
			return err
		}

		opts := []prompts.Option{prompts.WithLanguage(lang), prompts.WithContext(cmd.Context())}
		if placeholdersOnly {
			placeholders, err := prompts.ExtractArgPlaceholders(string(data), opts...)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), placeholders, format)
		}

		calls, err := prompts.ExtractPromptCalls(string(data), opts...)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), calls, format)
	},
}

func init() {
	promptsCmd.Flags().BoolVar(&placeholdersOnly, "placeholders", false, "only list arg() calls and their placeholders")
	rootCmd.AddCommand(promptsCmd)
}
