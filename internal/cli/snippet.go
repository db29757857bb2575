package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/snippet"
	"github.com/eddmann/kitmeta/internal/ui"
)

var snippetCmd = &cobra.Command{
	Use:   "snippet <file>",
	Short: "Print the trigger and body of a snippet file",
	Long: `Split a snippet file into its comment header and body and print the
expansion trigger, postfix flag, body text and HTML preview.

Example:
  kitmeta snippet ~/.kenv/snippets/signature.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(formatJSON, false)
		if err != nil {
			return err
		}
		s, err := snippet.NewCache(cfg.MetadataOptions()).Load(args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), s, format)
	},
}

var snippetsCmd = &cobra.Command{
	Use:   "snippets [dir]",
	Short: "List every snippet in a directory",
	Long: `Load every snippet file in a directory (default: the configured snippets
directory, usually ~/.kenv/snippets) and list their triggers.

Example:
  kitmeta snippets
  kitmeta snippets ./snippets --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(formatText, true)
		if err != nil {
			return err
		}

		dir := cfg.Snippets
		if len(args) == 1 {
			dir = args[0]
		}

		c := snippet.NewCache(cfg.MetadataOptions(), snippet.WithLogger(logger))
		snippets, err := c.ScanDir(cmd.Context(), dir)
		if err != nil {
			return err
		}
		logger.Debug("scanned snippets", "dir", dir, "count", len(snippets))

		if format == formatText {
			p := ui.NewPrinter(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s", p.Bold("Snippets in "+dir+":"), p.SnippetList(snippets))
			return nil
		}
		return render(cmd.OutOrStdout(), snippets, format)
	},
}

func init() {
	rootCmd.AddCommand(snippetCmd)
	rootCmd.AddCommand(snippetsCmd)
}
