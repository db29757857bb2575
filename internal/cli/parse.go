package cli

import (
	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/index"
	"github.com/eddmann/kitmeta/internal/metadata"
)

var parseCmd = &cobra.Command{
	Use:   "parse <script.ts>... ",
	Short: "Print the metadata of one or more scripts",
	Long: `Parse script metadata from comment lines, an optional <script>.toml sidecar
and an exported metadata object, then print the normalized record.

Example:
  kitmeta parse script.ts
  kitmeta parse scripts/*.ts --format yaml
  cat script.ts | kitmeta parse -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parseScripts(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parseScripts prints one metadata record for a single script, or an entry
// list for several
func parseScripts(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(formatJSON, false)
	if err != nil {
		return err
	}
	opts := cfg.MetadataOptions()

	if len(args) == 1 {
		md, err := parseOne(args[0], opts)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), md, format)
	}

	entries := make([]index.Entry, 0, len(args))
	for _, path := range args {
		md, err := parseOne(path, opts)
		if err != nil {
			return err
		}
		entries = append(entries, index.Entry{Path: path, Command: index.Command(path), Metadata: md})
	}
	return render(cmd.OutOrStdout(), entries, format)
}

func parseOne(path string, opts metadata.Options) (metadata.Metadata, error) {
	if path != "-" {
		return metadata.ParseFile(path, opts)
	}
	data, lang, err := readSource(path)
	if err != nil {
		return metadata.Metadata{}, err
	}
	return metadata.Parse(string(data), opts, metadata.Comments, metadata.Exported{Language: lang}), nil
}
