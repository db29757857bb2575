package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/index"
	"github.com/eddmann/kitmeta/internal/ui"
)

var rebuildIndex bool

var indexCmd = &cobra.Command{
	Use:   "index [kenv]",
	Short: "Index every script of a kenv",
	Long: `Parse the metadata of every script in a kenv directory and its scripts/
subdirectory. Results are cached under ~/.kitmeta/index and reused until a
script or sidecar changes.

Example:
  kitmeta index
  kitmeta index ~/work/.kenv --rebuild
  kitmeta index --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(formatText, true)
		if err != nil {
			return err
		}

		dir := cfg.Kenv
		if len(args) == 1 {
			dir = args[0]
		}

		if err := store.EnsureDirs(); err != nil {
			return err
		}

		showProgress := !quiet && isatty.IsTerminal(os.Stderr.Fd())
		idx := index.New(store, cfg.MetadataOptions(),
			index.WithLogger(logger),
			index.WithProgress(showProgress),
		)

		var entries []index.Entry
		if rebuildIndex {
			entries, err = idx.Build(cmd.Context(), dir)
		} else {
			entries, err = idx.Get(cmd.Context(), dir)
		}
		if err != nil {
			return err
		}

		if format == formatText {
			p := ui.NewPrinter(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s", p.Bold(fmt.Sprintf("Scripts in %s (%d):", dir, len(entries))), p.ScriptList(entries))
			return nil
		}
		return render(cmd.OutOrStdout(), entries, format)
	},
}

func init() {
	indexCmd.Flags().BoolVar(&rebuildIndex, "rebuild", false, "ignore the cached index")
	rootCmd.AddCommand(indexCmd)
}
