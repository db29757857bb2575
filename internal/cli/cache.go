package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/index"
)

var cleanAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the kitmeta cache",
	Long:  `Manage cached script indexes.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show cached script indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		hashes, err := store.ListIndexes()
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Script indexes:")
		if len(hashes) == 0 {
			fmt.Fprintln(out, "  (none)")
		}
		for _, h := range hashes {
			// Truncate hash for display
			display := h
			if len(h) > 12 {
				display = h[:12] + "..."
			}

			info, err := index.ReadInfo(filepath.Join(store.IndexDir(), h))
			if err != nil {
				fmt.Fprintf(out, "  %s  (unreadable: %v)\n", display, err)
				continue
			}
			age := time.Since(info.BuiltAt).Round(time.Minute)
			fmt.Fprintf(out, "  %s  %s (%s)  %d scripts, built %s ago (format %s)\n",
				display, info.Kenv, info.Platform, info.Scripts, age, info.Version)
		}

		// Total size
		size, err := store.Size()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTotal cache size: %s\n", formatSize(size))

		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached data",
	Long: `Remove cached data. By default, removes the script indexes.

Use flags to specify what to clean:
  --all    Remove everything, including config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if cleanAll {
			fmt.Fprintln(out, "Removing all cache data...")
			if err := store.CleanAll(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Done.")
			return nil
		}

		fmt.Fprintln(out, "Removing script indexes...")
		if err := store.CleanIndex(); err != nil {
			return err
		}

		fmt.Fprintln(out, "Done.")
		return nil
	},
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print cache directory path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), store.BaseDir())
	},
}

func init() {
	cacheCleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove everything")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheDirCmd)
	rootCmd.AddCommand(cacheCmd)
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
