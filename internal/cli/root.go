package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/cache"
	"github.com/eddmann/kitmeta/internal/config"
	"github.com/eddmann/kitmeta/internal/platform"
)

const logo = `
 ╦╔═╦╔╦╗╔╦╗╔═╗╔╦╗╔═╗
 ╠╩╗║ ║ ║║║║╣  ║ ╠═╣
 ╩ ╩╩ ╩ ╩ ╩╚═╝ ╩ ╩ ╩
`

var (
	verbose      bool
	quiet        bool
	formatFlag   string
	platformFlag string
)

// Shared state built once per invocation by setup
var (
	logger *slog.Logger
	store  *cache.Cache
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "kitmeta [script.ts]",
	Short:   "Parse kit script metadata, snippets and themes",
	Version: Version,
	Long: `kitmeta reads kit scripts, snippets and themes and prints the structured
records a launcher needs: process type, shortcuts, triggers, schedules,
prompt calls, MCP tool schemas and theme validation results.

Example:
  kitmeta script.ts
  kitmeta prompts script.ts --format yaml
  kitmeta index ~/.kenv
  cat script.ts | kitmeta parse -`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		// Default behavior: kitmeta script.ts → kitmeta parse script.ts
		return parseScripts(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show detailed output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only report errors")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "output format: json, yaml or text")
	rootCmd.PersistentFlags().StringVar(&platformFlag, "platform", "", "target platform: mac, win or other (default from config or OS)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("kitmeta %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime))
	rootCmd.SetHelpTemplate(logo + `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`)
}

// setup builds the logger, cache and config shared by every command
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	c, err := cache.Default()
	if err != nil {
		return err
	}
	store = c

	cfg, err = config.Load(store.ConfigFile())
	if err != nil {
		return err
	}

	if platformFlag != "" {
		p, err := platform.Parse(platformFlag)
		if err != nil {
			return err
		}
		cfg.Platform = p
	}

	logger.Debug("loaded config", "file", store.ConfigFile(), "kenv", cfg.Kenv, "platform", cfg.Platform)
	return nil
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
