package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eddmann/kitmeta/internal/theme"
	"github.com/eddmann/kitmeta/internal/ui"
)

var errInvalidTheme = errors.New("theme is missing required variables")

// themeReport is the machine-readable theme output
type themeReport struct {
	Path       string `json:"path" yaml:"path"`
	Appearance string `json:"appearance,omitempty" yaml:"appearance,omitempty"`
	Opacity    string `json:"opacity" yaml:"opacity"`

	theme.ValidationResult `yaml:",inline"`
}

var themeCmd = &cobra.Command{
	Use:   "theme <theme.css>",
	Short: "Validate a theme stylesheet",
	Long: `Check a theme stylesheet for the CSS variables the launcher needs and report
its appearance and the window opacity for the target platform. Exits with an
error when a required variable is missing.

Example:
  kitmeta theme dark.css
  kitmeta theme dark.css --platform win --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(formatText, true)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read theme: %w", err)
		}
		css := string(data)

		report := themeReport{
			Path:             args[0],
			Appearance:       theme.ExtractAppearance(css),
			Opacity:          theme.ResolveOpacity(css, cfg.Platform),
			ValidationResult: theme.ValidateThemeCSS(css),
		}

		if format == formatText {
			p := ui.NewPrinter(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), p.ThemeReport(report.Path, report.ValidationResult, report.Appearance, report.Opacity))
		} else if err := render(cmd.OutOrStdout(), report, format); err != nil {
			return err
		}

		if !report.Valid {
			return errInvalidTheme
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
