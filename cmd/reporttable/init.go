package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/reporttable/internal/config"
)

//go:embed templates/reporttable.yaml
var configTemplate embed.FS

// templatePath is the location of the config template in configTemplate.
const templatePath = "templates/reporttable.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new reporttable configuration file",
		Long: `Initialize creates a new .reporttable configuration file in the current directory.

The generated file includes:
- Default render settings (format, delimiter, HTML page wrapping)
- Commented examples of per-source overrides
- The list of log attribute keys to redact

Examples:
  # Create .reporttable in current directory
  reporttable init

  # Create config file at a specific path
  reporttable init -o myconfig.yaml

  # Force overwrite existing file
  reporttable init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - The default output format and CSV delimiter")
	fmt.Fprintln(out, "  - Per-source overrides selected by glob pattern")
	fmt.Fprintln(out, "  - Log keys to redact")

	return nil
}
