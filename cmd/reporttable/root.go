package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for reporttable.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reporttable",
		Short: "Render report tables to HTML, CSV and more",
		Long: `reporttable renders report table documents into HTML, CSV, Markdown,
plain text or JSON.

A document describes the columns of a table and its lines of cells,
including alignment, indentation, spans and links. Renders can be saved
to a local history database and inspected later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
