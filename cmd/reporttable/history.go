package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/reporttable/internal/config"
	"github.com/nao1215/reporttable/internal/database"
	"github.com/nao1215/reporttable/internal/model"
	"github.com/nao1215/reporttable/internal/report"
	"github.com/nao1215/reporttable/internal/table"
)

// Comparison results of two renders.
const (
	outputIdentical = "identical"
	outputChanged   = "changed"
)

// digestLength is the number of digest characters shown in listings.
const digestLength = 12

// errNoHistory is returned when the history database has no renders for a
// source.
var errNoHistory = errors.New("no renders recorded")

// NewHistoryCmd creates the history command.
// This command inspects renders stored by 'reporttable render --save'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "Show saved renders",
		Long: `History displays renders recorded in the history database.

Without arguments it lists every document that has been saved. With a
source it lists the renders of that document, newest first. Each render
keeps its output and a SHA3-256 digest, so a document can be checked for
changes between renders.

Examples:
  # List all documents in the database
  reporttable history

  # List the renders of a document
  reporttable history status.yaml

  # Print the output of a saved render
  reporttable history --show 5

  # Check whether the latest two renders differ
  reporttable history --compare status.yaml

  # List renders since a date as Markdown
  reporttable history --since 2026-01-01 -f markdown status.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List all documents in the database")
	cmd.Flags().Int64P("show", "i", 0,
		"Print the stored output of the render with this ID")
	cmd.Flags().Bool("compare", false,
		"Compare the latest two renders of the source")
	cmd.Flags().String("since", "",
		"Only list renders since this date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringP("format", "f", string(model.FormatText),
		"Listing format (html, csv, markdown, text, json)")

	return cmd
}

// historyOptions holds the parsed flags of the history command.
type historyOptions struct {
	dbDir       string
	listSources bool
	showID      int64
	compare     bool
	since       time.Time
	format      model.Format
}

// parseHistoryFlags reads and validates the history command flags.
func parseHistoryFlags(cmd *cobra.Command) (*historyOptions, error) {
	opts := &historyOptions{}
	var err error

	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	if opts.listSources, err = cmd.Flags().GetBool("list-sources"); err != nil {
		return nil, err
	}
	if opts.showID, err = cmd.Flags().GetInt64("show"); err != nil {
		return nil, err
	}
	if opts.compare, err = cmd.Flags().GetBool("compare"); err != nil {
		return nil, err
	}

	since, err := cmd.Flags().GetString("since")
	if err != nil {
		return nil, err
	}
	if since != "" {
		if opts.since, err = parseSince(since); err != nil {
			return nil, err
		}
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	if opts.format, err = model.ParseFormat(format); err != nil {
		return nil, err
	}

	return opts, nil
}

// parseSince parses a date or an RFC3339 timestamp.
func parseSince(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (use YYYY-MM-DD or RFC3339)", s)
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	if opts.compare && len(args) == 0 {
		return errors.New("--compare requires a source")
	}

	hdb, err := database.Open(opts.dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = hdb.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case opts.showID != 0:
		return showRender(ctx, out, hdb, opts.showID)
	case opts.listSources || len(args) == 0:
		return listSources(ctx, out, hdb, opts.format)
	case opts.compare:
		return compareRenders(ctx, out, hdb, args[0])
	default:
		return listHistory(ctx, out, hdb, args[0], opts)
	}
}

// showRender prints the stored output of a render.
func showRender(ctx context.Context, w io.Writer, hdb *database.HistoryDB, id int64) error {
	rec, err := hdb.GetRenderByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("render %d not found", id)
	}

	_, err = w.Write(rec.Output)
	return err
}

// listSources prints every document recorded in the database.
func listSources(ctx context.Context, w io.Writer, hdb *database.HistoryDB, format model.Format) error {
	sources, err := hdb.ListSources(ctx)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Fprintln(w, "No renders recorded.")
		return nil
	}

	t := table.NewTable()
	table.NewColumn(t, "Source")
	table.NewColumn(t, "Renders")
	table.NewColumn(t, "Latest")
	for _, source := range sources {
		history, err := hdb.GetHistory(ctx, source)
		if err != nil {
			return err
		}
		latest := ""
		if len(history) > 0 {
			latest = history[0].Timestamp.Format(time.DateTime)
		}

		line := table.NewLine(t)
		table.NewCell(line, source).SetAlignment(table.AlignLeft)
		table.NewCell(line, strconv.Itoa(len(history))).SetAlignment(table.AlignRight)
		table.NewCell(line, latest)
	}

	return writeListing(w, t, format, "Recorded documents")
}

// listHistory prints the renders of source, newest first.
func listHistory(ctx context.Context, w io.Writer, hdb *database.HistoryDB, source string, opts *historyOptions) error {
	history, err := hdb.GetHistory(ctx, source)
	if err != nil {
		return err
	}
	if !opts.since.IsZero() {
		filtered := history[:0]
		for _, meta := range history {
			if !meta.Timestamp.Before(opts.since) {
				filtered = append(filtered, meta)
			}
		}
		history = filtered
	}
	if len(history) == 0 {
		return fmt.Errorf("%w for %s", errNoHistory, source)
	}

	return writeListing(w, historyTable(history), opts.format, "Renders of "+source)
}

// historyTable builds the listing table of a render history.
func historyTable(history []database.RenderMetadata) *table.Table {
	t := table.NewTable()
	for _, title := range []string{"ID", "Timestamp", "Format", "Title", "Columns", "Lines", "Warnings", "Digest"} {
		table.NewColumn(t, title)
	}

	for _, meta := range history {
		line := table.NewLine(t)
		table.NewCell(line, strconv.FormatInt(meta.ID, 10)).SetAlignment(table.AlignRight)
		table.NewCell(line, meta.Timestamp.Format(time.DateTime))
		table.NewCell(line, string(meta.Format))
		table.NewCell(line, meta.Title).SetAlignment(table.AlignLeft)
		table.NewCell(line, strconv.Itoa(meta.Columns)).SetAlignment(table.AlignRight)
		table.NewCell(line, strconv.Itoa(meta.Lines)).SetAlignment(table.AlignRight)
		table.NewCell(line, strconv.Itoa(len(meta.Warnings))).SetAlignment(table.AlignRight)
		table.NewCell(line, shortDigest(meta.Digest))
	}
	return t
}

// compareRenders reports whether the latest two renders of source differ.
func compareRenders(ctx context.Context, w io.Writer, hdb *database.HistoryDB, source string) error {
	history, err := hdb.GetHistory(ctx, source)
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("need at least two renders of %s to compare, found %d", source, len(history))
	}

	latest, previous := history[0], history[1]
	result := outputIdentical
	if latest.Digest != previous.Digest {
		result = outputChanged
	}

	fmt.Fprintf(w, "Latest:   #%d %s (%s, %d columns, %d lines)\n",
		latest.ID, latest.Timestamp.Format(time.DateTime), latest.Format, latest.Columns, latest.Lines)
	fmt.Fprintf(w, "Previous: #%d %s (%s, %d columns, %d lines)\n",
		previous.ID, previous.Timestamp.Format(time.DateTime), previous.Format, previous.Columns, previous.Lines)
	fmt.Fprintf(w, "Output:   %s\n", result)
	if latest.Format != previous.Format {
		fmt.Fprintln(w, "Note: the renders use different formats.")
	}
	return nil
}

// writeListing renders t in format.
func writeListing(w io.Writer, t *table.Table, format model.Format, title string) error {
	writer, err := report.NewWriter(format, w, report.Options{Title: title})
	if err != nil {
		return err
	}
	_, err = writer.Write(t)
	return err
}

// shortDigest truncates a digest for display.
func shortDigest(digest string) string {
	if len(digest) > digestLength {
		return digest[:digestLength]
	}
	return digest
}
