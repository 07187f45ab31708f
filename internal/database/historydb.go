package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/reporttable/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "reporttable.db"

// timestampLayout is how render times are stored.
const timestampLayout = "2006-01-02 15:04:05.000"

// HistoryDB provides SQLite-based storage for rendered tables.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; batch renders share this connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		format TEXT NOT NULL,
		title TEXT,
		timestamp TEXT NOT NULL,
		columns INTEGER NOT NULL DEFAULT 0,
		lines INTEGER NOT NULL DEFAULT 0,
		warnings TEXT,
		output BLOB NOT NULL,
		digest TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_renders_source ON renders(source);
	CREATE INDEX IF NOT EXISTS idx_renders_timestamp ON renders(timestamp);
	CREATE INDEX IF NOT EXISTS idx_renders_digest ON renders(digest);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex encoded SHA3-256 digest of output.
func Digest(output []byte) string {
	sum := sha3.Sum256(output)
	return hex.EncodeToString(sum[:])
}

// RenderMetadata contains summary information about a stored render.
// It is used for listing history without loading the output.
type RenderMetadata struct {
	// ID is the unique identifier of the render in the database.
	ID int64

	// Source is the path of the rendered document.
	Source string

	// Format is the output format.
	Format model.Format

	// Title is the caption the render was produced with.
	Title string

	// Timestamp is when the render started.
	Timestamp time.Time

	// Columns is the number of table columns.
	Columns int

	// Lines is the number of table lines.
	Lines int

	// Warnings holds the non-fatal problems found while building.
	Warnings []string

	// Digest is the SHA3-256 digest of the output.
	Digest string
}

// RenderRecord is a stored render including its output.
type RenderRecord struct {
	RenderMetadata

	// Output is the rendered table.
	Output []byte
}

// SaveRender stores a rendered job and returns its ID.
// The job must carry output; its table, if any, supplies the shape.
func (hdb *HistoryDB) SaveRender(ctx context.Context, job *model.Job) (int64, error) {
	if job.Output == nil {
		return 0, errors.New("job has no rendered output")
	}

	var columns, lines int
	if job.Table != nil {
		columns = job.Table.ColumnCount()
		lines = job.Table.LineCount()
	}

	warningsJSON, err := json.Marshal(job.Warnings)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize warnings: %w", err)
	}

	startedAt := job.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	query := `
	INSERT INTO renders (source, format, title, timestamp, columns, lines, warnings, output, digest)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		job.Source,
		string(job.Format),
		job.DisplayTitle(),
		startedAt.UTC().Format(timestampLayout),
		columns,
		lines,
		string(warningsJSON),
		job.Output,
		Digest(job.Output),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save render: %w", err)
	}

	return result.LastInsertId()
}

// ListSources returns every source that has a stored render.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM renders
	ORDER BY source
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// GetHistory returns the render metadata for source, newest first.
func (hdb *HistoryDB) GetHistory(ctx context.Context, source string) ([]RenderMetadata, error) {
	query := `
	SELECT id, source, format, title, timestamp, columns, lines, warnings, digest
	FROM renders
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get render history: %w", err)
	}
	defer rows.Close()

	var results []RenderMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRenderByID retrieves a render by its database ID.
// Returns nil without error when no render has that ID.
func (hdb *HistoryDB) GetRenderByID(ctx context.Context, id int64) (*RenderRecord, error) {
	query := `
	SELECT id, source, format, title, timestamp, columns, lines, warnings, digest, output
	FROM renders
	WHERE id = ?
	`

	return hdb.getRecord(ctx, query, id)
}

// GetLatestRender retrieves the newest render of source.
// Returns nil without error when source has never been saved.
func (hdb *HistoryDB) GetLatestRender(ctx context.Context, source string) (*RenderRecord, error) {
	query := `
	SELECT id, source, format, title, timestamp, columns, lines, warnings, digest, output
	FROM renders
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	return hdb.getRecord(ctx, query, source)
}

// getRecord runs a single row query selecting metadata followed by output.
func (hdb *HistoryDB) getRecord(ctx context.Context, query string, arg any) (*RenderRecord, error) {
	var output []byte
	row := hdb.db.QueryRowContext(ctx, query, arg)
	meta, err := scanMetadata(func(dest ...any) error {
		return row.Scan(append(dest, &output)...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &RenderRecord{RenderMetadata: meta, Output: output}, nil
}

// scanMetadata reads the metadata columns in their select order.
func scanMetadata(scan func(dest ...any) error) (RenderMetadata, error) {
	var meta RenderMetadata
	var format, timestamp string
	var title, warningsJSON sql.NullString

	err := scan(
		&meta.ID,
		&meta.Source,
		&format,
		&title,
		&timestamp,
		&meta.Columns,
		&meta.Lines,
		&warningsJSON,
		&meta.Digest,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, err
	}
	if err != nil {
		return meta, fmt.Errorf("failed to scan render: %w", err)
	}

	meta.Format = model.Format(format)
	meta.Title = title.String
	meta.Timestamp = parseTimestamp(timestamp)
	if warningsJSON.Valid && warningsJSON.String != "" {
		if err := json.Unmarshal([]byte(warningsJSON.String), &meta.Warnings); err != nil {
			meta.Warnings = nil
		}
	}

	return meta, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,        // Format written by SaveRender
	"2006-01-02 15:04:05",  // SQLite default datetime format
	"2006-01-02T15:04:05Z", // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",  // ISO 8601 without timezone
	time.RFC3339,           // Full RFC3339 format
	time.RFC3339Nano,       // RFC3339 with nanoseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
