package petsite

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Store lookups that match no row.
var ErrNotFound = sql.ErrNoRows

// startedLayout is fixed width so started_at sorts as text.
const startedLayout = "2006-01-02T15:04:05.000000000Z"

// VariantRecord is one encoded image kept in the cache directory.
type VariantRecord struct {
	Src         string // path relative to the assets images directory
	Fingerprint string // size and mtime of the source when it was encoded
	Width       int
	Height      int
	Format      string
	File        string // file name under <cache>/optimised
	Size        int64
	BuildID     string
}

// BuildRecord summarises one completed build.
type BuildRecord struct {
	ID            string
	Environment   string
	StartedAt     time.Time
	Duration      time.Duration
	Pages         int
	Assets        int
	Bytes         int64
	ImagesEncoded int
	ImagesReused  int
	Warnings      int
}

// Store is the SQLite image manifest. It remembers which variants were
// encoded from which source so unchanged photos are not encoded again.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL with a busy timeout lets the dev server's rebuilds overlap a
	// running build without SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS variants (
    src TEXT NOT NULL,
    width INTEGER NOT NULL,
    format TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    height INTEGER NOT NULL,
    file TEXT NOT NULL,
    size INTEGER NOT NULL,
    build_id TEXT NOT NULL,
    PRIMARY KEY (src, width, format)
);
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    environment TEXT NOT NULL,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    pages INTEGER NOT NULL,
    assets INTEGER NOT NULL,
    bytes INTEGER NOT NULL,
    images_encoded INTEGER NOT NULL,
    images_reused INTEGER NOT NULL,
    warnings INTEGER NOT NULL
);
`)
	return err
}

// LookupVariant returns the recorded variant of src at width and format.
func (s *Store) LookupVariant(src string, width int, format string) (VariantRecord, error) {
	v := VariantRecord{Src: src, Width: width, Format: format}
	err := s.db.QueryRow(`SELECT fingerprint, height, file, size, build_id FROM variants WHERE src = ? AND width = ? AND format = ?`, src, width, format).
		Scan(&v.Fingerprint, &v.Height, &v.File, &v.Size, &v.BuildID)
	if err != nil {
		return VariantRecord{}, err
	}
	return v, nil
}

// SaveVariant upserts a variant record.
func (s *Store) SaveVariant(v VariantRecord) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO variants (src, width, format, fingerprint, height, file, size, build_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Src, v.Width, v.Format, v.Fingerprint, v.Height, v.File, v.Size, v.BuildID)
	return err
}

// ListVariants returns every variant recorded for src ordered by width.
func (s *Store) ListVariants(src string) ([]VariantRecord, error) {
	rows, err := s.db.Query(`SELECT width, format, fingerprint, height, file, size, build_id FROM variants WHERE src = ? ORDER BY width, format`, src)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VariantRecord
	for rows.Next() {
		v := VariantRecord{Src: src}
		if err := rows.Scan(&v.Width, &v.Format, &v.Fingerprint, &v.Height, &v.File, &v.Size, &v.BuildID); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteVariants forgets every variant of src.
func (s *Store) DeleteVariants(src string) error {
	_, err := s.db.Exec(`DELETE FROM variants WHERE src = ?`, src)
	return err
}

// RecordBuild stores a build summary.
func (s *Store) RecordBuild(b BuildRecord) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO builds (id, environment, started_at, duration_ms, pages, assets, bytes, images_encoded, images_reused, warnings) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Environment, b.StartedAt.UTC().Format(startedLayout), b.Duration.Milliseconds(),
		b.Pages, b.Assets, b.Bytes, b.ImagesEncoded, b.ImagesReused, b.Warnings)
	return err
}

// ListBuilds returns up to limit builds, newest first.
func (s *Store) ListBuilds(limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`SELECT id, environment, started_at, duration_ms, pages, assets, bytes, images_encoded, images_reused, warnings FROM builds ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var b BuildRecord
		var started string
		var ms int64
		if err := rows.Scan(&b.ID, &b.Environment, &started, &ms, &b.Pages, &b.Assets, &b.Bytes, &b.ImagesEncoded, &b.ImagesReused, &b.Warnings); err != nil {
			return nil, err
		}
		b.StartedAt, _ = time.Parse(startedLayout, started)
		b.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, b)
	}
	return out, rows.Err()
}
