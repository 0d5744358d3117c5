package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidSlideSet is returned when a commit carries slides whose
	// ordinals are not a contiguous 1..N sequence
	ErrInvalidSlideSet = errors.New("slide ordinals are not contiguous from 1")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Cascading referential integrity depends on this pragma
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// KnownHashes returns every stored document hash as a set.
func (s *SQLiteStorage) KnownHashes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT hash FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to load known hashes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hashes := make(map[string]struct{})
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes[hash] = struct{}{}
	}
	return hashes, rows.Err()
}

// CommitDocument inserts the document and all its slides in one transaction.
func (s *SQLiteStorage) CommitDocument(ctx context.Context, path, hash string, slides []*Slide) (int64, error) {
	if err := validateSlideSet(slides); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		"INSERT INTO documents (path, hash, slide_count, created_at) VALUES (?, ?, ?, ?)",
		path, hash, len(slides), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert document %s: %w", path, err)
	}

	documentID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO slides (document_id, ordinal, fingerprint, thumbnail, text, text_only) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare slide insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, slide := range slides {
		result, err := stmt.ExecContext(ctx,
			documentID, slide.Ordinal, slide.Fingerprint, slide.Thumbnail, slide.Text, slide.TextOnly)
		if err != nil {
			return 0, fmt.Errorf("failed to insert slide %d of %s: %w", slide.Ordinal, path, err)
		}
		slide.ID, _ = result.LastInsertId()
		slide.DocumentID = documentID
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit document %s: %w", path, err)
	}
	return documentID, nil
}

// validateSlideSet checks that ordinals form a contiguous 1..N sequence.
func validateSlideSet(slides []*Slide) error {
	for i, slide := range slides {
		if slide.Ordinal != i+1 {
			return fmt.Errorf("%w: slide %d has ordinal %d", ErrInvalidSlideSet, i, slide.Ordinal)
		}
	}
	return nil
}

// Document operations

func (s *SQLiteStorage) GetDocument(ctx context.Context, documentID int64) (*Document, error) {
	return s.getDocument(ctx, "SELECT id, path, hash, slide_count, created_at FROM documents WHERE id = ?", documentID)
}

func (s *SQLiteStorage) GetDocumentByHash(ctx context.Context, hash string) (*Document, error) {
	return s.getDocument(ctx, "SELECT id, path, hash, slide_count, created_at FROM documents WHERE hash = ?", hash)
}

func (s *SQLiteStorage) getDocument(ctx context.Context, query string, arg any) (*Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&doc.ID, &doc.Path, &doc.Hash, &doc.SlideCount, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, path, hash, slide_count, created_at FROM documents ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*Document, 0)
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.Hash, &doc.SlideCount, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document; its slides cascade.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, documentID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID)
	return err
}

// Slide operations

const slideColumns = "id, document_id, ordinal, fingerprint, thumbnail, text, text_only"

func (s *SQLiteStorage) GetSlide(ctx context.Context, documentID int64, ordinal int) (*Slide, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+slideColumns+" FROM slides WHERE document_id = ? AND ordinal = ?",
		documentID, ordinal)
	slide, err := scanSlide(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return slide, err
}

func (s *SQLiteStorage) ListSlides(ctx context.Context, documentID int64) ([]*Slide, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+slideColumns+" FROM slides WHERE document_id = ? ORDER BY ordinal",
		documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	slides := make([]*Slide, 0)
	for rows.Next() {
		slide, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slide)
	}
	return slides, rows.Err()
}

// SearchSlides returns slides whose text contains the query, with their
// document paths. Plain substring match; ranking is out of scope.
func (s *SQLiteStorage) SearchSlides(ctx context.Context, query string, limit int) ([]*SlideMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.document_id, s.ordinal, s.fingerprint, s.thumbnail, s.text, s.text_only, d.path
		FROM slides s
		JOIN documents d ON d.id = s.document_id
		WHERE s.text LIKE ?
		ORDER BY d.path, s.ordinal
		LIMIT ?`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]*SlideMatch, 0)
	for rows.Next() {
		var slide Slide
		var text, fingerprint sql.NullString
		var path string
		err := rows.Scan(&slide.ID, &slide.DocumentID, &slide.Ordinal,
			&fingerprint, &slide.Thumbnail, &text, &slide.TextOnly, &path)
		if err != nil {
			return nil, err
		}
		slide.Fingerprint = fingerprint.String
		slide.Text = text.String
		matches = append(matches, &SlideMatch{Slide: &slide, DocumentPath: path})
	}
	return matches, rows.Err()
}

// ListFingerprints returns the fingerprint of every slide in the index.
func (s *SQLiteStorage) ListFingerprints(ctx context.Context) ([]*FingerprintRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.document_id, s.ordinal, s.fingerprint, d.path
		FROM slides s
		JOIN documents d ON d.id = s.document_id
		WHERE s.fingerprint IS NOT NULL AND s.fingerprint != ''
		ORDER BY s.document_id, s.ordinal`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	fps := make([]*FingerprintRow, 0)
	for rows.Next() {
		var fp FingerprintRow
		if err := rows.Scan(&fp.DocumentID, &fp.Ordinal, &fp.Fingerprint, &fp.DocumentPath); err != nil {
			return nil, err
		}
		fps = append(fps, &fp)
	}
	return fps, rows.Err()
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	var status Status
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&status.DocumentCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM slides").Scan(&status.SlideCount); err != nil {
		return nil, err
	}
	if s.dbPath != "" && s.dbPath != ":memory:" {
		if info, err := os.Stat(s.dbPath); err == nil {
			status.IndexSizeMB = float64(info.Size()) / (1024 * 1024)
		}
	}
	return &status, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlide(row rowScanner) (*Slide, error) {
	var slide Slide
	var text, fingerprint sql.NullString
	err := row.Scan(&slide.ID, &slide.DocumentID, &slide.Ordinal,
		&fingerprint, &slide.Thumbnail, &text, &slide.TextOnly)
	if err != nil {
		return nil, err
	}
	slide.Fingerprint = fingerprint.String
	slide.Text = text.String
	return &slide, nil
}
