// Package storage persists the slide index to SQLite.
//
// The index holds two tables: documents (one row per distinct source file,
// keyed by content hash) and slides (owned by their document with cascading
// referential integrity). All writes for one document happen in a single
// transaction through CommitDocument, so the store never holds a document
// with a partial slide set:
//
//	store, err := storage.NewSQLiteStorage("deckhound.db3")
//	id, err := store.CommitDocument(ctx, "/decks/q3.pptx", hash, slides)
//
// # Invariants
//
//   - hash is unique: two byte-identical files are never both indexed
//   - (document_id, ordinal) is unique, ordinals run 1..slide_count
//   - deleting a document cascades to its slides
//
// # Dedup support
//
// KnownHashes loads every stored hash once per run, letting the pipeline
// answer "already indexed?" with a map lookup instead of a query per file.
//
// # Image storage
//
// Thumbnails are PNG blobs inside the slide row. Hi-res renders go to a
// HiresStore directory as {documentID}_{ordinal}.png files to bound row
// size; the lookup contract (image for document id + ordinal) is the same
// either way.
//
// # Drivers
//
// Two SQLite drivers are supported behind build tags: modernc.org/sqlite
// (pure Go, the default) and github.com/mattn/go-sqlite3 (cgo, tag
// "cgosqlite"). See build_purego.go and build_cgo.go.
//
// # Migrations
//
// The schema is versioned; ApplyMigrations runs pending migrations in semver
// order and records each applied version in schema_version.
package storage
