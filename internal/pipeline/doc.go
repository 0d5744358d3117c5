// Package pipeline coordinates the end-to-end ingestion of slide decks:
// discover -> dedup -> extract -> fingerprint -> persist.
//
// # State machine
//
// Each document moves through:
//
//	Discovered -> HashChecked -> (Skipped |
//	    Extracting -> Fingerprinting -> Persisting -> Indexed) | Failed
//
// HashChecked compares the content digest against the known-hash set loaded
// once per run; a match is a terminal Skipped. Any later step may fail the
// document: the error is recorded, the batch continues, and because the
// failed document's hash was never added to the set it is retried on the
// next run.
//
// # Exactly-once indexing
//
// The content hash is the sole dedup key. After a successful commit the hash
// is added to the in-memory set before the next document is considered, so
// byte-identical copies later in the same run skip without a storage query.
// All rows for one document are written in a single transaction; partial
// persistence is impossible.
//
// # Concurrency
//
// Documents are processed sequentially by default. Config.Workers > 1
// parallelises the extraction and fingerprinting stages behind an errgroup
// with a bounded limit; each in-flight document gets an exclusive extractor
// instance, commits stay serialized under a mutex, and the known-hash set is
// only touched under that same mutex. The run can be cancelled between
// documents via context; an in-progress transaction still completes or rolls
// back fully.
package pipeline
