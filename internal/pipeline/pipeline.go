package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deckhound/deckhound/internal/extract"
	"github.com/deckhound/deckhound/internal/fingerprint"
	"github.com/deckhound/deckhound/internal/storage"
)

// State is a document's position in the indexing state machine.
type State string

const (
	StateDiscovered     State = "discovered"
	StateHashChecked    State = "hash_checked"
	StateSkipped        State = "skipped"
	StateExtracting     State = "extracting"
	StateFingerprinting State = "fingerprinting"
	StatePersisting     State = "persisting"
	StateIndexed        State = "indexed"
	StateFailed         State = "failed"
)

// Result records the terminal state of one document.
type Result struct {
	Path       string
	State      State
	Hash       string
	DocumentID int64
	SlideCount int
	Err        error
}

// Statistics summarises an indexing run.
type Statistics struct {
	DocumentsIndexed int
	DocumentsSkipped int
	DocumentsFailed  int
	SlidesIndexed    int
	Duration         time.Duration
	Results          []Result
	ErrorMessages    []string
}

// Config contains configuration for an indexing run.
type Config struct {
	// Workers sets the number of documents extracted and fingerprinted
	// concurrently. Commits are always serialized. Default 1 (strictly
	// sequential).
	Workers int
}

// Pipeline orchestrates discovery, dedup, extraction, fingerprinting and
// persistence. One document failing never aborts the batch; its hash is not
// recorded, so it is retried on the next run.
type Pipeline struct {
	store        storage.Storage
	hires        *storage.HiresStore
	newExtractor func() extract.Extractor
	log          *slog.Logger
}

// New creates a pipeline. newExtractor is called once per in-flight
// document, so each concurrently processed document gets an exclusive
// extractor instance. hires may be nil to keep hi-res renders out of the
// index entirely.
func New(store storage.Storage, hires *storage.HiresStore, newExtractor func() extract.Extractor, log *slog.Logger) *Pipeline {
	return &Pipeline{
		store:        store,
		hires:        hires,
		newExtractor: newExtractor,
		log:          log,
	}
}

// Run indexes every candidate document reachable from the given file and
// directory arguments. It returns an error only for whole-run failures
// (store unavailable, run cancelled); per-document failures land in the
// returned Statistics.
func (p *Pipeline) Run(ctx context.Context, args []string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{Workers: 1}
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	files := discoverDocuments(args, p.log)
	p.log.Info("discovered candidate documents", "count", len(files))

	known, err := p.store.KnownHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hashes: %w", err)
	}
	p.log.Info("library knows of previously indexed documents", "count", len(known))

	stats := &Statistics{}
	var mu sync.Mutex // guards known, stats, and commit serialization

	if workers == 1 {
		extractor := p.newExtractor()
		for _, path := range files {
			// The run may be aborted between documents; a document's
			// own transaction always completes or rolls back fully.
			if err := ctx.Err(); err != nil {
				stats.Duration = time.Since(start)
				return stats, err
			}
			res := p.processDocument(ctx, extractor, path, known, &mu)
			record(stats, res, &mu)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, path := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := p.processDocument(gctx, p.newExtractor(), path, known, &mu)
				record(stats, res, &mu)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// processDocument walks one document through the state machine. The returned
// Result is terminal: Skipped, Indexed, or Failed.
func (p *Pipeline) processDocument(ctx context.Context, extractor extract.Extractor, docPath string, known map[string]struct{}, mu *sync.Mutex) Result {
	res := Result{Path: docPath, State: StateDiscovered}
	log := p.log.With("path", docPath)
	log.Info("processing document")

	hash, err := hashFile(docPath)
	if err != nil {
		log.Warn("hashing failed", "error", err)
		return fail(res, err)
	}
	res.Hash = hash
	res.State = StateHashChecked

	mu.Lock()
	_, dup := known[hash]
	mu.Unlock()
	if dup {
		log.Info("skipping duplicate content")
		res.State = StateSkipped
		return res
	}

	res.State = StateExtracting
	records, err := extractor.ExtractSlides(ctx, docPath)
	if err != nil {
		log.Warn("extraction failed", "error", err)
		return fail(res, err)
	}

	res.State = StateFingerprinting
	slides := make([]*storage.Slide, 0, len(records))
	for i := range records {
		rec := &records[i]
		slide := &storage.Slide{
			Ordinal:  rec.Ordinal,
			Text:     rec.Text(),
			TextOnly: rec.TextOnly,
		}
		if rec.Thumbnail != nil {
			slide.Fingerprint = fingerprint.Average(rec.Thumbnail)
			thumb, err := encodePNG(rec)
			if err != nil {
				log.Warn("thumbnail encoding failed", "ordinal", rec.Ordinal, "error", err)
				return fail(res, err)
			}
			slide.Thumbnail = thumb
		}
		slides = append(slides, slide)
	}

	res.State = StatePersisting

	// Re-check under the lock: a byte-identical document processed
	// concurrently must not also commit. The known set is updated before
	// the lock is released, so later duplicates in the same run skip
	// without touching storage.
	mu.Lock()
	if _, dup := known[hash]; dup {
		mu.Unlock()
		log.Info("skipping duplicate content committed during this run")
		res.State = StateSkipped
		return res
	}
	documentID, err := p.store.CommitDocument(ctx, docPath, hash, slides)
	if err == nil {
		known[hash] = struct{}{}
	}
	mu.Unlock()

	if err != nil {
		log.Warn("persisting failed", "error", err)
		return fail(res, err)
	}
	res.DocumentID = documentID
	res.SlideCount = len(slides)

	// Hi-res renders are auxiliary storage: a write failure degrades the
	// index but does not fail the document.
	if p.hires != nil {
		for i := range records {
			rec := &records[i]
			if rec.Hires == nil {
				continue
			}
			if err := p.hires.Write(documentID, rec.Ordinal, rec.Hires); err != nil {
				log.Warn("hires write failed", "ordinal", rec.Ordinal, "error", err)
			}
		}
	}

	res.State = StateIndexed
	log.Info("indexed document", "document_id", documentID, "slides", len(slides))
	return res
}

func fail(res Result, err error) Result {
	res.State = StateFailed
	res.Err = err
	return res
}

func record(stats *Statistics, res Result, mu *sync.Mutex) {
	mu.Lock()
	defer mu.Unlock()

	stats.Results = append(stats.Results, res)
	switch res.State {
	case StateIndexed:
		stats.DocumentsIndexed++
		stats.SlidesIndexed += res.SlideCount
	case StateSkipped:
		stats.DocumentsSkipped++
	case StateFailed:
		stats.DocumentsFailed++
		stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", res.Path, res.Err))
	}
}

func encodePNG(rec *extract.SlideRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, rec.Thumbnail); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
