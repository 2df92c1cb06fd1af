package organizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// PhotoSource produces photo records from files on disk.
type PhotoSource interface {
	ScanFile(ctx context.Context, path string) (*PhotoRecord, error)
}

// FaceGrouper assigns cluster IDs to the faces of the given records.
type FaceGrouper interface {
	Name() string
	Labels(embeddings [][]float32) ([]int, error)
}

// RecordSink persists scanned records.
type RecordSink interface {
	UpsertPhotos(ctx context.Context, records []*PhotoRecord) error
}

// ProgressInfo reports pipeline progress for callbacks.
type ProgressInfo struct {
	Phase   string // "scanning", "clustering", "saving"
	Current int
	Total   int
	Path    string
}

// Options tunes a pipeline run.
type Options struct {
	Concurrency int                // parallel file scans, defaults to 4
	ShowBar     bool               // render a terminal progress bar
	OnProgress  func(ProgressInfo) // optional progress callback
}

// Result summarizes a finished pipeline run.
type Result struct {
	RunID     string
	Records   []*PhotoRecord
	FaceCount int
	Errors    []error
}

// Organizer orchestrates scan, face grouping and persistence.
// ClusterFunc and Sink may be nil to skip those stages.
type Organizer struct {
	Source      PhotoSource
	ClusterFunc func(records []*PhotoRecord, grouper FaceGrouper) error
	Grouper     FaceGrouper
	Sink        RecordSink
}

type scanResult struct {
	index int
	rec   *PhotoRecord
	err   error
}

// Run scans the given files and produces records in input order. A file
// that fails to scan is reported in Result.Errors and skipped; the run
// only fails outright when persistence fails or the context ends.
func (o *Organizer) Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	result := &Result{
		RunID: uuid.NewString(),
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var bar *progressbar.ProgressBar
	if opts.ShowBar {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Scanning photos"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	resultsChan := make(chan scanResult, len(paths))
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var progressMu sync.Mutex
	var scanned int

	reportProgress := func(path string) {
		progressMu.Lock()
		scanned++
		current := scanned
		progressMu.Unlock()
		if bar != nil {
			_ = bar.Add(1)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressInfo{
				Phase:   "scanning",
				Current: current,
				Total:   len(paths),
				Path:    path,
			})
		}
	}

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				resultsChan <- scanResult{index: idx, err: ctx.Err()}
				reportProgress(p)
				return
			}

			rec, err := o.Source.ScanFile(ctx, p)
			resultsChan <- scanResult{index: idx, rec: rec, err: err}
			reportProgress(p)
		}(i, path)
	}

	wg.Wait()
	close(resultsChan)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ordered := make([]*PhotoRecord, len(paths))
	for res := range resultsChan {
		if res.err != nil {
			result.Errors = append(result.Errors, res.err)
			continue
		}
		ordered[res.index] = res.rec
	}
	for _, rec := range ordered {
		if rec == nil {
			continue
		}
		result.Records = append(result.Records, rec)
		result.FaceCount += len(rec.Faces)
	}

	if o.ClusterFunc != nil && o.Grouper != nil {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressInfo{Phase: "clustering", Total: result.FaceCount})
		}
		if err := o.ClusterFunc(result.Records, o.Grouper); err != nil {
			return nil, fmt.Errorf("failed to cluster faces: %w", err)
		}
	}

	if o.Sink != nil {
		if opts.OnProgress != nil {
			opts.OnProgress(ProgressInfo{Phase: "saving", Total: len(result.Records)})
		}
		if err := o.Sink.UpsertPhotos(ctx, result.Records); err != nil {
			return nil, fmt.Errorf("failed to save records: %w", err)
		}
	}

	return result, nil
}
