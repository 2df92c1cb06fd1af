package organizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type stubSource struct {
	mu     sync.Mutex
	failOn string
}

func (s *stubSource) ScanFile(ctx context.Context, path string) (*PhotoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == s.failOn {
		return nil, errors.New("unreadable file")
	}
	rec := &PhotoRecord{Path: path, Category: CategoryOther}
	if strings.HasPrefix(path, "face-") {
		rec.Faces = []FaceObservation{{Embedding: []float32{1, 0}}}
	}
	return rec, nil
}

type stubSink struct {
	mu      sync.Mutex
	records []*PhotoRecord
	err     error
}

func (s *stubSink) UpsertPhotos(ctx context.Context, records []*PhotoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	return s.err
}

type stubGrouper struct{}

func (stubGrouper) Name() string { return "stub" }
func (stubGrouper) Labels(embeddings [][]float32) ([]int, error) {
	labels := make([]int, len(embeddings))
	return labels, nil
}

func TestRunPreservesInputOrder(t *testing.T) {
	paths := []string{"c.jpg", "a.jpg", "b.jpg"}
	o := &Organizer{Source: &stubSource{}}

	result, err := o.Run(context.Background(), paths, Options{Concurrency: 3})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	for i, p := range paths {
		if result.Records[i].Path != p {
			t.Errorf("record %d: expected %s, got %s", i, p, result.Records[i].Path)
		}
	}
	if result.RunID == "" {
		t.Error("expected non-empty run ID")
	}
}

func TestRunSkipsFailedFiles(t *testing.T) {
	o := &Organizer{Source: &stubSource{failOn: "bad.jpg"}}

	result, err := o.Run(context.Background(), []string{"a.jpg", "bad.jpg", "b.jpg"}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(result.Records))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestRunClustersAndSaves(t *testing.T) {
	sink := &stubSink{}
	clustered := false
	o := &Organizer{
		Source:  &stubSource{},
		Grouper: stubGrouper{},
		ClusterFunc: func(records []*PhotoRecord, grouper FaceGrouper) error {
			clustered = true
			return nil
		},
		Sink: sink,
	}

	result, err := o.Run(context.Background(), []string{"face-a.jpg", "face-b.jpg"}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !clustered {
		t.Error("expected cluster stage to run")
	}
	if result.FaceCount != 2 {
		t.Errorf("expected 2 faces, got %d", result.FaceCount)
	}
	if len(sink.records) != 2 {
		t.Errorf("expected 2 saved records, got %d", len(sink.records))
	}
}

func TestRunSinkFailure(t *testing.T) {
	o := &Organizer{
		Source: &stubSource{},
		Sink:   &stubSink{err: errors.New("disk full")},
	}

	if _, err := o.Run(context.Background(), []string{"a.jpg"}, Options{}); err == nil {
		t.Error("expected error when sink fails")
	}
}

func TestRunReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var phases []string
	o := &Organizer{Source: &stubSource{}}

	_, err := o.Run(context.Background(), []string{"a.jpg", "b.jpg"}, Options{
		OnProgress: func(info ProgressInfo) {
			mu.Lock()
			phases = append(phases, info.Phase)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(phases) != 2 {
		t.Errorf("expected 2 progress callbacks, got %d", len(phases))
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &Organizer{Source: &stubSource{}}
	if _, err := o.Run(ctx, []string{"a.jpg"}, Options{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
