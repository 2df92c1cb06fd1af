package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "photo.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_UpsertAndGetPhoto(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cid := 3
	rec := &organizer.PhotoRecord{
		Path:     "/photos/img.jpg",
		Exif:     organizer.Exif{Timestamp: "2023:01:01 10:00:00", Camera: "Canon EOS"},
		Category: organizer.CategoryOther,
		Faces: []organizer.FaceObservation{
			{Box: [4]int{1, 2, 3, 4}, Embedding: []float32{0.5, 0.25}, ClusterID: &cid},
		},
		City: "Prague",
	}

	if err := s.UpsertPhotos(ctx, []*organizer.PhotoRecord{rec}); err != nil {
		t.Fatalf("UpsertPhotos failed: %v", err)
	}

	got, err := s.GetPhoto(ctx, "/photos/img.jpg")
	if err != nil {
		t.Fatalf("GetPhoto failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Exif.Timestamp != rec.Exif.Timestamp {
		t.Errorf("expected timestamp %q, got %q", rec.Exif.Timestamp, got.Exif.Timestamp)
	}
	if len(got.Faces) != 1 || got.Faces[0].ClusterID == nil || *got.Faces[0].ClusterID != 3 {
		t.Errorf("face cluster id did not round-trip: %+v", got.Faces)
	}
	if got.City != "Prague" {
		t.Errorf("expected city Prague, got %q", got.City)
	}
}

func TestStore_UpsertReplacesByPath(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := &organizer.PhotoRecord{Path: "/p.jpg", Category: organizer.CategoryOther}
	second := &organizer.PhotoRecord{Path: "/p.jpg", Category: organizer.CategoryNature}

	if err := s.UpsertPhotos(ctx, []*organizer.PhotoRecord{first}); err != nil {
		t.Fatalf("UpsertPhotos failed: %v", err)
	}
	if err := s.UpsertPhotos(ctx, []*organizer.PhotoRecord{second}); err != nil {
		t.Fatalf("UpsertPhotos failed: %v", err)
	}

	count, err := s.CountPhotos(ctx)
	if err != nil {
		t.Fatalf("CountPhotos failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record after upsert, got %d", count)
	}

	got, err := s.GetPhoto(ctx, "/p.jpg")
	if err != nil {
		t.Fatalf("GetPhoto failed: %v", err)
	}
	if got.Category != organizer.CategoryNature {
		t.Errorf("expected replaced category nature, got %q", got.Category)
	}
}

func TestStore_GetPhotoAbsent(t *testing.T) {
	s := testStore(t)

	got, err := s.GetPhoto(context.Background(), "/missing.jpg")
	if err != nil {
		t.Fatalf("GetPhoto failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing path, got %+v", got)
	}
}

func TestStore_ListPhotos(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	records := []*organizer.PhotoRecord{
		{Path: "/b.jpg", Category: organizer.CategoryOther},
		{Path: "/a.jpg", Category: organizer.CategoryOther},
	}
	if err := s.UpsertPhotos(ctx, records); err != nil {
		t.Fatalf("UpsertPhotos failed: %v", err)
	}

	got, err := s.ListPhotos(ctx)
	if err != nil {
		t.Fatalf("ListPhotos failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Path != "/a.jpg" || got[1].Path != "/b.jpg" {
		t.Errorf("expected path order [/a.jpg /b.jpg], got [%s %s]", got[0].Path, got[1].Path)
	}
}

func TestStore_FaceLabelRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SetFaceLabel(ctx, 5, "Alice"); err != nil {
		t.Fatalf("SetFaceLabel failed: %v", err)
	}

	name, ok, err := s.GetFaceLabel(ctx, 5)
	if err != nil {
		t.Fatalf("GetFaceLabel failed: %v", err)
	}
	if !ok || name != "Alice" {
		t.Errorf("expected (Alice, true), got (%q, %v)", name, ok)
	}

	// Last write wins.
	if err := s.SetFaceLabel(ctx, 5, "Bob"); err != nil {
		t.Fatalf("SetFaceLabel failed: %v", err)
	}
	name, ok, err = s.GetFaceLabel(ctx, 5)
	if err != nil {
		t.Fatalf("GetFaceLabel failed: %v", err)
	}
	if !ok || name != "Bob" {
		t.Errorf("expected (Bob, true), got (%q, %v)", name, ok)
	}
}

func TestStore_GetFaceLabelAbsent(t *testing.T) {
	s := testStore(t)

	name, ok, err := s.GetFaceLabel(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetFaceLabel failed: %v", err)
	}
	if ok || name != "" {
		t.Errorf("expected absent label, got (%q, %v)", name, ok)
	}
}

func TestStore_LabelsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.SetFaceLabel(ctx, 1, "Alice"); err != nil {
		t.Fatalf("SetFaceLabel failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	name, ok, err := s.GetFaceLabel(ctx, 1)
	if err != nil {
		t.Fatalf("GetFaceLabel failed: %v", err)
	}
	if !ok || name != "Alice" {
		t.Errorf("expected label to survive reopen, got (%q, %v)", name, ok)
	}
}

func TestStore_FindFaceLabels(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SetFaceLabel(ctx, 1, "Jan Novák"); err != nil {
		t.Fatalf("SetFaceLabel failed: %v", err)
	}
	if err := s.SetFaceLabel(ctx, 2, "Alice"); err != nil {
		t.Fatalf("SetFaceLabel failed: %v", err)
	}

	matches, err := s.FindFaceLabels(ctx, "jan-novak")
	if err != nil {
		t.Fatalf("FindFaceLabels failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ClusterID != 1 {
		t.Errorf("expected cluster 1 for jan-novak, got %+v", matches)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jan Novák", "jan novak"},
		{"jan-novak", "jan novak"},
		{"JIŘÍ", "jiri"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
