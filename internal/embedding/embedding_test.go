package embedding

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_DetectFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed/face" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("expected file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"faces_count": 2,
			"faces": [
				{"face_index": 0, "dim": 4, "embedding": [0.1, 0.2, 0.3, 0.4], "bbox": [10.0, 20.0, 110.0, 120.0], "det_score": 0.98},
				{"face_index": 1, "dim": 4, "embedding": [0.5, 0.6, 0.7, 0.8], "bbox": [200.0, 30.0, 300.0, 130.0], "det_score": 0.91}
			],
			"model": "facenet"
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	detections, err := c.DetectFaces(context.Background(), []byte("fake image data"))
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}

	if len(detections) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(detections))
	}
	if detections[0].Box != [4]int{10, 20, 110, 120} {
		t.Errorf("unexpected box for first face: %v", detections[0].Box)
	}
	if len(detections[0].Embedding) != 4 || detections[0].Embedding[0] != 0.1 {
		t.Errorf("unexpected embedding for first face: %v", detections[0].Embedding)
	}
	if detections[1].DetScore != 0.91 {
		t.Errorf("unexpected det_score for second face: %g", detections[1].DetScore)
	}
}

func TestClient_DetectFaces_NoFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces_count": 0, "faces": [], "model": "facenet"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	detections, err := c.DetectFaces(context.Background(), []byte("fake image data"))
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("expected no detections, got %d", len(detections))
	}
}

func TestClient_DetectFaces_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if _, err := c.DetectFaces(context.Background(), []byte("x")); err == nil {
		t.Error("expected error on server failure")
	}
}

func TestNullEmbedder_WholeImageZeroVector(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	e := NewNullEmbedder(128)
	detections, err := e.DetectFaces(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}

	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	if detections[0].Box != [4]int{0, 0, 64, 48} {
		t.Errorf("expected whole-image box, got %v", detections[0].Box)
	}
	if len(detections[0].Embedding) != 128 {
		t.Fatalf("expected 128-dim embedding, got %d", len(detections[0].Embedding))
	}
	for i, v := range detections[0].Embedding {
		if v != 0 {
			t.Fatalf("expected zero vector, found %g at index %d", v, i)
		}
	}
}

func TestNullEmbedder_UndecodableImage(t *testing.T) {
	e := NewNullEmbedder(0)
	detections, err := e.DetectFaces(context.Background(), []byte("not an image"))
	if err != nil {
		t.Fatalf("expected no error for undecodable data, got %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("expected no detections, got %d", len(detections))
	}
}

func TestNewNullEmbedder_DefaultDim(t *testing.T) {
	e := NewNullEmbedder(-5)
	if e.Dim != DefaultDim {
		t.Errorf("expected default dim %d, got %d", DefaultDim, e.Dim)
	}
}
