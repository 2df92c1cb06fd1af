// Package embedding detects faces and computes face embeddings, either
// through an embedding server or with an offline fallback.
package embedding

import "context"

// DefaultDim is the embedding dimension of the reference FaceNet model.
const DefaultDim = 128

// Detection is a single detected face: bounding box in pixel
// coordinates, embedding vector and detector confidence.
type Detection struct {
	Box       [4]int    `json:"box"`
	Embedding []float32 `json:"embedding"`
	DetScore  float64   `json:"det_score"`
}

// FaceEmbedder detects faces in an image and computes an embedding for
// each. Implementations must not fail just because no model is
// available; that case is covered by NullEmbedder.
type FaceEmbedder interface {
	Name() string
	DetectFaces(ctx context.Context, imageData []byte) ([]Detection, error)
}
