package embedding

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// NullEmbedder is the degraded mode when no embedding server is
// configured: it reports one whole-image face with a zero embedding of
// Dim floats. Zero vectors cluster together, so this keeps the pipeline
// functional without pretending to recognize anyone.
type NullEmbedder struct {
	Dim int
}

// NewNullEmbedder creates the fallback embedder. Non-positive dim falls
// back to DefaultDim.
func NewNullEmbedder(dim int) *NullEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &NullEmbedder{Dim: dim}
}

func (e *NullEmbedder) Name() string {
	return "null"
}

// DetectFaces returns a single detection covering the whole image with a
// zero-vector embedding. Undecodable images yield an empty result, not
// an error.
func (e *NullEmbedder) DetectFaces(ctx context.Context, imageData []byte) ([]Detection, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, nil
	}

	return []Detection{
		{
			Box:       [4]int{0, 0, cfg.Width, cfg.Height},
			Embedding: make([]float32, e.Dim),
			DetScore:  0,
		},
	}, nil
}
