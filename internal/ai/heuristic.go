package ai

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// HeuristicClassifier is the offline fallback: no model, just a cheap
// color heuristic. A mostly green image is probably nature; everything
// else is "other". Undecodable images are "other" too, never an error.
type HeuristicClassifier struct{}

func (HeuristicClassifier) Name() string {
	return "heuristic"
}

func (HeuristicClassifier) ClassifyImage(ctx context.Context, imageData []byte) (organizer.Category, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return organizer.CategoryOther, nil
	}

	// Downsample to 32x32 before summing channels.
	small := image.NewRGBA(image.Rect(0, 0, 32, 32))
	draw.BiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Over, nil)

	var reds, greens, blues uint64
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			r, g, b, _ := small.At(x, y).RGBA()
			reds += uint64(r)
			greens += uint64(g)
			blues += uint64(b)
		}
	}

	if greens > reds && greens > blues {
		return organizer.CategoryNature, nil
	}
	return organizer.CategoryOther, nil
}
