// Package ai classifies photo content into coarse categories using a
// vision model backend, with an offline heuristic fallback.
package ai

import (
	"context"
	"strings"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// Classifier assigns a coarse content category to an image.
type Classifier interface {
	Name() string
	ClassifyImage(ctx context.Context, imageData []byte) (organizer.Category, error)
}

// categoryKeywords maps model output labels to categories. Checked in a
// fixed order so classification is deterministic for a given label.
var categoryKeywords = []struct {
	category organizer.Category
	keywords []string
}{
	{organizer.CategorySelfie, []string{"person", "face", "portrait", "selfie"}},
	{organizer.CategoryDocument, []string{"document", "binder", "envelope", "notebook"}},
	{organizer.CategoryScreenshot, []string{"screen", "monitor", "web site", "website", "webpage", "screenshot"}},
	{organizer.CategoryNature, []string{"tree", "flower", "mountain", "valley", "lake", "ocean", "sea", "forest", "nature"}},
}

// MapLabelToCategory maps a free-form model label to one of the fixed
// categories, defaulting to "other".
func MapLabelToCategory(label string) organizer.Category {
	label = strings.ToLower(label)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(label, kw) {
				return entry.category
			}
		}
	}
	return organizer.CategoryOther
}
