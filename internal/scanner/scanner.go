// Package scanner walks photo directories and turns image files into
// photo records: EXIF metadata, content category, detected faces,
// resolved location and extracted text.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/kozaktomas/photo-organizer/internal/ai"
	"github.com/kozaktomas/photo-organizer/internal/embedding"
	"github.com/kozaktomas/photo-organizer/internal/geo"
	"github.com/kozaktomas/photo-organizer/internal/ocr"
	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// timestampLayout is the EXIF date format carried through the pipeline.
const timestampLayout = "2006:01:02 15:04:05"

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Scanner builds photo records from files on disk. Any collaborator
// may be nil, in which case its step is skipped.
type Scanner struct {
	Classifier ai.Classifier
	Embedder   embedding.FaceEmbedder
	Geocoder   geo.Geocoder
	Extractor  ocr.TextExtractor
}

// ListImages returns the image files under root, sorted by path.
func ListImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

// ScanFile builds a record for one image. Missing EXIF data, a failing
// model call or an unresolvable location degrade the record instead of
// failing the scan; only an unreadable file is an error.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*organizer.PhotoRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rec := &organizer.PhotoRecord{
		Path:     path,
		Category: organizer.CategoryOther,
	}
	rec.Exif = extractExif(data)

	if s.Classifier != nil {
		category, err := s.Classifier.ClassifyImage(ctx, data)
		if err != nil {
			log.Printf("could not classify %s: %v", path, err)
		} else {
			rec.Category = category
		}
	}

	if s.Embedder != nil {
		detections, err := s.Embedder.DetectFaces(ctx, data)
		if err != nil {
			log.Printf("could not detect faces in %s: %v", path, err)
		} else {
			for _, d := range detections {
				rec.Faces = append(rec.Faces, organizer.FaceObservation{
					Box:       d.Box,
					Embedding: d.Embedding,
				})
			}
		}
	}

	if s.Geocoder != nil && rec.Exif.GPS != "" {
		lat, lon, ok := ParseGPS(rec.Exif.GPS)
		if ok {
			loc, err := s.Geocoder.Resolve(ctx, lat, lon)
			if err != nil {
				log.Printf("could not geocode %s: %v", path, err)
			} else {
				rec.City = loc.City
				rec.State = loc.State
				rec.Country = loc.Country
			}
		}
	}

	if s.Extractor != nil && wantsOCR(rec.Category) {
		text, err := s.Extractor.ExtractText(ctx, data)
		if err != nil {
			log.Printf("could not extract text from %s: %v", path, err)
		} else {
			rec.OCRText = text
		}
	}

	return rec, nil
}

// wantsOCR limits text extraction to categories where text is the
// point of the photo.
func wantsOCR(category organizer.Category) bool {
	return category == organizer.CategoryDocument || category == organizer.CategoryScreenshot
}

// extractExif decodes the EXIF block. Images without EXIF yield a zero
// value, which downstream grouping treats as missing metadata.
func extractExif(data []byte) organizer.Exif {
	var out organizer.Exif

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return out
	}

	if t, err := x.DateTime(); err == nil {
		out.Timestamp = t.Format(timestampLayout)
	}

	if lat, lon, err := x.LatLong(); err == nil {
		out.GPS = FormatGPS(lat, lon)
	}

	out.CameraMake = stringTag(x, exif.Make)
	out.CameraModel = stringTag(x, exif.Model)
	if out.CameraMake != "" || out.CameraModel != "" {
		out.Camera = strings.TrimSpace(out.CameraMake + " " + out.CameraModel)
	}

	return out
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// FormatGPS renders coordinates as the "lat,lon" string stored in
// photo metadata.
func FormatGPS(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// ParseGPS parses a "lat,lon" metadata string.
func ParseGPS(s string) (lat, lon float64, ok bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
