// Package cluster groups face embeddings across photos into identity
// clusters and derives the per-cluster photo groupings used for browsing.
package cluster

import (
	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// Default clustering parameters, tuned for 128-dim FaceNet embeddings.
const (
	DefaultEps        = 0.5
	DefaultMinSamples = 3
)

// FaceClusterer assigns an integer cluster label to each embedding.
// Labels must be deterministic for identical input; -1 means noise.
type FaceClusterer interface {
	Name() string
	Labels(embeddings [][]float32) ([]int, error)
}

// Faces runs the clusterer over every face embedding across all records
// and writes the resulting cluster id back onto each observation.
// Embeddings are collected in encounter order (record order, then face
// order within a record). Faces without an embedding are skipped and
// never receive a cluster id. With no embeddings present this is a no-op.
func Faces(records []*organizer.PhotoRecord, clusterer FaceClusterer) error {
	var embeddings [][]float32
	var faces []*organizer.FaceObservation
	for _, rec := range records {
		for i := range rec.Faces {
			face := &rec.Faces[i]
			if len(face.Embedding) == 0 {
				continue
			}
			embeddings = append(embeddings, face.Embedding)
			faces = append(faces, face)
		}
	}

	if len(embeddings) == 0 {
		return nil
	}

	labels, err := clusterer.Labels(embeddings)
	if err != nil {
		return err
	}

	for i, face := range faces {
		id := labels[i]
		face.ClusterID = &id
	}
	return nil
}

// GroupByFace groups records by the cluster ids of their faces. A record
// appears once per distinct cluster id among its faces, so a photo with
// faces from two clusters is listed under both. Order within each group
// is first-seen record order. Faces without a cluster id are ignored.
func GroupByFace(records []*organizer.PhotoRecord) map[int][]*organizer.PhotoRecord {
	groups := make(map[int][]*organizer.PhotoRecord)
	for _, rec := range records {
		seen := make(map[int]bool)
		for i := range rec.Faces {
			face := &rec.Faces[i]
			if face.ClusterID == nil || seen[*face.ClusterID] {
				continue
			}
			groups[*face.ClusterID] = append(groups[*face.ClusterID], rec)
			seen[*face.ClusterID] = true
		}
	}
	return groups
}
