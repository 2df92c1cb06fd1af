// Package index maintains an in-memory HNSW graph over face embeddings
// for approximate nearest neighbor lookups. Clustering stays exact; the
// index only serves similarity queries.
package index

import (
	"errors"
	"sync"

	"github.com/coder/hnsw"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// maxNeighbors (M) is the maximum number of neighbors per HNSW node.
const maxNeighbors = 16

// FaceRef points back to a single detected face within a photo record.
type FaceRef struct {
	Path      string `json:"path"`
	FaceIndex int    `json:"face_index"`
	ClusterID *int   `json:"cluster_id,omitempty"`
}

// Match is a nearest neighbor search result.
type Match struct {
	Ref      FaceRef `json:"face"`
	Distance float64 `json:"distance"`
}

// FaceIndex wraps the HNSW graph for face embedding search.
type FaceIndex struct {
	graph    *hnsw.Graph[int64]
	idToFace map[int64]FaceRef
	idToVec  map[int64][]float32
	mu       sync.RWMutex
}

// New creates an empty face index.
func New() *FaceIndex {
	return &FaceIndex{
		idToFace: make(map[int64]FaceRef),
		idToVec:  make(map[int64][]float32),
	}
}

// BuildFromRecords rebuilds the index from scratch. Faces without an
// embedding are skipped. Node IDs are assigned in record order, so the
// n-th indexed face of a record keeps a stable position across builds
// of the same record set.
func (fi *FaceIndex) BuildFromRecords(records []*organizer.PhotoRecord) error {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	g := hnsw.NewGraph[int64]()
	g.M = maxNeighbors
	g.Ml = 1.0 / float64(maxNeighbors)
	g.Distance = hnsw.CosineDistance

	fi.idToFace = make(map[int64]FaceRef)
	fi.idToVec = make(map[int64][]float32)

	var id int64
	for _, rec := range records {
		for i := range rec.Faces {
			face := &rec.Faces[i]
			if len(face.Embedding) == 0 {
				continue
			}
			g.Add(hnsw.MakeNode(id, face.Embedding))
			fi.idToFace[id] = FaceRef{
				Path:      rec.Path,
				FaceIndex: i,
				ClusterID: face.ClusterID,
			}
			fi.idToVec[id] = face.Embedding
			id++
		}
	}

	if id == 0 {
		fi.graph = nil
		return nil
	}

	fi.graph = g
	return nil
}

// Search finds the k nearest faces to the query embedding.
func (fi *FaceIndex) Search(query []float32, k int) ([]Match, error) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	if fi.graph == nil {
		return nil, errors.New("face index is empty")
	}
	if k < 1 {
		return nil, errors.New("k must be positive")
	}

	neighbors := fi.graph.Search(query, k)

	matches := make([]Match, 0, len(neighbors))
	for _, n := range neighbors {
		ref, ok := fi.idToFace[n.Key]
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Ref:      ref,
			Distance: CosineDistance(query, n.Value),
		})
	}

	return matches, nil
}

// SimilarTo finds the k nearest neighbors of an already indexed face,
// excluding the face itself.
func (fi *FaceIndex) SimilarTo(id int64, k int) ([]Match, error) {
	fi.mu.RLock()
	query, ok := fi.idToVec[id]
	fi.mu.RUnlock()
	if !ok {
		return nil, errors.New("face not indexed")
	}

	matches, err := fi.Search(query, k+1)
	if err != nil {
		return nil, err
	}

	out := make([]Match, 0, k)
	self, _ := fi.Lookup(id)
	for _, m := range matches {
		if m.Ref == self {
			continue
		}
		out = append(out, m)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// Lookup returns the face reference for an indexed node ID.
func (fi *FaceIndex) Lookup(id int64) (FaceRef, bool) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	ref, ok := fi.idToFace[id]
	return ref, ok
}

// Count returns the number of indexed faces.
func (fi *FaceIndex) Count() int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return len(fi.idToFace)
}
