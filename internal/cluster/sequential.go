package cluster

// SequentialClusterer is the degraded-mode clusterer used when no real
// clustering backend is configured. Every face gets a unique sequential
// id in encounter order: no false merges, but no real grouping either.
type SequentialClusterer struct{}

func (SequentialClusterer) Name() string {
	return "sequential"
}

func (SequentialClusterer) Labels(embeddings [][]float32) ([]int, error) {
	labels := make([]int, len(embeddings))
	for i := range labels {
		labels[i] = i
	}
	return labels, nil
}
