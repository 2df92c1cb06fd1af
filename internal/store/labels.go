package store

import (
	"context"
	"database/sql"
	"fmt"
)

// FaceLabel is a persistent name for a face cluster.
type FaceLabel struct {
	ClusterID int    `json:"cluster_id"`
	Name      string `json:"name"`
}

// SetFaceLabel assigns a display name to a cluster id. Last write wins.
func (s *Store) SetFaceLabel(ctx context.Context, clusterID int, name string) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO face_labels(cluster_id, name) VALUES (?, ?)",
		clusterID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to set face label: %w", err)
	}
	return nil
}

// GetFaceLabel returns the name for a cluster id. The bool reports
// whether a label exists; an unknown id is not an error.
func (s *Store) GetFaceLabel(ctx context.Context, clusterID int) (string, bool, error) {
	var name string
	err := s.conn.QueryRowContext(ctx,
		"SELECT name FROM face_labels WHERE cluster_id = ?", clusterID,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get face label: %w", err)
	}
	return name, true, nil
}

// ListFaceLabels returns all labels ordered by cluster id.
func (s *Store) ListFaceLabels(ctx context.Context) ([]FaceLabel, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT cluster_id, name FROM face_labels ORDER BY cluster_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query face labels: %w", err)
	}
	defer rows.Close()

	var labels []FaceLabel
	for rows.Next() {
		var label FaceLabel
		if err := rows.Scan(&label.ClusterID, &label.Name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// FindFaceLabels returns the labels whose name matches after
// normalization (lowercase, no diacritics, dashes to spaces), so
// "jan-novak" finds "Jan Novák".
func (s *Store) FindFaceLabels(ctx context.Context, name string) ([]FaceLabel, error) {
	all, err := s.ListFaceLabels(ctx)
	if err != nil {
		return nil, err
	}

	want := NormalizeName(name)
	var matches []FaceLabel
	for _, label := range all {
		if NormalizeName(label.Name) == want {
			matches = append(matches, label)
		}
	}
	return matches, nil
}
