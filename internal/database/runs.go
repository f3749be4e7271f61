package database

import (
	"database/sql"
	"fmt"
	"time"

	"anchorvoxel/internal/models"
)

// RunInfo is the listing entry of a stored run
type RunInfo struct {
	ID        int64
	Source    string
	Objects   int
	Clusters  int
	CreatedAt time.Time
}

// SaveReport stores a report and returns the new run ID
func (db *DB) SaveReport(report *models.Report) (int64, error) {
	var runID int64
	err := db.ExecTx(func(tx *sql.Tx) error {
		s := report.Statistics
		result, err := tx.Exec(`
			INSERT INTO runs (
				source, width, height, depth, objects, clusters,
				total_voxels, mean_voxels, stddev_voxels, median_voxels,
				outline_voxels, closed_contours, open_contours, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, report.Source, report.Width, report.Height, report.Depth, s.Objects, s.Clusters,
			s.TotalVoxels, s.MeanVoxels, s.StdDevVoxels, s.MedianVoxels,
			s.OutlineVoxels, s.ClosedContours, s.OpenContours, time.Now())
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		runID, err = result.LastInsertId()
		if err != nil {
			return err
		}

		if err := insertObjects(tx, runID, report.Objects); err != nil {
			return err
		}
		return insertClusters(tx, runID, report.Clusters)
	})

	if err != nil {
		return 0, err
	}
	return runID, nil
}

func insertObjects(tx *sql.Tx, runID int64, objects []models.ObjectSummary) error {
	objectStmt, err := tx.Prepare(`
		INSERT INTO objects (
			run_id, object_id, cluster_id,
			corner_x, corner_y, corner_z, extent_x, extent_y, extent_z,
			voxels, outline_voxels, centroid_x, centroid_y, centroid_z,
			variance_1, variance_2, variance_3, nearest_object, nearest_distance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer objectStmt.Close()

	contourStmt, err := tx.Prepare(`
		INSERT INTO contours (run_id, object_id, z, points, closed)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer contourStmt.Close()

	for _, o := range objects {
		_, err := objectStmt.Exec(runID, o.ID, o.Cluster,
			o.Corner[0], o.Corner[1], o.Corner[2], o.Extent[0], o.Extent[1], o.Extent[2],
			o.Voxels, o.OutlineVoxels, o.Centroid[0], o.Centroid[1], o.Centroid[2],
			o.PrincipalVariances[0], o.PrincipalVariances[1], o.PrincipalVariances[2],
			o.NearestObject, o.NearestDistance)
		if err != nil {
			return fmt.Errorf("failed to insert object %d: %w", o.ID, err)
		}

		for _, c := range o.Contours {
			if _, err := contourStmt.Exec(runID, o.ID, c.Z, c.Points, c.Closed); err != nil {
				return fmt.Errorf("failed to insert contour of object %d: %w", o.ID, err)
			}
		}
	}
	return nil
}

func insertClusters(tx *sql.Tx, runID int64, clusters []models.ClusterSummary) error {
	for _, c := range clusters {
		_, err := tx.Exec(`
			INSERT INTO clusters (run_id, cluster_id, voxels, centroid_x, centroid_y, centroid_z)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, c.ID, c.Voxels, c.Centroid[0], c.Centroid[1], c.Centroid[2])
		if err != nil {
			return fmt.Errorf("failed to insert cluster %d: %w", c.ID, err)
		}

		for _, member := range c.Members {
			_, err := tx.Exec(`
				INSERT INTO cluster_members (run_id, cluster_id, object_id)
				VALUES (?, ?, ?)
			`, runID, c.ID, member)
			if err != nil {
				return fmt.Errorf("failed to insert member %d of cluster %d: %w", member, c.ID, err)
			}
		}
	}
	return nil
}

// GetReport rebuilds the report of a stored run. It returns an error
// wrapping sql.ErrNoRows for an unknown run.
func (db *DB) GetReport(runID int64) (*models.Report, error) {
	report := &models.Report{}
	s := &report.Statistics
	err := db.conn.QueryRow(`
		SELECT
			source, width, height, depth, objects, clusters,
			total_voxels, mean_voxels, stddev_voxels, median_voxels,
			outline_voxels, closed_contours, open_contours
		FROM runs
		WHERE id = ?
	`, runID).Scan(
		&report.Source, &report.Width, &report.Height, &report.Depth,
		&s.Objects, &s.Clusters, &s.TotalVoxels, &s.MeanVoxels, &s.StdDevVoxels,
		&s.MedianVoxels, &s.OutlineVoxels, &s.ClosedContours, &s.OpenContours,
	)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}

	if report.Objects, err = db.getObjects(runID); err != nil {
		return nil, err
	}
	if report.Clusters, err = db.getClusters(runID); err != nil {
		return nil, err
	}
	return report, nil
}

func (db *DB) getObjects(runID int64) ([]models.ObjectSummary, error) {
	rows, err := db.conn.Query(`
		SELECT
			object_id, cluster_id,
			corner_x, corner_y, corner_z, extent_x, extent_y, extent_z,
			voxels, outline_voxels, centroid_x, centroid_y, centroid_z,
			variance_1, variance_2, variance_3, nearest_object, nearest_distance
		FROM objects
		WHERE run_id = ?
		ORDER BY object_id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []models.ObjectSummary
	index := make(map[int]int)
	for rows.Next() {
		var o models.ObjectSummary
		err := rows.Scan(
			&o.ID, &o.Cluster,
			&o.Corner[0], &o.Corner[1], &o.Corner[2], &o.Extent[0], &o.Extent[1], &o.Extent[2],
			&o.Voxels, &o.OutlineVoxels, &o.Centroid[0], &o.Centroid[1], &o.Centroid[2],
			&o.PrincipalVariances[0], &o.PrincipalVariances[1], &o.PrincipalVariances[2],
			&o.NearestObject, &o.NearestDistance,
		)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(objects)
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	contourRows, err := db.conn.Query(`
		SELECT object_id, z, points, closed
		FROM contours
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer contourRows.Close()

	for contourRows.Next() {
		var objectID int
		var c models.ContourSummary
		if err := contourRows.Scan(&objectID, &c.Z, &c.Points, &c.Closed); err != nil {
			return nil, err
		}
		i, ok := index[objectID]
		if !ok {
			return nil, fmt.Errorf("contour refers to unknown object %d", objectID)
		}
		objects[i].Contours = append(objects[i].Contours, c)
	}
	return objects, contourRows.Err()
}

func (db *DB) getClusters(runID int64) ([]models.ClusterSummary, error) {
	rows, err := db.conn.Query(`
		SELECT cluster_id, voxels, centroid_x, centroid_y, centroid_z
		FROM clusters
		WHERE run_id = ?
		ORDER BY cluster_id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []models.ClusterSummary
	index := make(map[int]int)
	for rows.Next() {
		var c models.ClusterSummary
		if err := rows.Scan(&c.ID, &c.Voxels, &c.Centroid[0], &c.Centroid[1], &c.Centroid[2]); err != nil {
			return nil, err
		}
		index[c.ID] = len(clusters)
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := db.conn.Query(`
		SELECT cluster_id, object_id
		FROM cluster_members
		WHERE run_id = ?
		ORDER BY cluster_id ASC, object_id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var clusterID, objectID int
		if err := memberRows.Scan(&clusterID, &objectID); err != nil {
			return nil, err
		}
		i, ok := index[clusterID]
		if !ok {
			return nil, fmt.Errorf("member refers to unknown cluster %d", clusterID)
		}
		clusters[i].Members = append(clusters[i].Members, objectID)
	}
	return clusters, memberRows.Err()
}

// ListRuns returns every stored run, newest first
func (db *DB) ListRuns() ([]*RunInfo, error) {
	rows, err := db.conn.Query(`
		SELECT id, source, objects, clusters, created_at
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*RunInfo{}
	for rows.Next() {
		run := &RunInfo{}
		if err := rows.Scan(&run.ID, &run.Source, &run.Objects, &run.Clusters, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run together with its objects and clusters
func (db *DB) DeleteRun(runID int64) error {
	result, err := db.conn.Exec(`DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", runID, sql.ErrNoRows)
	}
	return nil
}
