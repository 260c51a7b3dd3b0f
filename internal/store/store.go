// Package store persists batch results in SQLite so past reports can be
// reloaded and re-exported.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"phototriage/pkg/models"
)

// Store wraps SQLite-backed persistence for batches and their records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			image_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS images (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id INTEGER NOT NULL REFERENCES batches(id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			size_bytes INTEGER,
			width INTEGER,
			height INTEGER,
			megapixels REAL,
			aspect_ratio REAL,
			blur_variance REAL,
			blur_score REAL,
			overexposed_fraction REAL,
			underexposed_fraction REAL,
			camera_make TEXT,
			camera_model TEXT,
			captured_at TEXT,
			hash_hex TEXT,
			flags TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_images_batch ON images(batch_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_images_hash ON images(hash_hex);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch stores records as one batch and returns its id.
func (s *Store) SaveBatch(ctx context.Context, records []models.ImageRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO batches (created_at, image_count) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339), len(records))
	if err != nil {
		return 0, err
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO images (
		batch_id, position, name, size_bytes, width, height,
		megapixels, aspect_ratio, blur_variance, blur_score,
		overexposed_fraction, underexposed_fraction,
		camera_make, camera_model, captured_at, hash_hex, flags
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, rec := range records {
		var cameraMake, cameraModel, capturedAt string
		if rec.Capture != nil {
			cameraMake = rec.Capture.Make
			cameraModel = rec.Capture.Model
			capturedAt = rec.Capture.DateTime
		}
		_, err := stmt.ExecContext(ctx,
			batchID, i, rec.Name, rec.SizeBytes, rec.Width, rec.Height,
			rec.Megapixels, rec.AspectRatio, rec.BlurVariance, rec.BlurScore,
			rec.Exposure.OverexposedFraction, rec.Exposure.UnderexposedFraction,
			cameraMake, cameraModel, capturedAt, rec.HashHex,
			strings.Join(rec.Flags, "|"))
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return batchID, nil
}

// LoadBatch returns the records of one batch in their original order.
func (s *Store) LoadBatch(ctx context.Context, batchID int64) ([]models.ImageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		name, size_bytes, width, height, megapixels, aspect_ratio,
		blur_variance, blur_score, overexposed_fraction, underexposed_fraction,
		camera_make, camera_model, captured_at, hash_hex, flags
	FROM images WHERE batch_id = ? ORDER BY position`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ImageRecord
	for rows.Next() {
		var rec models.ImageRecord
		var cameraMake, cameraModel, capturedAt, flags string
		err := rows.Scan(
			&rec.Name, &rec.SizeBytes, &rec.Width, &rec.Height,
			&rec.Megapixels, &rec.AspectRatio,
			&rec.BlurVariance, &rec.BlurScore,
			&rec.Exposure.OverexposedFraction, &rec.Exposure.UnderexposedFraction,
			&cameraMake, &cameraModel, &capturedAt, &rec.HashHex, &flags)
		if err != nil {
			return nil, err
		}
		if cameraMake != "" || cameraModel != "" || capturedAt != "" {
			rec.Capture = &models.CaptureMeta{
				Make:     cameraMake,
				Model:    cameraModel,
				DateTime: capturedAt,
			}
		}
		if flags != "" {
			rec.Flags = strings.Split(flags, "|")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// BatchInfo summarizes one stored batch.
type BatchInfo struct {
	ID         int64
	CreatedAt  string
	ImageCount int
}

// ListBatches returns stored batches, newest first.
func (s *Store) ListBatches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, image_count FROM batches ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []BatchInfo
	for rows.Next() {
		var b BatchInfo
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.ImageCount); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
