package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"phototriage/internal/analyzer"
	apperrors "phototriage/internal/errors"
	"phototriage/internal/imaging"
	"phototriage/internal/logger"
	"phototriage/internal/metadata"
	"phototriage/internal/storage"
	"phototriage/pkg/models"
	"phototriage/pkg/validation"
)

// BatchAnalyzer runs the per-image pipeline over a worker pool, then the
// cross-image duplicate pass. Per-image work is independent; the duplicate
// pass requires every record to exist, so Wait is the barrier between the
// two.
type BatchAnalyzer struct {
	analyzer   analyzer.ImageAnalyzer
	classifier *validation.FlagClassifier
	pool       *analyzer.WorkerPool
}

// NewBatchAnalyzer creates a batch analyzer. workers <= 0 uses one worker
// per CPU.
func NewBatchAnalyzer(a analyzer.ImageAnalyzer, c *validation.FlagClassifier, workers int) *BatchAnalyzer {
	pool := analyzer.NewWorkerPool(workers)
	pool.Start()
	return &BatchAnalyzer{
		analyzer:   a,
		classifier: c,
		pool:       pool,
	}
}

// Close shuts down the worker pool. The analyzer must not be used after.
func (b *BatchAnalyzer) Close() {
	b.pool.Close()
}

// AnalyzeBatch analyzes sources in input order and returns one record per
// image. Any per-image failure aborts the whole batch; there is no
// partial-result contract. The earliest failing input wins so the reported
// error is deterministic.
func (b *BatchAnalyzer) AnalyzeBatch(ctx context.Context, sources []storage.Source) ([]models.ImageRecord, error) {
	start := time.Now()

	records := make([]models.ImageRecord, len(sources))
	errs := make([]error, len(sources))

	for i, src := range sources {
		i, src := i, src
		b.pool.Submit(func() {
			records[i], errs[i] = b.analyzeOne(ctx, src)
		})
	}
	b.pool.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sources[i].Name(), err)
		}
	}

	if err := b.markDuplicates(records); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"images":      len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Batch analysis completed")

	return records, nil
}

func (b *BatchAnalyzer) analyzeOne(ctx context.Context, src storage.Source) (models.ImageRecord, error) {
	data, err := src.Bytes(ctx)
	if err != nil {
		return models.ImageRecord{}, apperrors.NewDecodeError("reading image source", err)
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return models.ImageRecord{}, apperrors.NewDecodeError("decoding image", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rec := models.ImageRecord{
		Name:       src.Name(),
		SizeBytes:  src.Size(),
		Width:      w,
		Height:     h,
		Megapixels: float64(w*h) / 1e6,
	}
	if h > 0 {
		rec.AspectRatio = float64(w) / float64(h)
	}

	analysis, err := b.analyzer.Analyze(img)
	if err != nil {
		return rec, err
	}
	rec.BlurVariance = analysis.BlurVariance
	rec.BlurScore = analysis.BlurScore
	rec.Exposure = analysis.Exposure
	rec.HashHex = analysis.HashHex

	rec.Capture = metadata.ReadCapture(data)
	rec.Flags = b.classifier.Classify(rec)

	logger.WithFields(logrus.Fields{
		"name":       rec.Name,
		"blur_score": rec.BlurScore,
		"hash":       rec.HashHex,
		"flags":      rec.Flags,
	}).Debug("Image analyzed")

	return rec, nil
}

// markDuplicates compares every pair (i, j) with i < j in input order and
// tags record j when the fingerprints are within the threshold distance.
// Marking is directional: the first occurrence stays canonical and is
// never flagged by a later match.
func (b *BatchAnalyzer) markDuplicates(records []models.ImageRecord) error {
	threshold := b.classifier.Thresholds().MaxDuplicateDistance

	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			dist, err := analyzer.HammingDistance(records[i].HashHex, records[j].HashHex)
			if err != nil {
				return err
			}
			if dist <= threshold {
				records[j].AddFlag(models.FlagDuplicate)
			}
		}
	}
	return nil
}
