package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"phototriage/internal/config"
	apperrors "phototriage/internal/errors"
	"phototriage/internal/logger"
	"phototriage/internal/report"
	"phototriage/internal/service"
	"phototriage/internal/storage"
	"phototriage/internal/store"
	"phototriage/pkg/models"
)

// maxBatchURLs bounds one request; the duplicate pass is quadratic in
// batch size.
const maxBatchURLs = 256

type BatchRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

type BatchResponse struct {
	Images            []models.ImageRecord `json:"images"`
	ProcessingTimeSec float64              `json:"processing_time_sec"`

	// BatchID is set when the batch was persisted to the history store.
	BatchID int64 `json:"batch_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Fetchers groups the remote backends a batch request may draw from. Blob
// may be nil when Azure credentials are not configured.
type Fetchers struct {
	HTTP *storage.HTTPImageFetcher
	Blob *storage.BlobStorage
}

func (f Fetchers) resolve(rawURL string) (storage.ImageFetcher, error) {
	if f.Blob != nil && storage.IsBlobURL(rawURL) {
		return f.Blob, nil
	}
	if f.HTTP == nil {
		return nil, apperrors.NewInternalError("no fetcher configured", nil)
	}
	return f.HTTP, nil
}

func validateImageURL(imageURL string) error {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("invalid URL format", err)
	}
	if parsed.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.NewValidationError("URL scheme must be http or https", nil)
	}
	return nil
}

// NewHandler builds the HTTP surface: health check, batch analysis, and
// stored-batch retrieval when a result store is configured. resultStore may
// be nil, in which case batches are not persisted and /batch/:id is absent.
func NewHandler(batch *service.BatchAnalyzer, fetchers Fetchers, resultStore *store.Store, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck)
	r.POST("/batch", analyzeBatch(batch, fetchers, resultStore, cfg))
	if resultStore != nil {
		r.GET("/batch/:id", getBatch(resultStore))
	}

	return r
}

func analyzeBatch(batch *service.BatchAnalyzer, fetchers Fetchers, resultStore *store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing batch analysis request")

		var req BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if len(req.URLs) > maxBatchURLs {
			respondError(c, http.StatusBadRequest, "too many URLs",
				fmt.Errorf("batch size %d exceeds limit %d", len(req.URLs), maxBatchURLs))
			return
		}

		sources := make([]storage.Source, 0, len(req.URLs))
		for _, rawURL := range req.URLs {
			if err := validateImageURL(rawURL); err != nil {
				respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
				return
			}

			fetcher, err := fetchers.resolve(rawURL)
			if err != nil {
				respondError(c, apperrors.GetStatusCode(err), "no fetcher for URL", err)
				return
			}

			src, err := fetcher.Fetch(ctx, rawURL)
			if err != nil {
				fetchErr := wrapFetchError(err)
				logger.WithError(fetchErr).WithField("url", rawURL).Error("Failed to fetch image")
				respondError(c, fetchErr.StatusCode, "failed to fetch image", fetchErr)
				return
			}
			sources = append(sources, src)
		}

		records, err := batch.AnalyzeBatch(ctx, sources)
		if err != nil {
			respondError(c, determineStatusCode(err), "batch analysis failed", err)
			return
		}

		var batchID int64
		if resultStore != nil {
			batchID, err = resultStore.SaveBatch(ctx, records)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "failed to persist batch", err)
				return
			}
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"images":             len(records),
			"batch_id":           batchID,
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Batch analysis completed successfully")

		if wantsCSV(c) {
			c.Header("Content-Type", "text/csv; charset=utf-8")
			c.Status(http.StatusOK)
			if err := report.WriteCSV(c.Writer, records); err != nil {
				logger.WithError(err).Error("Failed to write CSV response")
			}
			return
		}

		c.JSON(http.StatusOK, BatchResponse{
			Images:            records,
			ProcessingTimeSec: duration.Seconds(),
			BatchID:           batchID,
		})
	}
}

// getBatch serves a previously persisted batch, as JSON or CSV.
func getBatch(resultStore *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid batch id",
				apperrors.NewValidationError("batch id must be an integer", err))
			return
		}

		records, err := resultStore.LoadBatch(c.Request.Context(), id)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load batch", err)
			return
		}
		if len(records) == 0 {
			notFound := apperrors.NewNotFoundError(fmt.Sprintf("batch %d not found", id), nil)
			respondError(c, notFound.StatusCode, "unknown batch", notFound)
			return
		}

		if wantsCSV(c) {
			c.Header("Content-Type", "text/csv; charset=utf-8")
			c.Status(http.StatusOK)
			if err := report.WriteCSV(c.Writer, records); err != nil {
				logger.WithError(err).Error("Failed to write CSV response")
			}
			return
		}

		c.JSON(http.StatusOK, BatchResponse{Images: records, BatchID: id})
	}
}

func wantsCSV(c *gin.Context) bool {
	if c.Query("format") == "csv" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/csv")
}

func wrapFetchError(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("image fetch timeout", err)
	}
	return apperrors.NewNetworkError("failed to fetch image", err)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
