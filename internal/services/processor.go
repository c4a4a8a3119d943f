package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"pdf-docat-backend/internal/cache"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/database"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/metrics"
	"pdf-docat-backend/internal/models"
)

// Credit cost per page by document class.
const (
	creditCostScanned    = 5
	creditCostStructured = 1
)

// StatusError carries the HTTP status a pipeline failure should surface as.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func statusErrorf(code int, format string, args ...interface{}) *StatusError {
	return &StatusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RateLimiter gates requests against the per-user daily quota.
type RateLimiter interface {
	Allow(ctx context.Context, userID int64) (bool, error)
}

// Processor runs the document pipeline: quota and size checks, cache lookup,
// engine dispatch, credit charging and the processing-log lifecycle.
type Processor struct {
	cfg      *config.Config
	db       *database.Client
	registry *engine.Registry
	cache    *cache.Cache
	limiter  RateLimiter
}

func NewProcessor(cfg *config.Config, db *database.Client, registry *engine.Registry, resultCache *cache.Cache, limiter RateLimiter) *Processor {
	return &Processor{
		cfg:      cfg,
		db:       db,
		registry: registry,
		cache:    resultCache,
		limiter:  limiter,
	}
}

// Process handles one upload end to end and returns the extraction result.
// Failures come back as *StatusError so the handler can map them onto HTTP
// responses.
func (p *Processor) Process(ctx context.Context, user *models.User, doc *models.FileData, requested models.EngineType, annotations json.RawMessage) (*models.ProcessResponse, error) {
	start := time.Now()

	if doc.Size > p.cfg.MaxFileSize {
		return nil, statusErrorf(http.StatusBadRequest,
			"file size exceeds the maximum limit of %dMB", p.cfg.MaxFileSize/(1024*1024))
	}

	hash := sha256.Sum256(doc.Data)
	fileHash := hex.EncodeToString(hash[:])

	eng, resolved, err := p.registry.Resolve(p.registry.Select(requested), doc)
	if err != nil {
		return nil, statusErrorf(http.StatusNotImplemented, "%v", err)
	}

	pages := engine.EstimatePageCount(doc.Size)
	if maxPages := p.cfg.MaxPageCount(user.Role); pages > maxPages {
		return nil, statusErrorf(http.StatusBadRequest,
			"this document has approximately %d pages, which exceeds the maximum limit of %d pages", pages, maxPages)
	}

	// Count against the daily quota only once the request has passed the
	// cheap validations; a rejected upload should not burn quota.
	if p.limiter != nil {
		allowed, err := p.limiter.Allow(ctx, user.ID)
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			allowed = true
		}
		if !allowed {
			metrics.RateLimited.Inc()
			return nil, statusErrorf(http.StatusTooManyRequests,
				"daily processing limit of %d documents reached", p.cfg.MaxDailyProcessing)
		}
	}

	if resp, ok := p.lookupCache(ctx, user, doc, fileHash, resolved, annotations, start); ok {
		return resp, nil
	}

	plog := &models.ProcessingLog{
		UserID:   user.ID,
		FileName: doc.Name,
		FileSize: doc.Size,
		FileHash: sql.NullString{String: fileHash, Valid: true},
		Engine:   resolved,
		Status:   models.StatusProcessing,
	}
	if err := p.db.CreateProcessingLog(plog); err != nil {
		return nil, statusErrorf(http.StatusInternalServerError, "failed to record processing attempt: %v", err)
	}

	content, err := eng.Extract(ctx, doc)
	if err != nil {
		p.db.MarkProcessingLogError(plog.ID)
		metrics.DocumentsProcessed.WithLabelValues(string(resolved), string(models.StatusError)).Inc()
		return nil, statusErrorf(http.StatusInternalServerError, "error processing document: %v", err)
	}

	extracted, err := json.Marshal(content)
	if err != nil {
		p.db.MarkProcessingLogError(plog.ID)
		return nil, statusErrorf(http.StatusInternalServerError, "failed to encode extracted content: %v", err)
	}

	creditsUsed := pages * creditCost(resolved)
	charged, err := p.db.UseCredits(user.ID, creditsUsed, plog.ID,
		fmt.Sprintf("Document processing: %s", doc.Name))
	if err != nil {
		p.db.MarkProcessingLogError(plog.ID)
		return nil, statusErrorf(http.StatusInternalServerError, "failed to charge credits: %v", err)
	}
	if !charged {
		p.db.MarkProcessingLogError(plog.ID)
		return nil, statusErrorf(http.StatusPaymentRequired, "not enough credits to process this document")
	}

	elapsed := time.Since(start)
	plog.Status = models.StatusCompleted
	plog.ProcessingTime = sql.NullInt64{Int64: elapsed.Milliseconds(), Valid: true}
	plog.ExtractedContent = extracted
	plog.FileAnnotations = annotations
	plog.CreditsUsed = sql.NullInt64{Int64: int64(creditsUsed), Valid: true}
	if err := p.db.CompleteProcessingLog(plog); err != nil {
		return nil, statusErrorf(http.StatusInternalServerError, "failed to finalize processing log: %v", err)
	}

	if p.cache != nil {
		if err := p.cache.SetResult(ctx, fileHash, resolved, extracted, annotations); err != nil {
			log.Printf("failed to cache extraction result: %v", err)
		}
	}

	metrics.DocumentsProcessed.WithLabelValues(string(resolved), string(models.StatusCompleted)).Inc()
	metrics.ProcessingDuration.WithLabelValues(string(resolved)).Observe(elapsed.Seconds())

	return &models.ProcessResponse{
		ExtractedContent: extracted,
		FileAnnotations:  annotations,
		LogID:            plog.ID,
		Cached:           false,
	}, nil
}

// lookupCache checks Redis first, then completed logs in the database. A hit
// still writes a fresh log row for this attempt, referencing the cached
// content.
func (p *Processor) lookupCache(ctx context.Context, user *models.User, doc *models.FileData, fileHash string, resolved models.EngineType, annotations json.RawMessage, start time.Time) (*models.ProcessResponse, bool) {
	var extracted, cachedAnnotations json.RawMessage

	if p.cache != nil {
		if e, a, ok := p.cache.GetResult(ctx, fileHash, resolved); ok {
			extracted, cachedAnnotations = e, a
			metrics.CacheHits.WithLabelValues("redis").Inc()
		}
	}

	if extracted == nil {
		cached, err := p.db.FindCompletedLogByHash(fileHash, resolved)
		if err != nil {
			return nil, false
		}
		extracted, cachedAnnotations = cached.ExtractedContent, cached.FileAnnotations
		metrics.CacheHits.WithLabelValues("database").Inc()
		if p.cache != nil {
			p.cache.SetResult(ctx, fileHash, resolved, extracted, cachedAnnotations)
		}
	}

	if len(annotations) == 0 {
		annotations = cachedAnnotations
	}

	plog := &models.ProcessingLog{
		UserID:           user.ID,
		FileName:         doc.Name,
		FileSize:         doc.Size,
		FileHash:         sql.NullString{String: fileHash, Valid: true},
		Engine:           resolved,
		Status:           models.StatusCompleted,
		ProcessingTime:   sql.NullInt64{Int64: time.Since(start).Milliseconds(), Valid: true},
		ExtractedContent: extracted,
		FileAnnotations:  annotations,
	}
	if err := p.db.CreateProcessingLog(plog); err != nil {
		log.Printf("failed to record cached processing attempt: %v", err)
		return nil, false
	}

	return &models.ProcessResponse{
		ExtractedContent: extracted,
		FileAnnotations:  annotations,
		LogID:            plog.ID,
		Cached:           true,
	}, true
}

func creditCost(e models.EngineType) int {
	if e == models.EngineMistralOCR {
		return creditCostScanned
	}
	return creditCostStructured
}
