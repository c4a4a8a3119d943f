package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf-docat-backend/internal/config"
	"pdf-docat-backend/internal/engine"
	"pdf-docat-backend/internal/models"
	"pdf-docat-backend/internal/services"
)

type stubLimiter struct {
	calls int
	allow bool
}

func (s *stubLimiter) Allow(ctx context.Context, userID int64) (bool, error) {
	s.calls++
	return s.allow, nil
}

func testConfig() *config.Config {
	return &config.Config{
		MaxFileSize:        25 * 1024 * 1024,
		MaxDailyProcessing: 20,
		MaxPageCountUser:   100,
		MaxPageCountAdmin:  200,
	}
}

func testProcessor(limiter services.RateLimiter) *services.Processor {
	registry := engine.NewRegistry(config.EngineSelectionUser)
	registry.Register(engine.NewPDFTextEngine())
	return services.NewProcessor(testConfig(), nil, registry, nil, limiter)
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var serr *services.StatusError
	require.ErrorAs(t, err, &serr)
	return serr.Code
}

func TestProcess_OversizedFileDoesNotConsumeQuota(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	p := testProcessor(limiter)

	user := &models.User{ID: 1, Role: models.RoleUser}
	doc := &models.FileData{Name: "big.pdf", Size: 26 * 1024 * 1024, Data: []byte("x")}

	_, err := p.Process(context.Background(), user, doc, models.EnginePDFText, nil)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	assert.Equal(t, 0, limiter.calls)
}

func TestProcess_PageCapDoesNotConsumeQuota(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	p := testProcessor(limiter)

	// 15MB estimates to ~153 pages, over the 100-page user cap but under
	// the size limit.
	user := &models.User{ID: 1, Role: models.RoleUser}
	doc := &models.FileData{Name: "long.pdf", Size: 15 * 1024 * 1024, Data: []byte("x")}

	_, err := p.Process(context.Background(), user, doc, models.EnginePDFText, nil)
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	assert.Equal(t, 0, limiter.calls)
}

func TestProcess_UnconfiguredEngineDoesNotConsumeQuota(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	p := testProcessor(limiter)

	user := &models.User{ID: 1, Role: models.RoleUser}
	doc := &models.FileData{Name: "report.pdf", Size: 1024, Data: []byte("x")}

	_, err := p.Process(context.Background(), user, doc, models.EngineNative, nil)
	assert.Equal(t, http.StatusNotImplemented, statusCode(t, err))
	assert.Equal(t, 0, limiter.calls)
}

func TestProcess_ExhaustedQuotaRejectsWith429(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	p := testProcessor(limiter)

	user := &models.User{ID: 1, Role: models.RoleUser}
	doc := &models.FileData{Name: "report.pdf", Size: 1024, Data: []byte("x")}

	_, err := p.Process(context.Background(), user, doc, models.EnginePDFText, nil)
	assert.Equal(t, http.StatusTooManyRequests, statusCode(t, err))
	assert.Equal(t, 1, limiter.calls)

	var serr *services.StatusError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Message, "daily processing limit")
}
