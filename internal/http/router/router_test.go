package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/docmint-backend/internal/config"
	"github.com/ignatzorin/docmint-backend/internal/http/handlers"
)

type staticTokens struct {
	userID uuid.UUID
}

func (s staticTokens) ParseAccess(token string) (uuid.UUID, error) {
	if token != "valid" {
		return uuid.Nil, errors.New("invalid token")
	}
	return s.userID, nil
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type noopWebhooks struct{}

func (noopWebhooks) HandleWebhook(context.Context, []byte, string) error { return nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:                 "development",
		RateLimitLimit:      1000,
		RateLimitPeriod:     time.Minute,
		GenerateLimitLimit:  1000,
		GenerateLimitPeriod: time.Hour,
	}
	return SetupRouter(
		cfg,
		staticTokens{userID: uuid.New()},
		handlers.NewAuthHandler(nil),
		handlers.NewTemplateHandler(nil, nil),
		handlers.NewDocumentHandler(nil, nil),
		nil,
		handlers.NewBillingHandler(noopWebhooks{}),
		handlers.NewHealthHandler(okPinger{}),
		nil,
	)
}

func TestSetupRouter_ProtectedRoutesNeedToken(t *testing.T) {
	r := newTestRouter()

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/accept-disclaimer"},
		{http.MethodGet, "/api/templates"},
		{http.MethodGet, "/api/checklist/US"},
		{http.MethodPost, "/api/documents/generate"},
		{http.MethodGet, "/api/documents/list"},
		{http.MethodGet, "/api/documents/pdf"},
		{http.MethodPost, "/api/documents/" + uuid.NewString() + "/save"},
		{http.MethodDelete, "/api/documents/" + uuid.NewString()},
	}
	for _, rt := range protected {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestSetupRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Без заголовка подписи вебхук отвечает 400, а не 401.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/billing/webhook", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetupRouter_DocumentIDValidatedBeforeHandler(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/documents/pdf?documentId=42", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
