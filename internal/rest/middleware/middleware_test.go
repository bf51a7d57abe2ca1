package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/types"
)

func newTestEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware, UserMiddleware, ErrorHandler(logger.NewNopLogger()))
	engine.GET("/", handler)
	return engine
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) {
		c.Error(ierr.NewError("slot missing").
			WithHint("Slot not found").
			WithReportableDetails(map[string]any{"slot_id": "slot_1"}).
			Mark(ierr.ErrNotFound))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Slot not found", body.Error.Display)
	assert.Equal(t, ierr.ErrCodeNotFound, body.Error.Code)
	assert.Equal(t, "slot_1", body.Error.Details["slot_id"])
}

func TestErrorHandlerWithoutHint(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) {
		c.Error(ierr.NewError("boom").Mark(ierr.ErrSystem))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestRequestAndUserContext(t *testing.T) {
	var requestID, userID string
	engine := newTestEngine(func(c *gin.Context) {
		requestID = types.GetRequestID(c.Request.Context())
		userID = types.GetUserID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Header().Get(types.HeaderRequestID))
	assert.Equal(t, types.DefaultUserID, userID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderRequestID, "req-1")
	req.Header.Set(types.HeaderUserID, "recruiter_7")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "recruiter_7", userID)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware)
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
