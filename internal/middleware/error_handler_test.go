package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"groop/internal/errs"
	"groop/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func setupErrorRouter(isProduction bool, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(isProduction), middleware.Recovery())
	r.GET("/", handler)
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestErrorHandler_HTTPError(t *testing.T) {
	r := setupErrorRouter(true, func(c *gin.Context) {
		_ = c.Error(errs.NewNotFoundError("Group doesn't exist"))
		c.Abort()
	})

	resp := serve(r)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"error":"Group doesn't exist"}`, resp.Body.String())
}

func TestErrorHandler_UniqueViolation(t *testing.T) {
	r := setupErrorRouter(true, func(c *gin.Context) {
		_ = c.Error(&pgconn.PgError{Code: "23505", ConstraintName: "groop_users_email_key"})
	})

	resp := serve(r)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"Email is already being used"}`, resp.Body.String())
}

func TestErrorHandler_ServerErrorProduction(t *testing.T) {
	r := setupErrorRouter(true, func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused"))
	})

	resp := serve(r)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":{"message":"server error"}}`, resp.Body.String())
}

func TestErrorHandler_ServerErrorDevelopment(t *testing.T) {
	r := setupErrorRouter(false, func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused"))
	})

	resp := serve(r)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"message":"connection refused","error":"connection refused"}`, resp.Body.String())
}

func TestErrorHandler_WrittenResponseIsKept(t *testing.T) {
	r := setupErrorRouter(false, func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("late error"))
	})

	resp := serve(r)

	assert.Equal(t, http.StatusTeapot, resp.Code)
	assert.JSONEq(t, `{"ok":true}`, resp.Body.String())
}

func TestRecovery_Panic(t *testing.T) {
	r := setupErrorRouter(true, func(c *gin.Context) {
		panic("boom")
	})

	resp := serve(r)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":{"message":"server error"}}`, resp.Body.String())
}

func TestRequestIDAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(middleware.RequestID(logger), middleware.RequestLogger())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(middleware.RequestIDKey)})
	})

	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, "req-123", resp.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"request_id":"req-123"}`, resp.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestRequestID_Generated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	resp := serve(r)

	assert.Len(t, resp.Header().Get(middleware.RequestIDHeader), 36)
}

func TestErrorHandler_ServerErrorLogsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	r := gin.New()
	r.Use(middleware.RequestID(zerolog.New(&buf)), middleware.ErrorHandler(true))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused"))
	})

	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-500")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-500"`)
	assert.Contains(t, buf.String(), `"error":"connection refused"`)
	assert.Contains(t, buf.String(), `"message":"unhandled error"`)
}
