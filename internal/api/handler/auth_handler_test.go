package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthRouter(svc *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noLimit := func(c *gin.Context) { c.Next() }
	NewAuthHandler(svc).RegisterRoutes(r.Group("/auth"), noLimit)
	return r
}

func TestSignupEndpoint_OK(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	svc.On("Signup", mock.Anything, "alice", "alice@example.com").
		Return(&models.User{Username: "alice", Email: "alice@example.com"}, nil)

	body := bytes.NewBufferString(`{"username":"alice","email":"alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alice@example.com"`)
}

func TestSignupEndpoint_ReservedUsername(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	svc.On("Signup", mock.Anything, "moi", "me@example.com").
		Return(nil, service.ErrReservedUsername)

	body := bytes.NewBufferString(`{"username":"moi","email":"me@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupEndpoint_Conflict(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	svc.On("Signup", mock.Anything, "alice", "other@example.com").
		Return(nil, service.ErrSignupConflict)

	body := bytes.NewBufferString(`{"username":"alice","email":"other@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignupEndpoint_MissingEmail(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	body := bytes.NewBufferString(`{"username":"alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenEndpoint_OK(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	svc.On("IssueToken", mock.Anything, "alice", "s3cret-code").
		Return("signed.jwt.token", nil)

	body := bytes.NewBufferString(`{"username":"alice","confirmation_code":"s3cret-code"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"signed.jwt.token"`)
}

func TestTokenEndpoint_WrongCode(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	svc.On("IssueToken", mock.Anything, "alice", "wrong").
		Return("", service.ErrBadConfirmationCode)

	body := bytes.NewBufferString(`{"username":"alice","confirmation_code":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTokenEndpoint_UnknownUser(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	svc.On("IssueToken", mock.Anything, "ghost", "whatever").
		Return("", service.ErrUserNotFound)

	body := bytes.NewBufferString(`{"username":"ghost","confirmation_code":"whatever"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
