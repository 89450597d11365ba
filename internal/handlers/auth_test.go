package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ballotbox/voting-backend/internal/database"
	"github.com/ballotbox/voting-backend/internal/middleware"
	"github.com/ballotbox/voting-backend/internal/models"
	"github.com/ballotbox/voting-backend/internal/store"
	"github.com/ballotbox/voting-backend/internal/token"
)

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	issuer := token.NewIssuer("test-secret", time.Hour)
	h := NewHandler(store.New(db), issuer)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(issuer))
	{
		protected.GET("/me", h.Auth.GetMe)
		protected.GET("/options", h.Vote.GetOptions)
		protected.POST("/vote", h.Vote.CastVote)
		protected.GET("/vote", h.Vote.GetMyVote)
		protected.GET("/results", h.Vote.GetResults)
	}

	return r, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAuthResponse(t *testing.T, w *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := setupTest(t)

	w := doJSON(t, router, "POST", "/api/register", "", models.RegisterRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	reg := decodeAuthResponse(t, w)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.User.ID)

	w = doJSON(t, router, "POST", "/api/login", "", models.LoginRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeAuthResponse(t, w)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, _ := setupTest(t)

	w := doJSON(t, router, "POST", "/api/register", "", models.RegisterRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/register", "", models.RegisterRequest{
		Email: "alice@example.com", Password: "different",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	router, _ := setupTest(t)

	w := doJSON(t, router, "POST", "/api/register", "", models.RegisterRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong password and unknown email must be the same failure.
	wrongPass := doJSON(t, router, "POST", "/api/login", "", models.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	unknown := doJSON(t, router, "POST", "/api/login", "", models.LoginRequest{
		Email: "nobody@example.com", Password: "secret1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := setupTest(t)

	w := doJSON(t, router, "POST", "/api/login", "", map[string]string{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing email or password")
}

func TestLoginActionDiscriminator(t *testing.T) {
	router, _ := setupTest(t)

	// action=signup registers through the login endpoint.
	w := doJSON(t, router, "POST", "/api/login", "", models.LoginRequest{
		Email: "bob@example.com", Password: "secret1", Action: "signup",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeAuthResponse(t, w).Token)

	w = doJSON(t, router, "POST", "/api/login", "", models.LoginRequest{
		Email: "bob@example.com", Password: "secret1", Action: "signup",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, "POST", "/api/login", "", models.LoginRequest{
		Email: "bob@example.com", Password: "secret1", Action: "frobnicate",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid action")
}

func TestGetMe(t *testing.T) {
	router, db := setupTest(t)

	w := doJSON(t, router, "POST", "/api/register", "", models.RegisterRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	reg := decodeAuthResponse(t, w)

	w = doJSON(t, router, "GET", "/api/me", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.UserInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, reg.User.ID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)

	// A deleted account's token still verifies, but /me reports 404.
	require.NoError(t, db.Delete(&models.User{}, "id = ?", reg.User.ID).Error)
	w = doJSON(t, router, "GET", "/api/me", reg.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
