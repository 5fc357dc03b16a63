package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/ugram-app/backend/internal/application"
	"github.com/ugram-app/backend/internal/domain/clock"
	"github.com/ugram-app/backend/internal/infrastructure/memory"
	"github.com/ugram-app/backend/pkg/validation"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := userapp.NewService(memory.NewUserRepository(), clock.Fixed{T: fixedNow}, nil, logger, nil, "")
	h := NewUserHandler(svc, logger)

	r := gin.New()
	users := r.Group("/api/users")
	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/search", h.Search)
	users.GET("/by-username/:username", h.GetByUsername)
	users.GET("/:id", h.GetByID)
	users.PUT("/:id", h.UpdateProfile)
	users.PUT("/:id/photo", h.UpdatePhoto)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createJohn(t *testing.T, r *gin.Engine) map[string]any {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username":   "johndoe",
		"email":      "john.doe@example.com",
		"first_name": "John",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody(t, w)["data"].(map[string]any)
}

func TestCreateUserEndpoint(t *testing.T) {
	r := newTestRouter(t)

	data := createJohn(t, r)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "johndoe", data["username"])

	reg, err := time.Parse(time.RFC3339, data["registration_date"].(string))
	require.NoError(t, err)
	assert.True(t, reg.Equal(fixedNow))
}

func TestCreateUserEndpoint_Conflict(t *testing.T) {
	r := newTestRouter(t)
	createJohn(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username":   "johndoe",
		"email":      "other@example.com",
		"first_name": "Other",
		"last_name":  "User",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "username")
}

func TestCreateUserEndpoint_BindingValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username":   "ab",
		"email":      "not-an-email",
		"first_name": "",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	details := body["error"].(map[string]any)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "first_name")
}

func TestCreateUserEndpoint_DomainValidation(t *testing.T) {
	r := newTestRouter(t)

	// passes binding but fails the entity's phone rule
	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username":     "johndoe",
		"email":        "john@example.com",
		"first_name":   "John",
		"last_name":    "Doe",
		"phone_number": "0123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decodeBody(t, w)["error"].(map[string]any)
	assert.Contains(t, details, "phone_number")
}

func TestGetUserEndpoint(t *testing.T) {
	r := newTestRouter(t)
	data := createJohn(t, r)
	id := data["id"].(string)

	w := doJSON(t, r, http.MethodGet, "/api/users/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "johndoe", decodeBody(t, w)["data"].(map[string]any)["username"])

	w = doJSON(t, r, http.MethodGet, "/api/users/7a9e3b9a-3f3c-4bb7-9f26-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserByUsernameEndpoint(t *testing.T) {
	r := newTestRouter(t)
	createJohn(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/users/by-username/johndoe", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/by-username/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	r := newTestRouter(t)
	createJohn(t, r)
	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username":   "janedoe",
		"email":      "jane@example.com",
		"first_name": "Jane",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users?limit=10&offset=0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	users := body["data"].([]any)
	assert.Len(t, users, 2)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
}

func TestListUsersEndpoint_RangeErrors(t *testing.T) {
	r := newTestRouter(t)

	for _, q := range []string{"limit=0", "limit=1001", "offset=-1"} {
		w := doJSON(t, r, http.MethodGet, "/api/users?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestUpdateProfileEndpoint_PartialUpdate(t *testing.T) {
	r := newTestRouter(t)
	id := createJohn(t, r)["id"].(string)

	w := doJSON(t, r, http.MethodPut, "/api/users/"+id, gin.H{"first_name": "Johnny"})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "Johnny", data["first_name"])
	assert.Equal(t, "Doe", data["last_name"])
	assert.Equal(t, "john.doe@example.com", data["email"])
}

func TestUpdateProfileEndpoint_Conflict(t *testing.T) {
	r := newTestRouter(t)
	createJohn(t, r)
	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"username":   "janedoe",
		"email":      "jane@example.com",
		"first_name": "Jane",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	janeID := decodeBody(t, w)["data"].(map[string]any)["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/api/users/"+janeID, gin.H{"email": "john.doe@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdatePhotoEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createJohn(t, r)["id"].(string)

	w := doJSON(t, r, http.MethodPut, "/api/users/"+id+"/photo", gin.H{
		"profile_photo_url": "https://cdn.example.com/p.jpg",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/p.jpg", data["profile_photo_url"])
}

func TestSearchEndpoint_WithoutElasticsearch(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/users/search?q=john", nil)
	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeBody(t, w)["meta"].(map[string]any)
	assert.EqualValues(t, 0, meta["count"])
}
