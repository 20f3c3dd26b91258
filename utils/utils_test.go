package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disasterprep/models"
	"disasterprep/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	handler(c)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSendJSONError(t *testing.T) {
	t.Run("client errors keep their message", func(t *testing.T) {
		w, body := run(func(c *gin.Context) {
			SendJSONError(c, http.StatusBadRequest, "Invalid request body", errors.New("EOF"), "expected JSON")
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", body["error"])
		assert.Equal(t, "expected JSON", body["details"])
	})

	t.Run("server errors are generic", func(t *testing.T) {
		w, body := run(func(c *gin.Context) {
			SendJSONError(c, http.StatusServiceUnavailable, "dial tcp 10.0.0.1:5432: refused", errors.New("dial tcp 10.0.0.1:5432: refused"), "secret")
		})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, GenericServerError, body["error"])
		assert.NotContains(t, body, "details")
	})
}

func TestSendRepositoryError(t *testing.T) {
	repo := repository.NewMemoryContentRepository()
	_, validationErr := repo.Create(context.Background(), models.CollectionVolunteerRegistrations, &models.VolunteerRegistration{Base: models.Base{ID: "v1"}})
	require.Error(t, validationErr)
	_, notFoundErr := repo.ListAll(context.Background(), "unknown")
	require.Error(t, notFoundErr)

	w, body := run(func(c *gin.Context) { SendRepositoryError(c, validationErr) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []interface{}{"fullName", "email", "phoneNumber", "skills", "availability"}, body["fields"])

	w, _ = run(func(c *gin.Context) { SendRepositoryError(c, notFoundErr) })
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = run(func(c *gin.Context) { SendRepositoryError(c, errors.New("disk full")) })
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, GenericServerError, body["error"])
}

func TestSendData(t *testing.T) {
	w, body := run(func(c *gin.Context) { SendData(c, http.StatusOK, "ok", gin.H{"n": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, map[string]interface{}{"n": float64(1)}, body["data"])
}
