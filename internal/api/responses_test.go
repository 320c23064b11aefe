package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/validation"
)

func failWith(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Fail(c, err, "Failed to do it")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFail_Validation(t *testing.T) {
	w, body := failWith(t, validation.New("nombre", "El campo 'nombre' es obligatorio."))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El campo 'nombre' es obligatorio.", body.Error)
	assert.Equal(t, "nombre", body.Field)
}

func TestFail_ClientNotFound(t *testing.T) {
	w, body := failWith(t, validation.ErrClientNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cliente no encontrado", body.Error)
}

func TestFail_Internal(t *testing.T) {
	w, body := failWith(t, errors.New("disk I/O error"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to do it", body.Error)
	assert.Empty(t, body.Field)
}
