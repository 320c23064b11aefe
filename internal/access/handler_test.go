package access

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/client"
	"gymdesk/internal/payment"
)

func setupAccessRouter(repo *MockRepository, clients *MockClients, payments *MockPayments) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewHandler(newTestService(repo, clients, payments), time.UTC)
	group := router.Group("/accesses")
	group.POST("", h.Register)
	h.RegisterRoutes(group)
	return router
}

func postAccess(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/accesses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Register_Granted(t *testing.T) {
	repo := new(MockRepository)
	clients := new(MockClients)
	payments := new(MockPayments)
	clients.On("Get", mock.Anything, "12345678").Return(&client.Client{Cedula: "12345678"}, nil)
	payments.On("Active", mock.Anything, "12345678").Return(&payment.Payment{Active: true, ExpiresOn: day(2026, 11, 1)}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := postAccess(setupAccessRouter(repo, clients, payments), `{"cedula":"12345678"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var decision Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decision))
	assert.True(t, decision.Granted)
	assert.Equal(t, "Acceso entrada registrado correctamente", decision.Message)
}

func TestHandler_Register_Denied(t *testing.T) {
	clients := new(MockClients)
	payments := new(MockPayments)
	clients.On("Get", mock.Anything, "12345678").Return(&client.Client{Cedula: "12345678"}, nil)
	payments.On("Active", mock.Anything, "12345678").Return(nil, nil)

	w := postAccess(setupAccessRouter(new(MockRepository), clients, payments), `{"cedula":"12345678","tipo_movimiento":"Entrada"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Membresía vencida o inexistente")
}

func TestHandler_Register_UnknownClient(t *testing.T) {
	clients := new(MockClients)
	clients.On("Get", mock.Anything, "1").Return(nil, nil)

	w := postAccess(setupAccessRouter(new(MockRepository), clients, new(MockPayments)), `{"cedula":"1"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Register_BadMovement(t *testing.T) {
	w := postAccess(setupAccessRouter(new(MockRepository), new(MockClients), new(MockPayments)), `{"cedula":"1","tipo_movimiento":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ByDate(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ByDate", mock.Anything, day(2026, 10, 1), day(2026, 10, 5)).Return([]RecentEntry{}, nil)

	router := setupAccessRouter(repo, new(MockClients), new(MockPayments))

	req := httptest.NewRequest(http.MethodGet, "/accesses?from=2026-10-01&to=2026-10-05", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/accesses?from=yesterday", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Stats(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CountEntries", mock.Anything, mock.Anything, mock.Anything).Return(2, nil)
	repo.On("PeakHour", mock.Anything).Return("", nil)

	router := setupAccessRouter(repo, new(MockClients), new(MockPayments))

	req := httptest.NewRequest(http.MethodGet, "/accesses/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accesos_hoy":2,"accesos_semana":2,"hora_pico":"N/A"}`, w.Body.String())
}
