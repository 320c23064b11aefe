package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/app"
	"gymdesk/internal/config"
)

// deskClock is a settable clock shared by every service of a test app.
type deskClock struct {
	now time.Time
}

func (c *deskClock) Now() time.Time {
	return c.now
}

func (c *deskClock) advanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

type testDesk struct {
	app     *app.App
	clock   *deskClock
	handler http.Handler
}

func setupTestDesk(t *testing.T) *testDesk {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		HTTPAddr:       "127.0.0.1:0",
		DBPath:         filepath.Join(dir, "data", "gimnasio.db"),
		SettingsPath:   filepath.Join(dir, "config", "config.json"),
		BackupDir:      filepath.Join(dir, "backups"),
		Location:       time.UTC,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}

	clk := &deskClock{now: time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC)}
	a, err := app.New(cfg, clk.Now)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	return &testDesk{app: a, clock: clk, handler: a.Server.Handler()}
}

func (d *testDesk) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	d.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (d *testDesk) registerClient(t *testing.T, cedula, name, surname string) {
	t.Helper()
	w := d.do(t, http.MethodPost, "/clients", map[string]string{
		"cedula":   cedula,
		"nombre":   name,
		"apellido": surname,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (d *testDesk) pay(t *testing.T, cedula string, amount float64, months int) {
	t.Helper()
	w := d.do(t, http.MethodPost, "/payments", map[string]any{
		"cedula":         cedula,
		"monto":          amount,
		"duracion_meses": months,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
