package integration_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/importer"
	"gymdesk/internal/payment"
	"gymdesk/internal/settings"
)

func TestBackupAndRestore_Integration(t *testing.T) {
	desk := setupTestDesk(t)
	desk.registerClient(t, "1", "Ana", "Gomez")

	w := desk.do(t, http.MethodPost, "/settings/backup", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	backup := decode[settings.File](t, w)
	assert.Equal(t, "backup_gimnasio_2026-10-19_09-15-00.db", backup.Name)

	desk.registerClient(t, "2", "Luis", "Perez")

	w = desk.do(t, http.MethodPost, "/settings/restore", map[string]string{"nombre": backup.Name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, desk.do(t, http.MethodGet, "/clients/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, desk.do(t, http.MethodGet, "/clients/2", nil).Code)

	w = desk.do(t, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[settings.Document](t, w)
	require.NotNil(t, doc.Backup.LastBackup)
	assert.Equal(t, "2026-10-19 09:15:00", *doc.Backup.LastBackup)

	w = desk.do(t, http.MethodPost, "/settings/optimize", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlanPaymentUsesConfiguredPrice_Integration(t *testing.T) {
	desk := setupTestDesk(t)
	desk.registerClient(t, "1", "Ana", "Gomez")

	doc := settings.Defaults()
	doc.Pricing.Quarterly = 120
	w := desk.do(t, http.MethodPut, "/settings", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = desk.do(t, http.MethodPost, "/payments/plan", map[string]string{"cedula": "1", "plan": payment.PlanQuarterly})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[payment.Payment](t, w)
	assert.Equal(t, 120.0, p.Amount)
	assert.Equal(t, 3, p.DurationMonths)
}

func TestImportClients_Integration(t *testing.T) {
	desk := setupTestDesk(t)
	desk.registerClient(t, "1", "Ana", "Gomez")

	csv := "cedula,nombre,apellido,telefono\n" +
		"1,Ana,Gomez,\n" +
		"2,Luis,Perez,0414\n" +
		"x3,Eva,Diaz,\n" +
		"4,,Rojas,\n" +
		"5,Rosa,Mora,\n"

	req := httptest.NewRequest(http.MethodPost, "/clients/import", bytes.NewBufferString(csv))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	desk.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[importer.Result](t, w)
	assert.Equal(t, 2, result.Registered)
	assert.Equal(t, 3, result.Errors)
	assert.Equal(t, []string{"1"}, result.Duplicates)

	w = desk.do(t, http.MethodGet, "/clients/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestRestoreFromLiveDatabaseKeepsData_Integration(t *testing.T) {
	desk := setupTestDesk(t)
	desk.registerClient(t, "333", "Ana", "Gomez")

	err := desk.app.Services.Settings.RestoreBackup(context.Background(), desk.app.Store.Path())
	assert.ErrorIs(t, err, settings.ErrRestoreFromLive)

	clients, err := desk.app.Services.Clients.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}
