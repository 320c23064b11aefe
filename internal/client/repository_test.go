package client

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/db"
)

func setupClientMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	repo := NewRepository(db.NewStore(sqlxDB, ""))

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var clientRowColumns = []string{
	"identifier", "name", "surname", "phone", "emergency_phone", "address", "email", "photo_path", "registration_date",
}

func testClient() *Client {
	return &Client{
		Cedula:           "12345678",
		Name:             "Ana",
		Surname:          "Gomez",
		Phone:            "555-0101",
		RegistrationDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	c := testClient()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO clients (` + clientColumns + `)`)).
		WithArgs("12345678", "Ana", "Gomez", "555-0101", "", "", "", "", "2026-10-19").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO clients`)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})

	created, err := repo.Create(context.Background(), testClient())
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreate_OtherConstraintFails(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO clients`)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull})

	created, err := repo.Create(context.Background(), testClient())
	assert.Error(t, err)
	assert.False(t, created)
}

func TestUpdate(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	c := testClient()
	c.Address = "Calle 5"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE clients`)).
		WithArgs("Ana", "Gomez", "555-0101", "", "Calle 5", "", "", "12345678").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.Update(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestUpdate_Unknown(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE clients`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.Update(context.Background(), testClient())
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestGetByCedula(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM clients WHERE identifier = ?`)).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows(clientRowColumns).
			AddRow("12345678", "Ana", "Gomez", "555-0101", "", "", "", "", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))

	c, err := repo.GetByCedula(context.Background(), "12345678")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, testClient(), c)
}

func TestGetByCedula_NotFound(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM clients WHERE identifier = ?`)).
		WithArgs("000").
		WillReturnRows(sqlmock.NewRows(clientRowColumns))

	c, err := repo.GetByCedula(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDelete(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM clients WHERE identifier = ?`)).
		WithArgs("12345678").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "12345678")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDelete_StoreError(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM clients`)).
		WillReturnError(errors.New("disk I/O error"))

	deleted, err := repo.Delete(context.Background(), "12345678")
	assert.Error(t, err)
	assert.False(t, deleted)
}

func TestExists(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM clients WHERE identifier = ?)`)).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "12345678")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSearch_BuildsFilters(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	expires := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE ulower(c.name) LIKE ? ESCAPE '\' AND ulower(c.phone) LIKE ? ESCAPE '\' ORDER BY c.name, c.surname`)).
		WithArgs("%an%", `%50\%%`).
		WillReturnRows(sqlmock.NewRows(append(clientRowColumns, "expiration_date")).
			AddRow("12345678", "Ana", "Gomez", "", "", "", "", "", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), expires).
			AddRow("87654321", "Juana", "Perez", "", "", "", "", "", time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), nil))

	rows, err := repo.Search(context.Background(), Criteria{Name: " an ", Phone: "50%"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].ExpiresOn)
	assert.Equal(t, expires, *rows[0].ExpiresOn)
	assert.Nil(t, rows[1].ExpiresOn)
}

func TestSearch_FoldsAccentedCase(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE ulower(c.name) LIKE ? ESCAPE '\' AND ulower(c.surname) LIKE ? ESCAPE '\'`)).
		WithArgs("%ángel%", "%muñoz%").
		WillReturnRows(sqlmock.NewRows(append(clientRowColumns, "expiration_date")))

	_, err := repo.Search(context.Background(), Criteria{Name: "ÁNGEL", Surname: "MUÑOZ"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_NoCriteria(t *testing.T) {
	repo, mock, close := setupClientMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`LEFT JOIN payments p ON p.client_identifier = c.identifier AND p.active = 1 ORDER BY c.name, c.surname`)).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(append(clientRowColumns, "expiration_date")))

	rows, err := repo.Search(context.Background(), Criteria{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
