package payment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/db"
)

func setupPaymentMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	repo := NewRepository(db.NewStore(sqlxDB, ""))

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var paymentRowColumns = []string{
	"id", "client_identifier", "amount", "duration_months", "payment_date", "expiration_date", "method", "active",
}

func TestSave_DeactivatesAndInserts(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	p := &Payment{
		Cedula:         "12345678",
		Amount:         50,
		DurationMonths: 1,
		PaidOn:         date(2026, 10, 19),
		ExpiresOn:      date(2026, 11, 18),
		Method:         MethodCash,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments SET active = 0 WHERE client_identifier = ?`)).
		WithArgs("12345678").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments (client_identifier, amount, duration_months, payment_date, expiration_date, method, active)`)).
		WithArgs("12345678", 50.0, 1, "2026-10-19", "2026-11-18", MethodCash).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.True(t, p.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_RollsBackOnInsertError(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	p := &Payment{Cedula: "12345678", Amount: 50, DurationMonths: 1, PaidOn: date(2026, 10, 19), ExpiresOn: date(2026, 11, 18)}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments SET active = 0`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), p)
	assert.Error(t, err)
	assert.Zero(t, p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveForClient(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE client_identifier = ? AND active = 1`)).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows(paymentRowColumns).
			AddRow(3, "12345678", 50.0, 1, date(2026, 10, 1), date(2026, 10, 31), MethodCash, true))

	p, err := repo.ActiveForClient(context.Background(), "12345678")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, date(2026, 10, 31), p.ExpiresOn)
	assert.True(t, p.Active)
}

func TestActiveForClient_None(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE client_identifier = ? AND active = 1`)).
		WithArgs("99999999").
		WillReturnRows(sqlmock.NewRows(paymentRowColumns))

	p, err := repo.ActiveForClient(context.Background(), "99999999")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestForClient_MostRecentFirst(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY payment_date DESC, id DESC`)).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows(paymentRowColumns).
			AddRow(2, "12345678", 135.0, 3, date(2026, 9, 1), date(2026, 11, 30), MethodCard, true).
			AddRow(1, "12345678", 50.0, 1, date(2026, 8, 1), date(2026, 8, 31), MethodCash, false))

	payments, err := repo.ForClient(context.Background(), "12345678")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, int64(2), payments[0].ID)
	assert.False(t, payments[1].Active)
}

func TestActiveMemberships(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN payments p ON p.client_identifier = c.identifier AND p.active = 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "name", "surname", "phone", "payment_id", "expiration_date"}).
			AddRow("12345678", "Ana", "Gomez", "555", 3, date(2026, 10, 31)))

	memberships, err := repo.ActiveMemberships(context.Background())
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "Ana", memberships[0].Name)
	assert.Equal(t, int64(3), memberships[0].PaymentID)
}

func TestIncomeByMonth(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE strftime('%Y', payment_date) = ?`)).
		WithArgs("2026").
		WillReturnRows(sqlmock.NewRows([]string{"month", "total", "payments"}).
			AddRow("09", 185.0, 2).
			AddRow("10", 450.0, 1))

	income, err := repo.IncomeByMonth(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, income, 2)
	assert.Equal(t, MonthlyIncome{Month: "09", Total: 185, Payments: 2}, income[0])
}

func TestIncomeForMonth(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE strftime('%Y-%m', payment_date) = ?`)).
		WithArgs("2026-10").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(235.5))

	total, err := repo.IncomeForMonth(context.Background(), time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 235.5, total)
}
