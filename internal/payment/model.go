package payment

import (
	"time"

	"gymdesk/internal/clock"
)

// DaysPerMonth is the fixed length of one paid month of membership.
const DaysPerMonth = 30

// MaxDurationMonths caps a single payment at ten years of membership.
const MaxDurationMonths = 120

const (
	MethodCash     = "Efectivo"
	MethodCard     = "Tarjeta"
	MethodTransfer = "Transferencia"
)

var Methods = []string{MethodCash, MethodCard, MethodTransfer}

const (
	PlanMonthly    = "monthly"
	PlanQuarterly  = "quarterly"
	PlanSemiannual = "semiannual"
	PlanAnnual     = "annual"
)

// PlanMonths maps each pricing plan to the months of membership it buys.
var PlanMonths = map[string]int{
	PlanMonthly:    1,
	PlanQuarterly:  3,
	PlanSemiannual: 6,
	PlanAnnual:     12,
}

type Payment struct {
	ID             int64     `db:"id" json:"id"`
	Cedula         string    `db:"client_identifier" json:"cedula"`
	Amount         float64   `db:"amount" json:"monto"`
	DurationMonths int       `db:"duration_months" json:"duracion_meses"`
	PaidOn         time.Time `db:"payment_date" json:"fecha_pago"`
	ExpiresOn      time.Time `db:"expiration_date" json:"fecha_vencimiento"`
	Method         string    `db:"method" json:"metodo_pago"`
	Active         bool      `db:"active" json:"activo"`
}

// ExpirationFor returns the last valid day of a membership of months paid on paidOn.
func ExpirationFor(paidOn time.Time, months int) time.Time {
	return clock.Day(paidOn).AddDate(0, 0, DaysPerMonth*months)
}

// DaysToExpiry is negative once the payment has expired relative to ref.
func (p *Payment) DaysToExpiry(ref time.Time) int {
	return clock.DaysBetween(ref, p.ExpiresOn)
}

// IsValid reports whether the payment is active and covers today.
func (p *Payment) IsValid(today time.Time) bool {
	return p.Active && p.DaysToExpiry(today) >= 0
}

// Renewal builds a new payment with the same amount, duration and method,
// starting today.
func (p *Payment) Renewal(today time.Time) *Payment {
	return &Payment{
		Cedula:         p.Cedula,
		Amount:         p.Amount,
		DurationMonths: p.DurationMonths,
		PaidOn:         clock.Day(today),
		ExpiresOn:      ExpirationFor(today, p.DurationMonths),
		Method:         p.Method,
		Active:         true,
	}
}

type Status string

const (
	StatusActive    Status = "Activo"
	StatusOverdue   Status = "Vencido"
	StatusNoPayment Status = "Sin pago"
)

// StatusOf derives a client's membership status from its active payment,
// nil when the client has none. Every status shown anywhere comes from here.
func StatusOf(today time.Time, active *Payment) Status {
	if active == nil || !active.Active {
		return StatusNoPayment
	}
	if active.IsValid(today) {
		return StatusActive
	}
	return StatusOverdue
}

// Membership is a client joined with its active payment.
type Membership struct {
	Cedula    string    `db:"identifier" json:"cedula"`
	Name      string    `db:"name" json:"nombre"`
	Surname   string    `db:"surname" json:"apellido"`
	Phone     string    `db:"phone" json:"telefono"`
	PaymentID int64     `db:"payment_id" json:"payment_id"`
	ExpiresOn time.Time `db:"expiration_date" json:"fecha_vencimiento"`
}

func (m Membership) Payment() *Payment {
	return &Payment{ID: m.PaymentID, Cedula: m.Cedula, ExpiresOn: m.ExpiresOn, Active: true}
}

type OverdueClient struct {
	Membership
	DaysOverdue int `json:"dias_vencido"`
}

type ExpiringClient struct {
	Membership
	DaysLeft int `json:"dias_restantes"`
}

type MonthlyIncome struct {
	Month    string  `db:"month" json:"mes"`
	Total    float64 `db:"total" json:"total"`
	Payments int     `db:"payments" json:"pagos"`
}

type RegisterRequest struct {
	Cedula         string  `json:"cedula" binding:"required"`
	Amount         float64 `json:"monto"`
	DurationMonths int     `json:"duracion_meses"`
	Method         string  `json:"metodo_pago"`
}

type RegisterPlanRequest struct {
	Cedula string `json:"cedula" binding:"required"`
	Plan   string `json:"plan" binding:"required"`
	Method string `json:"metodo_pago"`
}
