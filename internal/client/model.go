package client

import (
	"strings"
	"time"

	"gymdesk/internal/payment"
)

type Client struct {
	Cedula           string    `db:"identifier" json:"cedula"`
	Name             string    `db:"name" json:"nombre"`
	Surname          string    `db:"surname" json:"apellido"`
	Phone            string    `db:"phone" json:"telefono"`
	EmergencyPhone   string    `db:"emergency_phone" json:"telefono_emergencia"`
	Address          string    `db:"address" json:"direccion"`
	Email            string    `db:"email" json:"email"`
	PhotoPath        string    `db:"photo_path" json:"foto_path"`
	RegistrationDate time.Time `db:"registration_date" json:"fecha_registro"`
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}

type RegisterRequest struct {
	Cedula         string `json:"cedula"`
	Name           string `json:"nombre"`
	Surname        string `json:"apellido"`
	Phone          string `json:"telefono"`
	EmergencyPhone string `json:"telefono_emergencia"`
	Address        string `json:"direccion"`
	Email          string `json:"email"`
	PhotoPath      string `json:"foto_path"`
}

type UpdateRequest struct {
	Name           string `json:"nombre" binding:"required"`
	Surname        string `json:"apellido" binding:"required"`
	Phone          string `json:"telefono"`
	EmergencyPhone string `json:"telefono_emergencia"`
	Address        string `json:"direccion"`
	Email          string `json:"email"`
	PhotoPath      string `json:"foto_path"`
}

// Criteria holds substring filters; empty fields are ignored.
type Criteria struct {
	Cedula  string `form:"cedula"`
	Name    string `form:"nombre"`
	Surname string `form:"apellido"`
	Phone   string `form:"telefono"`
}

type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterOverdue StatusFilter = "overdue"
)

func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterActive:
		return FilterActive, true
	case FilterOverdue:
		return FilterOverdue, true
	}
	return "", false
}

// Matches reports whether status passes the filter. Overdue covers both
// expired memberships and clients that never paid.
func (f StatusFilter) Matches(status payment.Status) bool {
	switch f {
	case FilterActive:
		return status == payment.StatusActive
	case FilterOverdue:
		return status != payment.StatusActive
	}
	return true
}

// SearchRow is a client joined with its active payment's expiration, if any.
type SearchRow struct {
	Client
	ExpiresOn *time.Time `db:"expiration_date"`
}

type SearchResult struct {
	Client
	ExpiresOn *time.Time     `json:"fecha_vencimiento"`
	Status    payment.Status `json:"estado_pago"`
}

type StatusSummary struct {
	Total   int `json:"total"`
	Active  int `json:"activos"`
	Overdue int `json:"vencidos"`
}
