package access

import (
	"strings"
	"time"

	"gymdesk/internal/client"
	"gymdesk/internal/validation"
)

const DefaultRecentLimit = 20

type Movement string

const (
	MovementEntry Movement = "Entrada"
	MovementExit  Movement = "Salida"
)

var ErrInvalidMovement = validation.New("tipo_movimiento", "Tipo de movimiento inválido")

// ParseMovement accepts either label in any case; empty means an entry.
func ParseMovement(s string) (Movement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "entrada":
		return MovementEntry, nil
	case "salida":
		return MovementExit, nil
	}
	return "", ErrInvalidMovement
}

type Entry struct {
	ID        int64     `db:"id" json:"id"`
	Cedula    string    `db:"client_identifier" json:"cedula"`
	Movement  Movement  `db:"movement_type" json:"tipo_movimiento"`
	Timestamp time.Time `db:"timestamp" json:"fecha_hora"`
}

// RecentEntry is an entry joined with the client's names.
type RecentEntry struct {
	Entry
	Name    string `db:"name" json:"nombre"`
	Surname string `db:"surname" json:"apellido"`
}

// State is the position of a client in the access check at the moment of an
// attempt. Only StateValid lets an entry be recorded.
type State string

const (
	StateNoClient        State = "no_client"
	StateNoActivePayment State = "no_active_payment"
	StateExpiredPayment  State = "expired_payment"
	StateValid           State = "valid"
)

const (
	MessageNoClient = "Cliente no encontrado"
	MessageDenied   = "Membresía vencida o inexistente"
)

type Decision struct {
	State   State          `json:"estado"`
	Granted bool           `json:"permitido"`
	Message string         `json:"mensaje"`
	Client  *client.Client `json:"cliente,omitempty"`
	Entry   *Entry         `json:"acceso,omitempty"`
}

type Stats struct {
	Today    int    `json:"accesos_hoy"`
	Week     int    `json:"accesos_semana"`
	PeakHour string `json:"hora_pico"`
}

type RegisterRequest struct {
	Cedula   string `json:"cedula" binding:"required"`
	Movement string `json:"tipo_movimiento"`
}
