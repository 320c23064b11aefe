package settings

import "time"

// Backup frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// LastBackupLayout is how the last backup time is written to the document.
const LastBackupLayout = "2006-01-02 15:04:05"

// MinIdleTimeout is the shortest kiosk idle timeout, in seconds.
const MinIdleTimeout = 60

type Document struct {
	Gym     Gym     `json:"gym"`
	Pricing Pricing `json:"pricing"`
	Backup  Backup  `json:"backup"`
	Access  Access  `json:"access"`
}

type Gym struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Hours   string `json:"hours"`
}

type Pricing struct {
	Monthly    float64 `json:"monthly" validate:"gt=0"`
	Quarterly  float64 `json:"quarterly" validate:"gt=0"`
	Semiannual float64 `json:"semiannual" validate:"gt=0"`
	Annual     float64 `json:"annual" validate:"gt=0"`
}

type Backup struct {
	AutoEnabled bool    `json:"auto_enabled"`
	Frequency   string  `json:"frequency" validate:"oneof=daily weekly monthly"`
	LastBackup  *string `json:"last_backup_timestamp"`
}

type Access struct {
	SoundEnabled       bool `json:"sound_enabled"`
	KioskMode          bool `json:"kiosk_mode"`
	IdleTimeoutSeconds int  `json:"idle_timeout_seconds" validate:"gte=60"`
}

// Defaults is the document written the first time settings are loaded.
func Defaults() Document {
	return Document{
		Gym: Gym{
			Name:    "GIMNASIO FITNESS",
			Address: "Av. Principal #123",
			Phone:   "+1 234-567-8900",
			Hours:   "Lunes a Viernes: 5:00 AM - 10:00 PM\nSábados: 6:00 AM - 8:00 PM\nDomingos: 7:00 AM - 6:00 PM",
		},
		Pricing: Pricing{
			Monthly:    50,
			Quarterly:  135,
			Semiannual: 240,
			Annual:     450,
		},
		Backup: Backup{
			AutoEnabled: true,
			Frequency:   FrequencyDaily,
		},
		Access: Access{
			SoundEnabled:       true,
			KioskMode:          false,
			IdleTimeoutSeconds: 300,
		},
	}
}

// clone copies d including the last backup pointer.
func (d Document) clone() Document {
	if d.Backup.LastBackup != nil {
		last := *d.Backup.LastBackup
		d.Backup.LastBackup = &last
	}
	return d
}

// Window is how long a backup stays fresh for the given frequency.
func Window(frequency string) time.Duration {
	switch frequency {
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// File describes a backup artifact on disk.
type File struct {
	Name      string    `json:"nombre"`
	Path      string    `json:"ruta"`
	Size      int64     `json:"tamano"`
	CreatedAt time.Time `json:"fecha"`
}

type RestoreRequest struct {
	Name string `json:"nombre" binding:"required"`
}
