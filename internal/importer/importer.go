// Package importer loads client rows from CSV files into the client registry.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gymdesk/internal/client"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
	"gymdesk/internal/validation"
)

var requiredColumns = []string{"cedula", "nombre", "apellido"}

// Registrar is the client registration the importer feeds rows into.
type Registrar interface {
	Register(ctx context.Context, req client.RegisterRequest) (*client.Client, error)
}

type RowError struct {
	Row     int    `json:"fila"`
	Cedula  string `json:"cedula"`
	Message string `json:"mensaje"`
}

type Result struct {
	Registered int        `json:"registrados"`
	Errors     int        `json:"errores"`
	Duplicates []string   `json:"duplicados"`
	Failures   []RowError `json:"fallos"`
}

type Importer struct {
	clients Registrar
}

func New(clients Registrar) *Importer {
	return &Importer{clients: clients}
}

// Import registers every data row of r. A bad row is counted and skipped;
// only an unreadable file or a missing required column fails the batch.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, validation.New("archivo", "El archivo está vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := indexColumns(header)
	if missing := missingColumns(columns); len(missing) > 0 {
		return nil, validation.New("archivo",
			"El archivo debe contener las columnas: "+strings.Join(requiredColumns, ", "))
	}

	result := &Result{Duplicates: []string{}, Failures: []RowError{}}
	row := 1
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			result.fail(row, "", err.Error())
			metrics.RecordImportRow("error")
			continue
		}

		req := toRequest(columns, record)
		if _, err := i.clients.Register(ctx, req); err != nil {
			if errors.Is(err, validation.ErrDuplicateCedula) {
				result.Duplicates = append(result.Duplicates, req.Cedula)
				metrics.RecordImportRow("duplicate")
			} else {
				metrics.RecordImportRow("error")
			}
			if !validation.Is(err) {
				logger.Error("Import row failed", "row", row, "error", err)
			}
			result.fail(row, req.Cedula, err.Error())
			continue
		}

		result.Registered++
		metrics.RecordImportRow("registered")
	}

	logger.Info("Client import finished",
		"registered", result.Registered,
		"errors", result.Errors,
		"duplicates", len(result.Duplicates))
	return result, nil
}

func (r *Result) fail(row int, cedula, message string) {
	r.Errors++
	r.Failures = append(r.Failures, RowError{Row: row, Cedula: cedula, Message: message})
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	return columns
}

func missingColumns(columns map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func toRequest(columns map[string]int, record []string) client.RegisterRequest {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return client.RegisterRequest{
		Cedula:         get("cedula"),
		Name:           get("nombre"),
		Surname:        get("apellido"),
		Phone:          get("telefono"),
		EmergencyPhone: get("telefono_emergencia"),
		Address:        get("direccion"),
		Email:          get("email"),
		PhotoPath:      get("foto_path"),
	}
}
