package client

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"gymdesk/internal/db"
)

const clientColumns = `identifier, name, surname, phone, emergency_phone, address, email, photo_path, registration_date`

type repository struct {
	store *db.Store
}

func NewRepository(store *db.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Create(ctx context.Context, c *Client) (bool, error) {
	err := r.store.Use(func(conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO clients (`+clientColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.Cedula, c.Name, c.Surname, c.Phone, c.EmergencyPhone,
			c.Address, c.Email, c.PhotoPath, c.RegistrationDate.Format(db.DateLayout))
		return err
	})
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Update overwrites every mutable column. The cedula and registration date
// never change.
func (r *repository) Update(ctx context.Context, c *Client) (bool, error) {
	var affected int64
	err := r.store.Use(func(conn *sqlx.DB) error {
		result, err := conn.ExecContext(ctx, `
			UPDATE clients
			SET name = ?, surname = ?, phone = ?, emergency_phone = ?,
			    address = ?, email = ?, photo_path = ?
			WHERE identifier = ?
		`, c.Name, c.Surname, c.Phone, c.EmergencyPhone, c.Address, c.Email, c.PhotoPath, c.Cedula)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected > 0, err
}

func (r *repository) GetByCedula(ctx context.Context, cedula string) (*Client, error) {
	var c Client
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.GetContext(ctx, &c, `
			SELECT `+clientColumns+`
			FROM clients
			WHERE identifier = ?
		`, cedula)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.localize(&c)
	return &c, nil
}

func (r *repository) localize(c *Client) {
	c.RegistrationDate = db.WallClock(c.RegistrationDate, r.store.Location())
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	clients := []Client{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &clients, `
			SELECT `+clientColumns+`
			FROM clients
			ORDER BY name, surname
		`)
	})
	for i := range clients {
		r.localize(&clients[i])
	}
	return clients, err
}

func (r *repository) Delete(ctx context.Context, cedula string) (bool, error) {
	var affected int64
	err := r.store.Use(func(conn *sqlx.DB) error {
		result, err := conn.ExecContext(ctx, `DELETE FROM clients WHERE identifier = ?`, cedula)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected > 0, err
}

func (r *repository) Exists(ctx context.Context, cedula string) (bool, error) {
	var exists bool
	err := r.store.Use(func(conn *sqlx.DB) error {
		var err error
		exists, err = db.Exists(ctx, conn, `SELECT EXISTS(SELECT 1 FROM clients WHERE identifier = ?)`, cedula)
		return err
	})
	return exists, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *repository) Search(ctx context.Context, criteria Criteria) ([]SearchRow, error) {
	var (
		filters []string
		args    []interface{}
	)
	for _, f := range []struct {
		column string
		value  string
	}{
		{"c.identifier", criteria.Cedula},
		{"c.name", criteria.Name},
		{"c.surname", criteria.Surname},
		{"c.phone", criteria.Phone},
	} {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		filters = append(filters, `ulower(`+f.column+`) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(value))+"%")
	}

	where := ""
	if len(filters) > 0 {
		where = "WHERE " + strings.Join(filters, " AND ")
	}

	query := `
		SELECT c.identifier, c.name, c.surname, c.phone, c.emergency_phone, c.address,
		       c.email, c.photo_path, c.registration_date, p.expiration_date
		FROM clients c
		LEFT JOIN payments p ON p.client_identifier = c.identifier AND p.active = 1
		` + where + `
		ORDER BY c.name, c.surname
	`

	rows := []SearchRow{}
	err := r.store.Use(func(conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &rows, query, args...)
	})
	for i := range rows {
		r.localize(&rows[i].Client)
		if rows[i].ExpiresOn != nil {
			expires := db.WallClock(*rows[i].ExpiresOn, r.store.Location())
			rows[i].ExpiresOn = &expires
		}
	}
	return rows, err
}
