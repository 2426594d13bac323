package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const locationColumns = "id, production_id, name, address, description, latitude, longitude, created_at, updated_at"

func scanLocation(scanner interface{ Scan(dest ...any) error }) (*Location, error) {
	var (
		l           Location
		address     sql.NullString
		description sql.NullString
		lat         sql.NullFloat64
		lng         sql.NullFloat64
		created     string
		updated     string
	)
	if err := scanner.Scan(&l.ID, &l.ProductionID, &l.Name, &address, &description, &lat, &lng, &created, &updated); err != nil {
		return nil, err
	}
	l.Address = address.String
	l.Description = description.String
	if lat.Valid {
		v := lat.Float64
		l.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		l.Longitude = &v
	}
	l.CreatedAt = parseTime(created)
	l.UpdatedAt = parseTime(updated)
	return &l, nil
}

// CreateLocation inserts a location under an existing production.
func (s *Store) CreateLocation(ctx context.Context, l Location) (*Location, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, errors.New("location name is required")
	}
	l.ID = newID()
	ts := s.timestamp()

	var lat, lng any
	if l.Latitude != nil {
		lat = *l.Latitude
	}
	if l.Longitude != nil {
		lng = *l.Longitude
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO locations (`+locationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.ProductionID, l.Name, nullableString(l.Address), nullableString(l.Description),
		lat, lng, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}
	l.CreatedAt = parseTime(ts)
	l.UpdatedAt = l.CreatedAt
	return &l, nil
}

// ListLocations returns a production's locations ordered by name.
// An empty productionID lists every location.
func (s *Store) ListLocations(ctx context.Context, productionID string) ([]Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations`
	var args []any
	if productionID != "" {
		query += ` WHERE production_id = ?`
		args = append(args, productionID)
	}
	query += ` ORDER BY name COLLATE NOCASE, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetLocation fetches one location.
func (s *Store) GetLocation(ctx context.Context, id string) (*Location, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}
