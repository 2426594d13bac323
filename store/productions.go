package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateProduction inserts a production and returns it with its id.
func (s *Store) CreateProduction(ctx context.Context, p Production) (*Production, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.New("production title is required")
	}
	if p.Type == "" {
		p.Type = "film"
	}
	p.ID = newID()
	ts := s.timestamp()

	var year any
	if p.Year > 0 {
		year = p.Year
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO productions (id, title, type, year, description, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Type, year, nullableString(p.Description), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert production: %w", err)
	}
	p.CreatedAt = parseTime(ts)
	p.UpdatedAt = p.CreatedAt
	return &p, nil
}

// ListProductions returns all productions ordered by title.
func (s *Store) ListProductions(ctx context.Context) ([]Production, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, type, year, description, created_at, updated_at
         FROM productions ORDER BY title COLLATE NOCASE, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()

	var out []Production
	for rows.Next() {
		var (
			p           Production
			year        sql.NullInt64
			description sql.NullString
			created     string
			updated     string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Type, &year, &description, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		p.Year = int(year.Int64)
		p.Description = description.String
		p.CreatedAt = parseTime(created)
		p.UpdatedAt = parseTime(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}
