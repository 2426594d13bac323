package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filmscout/mapview"
)

const mapCardColumns = "id, location_id, user_id, title, card_type, content, viewstate, created_at, updated_at"

// selectMapCards prefers the saved camera over the viewstate the card was
// created with.
const selectMapCards = `SELECT m.id, m.location_id, m.user_id, m.title, m.card_type, m.content,
       COALESCE(cam.viewstate, m.viewstate), m.created_at, m.updated_at
  FROM map_cards m
  LEFT JOIN map_card_camera cam ON cam.card_id = m.id`

// CardTypeMap is the card type written for map cards.
const CardTypeMap = "map"

func scanMapCard(scanner interface{ Scan(dest ...any) error }) (*MapCard, error) {
	var (
		c         MapCard
		title     sql.NullString
		cardType  sql.NullString
		content   sql.NullString
		viewstate sql.NullString
		created   string
		updated   string
	)
	if err := scanner.Scan(&c.ID, &c.LocationID, &c.UserID, &title, &cardType, &content, &viewstate, &created, &updated); err != nil {
		return nil, err
	}
	c.Title = title.String
	c.CardType = cardType.String
	c.Content = content.String
	if viewstate.Valid && viewstate.String != "" {
		// A corrupt viewstate falls back to the default view instead of hiding the card.
		if vs, err := mapview.ParseJSON([]byte(viewstate.String)); err == nil {
			c.ViewState = &vs
		}
	}
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return &c, nil
}

// CreateMapCard inserts a map card for a location.
func (s *Store) CreateMapCard(ctx context.Context, c MapCard) (*MapCard, error) {
	if c.LocationID == "" || c.UserID == "" {
		return nil, errors.New("map card needs a location and a user")
	}
	if c.CardType == "" {
		c.CardType = CardTypeMap
	}
	c.ID = newID()
	ts := s.timestamp()

	var viewstate any
	if c.ViewState != nil {
		vs := *c.ViewState
		c.ViewState = &vs
		viewstate = vs.MarshalJSONString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO map_cards (`+mapCardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LocationID, c.UserID, nullableString(c.Title), c.CardType,
		nullableString(c.Content), viewstate, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert map card: %w", err)
	}
	c.CreatedAt = parseTime(ts)
	c.UpdatedAt = c.CreatedAt
	return &c, nil
}

// ListMapCards returns a location's cards, oldest first.
func (s *Store) ListMapCards(ctx context.Context, locationID string) ([]MapCard, error) {
	rows, err := s.db.QueryContext(ctx,
		selectMapCards+` WHERE m.location_id = ? ORDER BY m.created_at, m.id`,
		locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list map cards: %w", err)
	}
	defer rows.Close()

	var out []MapCard
	for rows.Next() {
		c, err := scanMapCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan map card: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetMapCard fetches one card.
func (s *Store) GetMapCard(ctx context.Context, id string) (*MapCard, error) {
	row := s.db.QueryRowContext(ctx, selectMapCards+` WHERE m.id = ?`, id)
	c, err := scanMapCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("map card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get map card: %w", err)
	}
	return c, nil
}

// UpdateMapCardTitle renames a card owned by userID.
func (s *Store) UpdateMapCardTitle(ctx context.Context, id, userID, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE map_cards SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		nullableString(title), s.timestamp(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("update map card title: %w", err)
	}
	return s.checkOwned(ctx, res, "map_cards", id)
}

// UpdateMapCardContent replaces a card's tour script.
func (s *Store) UpdateMapCardContent(ctx context.Context, id, userID, content string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE map_cards SET content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		nullableString(content), s.timestamp(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("update map card content: %w", err)
	}
	return s.checkOwned(ctx, res, "map_cards", id)
}

// DeleteMapCard removes a card and its comments. Only the owner may delete.
func (s *Store) DeleteMapCard(ctx context.Context, id, userID string) error {
	card, err := s.GetMapCard(ctx, id)
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return fmt.Errorf("delete map card %s: %w", id, ErrForbidden)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE map_card_id = ?`, id); err != nil {
		return fmt.Errorf("delete card comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM map_card_camera WHERE card_id = ?`, id); err != nil {
		return fmt.Errorf("delete card camera: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM map_cards WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete map card: %w", err)
	}
	return tx.Commit()
}

// checkOwned turns a zero-row update into ErrNotFound or ErrForbidden.
func (s *Store) checkOwned(ctx context.Context, res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table+` WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if exists == 0 {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", table, id, ErrForbidden)
}
