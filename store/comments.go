package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// AddComment stores a comment on a map card. ParentID may name another
// comment on the same card.
func (s *Store) AddComment(ctx context.Context, c Comment) (*Comment, error) {
	if strings.TrimSpace(c.Content) == "" {
		return nil, errors.New("comment content is required")
	}
	if c.MapCardID == "" || c.UserID == "" {
		return nil, errors.New("comment needs a map card and a user")
	}
	if c.LocationID == "" {
		card, err := s.GetMapCard(ctx, c.MapCardID)
		if err != nil {
			return nil, err
		}
		c.LocationID = card.LocationID
	}
	c.ID = newID()
	ts := s.timestamp()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, location_id, map_card_id, parent_id, user_id, content, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LocationID, c.MapCardID, nullableString(c.ParentID), c.UserID, c.Content, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	c.CreatedAt = parseTime(ts)
	c.UpdatedAt = c.CreatedAt
	return &c, nil
}

// ListComments returns a card's comments, newest first.
func (s *Store) ListComments(ctx context.Context, mapCardID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location_id, map_card_id, parent_id, user_id, content, created_at, updated_at
         FROM comments WHERE map_card_id = ? ORDER BY created_at DESC, id DESC`,
		mapCardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var (
			c       Comment
			cardID  sql.NullString
			parent  sql.NullString
			created string
			updated string
		)
		if err := rows.Scan(&c.ID, &c.LocationID, &cardID, &parent, &c.UserID, &c.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.MapCardID = cardID.String
		c.ParentID = parent.String
		c.CreatedAt = parseTime(created)
		c.UpdatedAt = parseTime(updated)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteComment removes a comment written by userID.
func (s *Store) DeleteComment(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return s.checkOwned(ctx, res, "comments", id)
}
