package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filmscout/mapview"
)

// UpsertCameraState stores the camera for cardID, inserting the row the
// first time the key is seen. The card row's updated_at is touched when the
// card exists.
func (s *Store) UpsertCameraState(ctx context.Context, cardID string, state mapview.CameraState) error {
	ts := s.timestamp()
	doc := state.MarshalJSONString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin camera tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE map_card_camera SET viewstate = ?, updated_at = ? WHERE card_id = ?`,
		doc, ts, cardID,
	)
	if err != nil {
		return fmt.Errorf("update viewstate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO map_card_camera (id, card_id, viewstate, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?)`,
			newID(), cardID, doc, ts, ts,
		)
		if err != nil {
			return fmt.Errorf("insert viewstate: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE map_cards SET updated_at = ? WHERE id = ?`, ts, cardID); err != nil {
		return fmt.Errorf("touch map card: %w", err)
	}
	return tx.Commit()
}

// CameraState returns the camera saved under cardID. ok is false when
// nothing has been saved for that key.
func (s *Store) CameraState(ctx context.Context, cardID string) (state mapview.CameraState, ok bool, err error) {
	var doc string
	err = s.db.QueryRowContext(ctx,
		`SELECT viewstate FROM map_card_camera WHERE card_id = ?`, cardID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return mapview.CameraState{}, false, nil
	}
	if err != nil {
		return mapview.CameraState{}, false, fmt.Errorf("get camera state: %w", err)
	}
	state, err = mapview.ParseJSON([]byte(doc))
	if err != nil {
		return mapview.CameraState{}, false, fmt.Errorf("decode camera state: %w", err)
	}
	return state, true, nil
}

// UpsertLocationCamera stores the board camera for a location, inserting
// the row the first time.
func (s *Store) UpsertLocationCamera(ctx context.Context, locationID string, state mapview.CameraState) error {
	ts := s.timestamp()
	doc := state.MarshalJSONString()

	res, err := s.db.ExecContext(ctx,
		`UPDATE location_camera_position SET viewstate = ?, updated_at = ? WHERE location_id = ?`,
		doc, ts, locationID,
	)
	if err != nil {
		return fmt.Errorf("update location camera: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO location_camera_position (id, location_id, viewstate, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		newID(), locationID, doc, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("insert location camera: %w", err)
	}
	return nil
}

// LocationCamera returns the saved camera for a location. ok is false when
// nothing has been saved yet.
func (s *Store) LocationCamera(ctx context.Context, locationID string) (state mapview.CameraState, ok bool, err error) {
	var doc string
	err = s.db.QueryRowContext(ctx,
		`SELECT viewstate FROM location_camera_position WHERE location_id = ?`, locationID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return mapview.CameraState{}, false, nil
	}
	if err != nil {
		return mapview.CameraState{}, false, fmt.Errorf("get location camera: %w", err)
	}
	state, err = mapview.ParseJSON([]byte(doc))
	if err != nil {
		return mapview.CameraState{}, false, fmt.Errorf("decode location camera: %w", err)
	}
	return state, true, nil
}
