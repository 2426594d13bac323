package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
)

// ErrBoardOpen is returned when another board holds the database lock.
var ErrBoardOpen = errors.New("another board is already open on this database")

// boardLock keeps a second board from writing the same camera rows.
type boardLock struct {
	path string
	lock *flock.Flock
}

// acquireBoardLock takes the lock file next to the database.
func acquireBoardLock(dbPath string) (*boardLock, error) {
	path := dbPath + ".lock"
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrBoardOpen, path)
	}
	return &boardLock{path: path, lock: lock}, nil
}

func (b *boardLock) Release(logger *slog.Logger) {
	if err := b.lock.Unlock(); err != nil {
		logger.Warn("failed to release board lock", slog.String("lock", b.path), slog.String("error", err.Error()))
	}
}
