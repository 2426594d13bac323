package main

import (
	"errors"
	"path/filepath"
	"testing"

	"filmscout/logging"
)

func TestBoardLockIsExclusive(t *testing.T) {
	db := filepath.Join(t.TempDir(), "filmscout.db")

	first, err := acquireBoardLock(db)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := acquireBoardLock(db); !errors.Is(err, ErrBoardOpen) {
		t.Fatalf("second lock err = %v, want ErrBoardOpen", err)
	}

	first.Release(logging.Discard())
	again, err := acquireBoardLock(db)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	again.Release(logging.Discard())
}
