package ui

import (
	"reflect"
	"testing"
	"time"
)

func TestToastsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	toasts := NewToasts(func() time.Time { return now })

	toasts.Error("Failed to save view")
	now = now.Add(time.Second)
	toasts.Info("Saved")

	if got := toasts.Active(); !reflect.DeepEqual(got, []string{"Failed to save view", "Saved"}) {
		t.Fatalf("Active = %v", got)
	}

	now = now.Add(2 * time.Second)
	if got := toasts.Active(); !reflect.DeepEqual(got, []string{"Saved"}) {
		t.Errorf("after 3s Active = %v", got)
	}

	now = now.Add(time.Second)
	if got := toasts.Active(); len(got) != 0 {
		t.Errorf("expected all expired, got %v", got)
	}
}

func TestToastsKeepNewest(t *testing.T) {
	toasts := NewToasts(nil)
	for _, m := range []string{"a", "b", "c", "d", "e", "f"} {
		toasts.Info(m)
	}
	if got := toasts.Active(); !reflect.DeepEqual(got, []string{"c", "d", "e", "f"}) {
		t.Errorf("Active = %v", got)
	}
}

func TestButtonHitTest(t *testing.T) {
	b := &Button{X: 10, Y: 10, W: 30, H: 20}
	if !b.IsMouseOver(20, 15) {
		t.Error("expected hit inside button")
	}
	if b.IsMouseOver(50, 15) {
		t.Error("expected miss outside button")
	}
	b.Hidden = true
	if b.IsMouseOver(20, 15) {
		t.Error("hidden buttons are not hit")
	}
}
