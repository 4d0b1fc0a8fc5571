package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"adflow/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	underlying := errors.New("no such row")
	err := services.Wrap(services.ErrNotFound, "task", "update", "task missing", underlying)

	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected wrapped cause preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "task: update: task missing") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "script", "approve", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient fallback, got %v", err)
	}
}

func TestKindClassification(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{services.Wrap(services.ErrValidation, "task", "update", "bad status", nil), services.ErrValidation},
		{services.Wrap(services.ErrConflict, "script", "approve", "tasks exist", nil), services.ErrConflict},
		{fmt.Errorf("wrapped: %w", services.ErrNotFound), services.ErrNotFound},
		{errors.New("database broke"), services.ErrTransient},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
