package services_test

import (
	"errors"
	"testing"

	"beatstore/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrDispatch, "notify", "send mail", "smtp rejected message", base)
	if !errors.Is(err, services.ErrDispatch) {
		t.Fatalf("expected dispatch marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "dispatch error: notify: send mail: smtp rejected message: boom"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsNoOp(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", services.Wrap(services.ErrNotFound, "resolve", "load product", "unknown id", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "resolve", "check event", "buyer email missing", nil), true},
		{"dispatch", services.Wrap(services.ErrDispatch, "notify", "send", "", nil), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsNoOp(tc.err); got != tc.want {
				t.Fatalf("IsNoOp(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
