package common

import (
	"encoding/base64"
	"testing"
)

func TestMakeRandURLString_LengthAndAlphabet(t *testing.T) {
	const n = 32
	s, err := MakeRandURLString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != base64.RawURLEncoding.EncodedLen(n) {
		t.Fatalf("expected length %d, got %d", base64.RawURLEncoding.EncodedLen(n), len(s))
	}
	if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
		t.Fatalf("string is not valid url-safe base64: %v", err)
	}
}

func TestMakeRandURLString_ZeroSize(t *testing.T) {
	s, err := MakeRandURLString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestMakeRandURLString_EntropyHint(t *testing.T) {
	const n = 32
	a, err := MakeRandURLString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandURLString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a == b {
		t.Logf("warning: two MakeRandURLString(%d) results are identical; extremely unlikely", n)
	}
}
