package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same input")
	}
	if !h.Verify("secret", first) || !h.Verify("secret", second) {
		t.Fatal("expected both hashes to verify")
	}
	if h.Verify("Secret", first) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestBcryptHasherMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	for _, stored := range []string{"", "plain-text", "$2a$04$short"} {
		if h.Verify("secret", stored) {
			t.Fatalf("Verify(%q) = true, want false", stored)
		}
	}
}

func TestBcryptHasherPasswordTooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72 bytes should be accepted: %v", err)
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}
}
