package family

import (
	"errors"
	"testing"
)

func TestRotate90_FourStepsIsIdentity(t *testing.T) {
	const nbits = 16
	code := uint64(0xBEEF)
	c := code
	for i := 0; i < 4; i++ {
		c = rotate90(c, nbits)
	}
	if c != code {
		t.Fatalf("four rotations should return to the original code: got %x want %x", c, code)
	}
}

func TestRotate90_OddRemainderFixedCenter(t *testing.T) {
	const nbits = 17 // 17 % 4 == 1
	code := uint64(1) << 0 // center bit set (index nbits-1-16 = 0), nothing else
	c := rotate90(code, nbits)
	if c != code {
		t.Fatalf("center bit should be invariant under rotation, got %x want %x", c, code)
	}
}

func TestNewSquareFamily_ExactMatchZeroHamming(t *testing.T) {
	codes := []uint64{0x1234, 0x5678, 0x9ABC}
	f, err := NewSquareFamily("test36h11-like", 16, codes, 6, 8, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := f.Lookup(codes[1])
	if !ok {
		t.Fatal("expected exact match")
	}
	if m.CodeIndex != 1 || m.Hamming != 0 || m.Rotation != 0 {
		t.Fatalf("expected {idx:1 rot:0 ham:0}, got %+v", m)
	}
}

func TestNewSquareFamily_MatchesUnderRotation(t *testing.T) {
	codes := []uint64{0x1234, 0x5678}
	f, err := NewSquareFamily("rot-test", 16, codes, 6, 8, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	rotated := rotate90(rotate90(codes[0], 16), 16) // two 90-degree steps
	m, ok := f.Lookup(rotated)
	if !ok {
		t.Fatal("expected a match for a rotated codeword")
	}
	if m.CodeIndex != 0 || m.Hamming != 0 || m.Rotation != 2 {
		t.Fatalf("expected {idx:0 rot:2 ham:0}, got %+v", m)
	}
}

func TestNewSquareFamily_RejectsBeyondMaxHamming(t *testing.T) {
	codes := []uint64{0x0000}
	f, err := NewSquareFamily("hamming-test", 16, codes, 6, 8, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Flip 3 bits: beyond max_hamming=1.
	noisy := uint64(0b111)
	_, ok := f.Lookup(noisy)
	if ok {
		t.Fatal("expected lookup to fail beyond max_hamming")
	}
}

func TestRegistry_GetMissingReturnsNotFoundError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("tag36h11")
	if err == nil {
		t.Fatal("expected an error for an unregistered family")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound), got %T: %v", err, err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	f, err := NewSquareFamily("tagtest", 16, []uint64{1, 2}, 6, 8, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	r.Register(f)
	got, err := r.Get("tagtest")
	if err != nil {
		t.Fatal(err)
	}
	if got != f {
		t.Fatal("expected the same family instance back")
	}
}
