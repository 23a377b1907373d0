package bitperm

import (
	"bytes"
	"testing"
)

func TestPermuteIdentity(t *testing.T) {
	table := []int{1, 2, 3, 4, 5, 6, 7, 8}
	data := []byte{0xA5}
	got := Permute(data, table)
	if !bytes.Equal(got, data) {
		t.Fatalf("identity permutation: got %x, want %x", got, data)
	}
}

func TestPermuteReverse(t *testing.T) {
	table := []int{8, 7, 6, 5, 4, 3, 2, 1}
	data := []byte{0b10110000}
	want := []byte{0b00001101}
	got := Permute(data, table)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got[0], want[0])
	}
}

func TestPermuteExpansion(t *testing.T) {
	// Selects bit 1 three times over from a single input byte.
	table := []int{1, 1, 1}
	data := []byte{0x80} // top bit set
	want := []byte{0b11100000}
	got := Permute(data, table)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got[0], want[0])
	}
}

func TestPermuteOutOfRangePositionYieldsZeroBit(t *testing.T) {
	table := []int{1, 9}
	data := []byte{0x80}
	want := []byte{0b10000000}
	got := Permute(data, table)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got[0], want[0])
	}
}
