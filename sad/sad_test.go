package sad

import "testing"

func TestNxN(t *testing.T) {
	stride := 4
	a := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	b := make([]byte, len(a))
	copy(b, a)

	if got := NxN(4, a, b, stride); got != 0 {
		t.Errorf("identical tiles: got SAD %d, want 0", got)
	}

	b[0] = 0 // was 1
	if got := NxN(4, a, b, stride); got != 1 {
		t.Errorf("single pixel diff: got SAD %d, want 1", got)
	}
}

func TestSafeOutOfRange(t *testing.T) {
	rng := Range{FirstRowOffset: 100, ImgSize: 1000}
	cur := make([]byte, 64)
	cand := make([]byte, 64)

	if got := Safe8x8(cur, cand, 8, 50, rng); got != Inf {
		t.Errorf("offset before range: got %d, want Inf", got)
	}
	if got := Safe8x8(cur, cand, 8, 2000, rng); got != Inf {
		t.Errorf("offset after range: got %d, want Inf", got)
	}
	if got := Safe8x8(cur, cand, 8, 500, rng); got != 0 {
		t.Errorf("in-range identical tiles: got %d, want 0", got)
	}
}

func TestSAD16x16MatchesNxN(t *testing.T) {
	stride := 16
	a := make([]byte, stride*16)
	b := make([]byte, stride*16)
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(i * 2)
	}
	if SAD16x16(a, b, stride) != NxN(16, a, b, stride) {
		t.Error("SAD16x16 diverges from NxN(16, ...)")
	}
}
