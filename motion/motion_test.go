package motion

import (
	"math/rand"
	"testing"

	"github.com/ausocean/depth/frame"
	"github.com/ausocean/depth/mv"
)

// fillConstant sets every visible pixel (including the border, so match
// windows straddling the edge see the same value) of l to v.
func fillConstant(l *frame.Luma, v byte) {
	for i := range l.Pix {
		l.Pix[i] = v
	}
}

// barValue returns the coarse vertical-bar pattern value at column x
// (period 16, two 8-pixel-wide bars), for any integer x including
// negative columns in the border.
func barValue(x int) byte {
	// Floor division so the pattern is well-defined for negative x.
	q := x / 8
	if x < 0 && x%8 != 0 {
		q--
	}
	if ((q % 2) + 2) % 2 == 0 {
		return 40
	}
	return 220
}

// fillVerticalStripes writes the bar pattern into every row of l
// (including the border), so match windows straddling the edge see the
// same pattern.
func fillVerticalStripes(l *frame.Luma) {
	for y := 0; y < l.Height+2*frame.Border; y++ {
		for x := 0; x < l.Stride; x++ {
			l.Pix[y*l.Stride+x] = barValue(x - frame.Border)
		}
	}
}

// fillVerticalStripesShifted is fillVerticalStripes with the pattern
// shifted right by phase columns, i.e. value(x) = barValue(x - phase).
func fillVerticalStripesShifted(l *frame.Luma, phase int) {
	for y := 0; y < l.Height+2*frame.Border; y++ {
		for x := 0; x < l.Stride; x++ {
			l.Pix[y*l.Stride+x] = barValue(x - frame.Border - phase)
		}
	}
}

// fillHorizontalStripesShifted writes the bar pattern transposed (bars
// run horizontally, so the value varies with row only), shifted down by
// phase rows.
func fillHorizontalStripesShifted(l *frame.Luma, phase int) {
	for y := 0; y < l.Height+2*frame.Border; y++ {
		v := barValue(y - frame.Border - phase)
		for x := 0; x < l.Stride; x++ {
			l.Pix[y*l.Stride+x] = v
		}
	}
}

func allMVs(hor, ver int) []mv.MV { return make([]mv.MV, hor*ver) }

func TestStaticFrameAcceptsAtZMP(t *testing.T) {
	const w, h = 64, 48
	cur := frame.NewLuma(w, h)
	prev := frame.NewLuma(w, h)
	fillConstant(cur, 128)
	fillConstant(prev, 128)

	e := NewEstimator(w, h, 100, false)
	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)

	if err := e.Estimate(cur, prev, nil, nil, nil, out); err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	for i, m := range out {
		if !m.IsSplit() {
			t.Fatalf("block %d: top level should always be split", i)
		}
		for h := 0; h < 4; h++ {
			s := m.Sub(h)
			if s.X != 0 || s.Y != 0 || s.ShiftDir != mv.NONE || s.Error != 0 {
				t.Errorf("block %d sub %d: got (x=%d y=%d dir=%d err=%d), want (0,0,NONE,0)",
					i, h, s.X, s.Y, s.ShiftDir, s.Error)
			}
		}
	}
}

func TestThresholdGatingAcceptsAtZMPOnly(t *testing.T) {
	const w, h = 32, 32
	cur := frame.NewLuma(w, h)
	prev := frame.NewLuma(w, h)
	fillVerticalStripes(cur)
	fillVerticalStripes(prev)

	e := NewEstimator(w, h, 100, false)
	if e.zmpThreshold != 64 {
		t.Fatalf("zmpThreshold = %d, want 64 for quality=100, use_half_pixel=false", e.zmpThreshold)
	}

	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)
	if err := e.Estimate(cur, prev, nil, nil, nil, out); err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	for i, m := range out {
		for h := 0; h < 4; h++ {
			s := m.Sub(h)
			if s.Error != 0 {
				t.Errorf("block %d sub %d: error %d, want 0 (ZMP should win on identical frames)", i, h, s.Error)
			}
		}
	}
}

// TestEstimateHorizontalTranslation drives the production ARPS path over
// a uniformly translated frame: the rood and unit-step phases must walk
// every sub-block to the true displacement.
func TestEstimateHorizontalTranslation(t *testing.T) {
	const w, h = 64, 48
	prev := frame.NewLuma(w, h)
	fillVerticalStripes(prev)

	// cur(x) = prev(x - 5): the pattern in cur is prev's shifted right by
	// 5 columns, which resolves to a motion vector of x = -5.
	cur := frame.NewLuma(w, h)
	fillVerticalStripesShifted(cur, 5)

	e := NewEstimator(w, h, 100, false)
	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)
	if err := e.Estimate(cur, prev, nil, nil, nil, out); err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	for i, m := range out {
		if !m.IsSplit() {
			t.Fatalf("block %d: top level should always be split", i)
		}
		for sub := 0; sub < 4; sub++ {
			// The frame's very first sub-block cannot reach a leftward
			// displacement: a candidate starting left of the visible
			// origin falls below the reference plane's valid range.
			if i == 0 && sub == mv.TL {
				continue
			}
			s := m.Sub(sub)
			if s.X != -5 || s.Y != 0 || s.Error != 0 {
				t.Errorf("block %d sub %d: got (x=%d y=%d err=%d), want (-5, 0, 0)",
					i, sub, s.X, s.Y, s.Error)
			}
		}
	}
}

// TestEstimateVerticalTranslation is the vertical counterpart: bars run
// horizontally and cur holds prev's content from 3 rows further down,
// resolving to a motion vector of y = 3 on every sub-block.
func TestEstimateVerticalTranslation(t *testing.T) {
	const w, h = 64, 48
	prev := frame.NewLuma(w, h)
	fillHorizontalStripesShifted(prev, 0)

	cur := frame.NewLuma(w, h)
	fillHorizontalStripesShifted(cur, -3)

	e := NewEstimator(w, h, 100, false)
	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)
	if err := e.Estimate(cur, prev, nil, nil, nil, out); err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	for i, m := range out {
		if !m.IsSplit() {
			t.Fatalf("block %d: top level should always be split", i)
		}
		for sub := 0; sub < 4; sub++ {
			s := m.Sub(sub)
			if s.X != 0 || s.Y != 3 || s.Error != 0 {
				t.Errorf("block %d sub %d: got (x=%d y=%d err=%d), want (0, 3, 0)",
					i, sub, s.X, s.Y, s.Error)
			}
		}
	}
}

func TestFullSearchHorizontalTranslation(t *testing.T) {
	const w, h = 64, 48
	prev := frame.NewLuma(w, h)
	fillVerticalStripes(prev)

	// cur(x) = prev(x - 5): the pattern in cur is prev's shifted right by
	// 5 columns, which the estimator's (x, y) convention (candidate block
	// at prev + x) resolves to a motion vector of x = -5.
	cur := frame.NewLuma(w, h)
	fillVerticalStripesShifted(cur, 5)

	e := NewEstimator(w, h, 100, false)
	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)
	if err := e.FullSearch(cur, prev, nil, nil, nil, out); err != nil {
		t.Fatalf("FullSearch: %v", err)
	}

	for i, m := range out {
		checkX := func(x int) {
			if x != -5 {
				t.Errorf("block %d: x = %d, want -5", i, x)
			}
		}
		if m.IsSplit() {
			for h := 0; h < 4; h++ {
				checkX(m.Sub(h).X)
			}
		} else {
			checkX(m.X)
		}
	}
}

// TestFullSearchSplitBlock checks the conditional split: a single 16x16
// block whose left half is stationary and right half has moved left by 4
// pixels matches no single displacement well, so FullSearch must split it
// and resolve the halves independently.
func TestFullSearchSplitBlock(t *testing.T) {
	const w, h = 16, 16

	// A seeded random texture, defined across the border too so candidate
	// windows extending past the visible image still see it. Random bytes
	// make the intended displacement the unique zero-error match.
	rng := rand.New(rand.NewSource(1))
	prev := frame.NewLuma(w, h)
	scene := make(map[[2]int]byte)
	for y := -frame.Border; y < h+frame.Border; y++ {
		for x := -frame.Border; x < w+frame.Border; x++ {
			v := byte(rng.Intn(256))
			scene[[2]int{x, y}] = v
			prev.Pix[(y+frame.Border)*prev.Stride+x+frame.Border] = v
		}
	}

	// Left half identical to prev; right half holds prev's content from 4
	// pixels further right, i.e. it has translated left by 4.
	cur := frame.NewLuma(w, h)
	for y := -frame.Border; y < h+frame.Border; y++ {
		for x := -frame.Border; x < w+frame.Border; x++ {
			v := scene[[2]int{x, y}]
			if x >= w/2 && x < w && y >= 0 && y < h {
				v = scene[[2]int{x + 4, y}]
			}
			cur.Pix[(y+frame.Border)*cur.Stride+x+frame.Border] = v
		}
	}

	e := NewEstimator(w, h, 100, false)
	out := allMVs(1, 1)
	if err := e.FullSearch(cur, prev, nil, nil, nil, out); err != nil {
		t.Fatalf("FullSearch: %v", err)
	}

	m := out[0]
	if !m.IsSplit() {
		t.Fatal("expected the block to split: no unified displacement matches both halves")
	}
	for _, tc := range []struct {
		sub   int
		wantX int
	}{
		{mv.TL, 0}, {mv.BL, 0},
		{mv.TR, 4}, {mv.BR, 4},
	} {
		s := m.Sub(tc.sub)
		if s.X != tc.wantX || s.Y != 0 {
			t.Errorf("sub %d: got (%d, %d), want (%d, 0)", tc.sub, s.X, s.Y, tc.wantX)
		}
	}
}

func TestEstimateRejectsWrongSizeOutput(t *testing.T) {
	e := NewEstimator(32, 32, 50, false)
	err := e.Estimate(frame.NewLuma(32, 32), frame.NewLuma(32, 32), nil, nil, nil, make([]mv.MV, 1))
	if err == nil {
		t.Fatal("expected an error for a mis-sized output slice")
	}
}

func TestNewEstimatorPanicsOnBadInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for non-positive dimensions")
		}
	}()
	NewEstimator(0, 10, 50, false)
}

// checkAllSubs asserts every sub-vector of every block in out has the given
// ShiftDir and Error.
func checkAllSubs(t *testing.T, out []mv.MV, wantDir mv.ShiftDir, wantErr int) {
	t.Helper()
	for i, m := range out {
		if !m.IsSplit() {
			t.Fatalf("block %d: top level should always be split", i)
		}
		for h := 0; h < 4; h++ {
			s := m.Sub(h)
			if s.ShiftDir != wantDir || s.Error != wantErr {
				t.Errorf("block %d sub %d: got (dir=%d err=%d), want (dir=%d err=%d)",
					i, h, s.ShiftDir, s.Error, wantDir, wantErr)
			}
		}
	}
}

// TestHalfPixelRefineSelectsLeftShift builds a scene where cur matches none
// of prev's integer-pel displacements but matches the LEFT half-pixel plane
// exactly, driving estimateAtLevel into Phase 4 (halfPixelRefine) and
// asserting it selects the LEFT shift with zero residual error.
func TestHalfPixelRefineSelectsLeftShift(t *testing.T) {
	const w, h = 32, 32
	cur := frame.NewLuma(w, h)
	prev := frame.NewLuma(w, h)
	prevUp := frame.NewLuma(w, h)
	prevLeft := frame.NewLuma(w, h)
	prevUpLeft := frame.NewLuma(w, h)

	fillConstant(cur, 150)
	fillConstant(prev, 100)     // Mismatches cur at every integer displacement.
	fillConstant(prevUp, 200)   // Mismatches cur.
	fillConstant(prevLeft, 150) // Matches cur exactly.
	fillConstant(prevUpLeft, 90)

	e := NewEstimator(w, h, 100, true)
	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)
	if err := e.Estimate(cur, prev, prevUp, prevLeft, prevUpLeft, out); err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	checkAllSubs(t, out, mv.LEFT, 0)
}

// TestHalfPixelRefineSelectsUpShift is TestHalfPixelRefineSelectsLeftShift
// with the matching plane swapped to UP, exercising the other half of
// halfPixelRefine's branch on best.ShiftDir.
func TestHalfPixelRefineSelectsUpShift(t *testing.T) {
	const w, h = 32, 32
	cur := frame.NewLuma(w, h)
	prev := frame.NewLuma(w, h)
	prevUp := frame.NewLuma(w, h)
	prevLeft := frame.NewLuma(w, h)
	prevUpLeft := frame.NewLuma(w, h)

	fillConstant(cur, 150)
	fillConstant(prev, 100)      // Mismatches cur at every integer displacement.
	fillConstant(prevUp, 150)    // Matches cur exactly.
	fillConstant(prevLeft, 200)  // Mismatches cur.
	fillConstant(prevUpLeft, 50)

	e := NewEstimator(w, h, 100, true)
	hor, ver := e.NumBlocks()
	out := allMVs(hor, ver)
	if err := e.Estimate(cur, prev, prevUp, prevLeft, prevUpLeft, out); err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	checkAllSubs(t, out, mv.UP, 0)
}
