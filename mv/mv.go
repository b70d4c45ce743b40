/*
DESCRIPTION
  mv.go provides the motion vector quad-tree used by the motion estimator
  and consumed by the depth estimator. An MV is a leaf (a displacement, a
  reference-plane tag and an error score) or a split node owning four
  sub-vectors, one per quadrant of the block the parent covers.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mv provides the quad-tree motion vector type shared by the
// motion and depth estimators.
package mv

import "math"

// ShiftDir selects which of the four half-pixel-shifted versions of the
// previous luma plane a vector references.
type ShiftDir uint8

const (
	NONE ShiftDir = iota
	UP
	LEFT
	UPLEFT
)

// Inf is the sentinel error meaning "no valid candidate has been scored
// yet".
const Inf = math.MaxInt32

// Sub-vector indices, raster order within a quadrant split.
// Bit 0 selects the horizontal half, bit 1 the vertical half.
const (
	TL = 0
	TR = 1
	BL = 2
	BR = 3
)

// MV is a motion vector, possibly split into a quad-tree of sub-vectors.
// The zero value is a leaf with Error == 0, which is not a valid unscored
// state; callers constructing a fresh MV should set Error to Inf.
type MV struct {
	X, Y     int
	ShiftDir ShiftDir
	Error    int

	split bool
	subs  [4]*MV
}

// New returns an unscored leaf MV.
func New() MV {
	return MV{Error: Inf}
}

// Split marks m as split and allocates four sub-vectors, each an unscored
// leaf at displacement (0, 0). Any previously held sub-vectors are
// discarded.
func (m *MV) Split() {
	m.split = true
	for h := range m.subs {
		sub := New()
		m.subs[h] = &sub
	}
}

// Unsplit drops m's sub-vectors. m retains its own X, Y, ShiftDir and
// Error.
func (m *MV) Unsplit() {
	m.split = false
	m.subs = [4]*MV{}
}

// IsSplit reports whether m owns sub-vectors.
func (m *MV) IsSplit() bool { return m.split }

// Sub returns a pointer to the h-th sub-vector (TL, TR, BL or BR). It
// panics if m is not split; callers must check IsSplit first.
func (m *MV) Sub(h int) *MV {
	if !m.split {
		panic("mv: Sub called on an unsplit vector")
	}
	return m.subs[h]
}

// Leaf descends h levels of a quad-tree via the quadrant indices in path,
// stopping at the first unsplit node. It is used by the depth estimator to
// find the finest-grain vector covering a pixel.
func (m *MV) Leaf(path ...int) *MV {
	cur := m
	for _, h := range path {
		if !cur.split {
			return cur
		}
		cur = cur.subs[h]
	}
	return cur
}

// Clone returns a deep copy of m, duplicating any sub-vectors
// transitively. The MV field is written by value each frame, so every
// assignment out of a working MV into the field must go through Clone (or
// a plain struct copy when m is known to be an unsplit leaf).
func (m MV) Clone() MV {
	out := m
	out.subs = [4]*MV{}
	if m.split {
		for h, s := range m.subs {
			if s == nil {
				continue
			}
			c := s.Clone()
			out.subs[h] = &c
		}
	}
	return out
}
