package frame

import "testing"

func TestNewLumaLayout(t *testing.T) {
	l := NewLuma(64, 48)

	if l.Stride != 64+2*Border {
		t.Errorf("Stride = %d, want %d", l.Stride, 64+2*Border)
	}
	if l.FirstRowOffset != l.Stride*Border+Border {
		t.Errorf("FirstRowOffset = %d, want %d", l.FirstRowOffset, l.Stride*Border+Border)
	}
	if l.ImgSize != l.Stride*48 {
		t.Errorf("ImgSize = %d, want %d", l.ImgSize, l.Stride*48)
	}
	if len(l.Pix) != l.Stride*(48+2*Border) {
		t.Errorf("len(Pix) = %d, want %d", len(l.Pix), l.Stride*(48+2*Border))
	}
}

func TestLumaAtAndRow(t *testing.T) {
	l := NewLuma(8, 8)
	l.Pix[l.At(3, 2)] = 42

	row := l.Row(2)
	if row[3] != 42 {
		t.Errorf("Row(2)[3] = %d, want 42", row[3])
	}
	if len(row) != l.Width {
		t.Errorf("len(Row(2)) = %d, want %d", len(row), l.Width)
	}
}

func TestChroma(t *testing.T) {
	c := NewChroma(4, 4)
	c.Pix[1*4+2] = -17
	if got := c.At(2, 1); got != -17 {
		t.Errorf("At(2, 1) = %d, want -17", got)
	}
}
