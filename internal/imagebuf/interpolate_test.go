package imagebuf

import "testing"

func TestInterpolate_ExactIntegerReturnsPixel(t *testing.T) {
	img, _ := New(4, 4)
	img.Set(2, 2, 100)
	if got := img.Interpolate(2, 2); got != 100 {
		t.Errorf("Interpolate(2,2) = %v, want 100", got)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	img, _ := New(2, 1)
	img.Set(0, 0, 0)
	img.Set(1, 0, 100)
	got := img.Interpolate(0.5, 0)
	if got != 50 {
		t.Errorf("Interpolate(0.5,0) = %v, want 50", got)
	}
}

func TestInterpolate_ClampsOutOfBounds(t *testing.T) {
	img, _ := New(3, 3)
	img.Set(0, 0, 10)
	img.Set(2, 2, 250)
	if got := img.Interpolate(-5, -5); got != 10 {
		t.Errorf("Interpolate(-5,-5) = %v, want 10", got)
	}
	if got := img.Interpolate(100, 100); got != 250 {
		t.Errorf("Interpolate(100,100) = %v, want 250", got)
	}
}
