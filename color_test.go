package texres

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	c := RGB(0.5, 0.25, 1)
	if c.A != 1 {
		t.Errorf("RGB() alpha = %g, want 1", c.A)
	}
	if c.R != 0.5 || c.G != 0.25 || c.B != 1 {
		t.Errorf("RGB() = %+v", c)
	}
}

func TestRGBAColor(t *testing.T) {
	got := White.Color()
	want := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got != want {
		t.Errorf("White.Color() = %+v, want %+v", got, want)
	}

	// Components outside [0, 1] clamp instead of wrapping.
	hot := RGBA{R: 2, G: -1, B: 0, A: 1}.Color()
	if hot != (color.NRGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Errorf("clamped Color() = %+v", hot)
	}
}

func TestFromColor(t *testing.T) {
	c := FromColor(color.NRGBA{R: 255, A: 255})
	if c.R != 1 || c.A != 1 {
		t.Errorf("FromColor() = %+v, want opaque red", c)
	}
	if c.G != 0 || c.B != 0 {
		t.Errorf("FromColor() = %+v, spurious channels", c)
	}
}
