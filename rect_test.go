package texres

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRectFFromImage(t *testing.T) {
	got := rectFFromImage(image.Rect(2, 3, 10, 8))
	want := RectF(2, 3, 8, 5)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rectFFromImage mismatch (-want +got):\n%s", diff)
	}
}

func TestRectangleFEdges(t *testing.T) {
	r := RectF(1, 2, 3, 4)
	if got := r.Right(); got != 4 {
		t.Errorf("Right() = %g, want 4", got)
	}
	if got := r.Bottom(); got != 6 {
		t.Errorf("Bottom() = %g, want 6", got)
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty rect")
	}
	if !RectF(0, 0, 0, 5).IsEmpty() {
		t.Error("IsEmpty() = false for zero-width rect")
	}
}

func TestRectangleFOffset(t *testing.T) {
	got := RectF(1, 1, 2, 2).Offset(3, -1)
	want := RectF(4, 0, 2, 2)
	if got != want {
		t.Errorf("Offset = %v, want %v", got, want)
	}
}

func TestRectangleFInflate(t *testing.T) {
	tests := []struct {
		name   string
		r      RectangleF
		px, py float64
		want   RectangleF
	}{
		{"ten percent horizontal", RectF(0, 0, 1, 1), 0.1, 0, RectF(-0.1, 0, 1.2, 1)},
		{"both axes", RectF(0, 0, 10, 10), 0.5, 0.5, RectF(-5, -5, 20, 20)},
		{"negative shrinks", RectF(0, 0, 10, 10), -0.25, 0, RectF(2.5, 0, 5, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Inflate(tt.px, tt.py); got != tt.want {
				t.Errorf("Inflate(%g, %g) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestRectangleFNormalizedWithin(t *testing.T) {
	got := RectF(16, 32, 32, 64).normalizedWithin(64, 128)
	want := RectF(0.25, 0.25, 0.5, 0.5)
	if got != want {
		t.Errorf("normalizedWithin = %v, want %v", got, want)
	}

	if got := RectF(1, 1, 1, 1).normalizedWithin(0, 0); got != (RectangleF{}) {
		t.Errorf("normalizedWithin on zero allocation = %v, want zero rect", got)
	}
}
