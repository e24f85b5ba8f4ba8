package anchor

import (
	"errors"
	"testing"

	"github.com/1broseidon/scratchpad/internal/platform"
)

func TestResolve_CenterCenter(t *testing.T) {
	a, err := New(Center, Center, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	screen := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	got := a.Resolve(screen, 0.8, 0.8)

	want := platform.Rect{X: 100, Y: 80, Width: 800, Height: 640}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestResolve_LeftTopWithOffset(t *testing.T) {
	a, err := New(Left, Top, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	screen := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	got := a.Resolve(screen, 0.5, 0.5)

	want := platform.Rect{X: 10, Y: 5, Width: 500, Height: 400}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestResolve_RightBottomOnOffsetScreen(t *testing.T) {
	a, err := New(Right, Bottom, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Secondary monitor to the right of a 1920-wide primary.
	screen := platform.Rect{X: 1920, Y: 200, Width: 1000, Height: 600}
	got := a.Resolve(screen, 0.25, 0.5)

	want := platform.Rect{X: 1920 + 750, Y: 200 + 300, Width: 250, Height: 300}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestResolve_ContainedWithinScreenBeforeOffset(t *testing.T) {
	horizontals := []Position{Left, Right, Center}
	verticals := []Position{Top, Bottom, Center}
	fractions := []float64{0, 0.1, 0.33, 0.5, 0.99, 1}

	screen := platform.Rect{X: 17, Y: 31, Width: 1279, Height: 1023}

	for _, h := range horizontals {
		for _, v := range verticals {
			a, err := New(h, v, 0, 0)
			if err != nil {
				t.Fatalf("New(%s, %s): unexpected error: %v", h, v, err)
			}
			for _, wf := range fractions {
				for _, hf := range fractions {
					r := a.Resolve(screen, wf, hf)
					if r.X < screen.X || r.Y < screen.Y ||
						r.X+r.Width > screen.X+screen.Width ||
						r.Y+r.Height > screen.Y+screen.Height {
						t.Fatalf("anchor (%s,%s) frac (%v,%v): region %+v escapes screen %+v",
							h, v, wf, hf, r, screen)
					}
				}
			}
		}
	}
}

func TestNew_RejectsSwappedAxes(t *testing.T) {
	cases := []struct {
		name       string
		horizontal Position
		vertical   Position
	}{
		{"top as horizontal", Top, Center},
		{"bottom as horizontal", Bottom, Top},
		{"left as vertical", Center, Left},
		{"right as vertical", Left, Right},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.horizontal, tc.vertical, 0, 0)
			if err == nil {
				t.Fatalf("expected error for (%s, %s)", tc.horizontal, tc.vertical)
			}
			if !errors.Is(err, ErrInvalidAnchor) {
				t.Fatalf("expected ErrInvalidAnchor, got %v", err)
			}
		})
	}
}

func TestDefault_IsCentered(t *testing.T) {
	a := Default()
	if a.Horizontal != Center || a.Vertical != Center || a.OffsetX != 0 || a.OffsetY != 0 {
		t.Fatalf("unexpected default anchor: %+v", a)
	}
}
