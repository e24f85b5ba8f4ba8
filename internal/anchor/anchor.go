package anchor

import (
	"errors"
	"fmt"

	"github.com/1broseidon/scratchpad/internal/platform"
)

// ErrInvalidAnchor is returned when an anchor mixes up its axes.
var ErrInvalidAnchor = errors.New("invalid anchor")

// Position names a point along one screen axis.
type Position string

const (
	Top    Position = "top"
	Bottom Position = "bottom"
	Left   Position = "left"
	Right  Position = "right"
	Center Position = "center"
)

// Anchor places a scratchpad window relative to a screen edge or center,
// shifted by a pixel offset. Horizontal must be Left, Right or Center;
// vertical must be Top, Bottom or Center.
type Anchor struct {
	Horizontal Position
	Vertical   Position
	OffsetX    int
	OffsetY    int
}

// New validates the axis combination and returns the anchor. Top/Bottom on
// the horizontal axis or Left/Right on the vertical axis are configuration
// mistakes and fail immediately rather than producing a usable value.
func New(horizontal, vertical Position, offsetX, offsetY int) (Anchor, error) {
	switch horizontal {
	case Left, Right, Center:
	default:
		return Anchor{}, fmt.Errorf("%w: horizontal position %q", ErrInvalidAnchor, horizontal)
	}

	switch vertical {
	case Top, Bottom, Center:
	default:
		return Anchor{}, fmt.Errorf("%w: vertical position %q", ErrInvalidAnchor, vertical)
	}

	return Anchor{
		Horizontal: horizontal,
		Vertical:   vertical,
		OffsetX:    offsetX,
		OffsetY:    offsetY,
	}, nil
}

// Default returns a centered anchor with no offset.
func Default() Anchor {
	a, _ := New(Center, Center, 0, 0)
	return a
}

// Resolve computes the absolute region for a window taking up wFrac x hFrac
// of the screen, placed at the anchor point. For fractions in [0,1] the
// region before the offset is fully contained in the screen; the offset is
// applied unchecked, so unreasonable offsets can push the window off-screen.
func (a Anchor) Resolve(screen platform.Rect, wFrac, hFrac float64) platform.Rect {
	w := int(float64(screen.Width) * wFrac)
	h := int(float64(screen.Height) * hFrac)

	var x int
	switch a.Horizontal {
	case Left:
		x = screen.X
	case Right:
		x = screen.X + screen.Width - w
	default: // Center
		x = screen.X + (screen.Width-w)/2
	}

	var y int
	switch a.Vertical {
	case Top:
		y = screen.Y
	case Bottom:
		y = screen.Y + screen.Height - h
	default: // Center
		y = screen.Y + (screen.Height-h)/2
	}

	return platform.Rect{
		X:      x + a.OffsetX,
		Y:      y + a.OffsetY,
		Width:  w,
		Height: h,
	}
}
